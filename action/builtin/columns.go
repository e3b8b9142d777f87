package builtin

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/dataprep/action"
	"github.com/kbukum/dataprep/dataset"
)

const (
	RenameName        = "rename_column"
	CopyName          = "copy"
	ComputeLengthName = "compute_length"

	NewColumnNameParam = "new_column_name"
)

// Rename changes the display name of the target column. Rows are untouched.
type Rename struct{}

var (
	_ action.Action   = (*Rename)(nil)
	_ action.Compiler = (*Rename)(nil)
)

func (Rename) Name() string                             { return RenameName }
func (Rename) Category() string                         { return action.CategoryColumns }
func (Rename) AcceptColumn(dataset.ColumnMetadata) bool { return true }

func (Rename) Parameters() []action.Parameter {
	return action.WithImplicit(action.Parameter{Name: NewColumnNameParam, Type: action.ParamString})
}

// Compile renames the column in the metadata; an empty new name cancels.
func (Rename) Compile(ac *action.Context) {
	name := strings.TrimSpace(ac.Parameter(NewColumnNameParam))
	if name == "" {
		ac.Cancel()
		return
	}
	md := ac.RowMetadata()
	if md == nil {
		return
	}
	if col, ok := md.Column(ac.ColumnID()); ok && col.Name != name {
		md.Rename(col.ID, name)
	}
}

func (Rename) Apply(row *dataset.Row, _ *action.Context) *dataset.Row { return row }

// Copy duplicates the target column into a new column inserted right after it.
type Copy struct{}

var (
	_ action.Action   = (*Copy)(nil)
	_ action.Compiler = (*Copy)(nil)
)

func (Copy) Name() string                             { return CopyName }
func (Copy) Category() string                         { return action.CategoryColumns }
func (Copy) AcceptColumn(dataset.ColumnMetadata) bool { return true }
func (Copy) Parameters() []action.Parameter           { return action.ImplicitParameters() }

func (Copy) Compile(ac *action.Context) { copyColumn(ac, "_copy", "") }

func (Copy) Apply(row *dataset.Row, ac *action.Context) *dataset.Row {
	id := copyColumn(ac, "_copy", "")
	if id != "" && row.Has(ac.ColumnID()) {
		row.Set(id, row.Get(ac.ColumnID()))
	}
	return row
}

// ComputeLength writes the rune count of the target cell into a new integer
// column inserted right after it.
type ComputeLength struct{}

var (
	_ action.Action   = (*ComputeLength)(nil)
	_ action.Compiler = (*ComputeLength)(nil)
)

func (ComputeLength) Name() string                                 { return ComputeLengthName }
func (ComputeLength) Category() string                             { return action.CategoryStrings }
func (ComputeLength) AcceptColumn(col dataset.ColumnMetadata) bool { return textColumn(col) }
func (ComputeLength) Parameters() []action.Parameter               { return action.ImplicitParameters() }

func (ComputeLength) Compile(ac *action.Context) { copyColumn(ac, "_length", dataset.TypeInteger) }

func (ComputeLength) Apply(row *dataset.Row, ac *action.Context) *dataset.Row {
	id := copyColumn(ac, "_length", dataset.TypeInteger)
	if id == "" {
		return row
	}
	row.Set(id, strconv.Itoa(utf8.RuneCountInString(row.Get(ac.ColumnID()))))
	return row
}

// copyColumn declares the column "<source name><suffix>" right after the
// target column. An empty typ keeps the source type.
func copyColumn(ac *action.Context, suffix string, typ dataset.Type) string {
	md := ac.RowMetadata()
	if md == nil {
		return ""
	}
	source, ok := md.Column(ac.ColumnID())
	if !ok {
		return ""
	}
	name := source.Name + suffix
	return ac.Column(name, func(md *dataset.RowMetadata) string {
		t := typ
		if t == "" {
			t = source.Type
		}
		return md.InsertAfter(source.ID, dataset.ColumnMetadata{Name: name, Type: t, Domain: source.Domain})
	})
}
