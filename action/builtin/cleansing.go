package builtin

import (
	"strings"

	"github.com/kbukum/dataprep/action"
	"github.com/kbukum/dataprep/dataset"
)

const (
	FillEmptyName   = "fillemptywithdefault"
	DeleteEmptyName = "delete_empty"

	DefaultValueParam = "default_value"
)

// FillEmpty replaces empty cells of the target column with default_value.
type FillEmpty struct{}

var _ action.Action = (*FillEmpty)(nil)

func (FillEmpty) Name() string                             { return FillEmptyName }
func (FillEmpty) Category() string                         { return action.CategoryData }
func (FillEmpty) AcceptColumn(dataset.ColumnMetadata) bool { return true }

func (FillEmpty) Parameters() []action.Parameter {
	return action.WithImplicit(action.Parameter{Name: DefaultValueParam, Type: action.ParamString})
}

func (FillEmpty) Apply(row *dataset.Row, ac *action.Context) *dataset.Row {
	id := ac.ColumnID()
	if strings.TrimSpace(row.Get(id)) == "" {
		row.Set(id, ac.Parameter(DefaultValueParam))
	}
	return row
}

// DeleteEmpty marks rows whose target cell is blank as deleted.
type DeleteEmpty struct{}

var _ action.Action = (*DeleteEmpty)(nil)

func (DeleteEmpty) Name() string                             { return DeleteEmptyName }
func (DeleteEmpty) Category() string                         { return action.CategoryData }
func (DeleteEmpty) AcceptColumn(dataset.ColumnMetadata) bool { return true }
func (DeleteEmpty) Parameters() []action.Parameter           { return action.ImplicitParameters() }

func (DeleteEmpty) Apply(row *dataset.Row, ac *action.Context) *dataset.Row {
	if strings.TrimSpace(row.Get(ac.ColumnID())) == "" {
		row.SetDeleted(true)
	}
	return row
}
