package builtin

import (
	"strings"

	"github.com/kbukum/dataprep/action"
	"github.com/kbukum/dataprep/dataset"
)

const (
	UpperCaseName = "uppercase"
	LowerCaseName = "lowercase"
	TrimName      = "trim"
)

// UpperCase converts the target cell to upper case.
type UpperCase struct{}

var _ action.Action = (*UpperCase)(nil)

func (UpperCase) Name() string                                 { return UpperCaseName }
func (UpperCase) Category() string                             { return action.CategoryStrings }
func (UpperCase) AcceptColumn(col dataset.ColumnMetadata) bool { return textColumn(col) }
func (UpperCase) Parameters() []action.Parameter               { return action.ImplicitParameters() }

func (UpperCase) Apply(row *dataset.Row, ac *action.Context) *dataset.Row {
	return mapCell(row, ac, strings.ToUpper)
}

// LowerCase converts the target cell to lower case.
type LowerCase struct{}

var _ action.Action = (*LowerCase)(nil)

func (LowerCase) Name() string                                 { return LowerCaseName }
func (LowerCase) Category() string                             { return action.CategoryStrings }
func (LowerCase) AcceptColumn(col dataset.ColumnMetadata) bool { return textColumn(col) }
func (LowerCase) Parameters() []action.Parameter               { return action.ImplicitParameters() }

func (LowerCase) Apply(row *dataset.Row, ac *action.Context) *dataset.Row {
	return mapCell(row, ac, strings.ToLower)
}

// Trim removes leading and trailing white space, or the characters of the
// optional "padding_character" parameter.
type Trim struct{}

var _ action.Action = (*Trim)(nil)

func (Trim) Name() string                                 { return TrimName }
func (Trim) Category() string                             { return action.CategoryStrings }
func (Trim) AcceptColumn(col dataset.ColumnMetadata) bool { return textColumn(col) }

func (Trim) Parameters() []action.Parameter {
	return action.WithImplicit(action.Parameter{Name: "padding_character", Type: action.ParamString})
}

func (Trim) Apply(row *dataset.Row, ac *action.Context) *dataset.Row {
	cutset := ac.Parameter("padding_character")
	return mapCell(row, ac, func(v string) string {
		if cutset == "" {
			return strings.TrimSpace(v)
		}
		return strings.Trim(v, cutset)
	})
}
