package action

import (
	"github.com/kbukum/dataprep/dataset"
)

// Action categories.
const (
	CategoryStrings = "strings"
	CategoryColumns = "column_metadata"
	CategoryData    = "data_cleansing"
	CategoryNumbers = "numbers"
	CategoryDates   = "dates"
)

// Action is a named, parameterized row transformation.
//
// Apply may mutate and return the row it receives, or return a different
// row. Invalid input (a malformed parameter, an unparsable cell) must be
// handled inside Apply by leaving the row unchanged or using a documented
// fallback; Apply never reports errors.
type Action interface {
	// Name is the registry name of the action.
	Name() string
	// Category groups actions for display.
	Category() string
	// AcceptColumn reports whether the action can run on the column.
	AcceptColumn(col dataset.ColumnMetadata) bool
	// Parameters lists the action parameters, implicit ones included.
	Parameters() []Parameter
	// Apply transforms one row.
	Apply(row *dataset.Row, ac *Context) *dataset.Row
}

// Compiler is implemented by actions with a schema-dependent setup step.
// Compile runs before the first Apply and again whenever the metadata
// accompanying the rows changes.
type Compiler interface {
	Compile(ac *Context)
}

// Compile performs the compile step of a: it cancels the context when the
// target column is missing or not accepted, then runs the action's own
// Compile if it has one. A canceled context is left untouched.
func Compile(a Action, ac *Context) {
	if ac.IsCanceled() {
		return
	}
	if md := ac.RowMetadata(); md != nil && targetsColumn(ac) {
		col, ok := md.Column(ac.ColumnID())
		if !ok || !a.AcceptColumn(col) {
			ac.Cancel()
			return
		}
	}
	if c, ok := a.(Compiler); ok {
		c.Compile(ac)
	}
	if ac.Status() == NotExecuted {
		ac.SetStatus(OK)
	}
}

func targetsColumn(ac *Context) bool {
	if ac.ColumnID() == "" {
		return false
	}
	switch ac.Scope() {
	case ScopeColumn, ScopeCell:
		return true
	default:
		return false
	}
}
