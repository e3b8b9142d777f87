package action

import "github.com/kbukum/dataprep/dataset"

// Scoped restricts a to the row selected by row_id when the scope parameter
// is cell or line. Other scopes apply to every row.
func Scoped(a Action) Action {
	if _, ok := a.(*scoped); ok {
		return a
	}
	return &scoped{Action: a}
}

type scoped struct {
	Action
}

func (s *scoped) Apply(row *dataset.Row, ac *Context) *dataset.Row {
	switch ac.Scope() {
	case ScopeCell, ScopeLine:
		id, ok := ac.RowID()
		if !ok || row.TdpID() != id {
			return row
		}
	}
	return s.Action.Apply(row, ac)
}

func (s *scoped) Compile(ac *Context) {
	if c, ok := s.Action.(Compiler); ok {
		c.Compile(ac)
	}
}

// Unwrap returns the wrapped action.
func (s *scoped) Unwrap() Action { return s.Action }
