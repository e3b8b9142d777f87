package action

// ParameterType is the declared type of an action parameter.
type ParameterType string

const (
	ParamString  ParameterType = "string"
	ParamInteger ParameterType = "integer"
	ParamBoolean ParameterType = "boolean"
	ParamColumn  ParameterType = "column"
	ParamDate    ParameterType = "date"
	ParamFilter  ParameterType = "filter"
)

// Parameter describes one action parameter.
type Parameter struct {
	Name     string        `json:"name"`
	Type     ParameterType `json:"type"`
	Default  string        `json:"default"`
	Implicit bool          `json:"implicit"`
}

// Implicit parameter names, present on every action.
const (
	ParamColumnID = "column_id"
	ParamScope    = "scope"
	ParamRowID    = "row_id"
	ParamFilterID = "filter"
)

// Scope values of the scope parameter.
const (
	ScopeCell    = "cell"
	ScopeLine    = "line"
	ScopeColumn  = "column"
	ScopeDataset = "dataset"
)

// ImplicitParameters returns the parameters every action accepts.
func ImplicitParameters() []Parameter {
	return []Parameter{
		{Name: ParamColumnID, Type: ParamColumn, Implicit: true},
		{Name: ParamScope, Type: ParamString, Default: ScopeColumn, Implicit: true},
		{Name: ParamRowID, Type: ParamInteger, Implicit: true},
		{Name: ParamFilterID, Type: ParamFilter, Implicit: true},
	}
}

// WithImplicit prepends the implicit parameters to the given ones.
func WithImplicit(params ...Parameter) []Parameter {
	return append(ImplicitParameters(), params...)
}
