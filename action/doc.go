// Package action defines the contract every transformation action satisfies
// and the per-execution state an action works with.
//
// An Action is a named row function with an optional schema-dependent
// Compile step. Each (action, position in the pipeline) pair owns a Context
// holding its status, lazily created resources and the output columns it
// declared. A TransformationContext creates every Context of one execution
// and releases them all exactly once when the cleanup signal arrives.
//
// Actions are discovered through an explicit Registry populated at startup:
//
//	reg := action.NewRegistry()
//	builtin.RegisterAll(reg)
//	a, err := reg.New("uppercase")
package action
