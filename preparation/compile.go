package preparation

import (
	"maps"

	"github.com/kbukum/dataprep/action"
	"github.com/kbukum/dataprep/pipeline"
)

// CompiledStep is a step resolved to its action, its context and the node
// pair that runs it.
type CompiledStep struct {
	Step    Step
	Action  action.Action
	Context *action.Context
	Compile *pipeline.CompileNode
	Apply   *pipeline.ActionNode
}

// Compile resolves every step through reg. Each step gets one context,
// created in tc and shared by its compile node and action node. Unknown
// actions fail with NOT_FOUND.
func Compile(p *Preparation, reg *action.Registry, tc *action.TransformationContext) ([]CompiledStep, error) {
	if p == nil {
		return nil, nil
	}
	steps := make([]CompiledStep, 0, len(p.Steps))
	for _, s := range p.Steps {
		a, err := reg.New(s.Action)
		if err != nil {
			return nil, err
		}
		a = action.Scoped(a)
		ac := tc.Create(a, maps.Clone(s.Parameters))
		steps = append(steps, CompiledStep{
			Step:    s,
			Action:  a,
			Context: ac,
			Compile: pipeline.NewCompileNode(a, ac),
			Apply:   pipeline.NewActionNode(a, ac),
		})
	}
	return steps, nil
}

// Append chains the node pairs of steps onto b.
func Append(b *pipeline.Builder, steps []CompiledStep) *pipeline.Builder {
	for _, s := range steps {
		b = b.To(s.Compile).To(s.Apply)
	}
	return b
}
