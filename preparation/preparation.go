package preparation

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/kbukum/dataprep/action"
	"github.com/kbukum/dataprep/validation"
)

// rootNamespace seeds the id chain of every preparation.
var rootNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("dataprep:preparation:root"))

// RootStepID is the id of the empty preparation.
var RootStepID = rootNamespace.String()

// Step is one action invocation.
type Step struct {
	ID         string            `json:"id,omitempty" yaml:"id,omitempty"`
	Action     string            `json:"action" yaml:"action" validate:"required"`
	Parameters map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Preparation is an ordered list of steps.
type Preparation struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	DataSetID string `json:"dataSetId,omitempty" yaml:"dataSetId,omitempty"`
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
	HeadID    string `json:"headId,omitempty" yaml:"headId,omitempty"`
	Steps     []Step `json:"steps" yaml:"steps" validate:"dive"`
}

// Normalize assigns step ids and the head id. Ids already present are
// replaced, so a preparation edited by hand cannot carry stale ids. An empty
// preparation id defaults to the head id.
func (p *Preparation) Normalize() {
	parent := rootNamespace
	for i := range p.Steps {
		id := stepID(parent, p.Steps[i])
		p.Steps[i].ID = id.String()
		parent = id
	}
	p.HeadID = parent.String()
	if p.ID == "" {
		p.ID = p.HeadID
	}
}

// StepIDs returns the step ids in order.
func (p *Preparation) StepIDs() []string {
	ids := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		ids[i] = s.ID
	}
	return ids
}

// Validate checks the preparation structure and the implicit parameters of
// every step.
func (p *Preparation) Validate() error {
	if err := validation.Validate(p); err != nil {
		return err
	}
	v := validation.New()
	scopes := []string{action.ScopeCell, action.ScopeLine, action.ScopeColumn, action.ScopeDataset}
	for i, s := range p.Steps {
		field := fmt.Sprintf("steps[%d].parameters", i)
		scope := s.Parameters[action.ParamScope]
		v.OneOf(field+"."+action.ParamScope, scope, scopes)
		v.Pattern(field+"."+action.ParamRowID, s.Parameters[action.ParamRowID], `^\d+$`)
		if scope == action.ScopeCell || scope == action.ScopeLine {
			v.Required(field+"."+action.ParamRowID, s.Parameters[action.ParamRowID])
		}
		if scope == action.ScopeCell {
			v.Required(field+"."+action.ParamColumnID, s.Parameters[action.ParamColumnID])
		}
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// stepID hashes the canonical JSON of the step content under the parent id.
// Map keys are sorted by encoding/json, so parameter order never matters.
func stepID(parent uuid.UUID, s Step) uuid.UUID {
	content, err := json.Marshal(struct {
		Action     string            `json:"action"`
		Parameters map[string]string `json:"parameters"`
	}{s.Action, s.Parameters})
	if err != nil {
		// a struct of strings always marshals
		panic(err)
	}
	return uuid.NewSHA1(parent, content)
}
