package transform

import (
	"io"
	"time"

	"github.com/kbukum/dataprep/dataset"
	"github.com/kbukum/dataprep/pipeline"
	"github.com/kbukum/dataprep/preparation"
	"github.com/kbukum/dataprep/validation"
)

// Request describes one transformation.
type Request struct {
	DataSet     *dataset.DataSet
	Preparation *preparation.Preparation
	// Output receives the {"records":[...],"metadata":{...}} envelope.
	Output io.Writer
	// StepID keys the cached metadata. Defaults to the preparation head id.
	StepID string
	// Analyze computes column statistics before writing.
	Analyze bool
	// Filter restricts the rows entering the pipeline. Nil keeps every row.
	Filter pipeline.Predicate
}

func (r *Request) validate() error {
	v := validation.New().
		Custom(r.DataSet != nil && r.DataSet.Records != nil, "dataset", "is required").
		Custom(r.Output != nil, "output", "is required")
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (r *Request) stepID() string {
	if r.StepID != "" {
		return r.StepID
	}
	if r.Preparation == nil {
		return preparation.RootStepID
	}
	if r.Preparation.HeadID == "" {
		r.Preparation.Normalize()
	}
	return r.Preparation.HeadID
}

// Result reports a finished transformation.
type Result struct {
	StepID string `json:"stepId"`
	// Rows is the number of rows that reached the writer, deleted or not.
	Rows int64 `json:"rows"`
	// Canceled lists the actions canceled at compile time, in step order.
	Canceled []string             `json:"canceled,omitempty"`
	Duration time.Duration        `json:"duration"`
	Metadata *dataset.RowMetadata `json:"-"`
}
