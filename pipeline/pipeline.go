package pipeline

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/dataprep/dataset"
	apperrors "github.com/kbukum/dataprep/errors"
	"github.com/kbukum/dataprep/logger"
)

// Pipeline drives a dataset through the graph rooted at its root node.
type Pipeline struct {
	root Node
	log  *logger.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger replaces the pipeline logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New creates a pipeline over root.
func New(root Node, opts ...Option) *Pipeline {
	p := &Pipeline{root: root, log: logger.Get("pipeline")}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Root returns the root node.
func (p *Pipeline) Root() Node { return p.root }

// Execute feeds every row of ds, in order, with the dataset metadata into the
// root node, then sends one EndOfStream. On a read failure, a node failure
// or context cancellation it sends Cancel instead and returns a typed error.
// The dataset records are closed on return. Nodes work on a copy of the
// dataset metadata; ds.Metadata itself is left as it was.
func (p *Pipeline) Execute(ctx context.Context, ds *dataset.DataSet) error {
	if ds == nil || ds.Records == nil {
		return apperrors.InvalidInput("dataset", "dataset has no records")
	}
	defer ds.Records.Close()

	md := dataset.NewRowMetadata()
	if ds.Metadata != nil {
		md = ds.Metadata.Clone()
	}

	var rows int64
	for {
		if err := ctx.Err(); err != nil {
			return p.abort(apperrors.Canceled(err), rows)
		}
		row, ok, err := ds.Records.Next(ctx)
		if err != nil {
			return p.abort(readError(err), rows)
		}
		if !ok {
			break
		}
		if err := p.root.Receive(row, md); err != nil {
			return p.abort(apperrors.Wrap(err), rows)
		}
		rows++
	}

	if err := p.root.Signal(EndOfStream); err != nil {
		return apperrors.Wrap(err)
	}
	p.log.Debug("pipeline executed", logger.Fields(logger.FieldRows, rows))
	return nil
}

// Signal sends sig into the root node.
func (p *Pipeline) Signal(sig Signal) error {
	return p.root.Signal(sig)
}

// Accept visits the pipeline, then every node and link of the graph.
func (p *Pipeline) Accept(v Visitor) {
	v.VisitPipeline(p)
	Walk(v, p.root)
}

// String describes the graph.
func (p *Pipeline) String() string {
	return "Pipeline: " + Describe(p.root)
}

func (p *Pipeline) abort(err *apperrors.AppError, rows int64) error {
	if sigErr := p.root.Signal(Cancel); sigErr != nil {
		p.log.Warn("cancel signal failed", logger.Fields(logger.FieldError, sigErr.Error()))
	}
	p.log.Error("pipeline aborted", logger.Fields(
		logger.FieldRows, rows,
		"code", string(err.Code),
		"stage", string(err.Stage),
		logger.FieldError, err.Error(),
	))
	return err
}

func readError(err error) *apperrors.AppError {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return apperrors.Canceled(err)
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	return apperrors.Parse("records", err)
}
