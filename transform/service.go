package transform

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/kbukum/dataprep/action"
	"github.com/kbukum/dataprep/analysis"
	"github.com/kbukum/dataprep/cache"
	"github.com/kbukum/dataprep/dataset"
	apperrors "github.com/kbukum/dataprep/errors"
	"github.com/kbukum/dataprep/format"
	"github.com/kbukum/dataprep/logger"
	"github.com/kbukum/dataprep/observability"
	"github.com/kbukum/dataprep/pipeline"
	"github.com/kbukum/dataprep/preparation"
	"github.com/kbukum/dataprep/validation"
)

// Service runs transformations with a fixed action registry and cache.
type Service struct {
	registry       *action.Registry
	cache          cache.ContentCache
	metrics        *observability.Metrics
	analyzer       analysis.Factory
	partitionLimit int
	log            *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the content cache receiving final metadata.
func WithCache(c cache.ContentCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAnalyzer replaces the analyzer used when a request asks for analysis.
func WithAnalyzer(f analysis.Factory) Option {
	return func(s *Service) { s.analyzer = f }
}

// WithPartitionLimit bounds the partitions running at once. 0 means no bound.
func WithPartitionLimit(n int) Option {
	return func(s *Service) { s.partitionLimit = n }
}

// WithLogger replaces the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a service resolving actions through reg.
func NewService(reg *action.Registry, opts ...Option) *Service {
	s := &Service{
		registry: reg,
		analyzer: analysis.NewQualityAnalyzer,
		log:      logger.Get("transform"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the action registry.
func (s *Service) Registry() *action.Registry { return s.registry }

// Transform runs req and writes the envelope to req.Output.
func (s *Service) Transform(ctx context.Context, req Request) (*Result, error) {
	return s.run(ctx, "transform", observability.SpanTransform, req, s.cache)
}

// Preview runs prep over the rows of ds matching filter. The cache is left
// untouched.
func (s *Service) Preview(ctx context.Context, ds *dataset.DataSet, prep *preparation.Preparation, filter pipeline.Predicate, w io.Writer) (*Result, error) {
	return s.run(ctx, "preview", observability.SpanPreview, Request{
		DataSet:     ds,
		Preparation: prep,
		Output:      w,
		Filter:      filter,
	}, nil)
}

// TransformPartitions runs prep over every partition concurrently, each
// through its own pipeline writing its own envelope to outputs[i]. Results
// are returned in partition order. Partitions do not cache metadata, since
// they share one step id.
func (s *Service) TransformPartitions(ctx context.Context, partitions []*dataset.DataSet, prep *preparation.Preparation, outputs []io.Writer) (results []*Result, err error) {
	if appErr := validation.New().
		Custom(len(partitions) == len(outputs), "outputs", "must match the number of partitions").
		Min("partition_limit", s.partitionLimit, 0).
		Validate(); appErr != nil {
		return nil, appErr
	}
	stepID := (&Request{Preparation: prep}).stepID()

	oc := observability.NewOperationContext("partitions", stepID, s.metrics)
	ctx, span := oc.StartSpanForOperation(ctx, observability.SpanPartition)
	observability.SetSpanAttribute(ctx, observability.AttrPartitions, len(partitions))
	var total int64
	defer func() { oc.EndOperation(ctx, span, total, err) }()

	results = make([]*Result, len(partitions))
	graphs := make([]*graph, len(partitions))
	err = pipeline.ExecutePartitions(ctx, partitions, func(i int) (*pipeline.Pipeline, error) {
		g, err := s.build(Request{DataSet: partitions[i], Preparation: prep, Output: outputs[i]}, stepID, nil)
		if err != nil {
			return nil, err
		}
		graphs[i] = g
		return pipeline.New(g.root), nil
	}, s.partitionLimit)

	for i, g := range graphs {
		if g == nil {
			continue
		}
		g.tc.CleanUp()
		results[i] = g.result(ctx, s.metrics, oc.Duration())
		total += results[i].Rows
	}
	if err != nil {
		return nil, apperrors.Wrap(err)
	}
	s.log.Info("partitions transformed", logger.Fields(
		logger.FieldStepID, stepID,
		"partitions", len(partitions),
		logger.FieldRows, total,
		logger.FieldDuration, oc.Duration().Milliseconds(),
	))
	return results, nil
}

// CachedMetadata returns the metadata cached by the transformation that
// ended at stepID.
func (s *Service) CachedMetadata(ctx context.Context, stepID string) (*dataset.RowMetadata, error) {
	if s.cache == nil {
		return nil, apperrors.NotFound("metadata", stepID)
	}
	key := cache.TransformationMetadataKey{StepID: stepID}
	rc, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var md dataset.RowMetadata
	if err := json.NewDecoder(rc).Decode(&md); err != nil {
		return nil, apperrors.Cache(key.Key(), err)
	}
	return &md, nil
}

func (s *Service) run(ctx context.Context, operation, spanName string, req Request, c cache.ContentCache) (res *Result, err error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	stepID := req.stepID()

	oc := observability.NewOperationContext(operation, stepID, s.metrics)
	ctx, span := oc.StartSpanForOperation(ctx, spanName)
	var rows int64
	defer func() { oc.EndOperation(ctx, span, rows, err) }()

	g, err := s.build(req, stepID, c)
	if err != nil {
		return nil, err
	}
	// released on end of stream already, unless the build or the run failed early
	defer g.tc.CleanUp()

	p := pipeline.New(g.root)
	s.log.Debug("pipeline built", logger.Fields(logger.FieldStepID, stepID, "graph", p.String()))
	if err := p.Execute(ctx, req.DataSet); err != nil {
		rows = g.writer.Count()
		return nil, err
	}

	res = g.result(ctx, s.metrics, oc.Duration())
	rows = res.Rows
	s.log.Info(operation+" done", logger.Fields(
		logger.FieldStepID, stepID,
		logger.FieldRows, res.Rows,
		"canceled", len(res.Canceled),
		logger.FieldDuration, res.Duration.Milliseconds(),
	))
	return res, nil
}

// graph is one built pipeline and the parts needed to report on it.
type graph struct {
	root   pipeline.Node
	writer *pipeline.WriterNode
	steps  []preparation.CompiledStep
	tc     *action.TransformationContext
	stepID string
}

func (s *Service) build(req Request, stepID string, c cache.ContentCache) (*graph, error) {
	tc := action.NewTransformationContext()
	steps, err := preparation.Compile(req.Preparation, s.registry, tc)
	if err != nil {
		return nil, err
	}

	var b *pipeline.Builder
	if req.Filter != nil {
		b = pipeline.FilteredSource(req.Filter)
	} else {
		b = pipeline.Source()
	}
	b = preparation.Append(b, steps).To(pipeline.NewCleanUpNode(tc))
	if req.Analyze {
		b = b.To(pipeline.NewDelayedAnalysisNode(s.analyzer, nil, nil))
	}
	writer := pipeline.NewWriterNode(format.NewJSONWriter(req.Output), c, stepID)
	if req.DataSet != nil && req.DataSet.Metadata != nil {
		writer.WithInitialMetadata(req.DataSet.Metadata)
	}
	root, err := b.To(writer).Build()
	if err != nil {
		return nil, err
	}
	return &graph{root: root, writer: writer, steps: steps, tc: tc, stepID: stepID}, nil
}

func (g *graph) result(ctx context.Context, m *observability.Metrics, d time.Duration) *Result {
	res := &Result{
		StepID:   g.stepID,
		Rows:     g.writer.Count(),
		Duration: d,
		Metadata: g.writer.Metadata(),
	}
	for _, st := range g.steps {
		if st.Context.IsCanceled() {
			res.Canceled = append(res.Canceled, st.Action.Name())
			if m != nil {
				m.RecordActionCanceled(ctx, st.Action.Name())
			}
		}
	}
	return res
}
