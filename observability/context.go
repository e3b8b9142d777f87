package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/dataprep/errors"
)

// Execution statuses.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

// OperationContext tracks one pipeline execution.
type OperationContext struct {
	OperationName string
	StepID        string
	StartTime     time.Time
	Metrics       *Metrics
}

// NewOperationContext creates an operation context. A nil metrics skips
// metric recording.
func NewOperationContext(operationName, stepID string, metrics *Metrics) *OperationContext {
	return &OperationContext{
		OperationName: operationName,
		StepID:        stepID,
		StartTime:     time.Now(),
		Metrics:       metrics,
	}
}

type operationContextKey struct{}

// WithOperationContext stores an OperationContext in the context.
func WithOperationContext(ctx context.Context, oc *OperationContext) context.Context {
	return context.WithValue(ctx, operationContextKey{}, oc)
}

// OperationContextFromContext retrieves the OperationContext from context, or nil.
func OperationContextFromContext(ctx context.Context) *OperationContext {
	if oc, ok := ctx.Value(operationContextKey{}).(*OperationContext); ok {
		return oc
	}
	return nil
}

// StartSpanForOperation starts the execution span and records the start
// metric. The returned context carries both the span and oc.
func (oc *OperationContext) StartSpanForOperation(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName)
	span.SetAttributes(
		attribute.String(AttrOperationName, oc.OperationName),
		attribute.String(AttrStepID, oc.StepID),
	)
	if oc.Metrics != nil {
		oc.Metrics.RecordExecutionStart(ctx)
	}
	return WithOperationContext(ctx, oc), span
}

// EndOperation ends the span and records the end metrics. The status is
// derived from err.
func (oc *OperationContext) EndOperation(ctx context.Context, span trace.Span, rows int64, err error) {
	duration := time.Since(oc.StartTime)
	status := Status(err)

	if err != nil {
		appErr := apperrors.Wrap(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, appErr.Message)
		span.SetAttributes(
			attribute.String(AttrErrorCode, string(appErr.Code)),
			attribute.String(AttrErrorMessage, err.Error()),
		)
		if oc.Metrics != nil {
			oc.Metrics.RecordError(ctx, string(appErr.Code), string(appErr.Stage))
		}
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrRows, rows),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if oc.Metrics != nil {
		oc.Metrics.RecordExecutionEnd(ctx, oc.OperationName, status, rows, duration)
	}
}

// Duration returns the elapsed time since operation start.
func (oc *OperationContext) Duration() time.Duration {
	return time.Since(oc.StartTime)
}

// Status maps an execution error to a status label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case apperrors.IsCode(err, apperrors.ErrCodeCanceled):
		return StatusCanceled
	default:
		return StatusError
	}
}
