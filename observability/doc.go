// Package observability wires OpenTelemetry tracing and metrics into
// dataprep executions.
//
// Setup initializes both providers from Config and returns one shutdown
// function:
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, "dataprep", info.Version, cfg.Environment)
//	defer shutdown(ctx)
//
// Executions are tracked through an OperationContext, which owns the span and
// records the pipeline metrics when the execution ends:
//
//	oc := observability.NewOperationContext("transform", stepID, metrics)
//	ctx, span := oc.StartSpanForOperation(ctx, observability.SpanTransform)
//	defer oc.EndOperation(ctx, span, rows, err)
//
// Health of the backing services is reported through HealthChecker.
package observability
