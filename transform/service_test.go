package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/kbukum/dataprep/action"
	"github.com/kbukum/dataprep/action/builtin"
	"github.com/kbukum/dataprep/cache"
	"github.com/kbukum/dataprep/cache/memory"
	"github.com/kbukum/dataprep/dataset"
	apperrors "github.com/kbukum/dataprep/errors"
	"github.com/kbukum/dataprep/logger"
	"github.com/kbukum/dataprep/observability"
	"github.com/kbukum/dataprep/preparation"
)

type envelope struct {
	Records  []map[string]any `json:"records"`
	Metadata struct {
		Columns []dataset.ColumnMetadata `json:"columns"`
	} `json:"metadata"`
}

func decode(t *testing.T, buf *bytes.Buffer) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("expected a valid envelope, got %v: %s", err, buf.String())
	}
	return env
}

func customers() *dataset.DataSet {
	md := dataset.NewRowMetadata(
		dataset.ColumnMetadata{Name: "name", Type: dataset.TypeString},
		dataset.ColumnMetadata{Name: "city", Type: dataset.TypeString},
	)
	return dataset.FromRows(md,
		dataset.NewRow(map[string]string{"0000": "ann", "0001": "paris"}).SetTdpID(1),
		dataset.NewRow(map[string]string{"0000": "bo", "0001": ""}).SetTdpID(2),
		dataset.NewRow(map[string]string{"0000": "cy", "0001": "lyon"}).SetTdpID(3),
	)
}

func mustPrep(t *testing.T, src string) *preparation.Preparation {
	t.Helper()
	p, err := preparation.Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

const cleanCustomers = `
steps:
  - action: uppercase
    parameters: {column_id: "0000"}
  - action: delete_empty
    parameters: {column_id: "0001"}
  - action: compute_length
    parameters: {column_id: "0000"}
`

func newService(t *testing.T) (*Service, cache.ContentCache) {
	t.Helper()
	c := memory.New(cache.Config{}, logger.Nop())
	m, err := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewService(builtin.NewRegistry(), WithCache(c), WithMetrics(m), WithLogger(logger.Nop())), c
}

func TestTransform(t *testing.T) {
	svc, _ := newService(t)
	prep := mustPrep(t, cleanCustomers)
	var buf bytes.Buffer

	res, err := svc.Transform(context.Background(), Request{DataSet: customers(), Preparation: prep, Output: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StepID != prep.HeadID {
		t.Errorf("expected head step id, got %s", res.StepID)
	}
	if res.Rows != 3 {
		t.Errorf("expected 3 rows reaching the writer, got %d", res.Rows)
	}

	env := decode(t, &buf)
	var names []any
	for _, r := range env.Records {
		names = append(names, r["0000"])
	}
	if diff := cmp.Diff([]any{"ANN", "CY"}, names); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if len(env.Metadata.Columns) != 3 || env.Metadata.Columns[1].Name != "name_length" {
		t.Errorf("unexpected columns %+v", env.Metadata.Columns)
	}

	md, err := svc.CachedMetadata(context.Background(), res.StepID)
	if err != nil {
		t.Fatalf("expected cached metadata, got %v", err)
	}
	if !md.Equal(res.Metadata) {
		t.Error("expected cached metadata to equal the final metadata")
	}
}

func TestTransform_EmptyDataSetKeepsSchema(t *testing.T) {
	svc, _ := newService(t)
	prep := mustPrep(t, cleanCustomers)
	md := dataset.NewRowMetadata(
		dataset.ColumnMetadata{Name: "name", Type: dataset.TypeString},
		dataset.ColumnMetadata{Name: "city", Type: dataset.TypeString},
	)
	var buf bytes.Buffer

	res, err := svc.Transform(context.Background(), Request{DataSet: dataset.FromRows(md), Preparation: prep, Output: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := decode(t, &buf)
	if len(env.Records) != 0 {
		t.Errorf("expected no records, got %d", len(env.Records))
	}
	var names []string
	for _, col := range env.Metadata.Columns {
		names = append(names, col.Name)
	}
	if diff := cmp.Diff([]string{"name", "city"}, names); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	cached, err := svc.CachedMetadata(context.Background(), res.StepID)
	if err != nil {
		t.Fatalf("expected cached metadata, got %v", err)
	}
	if !cached.Equal(md) {
		t.Error("expected the input schema to be cached")
	}
}

func TestTransform_LeavesInputMetadataUntouched(t *testing.T) {
	svc, _ := newService(t)
	ds := customers()
	before := ds.Metadata.Clone()

	if _, err := svc.Transform(context.Background(), Request{DataSet: ds, Preparation: mustPrep(t, cleanCustomers), Output: io.Discard}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ds.Metadata.Equal(before) || ds.Metadata.Size() != 2 {
		t.Errorf("expected the dataset metadata to keep its 2 columns")
	}
}

func TestTransform_CanceledActionReported(t *testing.T) {
	svc, _ := newService(t)
	prep := mustPrep(t, `
steps:
  - action: uppercase
    parameters: {column_id: "0042"}
  - action: lowercase
    parameters: {column_id: "0001"}
`)
	var buf bytes.Buffer
	res, err := svc.Transform(context.Background(), Request{DataSet: customers(), Preparation: prep, Output: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{builtin.UpperCaseName}, res.Canceled); diff != "" {
		t.Errorf("canceled mismatch (-want +got):\n%s", diff)
	}
	if env := decode(t, &buf); env.Records[0]["0000"] != "ann" {
		t.Errorf("expected canceled action to leave rows unchanged, got %v", env.Records[0])
	}
}

func TestTransform_Analyze(t *testing.T) {
	svc, _ := newService(t)
	var buf bytes.Buffer
	res, err := svc.Transform(context.Background(), Request{DataSet: customers(), Output: &buf, Analyze: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StepID != preparation.RootStepID {
		t.Errorf("expected root step id without preparation, got %s", res.StepID)
	}
	col, _ := res.Metadata.Column("0001")
	want := &dataset.Statistics{Count: 3, Valid: 2, Empty: 1, MinLength: 4, MaxLength: 5}
	if diff := cmp.Diff(want, col.Statistics); diff != "" {
		t.Errorf("statistics mismatch (-want +got):\n%s", diff)
	}
	if env := decode(t, &buf); env.Metadata.Columns[1].Statistics == nil {
		t.Error("expected statistics in the written metadata")
	}
}

func TestTransform_InvalidRequest(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Transform(context.Background(), Request{})
	if !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestTransform_UnknownAction(t *testing.T) {
	svc, _ := newService(t)
	prep := mustPrep(t, "steps:\n  - action: teleport\n")
	_, err := svc.Transform(context.Background(), Request{DataSet: customers(), Preparation: prep, Output: io.Discard})
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestTransform_Canceled(t *testing.T) {
	svc, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	_, err := svc.Transform(ctx, Request{DataSet: customers(), Preparation: mustPrep(t, cleanCustomers), Output: &buf})
	if !apperrors.IsCode(err, apperrors.ErrCodeCanceled) {
		t.Fatalf("expected CANCELED, got %v", err)
	}
	if env := decode(t, &buf); len(env.Records) != 0 {
		t.Errorf("expected a closed envelope without records, got %d", len(env.Records))
	}
}

func TestPreview(t *testing.T) {
	svc, c := newService(t)
	prep := mustPrep(t, cleanCustomers)
	var buf bytes.Buffer

	res, err := svc.Preview(context.Background(), customers(), prep, func(r *dataset.Row) bool { return r.TdpID() == 3 }, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rows != 1 {
		t.Errorf("expected 1 previewed row, got %d", res.Rows)
	}
	if env := decode(t, &buf); len(env.Records) != 1 || env.Records[0]["0000"] != "CY" {
		t.Errorf("unexpected preview %v", env.Records)
	}
	if c.Has(context.Background(), cache.TransformationMetadataKey{StepID: prep.HeadID}) {
		t.Error("expected preview to leave the cache untouched")
	}
}

func TestTransformPartitions(t *testing.T) {
	svc, _ := newService(t)
	prep := mustPrep(t, cleanCustomers)
	parts := []*dataset.DataSet{customers(), customers()}
	outs := []*bytes.Buffer{{}, {}}

	results, err := svc.TransformPartitions(context.Background(), parts, prep, []io.Writer{outs[0], outs[1]})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, res := range results {
		if res.Rows != 3 {
			t.Errorf("partition %d: expected 3 rows, got %d", i, res.Rows)
		}
		if env := decode(t, outs[i]); len(env.Records) != 2 {
			t.Errorf("partition %d: expected 2 records, got %d", i, len(env.Records))
		}
	}
	if results[0].Metadata == results[1].Metadata {
		t.Error("expected partitions not to share metadata")
	}

	_, err = svc.TransformPartitions(context.Background(), parts, prep, []io.Writer{outs[0]})
	if !apperrors.IsCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for mismatched outputs, got %v", err)
	}
}

func TestCachedMetadata_Missing(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.CachedMetadata(context.Background(), "nope"); !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	bare := NewService(action.NewRegistry())
	if _, err := bare.CachedMetadata(context.Background(), "nope"); !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND without cache, got %v", err)
	}
}
