package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kbukum/dataprep/cache"
	"github.com/kbukum/dataprep/dataset"
	apperrors "github.com/kbukum/dataprep/errors"
	"github.com/kbukum/dataprep/format"
	"github.com/kbukum/dataprep/logger"
)

// Envelope field names.
const (
	RecordsField  = "records"
	MetadataField = "metadata"
	ColumnsField  = "columns"
)

// WriterNode serializes rows into the transformation envelope and, once the
// stream terminates, caches the final metadata under the step id.
type WriterNode struct {
	TerminalNode
	writer  format.Writer
	cache   cache.ContentCache
	stepID  string
	md      *dataset.RowMetadata
	started bool
	closed  bool
	count   int64
	total   time.Duration
	log     *logger.Logger
}

// NewWriterNode creates a writer node. A nil cache disables metadata caching.
func NewWriterNode(w format.Writer, c cache.ContentCache, stepID string) *WriterNode {
	return &WriterNode{writer: w, cache: c, stepID: stepID, log: logger.Get("writer")}
}

// WithInitialMetadata sets the metadata written when no row arrives.
func (n *WriterNode) WithInitialMetadata(md *dataset.RowMetadata) *WriterNode {
	n.md = md
	return n
}

// StepID returns the step id used as cache key.
func (n *WriterNode) StepID() string { return n.stepID }

// Count returns the number of received rows, written or not.
func (n *WriterNode) Count() int64 { return n.count }

// TotalTime returns the time spent writing.
func (n *WriterNode) TotalTime() time.Duration { return n.total }

// Metadata returns the metadata of the last row received.
func (n *WriterNode) Metadata() *dataset.RowMetadata { return n.md }

// Receive implements Node.
func (n *WriterNode) Receive(row *dataset.Row, md *dataset.RowMetadata) error {
	if n.closed {
		return nil
	}
	start := time.Now()
	defer func() {
		n.total += time.Since(start)
		n.count++
	}()

	if err := n.open(); err != nil {
		return err
	}
	n.md = md
	if !row.ShouldWrite() {
		return nil
	}
	if err := n.writer.WriteRow(row, md); err != nil {
		return apperrors.Write("record", err).WithDetail("tdp_id", row.TdpID())
	}
	return nil
}

// Signal implements Node.
func (n *WriterNode) Signal(sig Signal) error {
	if !sig.terminates() {
		n.log.Debug("unhandled signal", logger.Fields(logger.FieldSignal, sig.String()))
		return nil
	}
	if n.closed {
		return nil
	}
	n.closed = true

	start := time.Now()
	err := n.close()
	n.total += time.Since(start)
	if err != nil {
		return err
	}
	n.storeMetadata()
	return nil
}

func (n *WriterNode) open() error {
	if n.started {
		return nil
	}
	n.started = true
	if err := n.writer.StartObject(); err != nil {
		return apperrors.Write(RecordsField, err)
	}
	if err := n.writer.FieldName(RecordsField); err != nil {
		return apperrors.Write(RecordsField, err)
	}
	if err := n.writer.StartArray(); err != nil {
		return apperrors.Write(RecordsField, err)
	}
	return nil
}

func (n *WriterNode) close() error {
	if err := n.open(); err != nil {
		return err
	}
	md := n.md
	if md == nil {
		md = dataset.NewRowMetadata()
	}
	steps := []func() error{
		n.writer.EndArray,
		func() error { return n.writer.FieldName(MetadataField) },
		n.writer.StartObject,
		func() error { return n.writer.FieldName(ColumnsField) },
		func() error { return n.writer.WriteColumns(md) },
		n.writer.EndObject,
		n.writer.EndObject,
		n.writer.Flush,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return apperrors.Write(MetadataField, err)
		}
	}
	return nil
}

// storeMetadata caches the final metadata. Failures are logged only.
func (n *WriterNode) storeMetadata() {
	if n.cache == nil || n.md == nil {
		return
	}
	key := cache.TransformationMetadataKey{StepID: n.stepID}
	fields := logger.Fields(logger.FieldStepID, n.stepID, logger.FieldKey, key.Key())

	data, err := json.Marshal(n.md)
	if err != nil {
		n.log.Debug("unable to cache metadata", logger.MergeWithError(fields, err))
		return
	}
	sink, err := n.cache.Put(context.Background(), key, cache.TTLDefault)
	if err != nil {
		n.log.Debug("unable to cache metadata", logger.MergeWithError(fields, err))
		return
	}
	_, err = sink.Write(data)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		n.log.Debug("unable to cache metadata", logger.MergeWithError(fields, err))
		return
	}
	n.log.Debug("metadata cached", fields)
}

var _ Node = (*WriterNode)(nil)
