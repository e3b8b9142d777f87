package format

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kbukum/dataprep/dataset"
)

// Writer is a streaming generator of structured output.
type Writer interface {
	StartObject() error
	EndObject() error
	StartArray() error
	EndArray() error
	FieldName(name string) error
	// WriteRow writes row as an object of its cells in metadata order.
	WriteRow(row *dataset.Row, md *dataset.RowMetadata) error
	// WriteColumns writes the column descriptors of md as an array.
	WriteColumns(md *dataset.RowMetadata) error
	Flush() error
}

// TdpIDField is the record field carrying the origin id of a row.
const TdpIDField = "tdpId"

// JSONWriter is a Writer producing compact JSON.
type JSONWriter struct {
	w *bufio.Writer
	// one entry per open container, true once it holds a value
	stack     []bool
	afterName bool
}

// NewJSONWriter creates a JSON writer on w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: bufio.NewWriter(w)}
}

func (j *JSONWriter) beforeValue() error {
	if j.afterName {
		j.afterName = false
		return nil
	}
	if n := len(j.stack); n > 0 {
		if j.stack[n-1] {
			if err := j.w.WriteByte(','); err != nil {
				return err
			}
		}
		j.stack[n-1] = true
	}
	return nil
}

func (j *JSONWriter) open(c byte) error {
	if err := j.beforeValue(); err != nil {
		return err
	}
	j.stack = append(j.stack, false)
	return j.w.WriteByte(c)
}

func (j *JSONWriter) close(c byte) error {
	if len(j.stack) == 0 {
		return fmt.Errorf("format: unbalanced %q", c)
	}
	j.stack = j.stack[:len(j.stack)-1]
	return j.w.WriteByte(c)
}

// StartObject implements Writer.
func (j *JSONWriter) StartObject() error { return j.open('{') }

// EndObject implements Writer.
func (j *JSONWriter) EndObject() error { return j.close('}') }

// StartArray implements Writer.
func (j *JSONWriter) StartArray() error { return j.open('[') }

// EndArray implements Writer.
func (j *JSONWriter) EndArray() error { return j.close(']') }

// FieldName implements Writer.
func (j *JSONWriter) FieldName(name string) error {
	n := len(j.stack)
	if n == 0 {
		return fmt.Errorf("format: field %q outside of an object", name)
	}
	if j.stack[n-1] {
		if err := j.w.WriteByte(','); err != nil {
			return err
		}
	}
	j.stack[n-1] = true
	if err := j.writeString(name); err != nil {
		return err
	}
	j.afterName = true
	return j.w.WriteByte(':')
}

// WriteRow implements Writer. Cells missing from the row are omitted; the
// origin id is written last when known.
func (j *JSONWriter) WriteRow(row *dataset.Row, md *dataset.RowMetadata) error {
	if err := j.StartObject(); err != nil {
		return err
	}
	for _, id := range md.IDs() {
		if !row.Has(id) {
			continue
		}
		if err := j.FieldName(id); err != nil {
			return err
		}
		if err := j.value(row.Get(id)); err != nil {
			return err
		}
	}
	if row.TdpID() != 0 {
		if err := j.FieldName(TdpIDField); err != nil {
			return err
		}
		if _, err := j.w.WriteString(strconv.FormatInt(row.TdpID(), 10)); err != nil {
			return err
		}
		j.afterName = false
	}
	return j.EndObject()
}

// WriteColumns implements Writer.
func (j *JSONWriter) WriteColumns(md *dataset.RowMetadata) error {
	if err := j.beforeValue(); err != nil {
		return err
	}
	data, err := json.Marshal(md.Columns())
	if err != nil {
		return err
	}
	_, err = j.w.Write(data)
	return err
}

// Flush implements Writer.
func (j *JSONWriter) Flush() error { return j.w.Flush() }

func (j *JSONWriter) value(s string) error {
	if err := j.beforeValue(); err != nil {
		return err
	}
	return j.writeString(s)
}

func (j *JSONWriter) writeString(s string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = j.w.Write(data)
	return err
}

var _ Writer = (*JSONWriter)(nil)
