package format

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/kbukum/dataprep/dataset"
	apperrors "github.com/kbukum/dataprep/errors"
)

// ReadJSON reads a transformation envelope. When metadata precedes records
// the records are streamed; otherwise they are buffered until the metadata
// is known. Without a metadata section, columns are inferred from record
// fields in order of first appearance.
func ReadJSON(r io.Reader) (*dataset.DataSet, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := expectDelim(dec, '{'); err != nil {
		return nil, apperrors.Parse("json", err)
	}

	var md *dataset.RowMetadata
	var buffered []*dataset.Row
	var orders [][]string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, apperrors.Parse("json", err)
		}
		switch tok {
		case "metadata":
			var m struct {
				Columns []dataset.ColumnMetadata `json:"columns"`
			}
			if err := dec.Decode(&m); err != nil {
				return nil, apperrors.Parse("json metadata", err)
			}
			md = dataset.NewRowMetadata(m.Columns...)
		case "records":
			if err := expectDelim(dec, '['); err != nil {
				return nil, apperrors.Parse("json records", err)
			}
			if md != nil {
				return &dataset.DataSet{Metadata: md, Records: &jsonIterator{dec: dec}}, nil
			}
			for dec.More() {
				row, order, err := decodeRow(dec)
				if err != nil {
					return nil, apperrors.Parse("json records", err)
				}
				buffered = append(buffered, row)
				orders = append(orders, order)
			}
			if err := expectDelim(dec, ']'); err != nil {
				return nil, apperrors.Parse("json records", err)
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, apperrors.Parse("json", err)
			}
		}
	}
	if md == nil {
		md = inferMetadata(orders)
	}
	return dataset.FromRows(md, buffered...), nil
}

type jsonIterator struct {
	dec  *json.Decoder
	done bool
}

func (it *jsonIterator) Next(ctx context.Context) (*dataset.Row, bool, error) {
	if it.done {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if !it.dec.More() {
		it.done = true
		if err := expectDelim(it.dec, ']'); err != nil {
			return nil, false, apperrors.Parse("json records", err)
		}
		return nil, false, nil
	}
	row, _, err := decodeRow(it.dec)
	if err != nil {
		it.done = true
		return nil, false, apperrors.Parse("json records", err)
	}
	return row, true, nil
}

func (it *jsonIterator) Close() error { return nil }

// decodeRow reads one flat record object and returns its field order.
func decodeRow(dec *json.Decoder) (*dataset.Row, []string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	row := dataset.NewRow(nil)
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected field name, got %v", tok)
		}
		val, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		if key == TdpIDField {
			n, ok := val.(json.Number)
			if !ok {
				return nil, nil, fmt.Errorf("%s must be a number, got %v", TdpIDField, val)
			}
			id, err := n.Int64()
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", TdpIDField, err)
			}
			row.SetTdpID(id)
			continue
		}
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case json.Number:
			s = v.String()
		case bool:
			s = strconv.FormatBool(v)
		case nil:
			continue
		default:
			return nil, nil, fmt.Errorf("field %q: nested values are not supported", key)
		}
		row.Set(key, s)
		order = append(order, key)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return row, order, nil
}

func inferMetadata(orders [][]string) *dataset.RowMetadata {
	md := dataset.NewRowMetadata()
	seen := make(map[string]bool)
	for _, ids := range orders {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				md.AddColumn(dataset.ColumnMetadata{ID: id, Name: id, Type: dataset.TypeString})
			}
		}
	}
	return md
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	// Separator defaults to ','.
	Separator rune
	// NoHeader names the columns col_1, col_2, ... instead of reading a header line.
	NoHeader bool
}

// ReadCSV reads delimited text. Every column is a string column; records
// get their 1-based line number (header excluded) as origin id.
func ReadCSV(r io.Reader, opts CSVOptions) (*dataset.DataSet, error) {
	cr := csv.NewReader(r)
	if opts.Separator != 0 {
		cr.Comma = opts.Separator
	}
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return dataset.FromRows(dataset.NewRowMetadata()), nil
		}
		return nil, apperrors.Parse("csv header", err)
	}

	md := dataset.NewRowMetadata()
	it := &csvIterator{r: cr}
	for i, name := range first {
		if opts.NoHeader {
			name = "col_" + strconv.Itoa(i+1)
		}
		md.AddColumn(dataset.ColumnMetadata{Name: name, Type: dataset.TypeString})
	}
	it.ids = md.IDs()
	if opts.NoHeader {
		it.pending = first
	}
	return &dataset.DataSet{Metadata: md, Records: it}, nil
}

type csvIterator struct {
	r       *csv.Reader
	ids     []string
	pending []string
	line    int64
	done    bool
}

func (it *csvIterator) Next(ctx context.Context) (*dataset.Row, bool, error) {
	if it.done {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	rec := it.pending
	it.pending = nil
	if rec == nil {
		var err error
		rec, err = it.r.Read()
		if errors.Is(err, io.EOF) {
			it.done = true
			return nil, false, nil
		}
		if err != nil {
			it.done = true
			return nil, false, apperrors.Parse("csv", err)
		}
	}
	it.line++
	row := dataset.NewRow(nil).SetTdpID(it.line)
	for i, v := range rec {
		if i < len(it.ids) {
			row.Set(it.ids[i], v)
		}
	}
	return row, true, nil
}

func (it *csvIterator) Close() error { return nil }
