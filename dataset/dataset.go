package dataset

import "context"

// RowIterator provides single forward access to the records of a dataset.
type RowIterator interface {
	// Next returns the next row. Returns (nil, false, nil) when exhausted.
	Next(ctx context.Context) (*Row, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// DataSet is the input of a pipeline execution: the initial schema plus the
// records in order.
type DataSet struct {
	Metadata *RowMetadata
	Records  RowIterator
}

// FromRows builds an in-memory dataset.
func FromRows(md *RowMetadata, rows ...*Row) *DataSet {
	return &DataSet{Metadata: md, Records: &sliceIterator{rows: rows}}
}

// Collect drains an iterator into a slice and closes it.
func Collect(ctx context.Context, it RowIterator) ([]*Row, error) {
	defer it.Close()
	var out []*Row
	for {
		row, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, row)
	}
}

type sliceIterator struct {
	rows []*Row
	pos  int
}

func (it *sliceIterator) Next(ctx context.Context) (*Row, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if it.pos >= len(it.rows) {
		return nil, false, nil
	}
	r := it.rows[it.pos]
	it.pos++
	return r, true, nil
}

func (it *sliceIterator) Close() error { return nil }

// FuncIterator adapts a pull function to a RowIterator.
type FuncIterator struct {
	NextFunc  func(ctx context.Context) (*Row, bool, error)
	CloseFunc func() error
}

// Next delegates to NextFunc.
func (f *FuncIterator) Next(ctx context.Context) (*Row, bool, error) { return f.NextFunc(ctx) }

// Close delegates to CloseFunc when set.
func (f *FuncIterator) Close() error {
	if f.CloseFunc != nil {
		return f.CloseFunc()
	}
	return nil
}
