package dataset

import "maps"

// Row is one mutable record: column id to cell value, an optional origin id
// and a deleted flag. Deleted rows keep flowing but are not written.
type Row struct {
	values  map[string]string
	tdpID   int64
	deleted bool
}

// NewRow creates a row holding a copy of values.
func NewRow(values map[string]string) *Row {
	r := &Row{values: make(map[string]string, len(values))}
	maps.Copy(r.values, values)
	return r
}

// Get returns the value of a column, or "" when unset.
func (r *Row) Get(id string) string { return r.values[id] }

// Has reports whether the column holds a value.
func (r *Row) Has(id string) bool {
	_, ok := r.values[id]
	return ok
}

// Set assigns a cell value.
func (r *Row) Set(id, value string) *Row {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	r.values[id] = value
	return r
}

// Remove drops a cell value.
func (r *Row) Remove(id string) { delete(r.values, id) }

// Values returns a copy of the cell map.
func (r *Row) Values() map[string]string { return maps.Clone(r.values) }

// Len returns the number of set cells.
func (r *Row) Len() int { return len(r.values) }

// TdpID returns the origin id of the row, 0 when unknown.
func (r *Row) TdpID() int64 { return r.tdpID }

// SetTdpID sets the origin id of the row.
func (r *Row) SetTdpID(id int64) *Row {
	r.tdpID = id
	return r
}

// IsDeleted reports whether the row was marked deleted.
func (r *Row) IsDeleted() bool { return r.deleted }

// SetDeleted marks or unmarks the row for deletion.
func (r *Row) SetDeleted(deleted bool) *Row {
	r.deleted = deleted
	return r
}

// ShouldWrite reports whether writers must emit the row.
func (r *Row) ShouldWrite() bool { return !r.deleted }

// Clone returns a copy sharing no state with r.
func (r *Row) Clone() *Row {
	return &Row{
		values:  maps.Clone(r.values),
		tdpID:   r.tdpID,
		deleted: r.deleted,
	}
}

// Equal compares content.
func (r *Row) Equal(o *Row) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.tdpID == o.tdpID && r.deleted == o.deleted && maps.Equal(r.values, o.values)
}
