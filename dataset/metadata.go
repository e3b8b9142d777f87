package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
)

// generation is the process-wide metadata version source.
var generation atomic.Uint64

func nextGeneration() uint64 { return generation.Add(1) }

// Statistics holds per-column quality figures computed by an analyzer.
type Statistics struct {
	Count     int64 `json:"count"`
	Valid     int64 `json:"valid"`
	Empty     int64 `json:"empty"`
	Invalid   int64 `json:"invalid"`
	MinLength int   `json:"minLength"`
	MaxLength int   `json:"maxLength"`
}

// ColumnMetadata describes a single column.
type ColumnMetadata struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       Type        `json:"type"`
	Domain     string      `json:"domain,omitempty"`
	Size       int         `json:"size,omitempty"`
	Statistics *Statistics `json:"statistics,omitempty"`
}

func (c ColumnMetadata) clone() ColumnMetadata {
	if c.Statistics != nil {
		s := *c.Statistics
		c.Statistics = &s
	}
	return c
}

func (c ColumnMetadata) equal(o ColumnMetadata) bool {
	if c.ID != o.ID || c.Name != o.Name || c.Type != o.Type || c.Domain != o.Domain || c.Size != o.Size {
		return false
	}
	if (c.Statistics == nil) != (o.Statistics == nil) {
		return false
	}
	return c.Statistics == nil || *c.Statistics == *o.Statistics
}

// RowMetadata is the ordered column set accompanying rows. Column ids are
// unique within one instance and insertion order is display order.
//
// RowMetadata is not safe for concurrent mutation.
type RowMetadata struct {
	columns []*ColumnMetadata
	version uint64
	nextID  int
}

// NewRowMetadata creates metadata holding the given columns in order.
func NewRowMetadata(columns ...ColumnMetadata) *RowMetadata {
	md := &RowMetadata{version: nextGeneration()}
	for _, c := range columns {
		md.add(c)
	}
	return md
}

// Version returns the generation stamped by the last mutation, 0 for nil.
func (m *RowMetadata) Version() uint64 {
	if m == nil {
		return 0
	}
	return m.version
}

func (m *RowMetadata) touch() { m.version = nextGeneration() }

// Size returns the number of columns.
func (m *RowMetadata) Size() int { return len(m.columns) }

// Columns returns a copy of the columns in display order.
func (m *RowMetadata) Columns() []ColumnMetadata {
	out := make([]ColumnMetadata, len(m.columns))
	for i, c := range m.columns {
		out[i] = c.clone()
	}
	return out
}

// IDs returns the column ids in display order.
func (m *RowMetadata) IDs() []string {
	out := make([]string, len(m.columns))
	for i, c := range m.columns {
		out[i] = c.ID
	}
	return out
}

// Column returns a copy of the column with the given id.
func (m *RowMetadata) Column(id string) (ColumnMetadata, bool) {
	if i := m.index(id); i >= 0 {
		return m.columns[i].clone(), true
	}
	return ColumnMetadata{}, false
}

// ColumnByName returns a copy of the first column with the given name.
func (m *RowMetadata) ColumnByName(name string) (ColumnMetadata, bool) {
	for _, c := range m.columns {
		if c.Name == name {
			return c.clone(), true
		}
	}
	return ColumnMetadata{}, false
}

// AddColumn appends a column and returns its id. An empty or already used
// id is replaced by the next free sequence id.
func (m *RowMetadata) AddColumn(col ColumnMetadata) string {
	id := m.add(col)
	m.touch()
	return id
}

// InsertAfter inserts a column right after the column afterID and returns
// the new id. An unknown afterID appends at the end.
func (m *RowMetadata) InsertAfter(afterID string, col ColumnMetadata) string {
	id := m.add(col)
	if pos := m.index(afterID); pos >= 0 && pos < len(m.columns)-2 {
		last := m.columns[len(m.columns)-1]
		copy(m.columns[pos+2:], m.columns[pos+1:len(m.columns)-1])
		m.columns[pos+1] = last
	}
	m.touch()
	return id
}

// Rename changes the display name of a column.
func (m *RowMetadata) Rename(id, name string) bool {
	return m.update(id, func(c *ColumnMetadata) { c.Name = name })
}

// SetType changes the semantic type of a column.
func (m *RowMetadata) SetType(id string, t Type) bool {
	return m.update(id, func(c *ColumnMetadata) { c.Type = t })
}

// SetDomain changes the semantic domain of a column.
func (m *RowMetadata) SetDomain(id, domain string) bool {
	return m.update(id, func(c *ColumnMetadata) { c.Domain = domain })
}

// SetStatistics replaces the statistics of a column.
func (m *RowMetadata) SetStatistics(id string, s Statistics) bool {
	return m.update(id, func(c *ColumnMetadata) { c.Statistics = &s })
}

// DeleteColumn removes a column.
func (m *RowMetadata) DeleteColumn(id string) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.columns = append(m.columns[:i], m.columns[i+1:]...)
	m.touch()
	return true
}

// Clone returns an independent copy with the same version.
func (m *RowMetadata) Clone() *RowMetadata {
	c := &RowMetadata{
		columns: make([]*ColumnMetadata, len(m.columns)),
		version: m.version,
		nextID:  m.nextID,
	}
	for i, col := range m.columns {
		cc := col.clone()
		c.columns[i] = &cc
	}
	return c
}

// Equal reports whether both instances describe the same columns.
// Versions are not compared.
func (m *RowMetadata) Equal(o *RowMetadata) bool {
	if m == nil || o == nil {
		return m == o
	}
	if len(m.columns) != len(o.columns) {
		return false
	}
	for i := range m.columns {
		if !m.columns[i].equal(*o.columns[i]) {
			return false
		}
	}
	return true
}

type rowMetadataJSON struct {
	Columns []ColumnMetadata `json:"columns"`
}

// MarshalJSON encodes the metadata as {"columns":[...]}.
func (m *RowMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(rowMetadataJSON{Columns: m.Columns()})
}

// UnmarshalJSON decodes {"columns":[...]} and stamps a fresh version.
func (m *RowMetadata) UnmarshalJSON(data []byte) error {
	var v rowMetadataJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode row metadata: %w", err)
	}
	*m = *NewRowMetadata(v.Columns...)
	return nil
}

func (m *RowMetadata) index(id string) int {
	for i, c := range m.columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (m *RowMetadata) update(id string, fn func(*ColumnMetadata)) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	fn(m.columns[i])
	m.touch()
	return true
}

func (m *RowMetadata) add(col ColumnMetadata) string {
	col = col.clone()
	if col.ID == "" || m.index(col.ID) >= 0 {
		col.ID = fmt.Sprintf("%04d", m.nextID)
		m.nextID++
	} else if n, err := strconv.Atoi(col.ID); err == nil && n >= m.nextID {
		m.nextID = n + 1
	}
	if col.Type == "" {
		col.Type = TypeString
	}
	m.columns = append(m.columns, &col)
	return col.ID
}
