package pipeline

import (
	"github.com/kbukum/dataprep/dataset"
)

// Collector is a sink keeping every row, the last metadata and every signal
// it receives.
type Collector struct {
	TerminalNode
	rows    []*dataset.Row
	md      *dataset.RowMetadata
	signals []Signal
}

// NewCollector creates an empty collector.
func NewCollector() *Collector { return &Collector{} }

// Receive implements Node.
func (c *Collector) Receive(row *dataset.Row, md *dataset.RowMetadata) error {
	c.rows = append(c.rows, row)
	c.md = md
	return nil
}

// Signal implements Node.
func (c *Collector) Signal(sig Signal) error {
	c.signals = append(c.signals, sig)
	return nil
}

// Count returns the number of received rows.
func (c *Collector) Count() int { return len(c.rows) }

// Rows returns the received rows in order.
func (c *Collector) Rows() []*dataset.Row { return c.rows }

// LastRow returns the last received row, nil when none.
func (c *Collector) LastRow() *dataset.Row {
	if len(c.rows) == 0 {
		return nil
	}
	return c.rows[len(c.rows)-1]
}

// Metadata returns the metadata of the last received row.
func (c *Collector) Metadata() *dataset.RowMetadata { return c.md }

// Signals returns the received signals in order.
func (c *Collector) Signals() []Signal { return c.signals }

// LastSignal returns the last received signal and whether there was one.
func (c *Collector) LastSignal() (Signal, bool) {
	if len(c.signals) == 0 {
		return 0, false
	}
	return c.signals[len(c.signals)-1], true
}

var _ Node = (*Collector)(nil)
