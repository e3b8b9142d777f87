package pipeline

import (
	"github.com/kbukum/dataprep/analysis"
	"github.com/kbukum/dataprep/dataset"
	"github.com/kbukum/dataprep/logger"
)

// DelayedAnalysisNode holds rows back until the end of the stream, analyzes
// them, merges the statistics into the metadata and then replays the rows
// downstream with that metadata.
type DelayedAnalysisNode struct {
	BasicNode
	factory analysis.Factory
	filter  analysis.Filter
	adapter analysis.Adapter
	rows    []*dataset.Row
	md      *dataset.RowMetadata
	log     *logger.Logger
}

// NewDelayedAnalysisNode creates the node. A nil filter analyzes every column
// and a nil adapter uses analysis.StatisticsAdapter.
func NewDelayedAnalysisNode(factory analysis.Factory, filter analysis.Filter, adapter analysis.Adapter) *DelayedAnalysisNode {
	if filter == nil {
		filter = analysis.All
	}
	if adapter == nil {
		adapter = analysis.StatisticsAdapter{}
	}
	return &DelayedAnalysisNode{
		factory: factory,
		filter:  filter,
		adapter: adapter,
		log:     logger.Get("pipeline"),
	}
}

// Buffered returns the number of rows held back.
func (n *DelayedAnalysisNode) Buffered() int { return len(n.rows) }

// Receive implements Node.
func (n *DelayedAnalysisNode) Receive(row *dataset.Row, md *dataset.RowMetadata) error {
	n.rows = append(n.rows, row.Clone())
	n.md = md
	return nil
}

// Signal implements Node.
func (n *DelayedAnalysisNode) Signal(sig Signal) error {
	switch sig {
	case EndOfStream:
		if err := n.flush(); err != nil {
			return err
		}
	case Cancel:
		n.rows = nil
	}
	return n.Link().Signal(sig)
}

func (n *DelayedAnalysisNode) flush() error {
	rows, md := n.rows, n.md
	n.rows = nil
	if md == nil {
		return nil
	}
	n.analyze(rows, md)
	for _, row := range rows {
		if err := n.Link().Emit(row, md); err != nil {
			return err
		}
	}
	return nil
}

func (n *DelayedAnalysisNode) analyze(rows []*dataset.Row, md *dataset.RowMetadata) {
	var columns []dataset.ColumnMetadata
	for _, col := range md.Columns() {
		if n.filter(col) {
			columns = append(columns, col)
		}
	}
	if len(columns) == 0 || n.factory == nil {
		return
	}
	a := n.factory(columns)
	defer a.Close()

	values := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			values[i] = row.Get(col.ID)
		}
		a.Analyze(values...)
	}
	n.adapter.Adapt(md, columns, a.Result())
	n.log.Debug("delayed analysis done", logger.Fields(logger.FieldRows, len(rows), "columns", len(columns)))
}

var _ Node = (*DelayedAnalysisNode)(nil)
