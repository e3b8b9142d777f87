// Package analysis computes column statistics over buffered rows.
//
// Analyzers are built by a Factory for a fixed list of columns; every call
// to Analyze receives one record's values aligned with those columns. A
// StatisticsAdapter merges the results back into row metadata.
package analysis

import (
	"github.com/kbukum/dataprep/dataset"
)

// Analyzer accumulates statistics over records.
type Analyzer interface {
	// Analyze consumes one record, values aligned with the analyzed columns.
	Analyze(values ...string)
	// Result returns one Statistics per analyzed column.
	Result() []dataset.Statistics
	// Close releases the analyzer.
	Close() error
}

// Factory creates an analyzer for the given columns.
type Factory func(columns []dataset.ColumnMetadata) Analyzer

// Filter selects the columns worth analyzing.
type Filter func(col dataset.ColumnMetadata) bool

// All accepts every column.
func All(dataset.ColumnMetadata) bool { return true }

// Adapter merges analyzer results into metadata.
type Adapter interface {
	Adapt(md *dataset.RowMetadata, columns []dataset.ColumnMetadata, results []dataset.Statistics)
}

// StatisticsAdapter stores each result as the statistics of its column.
type StatisticsAdapter struct{}

// Adapt implements Adapter. Results without a matching column are ignored.
func (StatisticsAdapter) Adapt(md *dataset.RowMetadata, columns []dataset.ColumnMetadata, results []dataset.Statistics) {
	for i, col := range columns {
		if i >= len(results) {
			return
		}
		md.SetStatistics(col.ID, results[i])
	}
}

// NullAnalyzer ignores its input and reports empty statistics.
type NullAnalyzer struct {
	columns int
}

// NewNullAnalyzer is a Factory returning a NullAnalyzer.
func NewNullAnalyzer(columns []dataset.ColumnMetadata) Analyzer {
	return &NullAnalyzer{columns: len(columns)}
}

func (n *NullAnalyzer) Analyze(...string)            {}
func (n *NullAnalyzer) Result() []dataset.Statistics { return make([]dataset.Statistics, n.columns) }
func (n *NullAnalyzer) Close() error                 { return nil }

var (
	_ Analyzer = (*NullAnalyzer)(nil)
	_ Analyzer = (*QualityAnalyzer)(nil)
	_ Adapter  = StatisticsAdapter{}
)
