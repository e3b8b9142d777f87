package analysis

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kbukum/dataprep/dataset"
)

// dateLayouts are tried in order when validating date cells.
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
}

// QualityAnalyzer counts valid, empty and invalid cells per column according
// to the declared column type, and tracks value lengths.
type QualityAnalyzer struct {
	columns []dataset.ColumnMetadata
	stats   []dataset.Statistics
}

// NewQualityAnalyzer is a Factory returning a QualityAnalyzer.
func NewQualityAnalyzer(columns []dataset.ColumnMetadata) Analyzer {
	return &QualityAnalyzer{
		columns: columns,
		stats:   make([]dataset.Statistics, len(columns)),
	}
}

// Analyze implements Analyzer. Missing trailing values count as empty.
func (q *QualityAnalyzer) Analyze(values ...string) {
	for i := range q.columns {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		s := &q.stats[i]
		s.Count++
		if strings.TrimSpace(v) == "" {
			s.Empty++
			continue
		}
		n := utf8.RuneCountInString(v)
		if s.Valid+s.Invalid == 0 || n < s.MinLength {
			s.MinLength = n
		}
		if n > s.MaxLength {
			s.MaxLength = n
		}
		if IsValid(q.columns[i].Type, v) {
			s.Valid++
		} else {
			s.Invalid++
		}
	}
}

// Result implements Analyzer.
func (q *QualityAnalyzer) Result() []dataset.Statistics {
	out := make([]dataset.Statistics, len(q.stats))
	copy(out, q.stats)
	return out
}

// Close implements Analyzer.
func (q *QualityAnalyzer) Close() error { return nil }

// IsValid reports whether v is a valid value of type t.
func IsValid(t dataset.Type, v string) bool {
	v = strings.TrimSpace(v)
	switch t {
	case dataset.TypeInteger:
		_, err := strconv.ParseInt(v, 10, 64)
		return err == nil
	case dataset.TypeDouble:
		_, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
		return err == nil
	case dataset.TypeBoolean:
		_, err := strconv.ParseBool(v)
		return err == nil
	case dataset.TypeDate:
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, v); err == nil {
				return true
			}
		}
		return false
	default:
		return true
	}
}
