package builtin

import (
	"strings"
	"time"

	"github.com/kbukum/dataprep/action"
	"github.com/kbukum/dataprep/dataset"
)

const (
	ChangeDatePatternName = "change_date_pattern"

	FromPatternParam = "from_pattern"
	NewPatternParam  = "new_pattern"

	layoutsResource = "layouts"
)

// ChangeDatePattern reformats the dates of the target column. Patterns use
// the yyyy/MM/dd/HH/mm/ss notation. Cells not matching from_pattern are left
// unchanged.
type ChangeDatePattern struct{}

var (
	_ action.Action   = (*ChangeDatePattern)(nil)
	_ action.Compiler = (*ChangeDatePattern)(nil)
)

func (ChangeDatePattern) Name() string     { return ChangeDatePatternName }
func (ChangeDatePattern) Category() string { return action.CategoryDates }

func (ChangeDatePattern) AcceptColumn(col dataset.ColumnMetadata) bool {
	return col.Type == dataset.TypeDate || textColumn(col)
}

func (ChangeDatePattern) Parameters() []action.Parameter {
	return action.WithImplicit(
		action.Parameter{Name: FromPatternParam, Type: action.ParamString, Default: "yyyy-MM-dd"},
		action.Parameter{Name: NewPatternParam, Type: action.ParamString, Default: "dd/MM/yyyy"},
	)
}

type layouts struct {
	from string
	to   string
}

// Compile translates both patterns once and marks the column as a date.
func (ChangeDatePattern) Compile(ac *action.Context) {
	if ac.Parameter(NewPatternParam) == "" {
		ac.Cancel()
		return
	}
	action.Resource(ac, layoutsResource, func() layouts { return compileLayouts(ac) })
	if md := ac.RowMetadata(); md != nil {
		if col, ok := md.Column(ac.ColumnID()); ok && col.Type != dataset.TypeDate {
			md.SetType(col.ID, dataset.TypeDate)
		}
	}
}

func (ChangeDatePattern) Apply(row *dataset.Row, ac *action.Context) *dataset.Row {
	l := action.Resource(ac, layoutsResource, func() layouts { return compileLayouts(ac) })
	return mapCell(row, ac, func(v string) string {
		t, err := time.Parse(l.from, strings.TrimSpace(v))
		if err != nil {
			return v
		}
		return t.Format(l.to)
	})
}

func compileLayouts(ac *action.Context) layouts {
	from := ac.Parameter(FromPatternParam)
	if from == "" {
		from = "yyyy-MM-dd"
	}
	return layouts{from: ToLayout(from), to: ToLayout(ac.Parameter(NewPatternParam))}
}

var patternTokens = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MMMM", "January",
	"MMM", "Jan",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"hh", "03",
	"mm", "04",
	"ss", "05",
	"SSS", "000",
	"a", "PM",
)

// ToLayout converts a yyyy-MM-dd style pattern into a Go time layout.
func ToLayout(pattern string) string {
	return patternTokens.Replace(pattern)
}
