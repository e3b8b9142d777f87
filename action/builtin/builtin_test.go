package builtin

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/dataprep/action"
	"github.com/kbukum/dataprep/dataset"
)

func newMetadata() *dataset.RowMetadata {
	return dataset.NewRowMetadata(
		dataset.ColumnMetadata{Name: "id", Type: dataset.TypeInteger},
		dataset.ColumnMetadata{Name: "name"},
		dataset.ColumnMetadata{Name: "birth"},
	)
}

// run compiles a with params against md and applies it to row.
func run(t *testing.T, a action.Action, params map[string]string, md *dataset.RowMetadata, row *dataset.Row) (*dataset.Row, *action.Context) {
	t.Helper()
	ac := action.NewContext(params)
	ac.SetRowMetadata(md)
	action.Compile(a, ac)
	if ac.IsCanceled() {
		return row, ac
	}
	return a.Apply(row, ac), ac
}

func TestRegistry_HoldsEveryBuiltin(t *testing.T) {
	want := []string{
		ChangeDatePatternName, ComputeLengthName, CopyName, DeleteEmptyName,
		FillEmptyName, LowerCaseName, RenameName, TrimName, UpperCaseName,
	}
	reg := NewRegistry()
	if diff := cmp.Diff(want, reg.List()); diff != "" {
		t.Fatalf("unexpected actions (-want +got):\n%s", diff)
	}
	for _, d := range reg.Describe() {
		if len(d.Parameters) < len(action.ImplicitParameters()) {
			t.Errorf("%s: expected implicit parameters, got %v", d.Name, d.Parameters)
		}
	}
	if err := RegisterAll(reg); err == nil {
		t.Error("expected registering twice to fail")
	}
}

func TestStringActions(t *testing.T) {
	tests := []struct {
		action action.Action
		params map[string]string
		in     string
		want   string
	}{
		{&UpperCase{}, nil, "John Doe", "JOHN DOE"},
		{&LowerCase{}, nil, "John Doe", "john doe"},
		{&Trim{}, nil, "  john  ", "john"},
		{&Trim{}, map[string]string{"padding_character": "*"}, "**john*", "john"},
	}
	for _, tc := range tests {
		t.Run(tc.action.Name(), func(t *testing.T) {
			params := map[string]string{action.ParamColumnID: "0001"}
			for k, v := range tc.params {
				params[k] = v
			}
			row := dataset.NewRow(map[string]string{"0001": tc.in})
			got, _ := run(t, tc.action, params, newMetadata(), row)
			if got.Get("0001") != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got.Get("0001"))
			}
		})
	}
}

func TestUpperCase_RejectsNumericColumn(t *testing.T) {
	row := dataset.NewRow(map[string]string{"0000": "abc"})
	got, ac := run(t, &UpperCase{}, map[string]string{action.ParamColumnID: "0000"}, newMetadata(), row)
	if !ac.IsCanceled() {
		t.Fatal("expected uppercase on an integer column to cancel")
	}
	if got.Get("0000") != "abc" {
		t.Errorf("expected row unchanged, got %q", got.Get("0000"))
	}
}

func TestRename(t *testing.T) {
	md := newMetadata()
	_, ac := run(t, &Rename{}, map[string]string{action.ParamColumnID: "0001", NewColumnNameParam: "firstname"}, md, dataset.NewRow(nil))
	if ac.IsCanceled() {
		t.Fatal("unexpected cancel")
	}
	if col, _ := md.Column("0001"); col.Name != "firstname" {
		t.Errorf("expected firstname, got %s", col.Name)
	}

	_, ac = run(t, &Rename{}, map[string]string{action.ParamColumnID: "0001"}, newMetadata(), dataset.NewRow(nil))
	if !ac.IsCanceled() {
		t.Error("expected empty new name to cancel")
	}
}

func TestCopy_InsertsColumnOnce(t *testing.T) {
	md := newMetadata()
	a := &Copy{}
	ac := action.NewContext(map[string]string{action.ParamColumnID: "0001"})
	ac.SetRowMetadata(md)
	action.Compile(a, ac)

	for _, v := range []string{"john", "jane"} {
		row := a.Apply(dataset.NewRow(map[string]string{"0001": v}), ac)
		if row.Get("0003") != v {
			t.Errorf("expected copy %q, got %q", v, row.Get("0003"))
		}
	}
	var names []string
	for _, c := range md.Columns() {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"id", "name", "name_copy", "birth"}, names); diff != "" {
		t.Errorf("unexpected columns (-want +got):\n%s", diff)
	}
}

func TestComputeLength(t *testing.T) {
	md := newMetadata()
	row, _ := run(t, &ComputeLength{}, map[string]string{action.ParamColumnID: "0001"}, md, dataset.NewRow(map[string]string{"0001": "héllo"}))
	if row.Get("0003") != "5" {
		t.Errorf("expected rune count 5, got %q", row.Get("0003"))
	}
	if col, _ := md.Column("0003"); col.Type != dataset.TypeInteger || col.Name != "name_length" {
		t.Errorf("unexpected length column %+v", col)
	}
}

func TestFillEmptyAndDeleteEmpty(t *testing.T) {
	params := map[string]string{action.ParamColumnID: "0001", DefaultValueParam: "n/a"}
	row, _ := run(t, &FillEmpty{}, params, newMetadata(), dataset.NewRow(map[string]string{"0001": "  "}))
	if row.Get("0001") != "n/a" {
		t.Errorf("expected default value, got %q", row.Get("0001"))
	}

	row, _ = run(t, &DeleteEmpty{}, params, newMetadata(), dataset.NewRow(map[string]string{"0001": ""}))
	if row.ShouldWrite() {
		t.Error("expected empty row to be marked deleted")
	}
	row, _ = run(t, &DeleteEmpty{}, params, newMetadata(), dataset.NewRow(map[string]string{"0001": "x"}))
	if !row.ShouldWrite() {
		t.Error("expected non-empty row to be kept")
	}
}

func TestChangeDatePattern(t *testing.T) {
	params := map[string]string{
		action.ParamColumnID: "0002",
		FromPatternParam:     "yyyy-MM-dd",
		NewPatternParam:      "dd/MM/yyyy",
	}
	md := newMetadata()
	row, ac := run(t, &ChangeDatePattern{}, params, md, dataset.NewRow(map[string]string{"0002": "2015-09-17"}))
	if row.Get("0002") != "17/09/2015" {
		t.Errorf("expected 17/09/2015, got %q", row.Get("0002"))
	}
	if col, _ := md.Column("0002"); col.Type != dataset.TypeDate {
		t.Errorf("expected date type, got %s", col.Type)
	}

	bad := (&ChangeDatePattern{}).Apply(dataset.NewRow(map[string]string{"0002": "not a date"}), ac)
	if bad.Get("0002") != "not a date" {
		t.Errorf("expected invalid date to be left unchanged, got %q", bad.Get("0002"))
	}
}

func TestToLayout(t *testing.T) {
	tests := map[string]string{
		"yyyy-MM-dd":          "2006-01-02",
		"dd/MM/yy HH:mm:ss":   "02/01/06 15:04:05",
		"MMM dd, yyyy":        "Jan 02, 2006",
		"yyyy-MM-dd HH:mm:ss": "2006-01-02 15:04:05",
	}
	for in, want := range tests {
		if got := ToLayout(in); got != want {
			t.Errorf("ToLayout(%q) = %q, want %q", in, got, want)
		}
	}
}
