package action

import (
	"testing"

	"github.com/kbukum/dataprep/dataset"
	apperrors "github.com/kbukum/dataprep/errors"
)

type probe struct {
	compiles int
	applies  int
	accept   bool
}

func (p *probe) Name() string                             { return "probe" }
func (p *probe) Category() string                         { return CategoryStrings }
func (p *probe) AcceptColumn(dataset.ColumnMetadata) bool { return p.accept }
func (p *probe) Parameters() []Parameter                  { return ImplicitParameters() }
func (p *probe) Compile(*Context)                         { p.compiles++ }

func (p *probe) Apply(row *dataset.Row, _ *Context) *dataset.Row {
	p.applies++
	return row.Set("touched", "yes")
}

func TestCompile_SetsOK(t *testing.T) {
	p := &probe{accept: true}
	ac := NewContext(map[string]string{ParamColumnID: "0000"})
	ac.SetRowMetadata(dataset.NewRowMetadata(dataset.ColumnMetadata{Name: "a"}))
	Compile(p, ac)
	if ac.Status() != OK || p.compiles != 1 {
		t.Fatalf("expected OK after one compile, got %s / %d", ac.Status(), p.compiles)
	}
}

func TestCompile_CancelsOnRejectedOrMissingColumn(t *testing.T) {
	md := dataset.NewRowMetadata(dataset.ColumnMetadata{Name: "a"})
	tests := []struct {
		name   string
		column string
		accept bool
	}{
		{"rejected", "0000", false},
		{"missing", "0042", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &probe{accept: tc.accept}
			ac := NewContext(map[string]string{ParamColumnID: tc.column})
			ac.SetRowMetadata(md)
			Compile(p, ac)
			if !ac.IsCanceled() {
				t.Errorf("expected CANCELED, got %s", ac.Status())
			}
			if p.compiles != 0 {
				t.Errorf("expected action compile to be skipped, got %d", p.compiles)
			}
		})
	}
}

func TestCompile_DatasetScopeIgnoresColumn(t *testing.T) {
	p := &probe{accept: false}
	ac := NewContext(map[string]string{ParamColumnID: "0042", ParamScope: ScopeDataset})
	ac.SetRowMetadata(dataset.NewRowMetadata())
	Compile(p, ac)
	if ac.IsCanceled() {
		t.Error("expected dataset scope not to check the column")
	}
}

func TestScoped(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		tdpID  int64
		want   bool
	}{
		{"column scope applies everywhere", map[string]string{ParamScope: ScopeColumn}, 3, true},
		{"cell scope on matching row", map[string]string{ParamScope: ScopeCell, ParamRowID: "3"}, 3, true},
		{"cell scope on other row", map[string]string{ParamScope: ScopeCell, ParamRowID: "3"}, 4, false},
		{"line scope without row id", map[string]string{ParamScope: ScopeLine}, 3, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := Scoped(&probe{accept: true})
			row := a.Apply(dataset.NewRow(nil).SetTdpID(tc.tdpID), NewContext(tc.params))
			if row.Has("touched") != tc.want {
				t.Errorf("expected applied=%v, got %v", tc.want, row.Has("touched"))
			}
		})
	}
}

func TestScoped_ForwardsCompile(t *testing.T) {
	p := &probe{accept: true}
	a := Scoped(p)
	if Scoped(a) != a {
		t.Error("expected Scoped to be idempotent")
	}
	ac := NewContext(nil)
	ac.SetRowMetadata(dataset.NewRowMetadata())
	Compile(a, ac)
	if p.compiles != 1 {
		t.Errorf("expected compile to reach the wrapped action, got %d", p.compiles)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("probe", func() Action { return &probe{} }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := reg.Register("probe", func() Action { return &probe{} }); !apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
	if _, err := reg.New("missing"); !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}

	a1, _ := reg.New("probe")
	a2, _ := reg.New("probe")
	if a1 == a2 {
		t.Error("expected a fresh instance per New")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("expected no factory for an unregistered name")
	}
	if f, ok := reg.Get("probe"); !ok || f() == nil {
		t.Error("expected the registered factory")
	}
	if !reg.Has("probe") || len(reg.List()) != 1 {
		t.Errorf("unexpected registry content %v", reg.List())
	}
	d := reg.Describe()
	if len(d) != 1 || d[0].Category != CategoryStrings {
		t.Errorf("unexpected descriptors %+v", d)
	}
}
