package dataset

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample() *RowMetadata {
	return NewRowMetadata(
		ColumnMetadata{Name: "id", Type: TypeInteger},
		ColumnMetadata{Name: "firstname"},
		ColumnMetadata{Name: "lastname"},
	)
}

func TestRowMetadata_AssignsSequenceIDs(t *testing.T) {
	md := sample()
	if diff := cmp.Diff([]string{"0000", "0001", "0002"}, md.IDs()); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	col, ok := md.Column("0001")
	if !ok || col.Name != "firstname" || col.Type != TypeString {
		t.Fatalf("expected firstname/string, got %+v", col)
	}
}

func TestRowMetadata_DuplicateIDIsReplaced(t *testing.T) {
	md := NewRowMetadata(ColumnMetadata{ID: "0005", Name: "a"})
	id := md.AddColumn(ColumnMetadata{ID: "0005", Name: "b"})
	if id != "0006" {
		t.Fatalf("expected next free id 0006, got %s", id)
	}
	if md.Size() != 2 {
		t.Fatalf("expected 2 columns, got %d", md.Size())
	}
}

func TestRowMetadata_InsertAfter(t *testing.T) {
	tests := []struct {
		name  string
		after string
		want  []string
	}{
		{"first", "0000", []string{"id", "new", "firstname", "lastname"}},
		{"middle", "0001", []string{"id", "firstname", "new", "lastname"}},
		{"last", "0002", []string{"id", "firstname", "lastname", "new"}},
		{"unknown appends", "9999", []string{"id", "firstname", "lastname", "new"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			md := sample()
			id := md.InsertAfter(tc.after, ColumnMetadata{Name: "new"})
			if id != "0003" {
				t.Errorf("expected id 0003, got %s", id)
			}
			var names []string
			for _, c := range md.Columns() {
				names = append(names, c.Name)
			}
			if diff := cmp.Diff(tc.want, names); diff != "" {
				t.Errorf("unexpected order (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRowMetadata_VersionBumpsOnEveryMutation(t *testing.T) {
	md := sample()
	mutations := []struct {
		name string
		fn   func()
	}{
		{"add", func() { md.AddColumn(ColumnMetadata{Name: "x"}) }},
		{"rename", func() { md.Rename("0000", "identifier") }},
		{"type", func() { md.SetType("0001", TypeDate) }},
		{"domain", func() { md.SetDomain("0001", "FIRST_NAME") }},
		{"statistics", func() { md.SetStatistics("0001", Statistics{Count: 1}) }},
		{"delete", func() { md.DeleteColumn("0002") }},
	}
	for _, m := range mutations {
		before := md.Version()
		m.fn()
		if md.Version() <= before {
			t.Errorf("%s: expected version > %d, got %d", m.name, before, md.Version())
		}
	}
}

func TestRowMetadata_MissingColumnMutationsAreNoops(t *testing.T) {
	md := sample()
	v := md.Version()
	if md.Rename("nope", "x") || md.DeleteColumn("nope") {
		t.Fatal("expected mutations of unknown columns to report false")
	}
	if md.Version() != v {
		t.Error("expected version to stay unchanged")
	}
}

func TestRowMetadata_CloneIsIndependent(t *testing.T) {
	md := sample()
	md.SetStatistics("0000", Statistics{Valid: 3})
	c := md.Clone()

	if c.Version() != md.Version() {
		t.Errorf("expected clone to keep version %d, got %d", md.Version(), c.Version())
	}
	if !c.Equal(md) {
		t.Fatal("expected clone to equal source")
	}

	c.Rename("0001", "changed")
	c.SetStatistics("0000", Statistics{Valid: 9})
	c.AddColumn(ColumnMetadata{Name: "extra"})

	if col, _ := md.Column("0001"); col.Name != "firstname" {
		t.Errorf("source observed clone rename: %s", col.Name)
	}
	if col, _ := md.Column("0000"); col.Statistics.Valid != 3 {
		t.Errorf("source observed clone statistics: %d", col.Statistics.Valid)
	}
	if md.Size() != 3 {
		t.Errorf("source observed clone add: %d columns", md.Size())
	}
	if c.Equal(md) {
		t.Error("expected diverged clone to differ")
	}
}

func TestRowMetadata_ColumnsReturnsCopies(t *testing.T) {
	md := sample()
	cols := md.Columns()
	cols[0].Name = "mutated"
	if col, _ := md.Column("0000"); col.Name != "id" {
		t.Errorf("expected Columns() to return copies, got %s", col.Name)
	}
}

func TestRowMetadata_JSON(t *testing.T) {
	md := sample()
	data, err := json.Marshal(md)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"columns":[{"id":"0000","name":"id","type":"integer"},{"id":"0001","name":"firstname","type":"string"},{"id":"0002","name":"lastname","type":"string"}]}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}

	var back RowMetadata
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(md) {
		t.Error("expected decoded metadata to equal source")
	}
	if id := back.AddColumn(ColumnMetadata{Name: "next"}); id != "0003" {
		t.Errorf("expected decoded metadata to continue ids at 0003, got %s", id)
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]Type{
		"INTEGER": TypeInteger,
		" float ": TypeDouble,
		"bool":    TypeBoolean,
		"date":    TypeDate,
		"weird":   TypeString,
	}
	for in, want := range tests {
		if got := ParseType(in); got != want {
			t.Errorf("ParseType(%q) = %s, want %s", in, got, want)
		}
	}
	if !TypeDouble.IsNumeric() || TypeDate.IsNumeric() {
		t.Error("unexpected IsNumeric result")
	}
}
