package output

import (
	"strings"
	"testing"
)

type row struct {
	Name   string
	Rating float64
	Tags   []string
}

func TestNewFormatter_SelectsByName(t *testing.T) {
	if _, ok := NewFormatter("json").(*JSONFormatter); !ok {
		t.Fatal("json did not select JSONFormatter")
	}
	if _, ok := NewFormatter("YAML").(*YAMLFormatter); !ok {
		t.Fatal("yaml did not select YAMLFormatter")
	}
	if _, ok := NewFormatter("").(*TableFormatter); !ok {
		t.Fatal("empty format did not default to TableFormatter")
	}
}

func TestTableFormatter_SliceOfStructs(t *testing.T) {
	f := &TableFormatter{}
	got := f.Format([]row{
		{Name: "Taqueria Norte", Rating: 4.5, Tags: []string{"mexican", "tacos"}},
		{Name: "Pho Palace", Rating: 4.2},
	})
	if !strings.Contains(got, "NAME") || !strings.Contains(got, "RATING") {
		t.Fatalf("missing headers:\n%s", got)
	}
	if !strings.Contains(got, "Taqueria Norte") || !strings.Contains(got, "mexican, tacos") {
		t.Fatalf("missing row data:\n%s", got)
	}
	// Empty slices render as a dash, not as [].
	if !strings.Contains(got, "-") {
		t.Fatalf("empty tags not dashed:\n%s", got)
	}
}

func TestTableFormatter_EmptySlice(t *testing.T) {
	f := &TableFormatter{}
	if got := f.Format([]row{}); got != "No results.\n" {
		t.Fatalf("Format = %q, want no-results message", got)
	}
}

func TestTableFormatter_SingleStruct(t *testing.T) {
	f := &TableFormatter{}
	got := f.Format(row{Name: "Pho Palace", Rating: 4.2})
	if !strings.Contains(got, "Name:") || !strings.Contains(got, "Pho Palace") {
		t.Fatalf("missing key/value lines:\n%s", got)
	}
}

func TestTableFormatter_MapSortedWithNesting(t *testing.T) {
	f := &TableFormatter{}
	got := f.Format(map[string]any{
		"zebra":  1,
		"apple":  "ok",
		"nested": map[string]any{"inner": "value"},
	})
	if strings.Index(got, "apple") > strings.Index(got, "zebra") {
		t.Fatalf("map keys not sorted:\n%s", got)
	}
	if !strings.Contains(got, "  inner:") {
		t.Fatalf("nested map not indented:\n%s", got)
	}
}

func TestJSONFormatter_Indents(t *testing.T) {
	f := &JSONFormatter{}
	got := f.Format(map[string]any{"a": 1})
	if !strings.Contains(got, "{\n  \"a\": 1\n}") {
		t.Fatalf("Format = %q, want indented JSON", got)
	}
}

func TestYAMLFormatter_Marshals(t *testing.T) {
	f := &YAMLFormatter{}
	got := f.Format(map[string]any{"a": 1})
	if !strings.Contains(got, "a: 1") {
		t.Fatalf("Format = %q, want YAML", got)
	}
}
