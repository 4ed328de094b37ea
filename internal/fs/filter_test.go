package fs

import (
	"testing"
	"time"
)

func TestParseFilter_Empty(t *testing.T) {
	f, err := ParseFilter("   ")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if !f.IsEmpty() {
		t.Errorf("expected empty filter, got %d directives", len(f.Directives))
	}
	if !f.Match(Entry{Name: "anything"}) {
		t.Error("empty filter should match everything")
	}
}

func TestParseFilter_Directives(t *testing.T) {
	testCases := []struct {
		input    string
		typ      DirectiveType
		value    string
		operator Operator
	}{
		{"report", DirName, "report", OpEquals},
		{"name:Rep*", DirName, "rep*", OpEquals},
		{"ext:CSV", DirExt, ".csv", OpEquals},
		{"extension:.md", DirExt, ".md", OpEquals},
		{"size:>1MB", DirSize, ">1MB", OpGreater},
		{"size:<=10kB", DirSize, "<=10kB", OpLessEq},
		{"modified:>=2024-01-01", DirModified, ">=2024-01-01", OpGreaterEq},
		{"kind:dir", DirKind, "dir", OpEquals},
		{`C:\Users`, DirName, `c:\users`, OpEquals},
	}

	for _, tc := range testCases {
		f, err := ParseFilter(tc.input)
		if err != nil {
			t.Fatalf("input %q: %v", tc.input, err)
		}
		if len(f.Directives) != 1 {
			t.Fatalf("input %q: expected 1 directive, got %d", tc.input, len(f.Directives))
		}
		d := f.Directives[0]
		if d.Type != tc.typ || d.Value != tc.value || d.Operator != tc.operator {
			t.Errorf("input %q: got %+v", tc.input, d)
		}
	}
}

func TestParseFilter_Sizes(t *testing.T) {
	testCases := []struct {
		input    string
		expected uint64
	}{
		{"size:100", 100},
		{"size:>1MB", 1000 * 1000},
		{"size:>1MiB", 1024 * 1024},
		{"size:2kB", 2000},
	}
	for _, tc := range testCases {
		f, err := ParseFilter(tc.input)
		if err != nil {
			t.Fatalf("input %q: %v", tc.input, err)
		}
		if got := f.Directives[0].Bytes; got != tc.expected {
			t.Errorf("input %q: expected %d bytes, got %d", tc.input, tc.expected, got)
		}
	}
}

func TestParseFilter_Errors(t *testing.T) {
	for _, input := range []string{"size:>lots", "modified:someday", "kind:socket"} {
		if _, err := ParseFilter(input); err == nil {
			t.Errorf("input %q: expected an error", input)
		}
	}
}

func TestParseFilter_Quotes(t *testing.T) {
	f, err := ParseFilter(`"annual report" ext:pdf`)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Directives) != 2 {
		t.Fatalf("expected 2 directives, got %d", len(f.Directives))
	}
	if f.Directives[0].Value != "annual report" {
		t.Errorf("quoted term not kept together: %q", f.Directives[0].Value)
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
	testCases := []struct {
		input    string
		expected time.Time
	}{
		{"today", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"yesterday", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"week", now.AddDate(0, 0, -7)},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2024/01/02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2024-06", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range testCases {
		got, ok := parseDate(tc.input, now)
		if !ok || !got.Equal(tc.expected) {
			t.Errorf("parseDate(%q): expected %v, got %v (ok=%v)", tc.input, tc.expected, got, ok)
		}
	}
	if _, ok := parseDate("soon", now); ok {
		t.Error("expected parseDate to reject an unknown word")
	}
}

func TestMatchGlob(t *testing.T) {
	testCases := []struct {
		name, pattern string
		expected      bool
	}{
		{"report.csv", "port", true},
		{"report.csv", "rep*", true},
		{"report.csv", "*.csv", true},
		{"report.csv", "r*t.c*", true},
		{"report.csv", "*.md", false},
		{"ab", "a*b*b", false},
		{"abb", "a*b*b", true},
	}
	for _, tc := range testCases {
		if got := matchGlob(tc.name, tc.pattern); got != tc.expected {
			t.Errorf("matchGlob(%q, %q): expected %v, got %v", tc.name, tc.pattern, tc.expected, got)
		}
	}
}

func TestFilterApply(t *testing.T) {
	jan := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
	jun := time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)
	entries := []Entry{
		{Name: "big.csv", Size: 5 << 20, ModTime: jun},
		{Name: "small.CSV", Size: 10, ModTime: jan},
		{Name: "notes.md", Size: 2 << 20, ModTime: jun},
		{Name: "data.csv", IsDir: true, ModTime: jun},
	}

	testCases := []struct {
		expr     string
		expected []string
	}{
		{"ext:csv", []string{"big.csv", "small.CSV"}},
		{"ext:csv size:>1MB", []string{"big.csv"}},
		{"modified:>2024-03-01", []string{"big.csv", "notes.md", "data.csv"}},
		{"modified:2024-01-10", []string{"small.CSV"}},
		{"kind:dir", []string{"data.csv"}},
		{"kind:file *.csv", []string{"big.csv", "small.CSV"}},
		{"", []string{"big.csv", "small.CSV", "notes.md", "data.csv"}},
	}

	for _, tc := range testCases {
		f, err := ParseFilter(tc.expr)
		if err != nil {
			t.Fatalf("%q: %v", tc.expr, err)
		}
		got := f.Apply(entries)
		if len(got) != len(tc.expected) {
			t.Errorf("%q: expected %v, got %v", tc.expr, tc.expected, got)
			continue
		}
		for i := range got {
			if got[i].Name != tc.expected[i] {
				t.Errorf("%q: expected %v at %d, got %q", tc.expr, tc.expected[i], i, got[i].Name)
			}
		}
	}
}
