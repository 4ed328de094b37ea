package fs

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Directive types
type DirectiveType int

const (
	DirName DirectiveType = iota
	DirExt
	DirSize
	DirModified
	DirKind
)

// Comparison operators for size/date
type Operator int

const (
	OpEquals Operator = iota
	OpGreater
	OpLess
	OpGreaterEq
	OpLessEq
)

// Directive is one term of a filter expression.
type Directive struct {
	Type     DirectiveType
	Value    string
	Operator Operator
	Bytes    uint64    // size:
	Time     time.Time // modified:
}

// Filter selects listing entries. All directives must match.
type Filter struct {
	Directives []Directive
	Raw        string
}

// ParseFilter parses a space-separated filter expression:
//   - "report" or "name:rep*" matches names (substring, or glob with *)
//   - "ext:csv" matches the extension, case-insensitively
//   - "size:>1MB" compares file sizes; units follow humanize ("1 MiB", "10kB")
//   - "modified:>=2024-01-01" compares modification dates; also today, yesterday, week, month, year
//   - "kind:dir" or "kind:file"
//
// Quoted values may contain spaces.
func ParseFilter(input string) (*Filter, error) {
	f := &Filter{Raw: input}
	for _, part := range splitRespectingQuotes(strings.TrimSpace(input)) {
		d, err := parseDirective(part)
		if err != nil {
			return nil, err
		}
		f.Directives = append(f.Directives, d)
	}
	return f, nil
}

func splitRespectingQuotes(s string) []string {
	var parts []string
	var current strings.Builder
	quote := rune(0)

	for _, r := range s {
		switch {
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case r == quote:
			quote = 0
		case quote == 0 && r == ' ':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func parseDirective(s string) (Directive, error) {
	idx := strings.Index(s, ":")
	if idx <= 0 {
		return Directive{Type: DirName, Value: strings.ToLower(s)}, nil
	}
	key, value := strings.ToLower(s[:idx]), s[idx+1:]

	switch key {
	case "name", "filename":
		return Directive{Type: DirName, Value: strings.ToLower(value)}, nil

	case "ext", "extension":
		value = strings.ToLower(value)
		if !strings.HasPrefix(value, ".") {
			value = "." + value
		}
		return Directive{Type: DirExt, Value: value}, nil

	case "size":
		op, num := parseOperator(value)
		n, err := humanize.ParseBytes(num)
		if err != nil {
			return Directive{}, fmt.Errorf("size %q: %w", value, err)
		}
		return Directive{Type: DirSize, Value: value, Operator: op, Bytes: n}, nil

	case "modified", "mtime":
		op, date := parseOperator(value)
		t, ok := parseDate(date, time.Now())
		if !ok {
			return Directive{}, fmt.Errorf("modified %q: unrecognised date", value)
		}
		return Directive{Type: DirModified, Value: value, Operator: op, Time: t}, nil

	case "kind", "type":
		value = strings.ToLower(value)
		if value != "dir" && value != "file" {
			return Directive{}, fmt.Errorf("kind %q: want dir or file", value)
		}
		return Directive{Type: DirKind, Value: value}, nil
	}

	// C:\path and unknown keys are plain name terms
	return Directive{Type: DirName, Value: strings.ToLower(s)}, nil
}

func parseOperator(s string) (Operator, string) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, ">="):
		return OpGreaterEq, strings.TrimSpace(s[2:])
	case strings.HasPrefix(s, "<="):
		return OpLessEq, strings.TrimSpace(s[2:])
	case strings.HasPrefix(s, ">"):
		return OpGreater, strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "<"):
		return OpLess, strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "="):
		return OpEquals, strings.TrimSpace(s[1:])
	default:
		return OpEquals, s
	}
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
}

func parseDate(s string, now time.Time) (time.Time, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	midnight := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}

	switch s {
	case "today":
		return midnight(now), true
	case "yesterday":
		return midnight(now.AddDate(0, 0, -1)), true
	case "week":
		return now.AddDate(0, 0, -7), true
	case "month":
		return now.AddDate(0, -1, 0), true
	case "year":
		return now.AddDate(-1, 0, 0), true
	}

	for _, layout := range dateFormats {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsEmpty reports whether the filter matches everything.
func (f *Filter) IsEmpty() bool {
	return f == nil || len(f.Directives) == 0
}

// Match reports whether e satisfies every directive.
func (f *Filter) Match(e Entry) bool {
	if f.IsEmpty() {
		return true
	}
	for _, d := range f.Directives {
		if !d.match(e) {
			return false
		}
	}
	return true
}

// Apply returns the entries that match, preserving order.
func (f *Filter) Apply(entries []Entry) []Entry {
	if f.IsEmpty() {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

func (d Directive) match(e Entry) bool {
	switch d.Type {
	case DirName:
		return matchGlob(strings.ToLower(e.Name), d.Value)
	case DirExt:
		if e.IsDir {
			return false
		}
		i := strings.LastIndexByte(e.Name, '.')
		return i >= 0 && strings.ToLower(e.Name[i:]) == d.Value
	case DirSize:
		if e.IsDir {
			return false
		}
		return compare(uint64(max(e.Size, 0)), d.Bytes, d.Operator)
	case DirModified:
		if d.Operator == OpEquals {
			vy, vm, vd := e.ModTime.Date()
			ty, tm, td := d.Time.Date()
			return vy == ty && vm == tm && vd == td
		}
		return compare(e.ModTime.UnixNano(), d.Time.UnixNano(), d.Operator)
	case DirKind:
		return e.IsDir == (d.Value == "dir")
	}
	return true
}

// matchGlob does substring matching, or glob matching with * wildcards.
func matchGlob(name, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return strings.Contains(name, pattern)
	}

	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	last := parts[len(parts)-1]
	if len(name)-len(parts[0]) < len(last) || !strings.HasSuffix(name, last) {
		return false
	}

	pos := len(parts[0])
	end := len(name) - len(last)
	for _, part := range parts[1 : len(parts)-1] {
		idx := strings.Index(name[pos:end], part)
		if idx < 0 {
			return false
		}
		pos += idx + len(part)
	}
	return true
}

func compare[T int64 | uint64](val, target T, op Operator) bool {
	switch op {
	case OpGreater:
		return val > target
	case OpLess:
		return val < target
	case OpGreaterEq:
		return val >= target
	case OpLessEq:
		return val <= target
	default:
		return val == target
	}
}
