package loader

import (
	"regexp"
	"time"
)

// ============================================================================
// DATE PARSING — Embedded-timestamp extraction plus layout fallbacks
// ============================================================================
// Date cells in the wild range from clean ISO timestamps to filenames with a
// timestamp buried inside ("export_2025-03-15_14-30-00.xlsx"). The regexes
// pull the timestamp out of any surrounding text; the layout list covers the
// clean cases the regexes normalize away.
// ============================================================================

var (
	// YYYY-MM-DD separator HH sep MM sep SS, anywhere in the string. The
	// time separators accept "-" because filenames cannot carry ":".
	embeddedDatetime = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})[ _T-](\d{2})[-:](\d{2})[-:](\d{2})`)

	// Bare YYYY-MM-DD, anywhere in the string.
	embeddedDate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// Layouts tried verbatim against the whole trimmed cell.
var cellDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"2006/01/02",
}

// ParseCellDate extracts a timestamp from one cell value. Embedded matches
// win over whole-cell layouts so a filename-style value parses the same as
// a clean one.
func ParseCellDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if m := embeddedDatetime.FindStringSubmatch(s); m != nil {
		t, err := time.Parse("2006-01-02 15:04:05", m[1]+" "+m[2]+":"+m[3]+":"+m[4])
		if err == nil {
			return t, true
		}
	}
	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if m := embeddedDate.FindString(s); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDateBound parses a user-supplied range bound. Bounds are stricter
// than cells: exactly YYYY-MM-DD, nothing embedded.
func ParseDateBound(bound, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, &DateFilterError{Bound: bound, Value: value}
	}
	return t, nil
}

// EndOfDay pushes an end bound to the last instant of its day, so an
// inclusive range "2025-03-01 to 2025-03-31" keeps calls logged at any time
// on the 31st.
func EndOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
