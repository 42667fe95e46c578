package contact

// format.go holds the display and export coercions shared by the grid
// cells, the column filters and the export projection. Export uses the
// plain forms (unformatted numbers, ISO dates) so an exported file
// round-trips through the import mapping step unchanged.

import (
	"strconv"
	"strings"
	"time"
)

// PlaceholderEmpty is shown for optional fields with no value.
const PlaceholderEmpty = "Non renseigné"

var frenchMonths = []string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// ParseNumber parses a numeric cell the way the grid commits numeric
// edits: a parse failure yields 0, never an error.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatNumber renders a float without trailing zeros ("42.5", "1000").
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatCurrency renders an estimated value with space-grouped
// thousands and a euro suffix: 1234567.5 -> "1 234 567,5 €".
// Zero means not set and renders the empty placeholder.
func FormatCurrency(f float64) string {
	if f == 0 {
		return PlaceholderEmpty
	}
	s := FormatNumber(f)
	intPart, fracPart, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, " ")
	if fracPart != "" {
		out += "," + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out + " €"
}

// FormatDate renders a date the French short way: "2 janv. 2026".
// The zero time renders as the empty string, not an error.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.Itoa(t.Day()) + " " + frenchMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// ISODate renders a date as YYYY-MM-DD, empty for the zero time.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// Stringify projects a field value to its plain string form: text
// verbatim, numbers unformatted, dates as ISO. This is the projection
// used for filtering and for export; zero numbers and zero dates
// stringify to "". Unknown fields yield "".
func Stringify(c *Contact, field string) string {
	v, ok := c.Get(field)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == 0 {
			return ""
		}
		return FormatNumber(x)
	case time.Time:
		return ISODate(x)
	default:
		return ""
	}
}
