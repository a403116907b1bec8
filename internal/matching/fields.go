package matching

import (
	"strconv"
	"strings"

	"hostel_picker/internal/domain"
)

/********** column alias registry (single source of truth) **********/

var fieldAliases = map[string][]string{
	"location":   {"city", "location", "destination"},
	"price":      {"pricing", "price"},
	"vibe":       {"vibe_dna", "vibe", "vibe_tags"},
	"facilities": {"facilities", "amenities"},
	"noise":      {"noise_level", "noise"},
	"age":        {"avg_age", "average_age", "overall_age", "age"},
	"rooms":      {"rooms_info", "rooms"},
	"countries":  {"country_info", "nationalities"},
	"nomad":      {"digital_nomad_score"},
	"solo":       {"solo_verdict"},
}

// numeric keys tried when a numeric column arrives as a JSON object
var numberKeys = []string{"value", "avg", "average", "rank", "score"}

/********** tiny helpers **********/

// field returns the first non-empty cell for a named alias set.
func field(r domain.Record, name string) (domain.CellValue, bool) {
	for _, k := range fieldAliases[name] {
		if v, ok := r.Get(k); ok && strings.TrimSpace(v.String()) != "" {
			return v, true
		}
	}
	return nil, false
}

// fieldText returns the lower-cased text of a named field, or "".
func fieldText(r domain.Record, name string) string {
	if v, ok := field(r, name); ok {
		return strings.ToLower(strings.TrimSpace(v.String()))
	}
	return ""
}

// fieldNumber reads a number from a named field: plain text like "€25,50"
// or a JSON object carrying one of numberKeys.
func fieldNumber(r domain.Record, name string) (float64, bool) {
	v, ok := field(r, name)
	if !ok {
		return 0, false
	}
	if js, isJSON := v.(domain.JSON); isJSON {
		for _, k := range numberKeys {
			if f, ok := anyFloat(js.Object[k]); ok {
				return f, true
			}
		}
		return 0, false
	}
	return leadingFloat(v.String())
}

// anyFloat converts a decoded JSON value (float64/string like "8,0").
func anyFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		return leadingFloat(t)
	}
	return 0, false
}

// leadingFloat parses the numeric prefix of s after skipping whitespace and
// currency marks, so "25 EUR", "€25" and "25,5" all parse. A comma is a
// decimal mark only when one or two digits follow it and no '.' comes later;
// otherwise it ends the number ("1,200" reads as 1).
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "€$£ \t")

	var b strings.Builder
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		b.WriteByte(s[i])
		i++
	}
	digits, dot := 0, false
	for ; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits++
			b.WriteByte(c)
		} else if c == '.' && !dot {
			dot = true
			b.WriteByte('.')
		} else if c == ',' && !dot && decimalComma(s[i+1:]) {
			dot = true
			b.WriteByte('.')
		} else {
			break
		}
	}
	if digits == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimRight(b.String(), "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// decimalComma reports whether the text after a comma reads as a fraction.
func decimalComma(rest string) bool {
	n := 0
	for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
		n++
	}
	return n >= 1 && n <= 2 && !strings.Contains(rest[n:], ".")
}
