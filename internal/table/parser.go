// Package table turns spreadsheet exports into venue records.
package table

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"hostel_picker/internal/domain"
)

// NameField is the column a record must carry to be kept.
const NameField = "hostel_name"

// minInput guards against empty or placeholder fetch results.
const minInput = 10

// Parse converts delimited text (RFC4180-style quoting) into records. It never
// fails: broken quoting or inline JSON degrades to plain text.
func Parse(text string) []domain.Record {
	if len(text) < minInput {
		return []domain.Record{}
	}
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.TrimSpace(text)
	return buildRecords(tokenize(text))
}

// tokenize splits text into rows of cells in one left-to-right pass.
func tokenize(text string) [][]string {
	var (
		rows     [][]string
		row      []string
		cell     strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(text) && text[i+1] == '"':
			cell.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			row = append(row, cell.String())
			cell.Reset()
		case c == '\n' && !inQuotes:
			row = append(row, cell.String())
			cell.Reset()
			rows = append(rows, row)
			row = nil
		default:
			cell.WriteByte(c)
		}
	}
	if cell.Len() > 0 || len(row) > 0 {
		row = append(row, cell.String())
		rows = append(rows, row)
	}
	return rows
}

// buildRecords zips rows against the normalized header row.
func buildRecords(rows [][]string) []domain.Record {
	out := []domain.Record{}
	if len(rows) < 2 {
		return out
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = NormalizeHeader(h)
	}
	for _, row := range rows[1:] {
		rec := make(domain.Record, len(headers))
		for i, key := range headers {
			if key == "" {
				continue
			}
			raw := ""
			if i < len(row) {
				raw = row[i]
			}
			rec[key] = ParseCell(raw)
		}
		if utf8.RuneCountInString(rec.Name()) > 1 {
			out = append(out, rec)
		}
	}
	return out
}

// NormalizeHeader lower-cases and trims h and drops every byte outside
// [a-z0-9_]: "Pulse Summary:" becomes "pulsesummary".
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	var b strings.Builder
	b.Grow(len(h))
	for i := 0; i < len(h); i++ {
		c := h[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ParseCell classifies one raw cell. Cells holding both '{' and '}' are
// decoded as JSON objects; anything that fails to decode stays Text.
func ParseCell(raw string) domain.CellValue {
	v := strings.TrimSpace(raw)
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
	}
	if !strings.Contains(v, "{") || !strings.Contains(v, "}") {
		return domain.Text(v)
	}
	unescaped := strings.ReplaceAll(v, `""`, `"`)
	if obj, ok := DecodeObject(unescaped); ok {
		return domain.JSON{Raw: unescaped, Object: obj}
	}
	// empty JSON strings ("") do not survive the unescape above
	if unescaped != v {
		if obj, ok := DecodeObject(v); ok {
			return domain.JSON{Raw: v, Object: obj}
		}
	}
	return domain.Text(v)
}

// DecodeObject decodes s as a JSON object. A JSON string holding an object
// (double-encoded cell) is unwrapped once.
func DecodeObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	if inner, ok := v.(string); ok {
		if err := json.Unmarshal([]byte(inner), &v); err != nil {
			return nil, false
		}
	}
	obj, ok := v.(map[string]any)
	return obj, ok && obj != nil
}
