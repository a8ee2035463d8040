package importer

import (
	"strconv"
	"strings"
)

// CoerceFloat turns an arbitrary cell value into a float64 and never
// fails. Broker exports mix locale formatting, currency symbols and blank
// cells, and a single malformed cell must not abort an import. Blank and
// "nan" cells are zero; anything else is parsed after stripping every
// character that is not a digit, '.' or '-'.
func CoerceFloat(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}
