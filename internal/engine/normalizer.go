package engine

import (
	"strconv"
	"strings"
)

// ParseNum converts a loosely-typed spreadsheet cell into a float64 amount.
//
// Ledger exports in this domain use the European convention: "1.234,56"
// means one thousand two hundred thirty-four and 56 hundredths. When both
// separators are present the periods are thousands separators and the comma
// is the decimal point; a lone comma is a decimal point.
//
// This is a total function: nil and unparseable text yield 0.0, already
// numeric values are cast. Malformed amounts are therefore indistinguishable
// from empty cells — callers needing strict validation must pre-check raw
// values themselves.
func ParseNum(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0.0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return parseNumText(n)
	default:
		return 0.0
	}
}

func parseNumText(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0.0
	}
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return f
}
