package ingest

import (
	"strconv"
	"strings"
)

// parsePriceOr parses a price cell, returning def when the cell is empty or
// carries a non-numeric placeholder. Thousands separators are tolerated.
func parsePriceOr(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "NA" || s == "N/A" {
		return def
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}
