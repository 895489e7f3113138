package model

import (
	"strconv"
	"strings"
	"time"
)

// canonicalDateLayout is DD/MM/YYYY, the format agents use on the sheets.
const canonicalDateLayout = "02/01/2006"

// dateLayouts are the spellings accepted from sheet cells, tried in order.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"2-Jan-2006",
	"02-Jan-06",
}

// NormalizeDate converts a date cell to DD/MM/YYYY. An unparseable value is
// returned trimmed but otherwise untouched: one bad cell must not lose data
// or abort a pass of hundreds of rows.
func NormalizeDate(raw string) string {
	s := clean(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDateLayout)
		}
	}
	return s
}

// ParseAmount reads a money cell. Currency marks, commas and spaces are
// stripped; anything still unparseable yields 0.
func ParseAmount(raw string) float64 {
	s := strings.NewReplacer(",", "", "₹", "", "Rs.", "", "Rs", "", " ", "").Replace(clean(raw))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatAmount renders an amount the way agents write it: no exponent, no
// trailing zeros, empty for zero so blank sheet cells stay blank.
func FormatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clean(s string) string {
	return strings.TrimSpace(s)
}
