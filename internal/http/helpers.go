package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// parsePathID extracts the {id} path segment as an int64.
func parsePathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// formatCents renders cents as a plain decimal string (e.g. "12.34"),
// suitable for form input values.
func formatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// formatAmount renders cents as a currency string (e.g. "$12.34").
func formatAmount(cents int64) string {
	if cents < 0 {
		return "-$" + formatCents(-cents)
	}
	return "$" + formatCents(cents)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}
