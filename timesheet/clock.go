/*
clock.go - Clock-time parsing and validation

PURPOSE:
  The Source page renders clock values as loosely formatted "H:MM"
  strings inside cell attributes, sometimes with directional marks or
  stray whitespace around them. Everything downstream (night hours,
  overtime, transfer) works on either the sanitized string or its
  decimal-hours form.

SEE ALSO:
  - night.go: consumes decimal hours
  - extract/extract.go: sanitizes raw attribute text before validation
*/
package timesheet

import (
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// IsValidClock reports whether s (after trimming) is an "H:MM" string.
func IsValidClock(s string) bool {
	return clockPattern.MatchString(strings.TrimSpace(s))
}

// SanitizeClock trims s and strips everything but digits and colons.
// Returns "" for empty input.
func SanitizeClock(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ':' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ClockToDecimal converts "H:MM" to decimal hours ("9:30" -> 9.5).
// Malformed components count as zero, matching the permissive parsing
// the rest of the pipeline relies on.
func ClockToDecimal(clock string) float64 {
	parts := strings.SplitN(clock, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m := 0
	if len(parts) > 1 {
		m, _ = strconv.Atoi(parts[1])
	}
	return float64(h) + float64(m)/60
}

// ShiftHours returns the length of an entry->exit shift in decimal
// hours. An exit earlier than the entry means the shift crossed
// midnight and gets 24h added before subtracting.
func ShiftHours(entry, exit string) float64 {
	e := ClockToDecimal(entry)
	x := ClockToDecimal(exit)
	if x < e {
		x += 24
	}
	return x - e
}
