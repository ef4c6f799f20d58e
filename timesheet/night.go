/*
night.go - Night-hours interval arithmetic

PURPOSE:
  Computes the portion of a shift falling inside statutory
  night/weekend premium windows. Pure function of the two clock
  strings and the day of week; the aggregator multiplies the result
  by the night rate.

WINDOW RULES (decimal hours):
  Friday (5):    from 16:00 to midnight, plus up to 6h past midnight
                 when the shift crosses it.
  Saturday (6):  the entire shift.
  Other days:    22:00-24:00, plus up to 6h past midnight, plus any
                 time worked before 06:00.

  The weekday windows are additive and can in principle double-count
  around midnight, so the result is clamped to [0, shift length].
*/
package timesheet

import "math"

// NightHours returns the night-premium hours of an entry->exit shift
// on the given day of week (0=Sunday..6=Saturday). Empty entry or
// exit yields 0. A shift whose exit precedes its entry is treated as
// crossing midnight.
func NightHours(entry, exit string, dayOfWeek int) float64 {
	if entry == "" || exit == "" {
		return 0
	}

	entryDec := ClockToDecimal(entry)
	exitDec := ClockToDecimal(exit)
	if exitDec < entryDec {
		exitDec += 24
	}
	totalHours := exitDec - entryDec

	var night float64
	switch dayOfWeek {
	case 5: // Friday: night starts at 16:00
		if entryDec >= 16 || exitDec > 16 {
			night = math.Max(0, math.Min(exitDec, 24)-math.Max(entryDec, 16))
			if exitDec > 24 {
				night += math.Min(exitDec-24, 6)
			}
		}
	case 6: // Saturday: the whole shift is premium time
		night = totalHours
	default:
		if exitDec > 22 {
			night += math.Min(exitDec, 24) - math.Max(entryDec, 22)
		}
		if exitDec > 24 {
			night += math.Min(exitDec-24, 6)
		}
		if entryDec < 6 {
			night += math.Min(6, exitDec) - entryDec
		}
	}

	// Additive windows must never exceed the shift itself.
	return math.Min(math.Max(0, night), totalHours)
}
