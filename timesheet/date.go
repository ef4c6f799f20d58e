/*
date.go - Canonical date-key construction and year inference

PURPOSE:
  The Source page shows dates as "D/M" with no year; the Target page
  keys its rows by "D/M/YYYY". The year has to be inferred from the
  clock: a month more than one step ahead of the current month cannot
  be this year's data, so it belongs to the previous year.

KNOWN LIMITATION:
  The heuristic assumes scraped data never reaches more than about a
  month into the future. A page viewed across a multi-year span would
  be mis-keyed; single-month calendar views never hit this.
*/
package timesheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InferYear resolves the calendar year for a "D/M" source date as of
// now: month > current month + 1 means last year, else this year.
func InferYear(sourceDate string, now time.Time) int {
	parts := strings.Split(sourceDate, "/")
	month := 0
	if len(parts) > 1 {
		month, _ = strconv.Atoi(parts[1])
	}
	if month > int(now.Month())+1 {
		return now.Year() - 1
	}
	return now.Year()
}

// CanonicalDateKey builds the "D/M/YYYY" key for a source date.
// A date that already carries three components is kept as-is.
func CanonicalDateKey(sourceDate string, now time.Time) string {
	if strings.Count(sourceDate, "/") == 2 {
		return sourceDate
	}
	return fmt.Sprintf("%s/%d", sourceDate, InferYear(sourceDate, now))
}
