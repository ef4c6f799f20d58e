/*
extract.go - Row extraction from the Source attendance page

PURPOSE:
  Walks the rendered Source page HTML and produces one ParsedRow per
  calendar day. This is the single extraction pass both projections
  share: the canonical record builder (builder.go) and the salary
  calculator both consume its output shape, so the two paths cannot
  drift on holiday lookahead or date parsing.

SELECTOR CONTRACT:
  The attribute/class patterns below are imposed by the Source page
  and treated as a versioned black box. When the page's markup
  changes, extraction returns fewer (or zero) rows instead of
  erroring; only a fully-empty result is reported as a failure, and
  by the caller, not here.

HOLIDAY LOOKAHEAD:
  A date cell with rowspan="2" marks a holiday; the clock cells for
  that day live in the NEXT table row. A marked cell without a
  following row loses the day silently.

SEE ALSO:
  - builder.go: copy-path projection to the canonical record
  - timesheet/types.go: ParsedRow, report-type decode
*/
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/warp/timesheet-bridge/timesheet"
)

// =============================================================================
// SELECTORS - Source page markup contract
// =============================================================================

const (
	SelectorDateCell    = `td[id*="cellOf_ReportDate"]`
	SelectorEntryTime   = `td[id*="cellOf_ManualEntry_EmployeeReports"]`
	SelectorExitTime    = `td[id*="cellOf_ManualExit_EmployeeReports"]`
	SelectorTotalCell   = `td[id*="cellOf_ManualTotal_EmployeeReports"]`
	SelectorReportType  = `select[id*="Symbol.SymbolId"]`
	SelectorSymbol      = `select[id*="Symbol"]`
	SelectorTimeBoxes   = `td[class*="cDIES"], td[class*="cHD"], td[class*="cMAD"], td[class*="calendarAbcenseDay"], td[class*="calendarAbsenceDay"]`
	SelectorTimeContent = `.cDM`
	ClickedClass        = "CSD"

	// ov carries the cell's display value on this page.
	valueAttr = "ov"

	// VacationLabel appears in report-symbol option text and in
	// calendar cell titles for paid-vacation days.
	VacationLabel = "חופשה"
)

// dayNames maps the page's weekday labels to 0 (Sunday) .. 6 (Saturday).
var dayNames = map[string]int{
	"יום א": 0,
	"יום ב": 1,
	"יום ג": 2,
	"יום ד": 3,
	"יום ה": 4,
	"יום ו": 5,
	"שבת":   6,
}

var datePattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2})\s+(.+)$`)

// =============================================================================
// EXTRACTION PASS
// =============================================================================

// Rows extracts one ParsedRow per calendar day from the Source page.
// Days that cannot be parsed (unmatched date text, unresolved weekday
// label, holiday marker with no sibling row) are dropped, not errors.
// The first occurrence of each date wins.
func Rows(doc *goquery.Document) []timesheet.ParsedRow {
	var rows []timesheet.ParsedRow
	seen := make(map[string]bool)

	doc.Find(SelectorDateCell).Each(func(_ int, dateCell *goquery.Selection) {
		ov, ok := dateCell.Attr(valueAttr)
		if !ok {
			return
		}

		match := datePattern.FindStringSubmatch(normalizeSpace(ov))
		if match == nil {
			return
		}
		date, dayName := match[1], match[2]
		if seen[date] {
			return
		}
		seen[date] = true

		row := dateCell.Closest("tr")
		if row.Length() == 0 {
			return
		}

		isHoliday := dateCell.AttrOr("rowspan", "") == "2"
		dataRow := row
		if isHoliday {
			dataRow = row.Next()
			if dataRow.Length() == 0 {
				return
			}
		}

		dayOfWeek := resolveDayOfWeek(dayName)
		if dayOfWeek == -1 {
			return
		}

		entryOv := strings.TrimSpace(attrOf(dataRow, SelectorEntryTime))
		exitOv := strings.TrimSpace(attrOf(dataRow, SelectorExitTime))
		totalOv := strings.TrimSpace(attrOf(dataRow, SelectorTotalCell))

		entryTime := ""
		if timesheet.IsValidClock(entryOv) {
			entryTime = entryOv
		}
		exitTime := ""
		if timesheet.IsValidClock(exitOv) {
			exitTime = exitOv
		}

		var totalHours float64
		switch {
		case timesheet.IsValidClock(totalOv):
			totalHours = timesheet.ClockToDecimal(totalOv)
		case entryTime != "" && exitTime != "":
			totalHours = timesheet.ShiftHours(entryTime, exitTime)
		}

		symbolValue, isAbsence, _ := selectedReportSymbol(dataRow)

		rows = append(rows, timesheet.ParsedRow{
			Date:       date,
			DayOfWeek:  dayOfWeek,
			EntryTime:  entryTime,
			ExitTime:   exitTime,
			TotalHours: totalHours,
			ReportType: timesheet.DecodeReportType(symbolValue, isAbsence),
			IsHoliday:  isHoliday,
		})
	})

	return rows
}

// resolveDayOfWeek matches a weekday label against the day table:
// exact match first, then prefix/substring fallback for labels the
// page decorates with extra text. -1 means unresolved.
func resolveDayOfWeek(label string) int {
	clean := normalizeSpace(label)
	if dow, ok := dayNames[clean]; ok {
		return dow
	}
	for name, dow := range dayNames {
		if strings.HasPrefix(clean, name) || strings.Contains(clean, name) {
			return dow
		}
	}
	return -1
}

// selectedReportSymbol reads the report-symbol dropdown of a data
// row: the selected option's value, its absence-symbol flag, and its
// display text. Missing dropdown decodes as a regular day.
func selectedReportSymbol(dataRow *goquery.Selection) (value string, isAbsence bool, text string) {
	sel := dataRow.Find(SelectorReportType).First()
	if sel.Length() == 0 {
		return "0", false, ""
	}
	option := sel.Find("option[selected]").First()
	if option.Length() == 0 {
		option = sel.Find("option").First()
	}
	if option.Length() == 0 {
		return "0", false, ""
	}
	return option.AttrOr("value", "0"),
		option.AttrOr("isabsencesymbol", "") == "true",
		normalizeSpace(option.Text())
}

// attrOf returns the value attribute of the first match under sel.
func attrOf(sel *goquery.Selection, selector string) string {
	return sel.Find(selector).First().AttrOr(valueAttr, "")
}

// normalizeSpace collapses runs of whitespace (including NBSP, which
// the page is fond of) into single spaces and trims the ends.
func normalizeSpace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
