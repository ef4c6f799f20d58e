/*
builder.go - Canonical record construction (copy path)

PURPOSE:
  Projects the Source page into the canonical TimesheetData map the
  Target page is filled from. Validity here is looser than the
  calculator path on purpose: a day qualifies when it is a vacation
  day OR carries a valid clock pair, and no weekday label is needed.

YEAR KEYS:
  The Source page shows "D/M"; the Target keys rows by "D/M/YYYY".
  timesheet.CanonicalDateKey resolves the year from the current date.

SEE ALSO:
  - extract.go: shared traversal rules (holiday lookahead, selectors)
  - transfer/transfer.go: consumes the map this produces
*/
package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/warp/timesheet-bridge/timesheet"
)

// BuildRecord walks the Source page and builds the canonical
// timesheet map, keyed "D/M/YYYY" as of now. Days lacking both a
// vacation mark and a valid clock pair are excluded; zero qualifying
// days is ErrNoData.
func BuildRecord(doc *goquery.Document, now time.Time) (timesheet.Data, error) {
	data := make(timesheet.Data)

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		dateCell := row.Find(SelectorDateCell).First()
		if dateCell.Length() == 0 {
			return
		}
		ov, ok := dateCell.Attr(valueAttr)
		if !ok {
			return
		}

		fields := strings.Fields(normalizeSpace(ov))
		if len(fields) == 0 {
			return
		}
		sourceDate := fields[0]
		if !strings.Contains(sourceDate, "/") {
			return
		}

		dataRow := row
		if dateCell.AttrOr("rowspan", "") == "2" {
			dataRow = row.Next()
			if dataRow.Length() == 0 {
				return
			}
		}

		entryCell := dataRow.Find(SelectorEntryTime).First()
		exitCell := dataRow.Find(SelectorExitTime).First()
		if entryCell.Length() == 0 || exitCell.Length() == 0 {
			return
		}

		entryTime := timesheet.SanitizeClock(entryCell.AttrOr(valueAttr, ""))
		exitTime := timesheet.SanitizeClock(exitCell.AttrOr(valueAttr, ""))

		isVacation := isVacationDay(dataRow)
		if !isVacation && (!timesheet.IsValidClock(entryTime) || !timesheet.IsValidClock(exitTime)) {
			return
		}

		data[timesheet.CanonicalDateKey(sourceDate, now)] = timesheet.Entry{
			EntryTime:    entryTime,
			ExitTime:     exitTime,
			OriginalDate: sourceDate,
			IsVacation:   isVacation,
		}
	})

	if len(data) == 0 {
		return nil, timesheet.ErrNoData
	}
	return data, nil
}

// isVacationDay checks the row's report-symbol dropdown: either the
// vacation symbol code or a vacation label in the selected option's
// text marks the day as paid vacation.
func isVacationDay(dataRow *goquery.Selection) bool {
	sel := dataRow.Find(SelectorSymbol).First()
	if sel.Length() == 0 {
		return false
	}
	option := sel.Find("option[selected]").First()
	if option.Length() == 0 {
		option = sel.Find("option").First()
	}
	if option.Length() == 0 {
		return false
	}
	if option.AttrOr("value", "") == timesheet.VacationSymbolCode {
		return true
	}
	return strings.Contains(option.Text(), VacationLabel)
}
