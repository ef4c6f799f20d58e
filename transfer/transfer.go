/*
transfer.go - Fill plan for the Target payroll page

PURPOSE:
  Matches the canonical timesheet map against the Target page's row
  table and produces an ordered write plan: which inputs get which
  values, and which synthetic events each write must fire so the
  page's own change handlers run. The service never touches a live
  DOM; the caller replays the plan in the browser.

MATCHING:
  Rows are keyed by the date input's value ("D/M/YYYY"), matched
  exactly against the map keys. A row whose date has no entry is
  skipped. A row missing either clock input is skipped even for
  vacation days, so a half-rendered table never gets partial writes.

SEE ALSO:
  - extract/builder.go: produces the map consumed here
  - autoclick.go: the click plan for the Source calendar
*/
package transfer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/warp/timesheet-bridge/timesheet"
)

// =============================================================================
// SELECTORS - Target page markup contract
// =============================================================================

const (
	SelectorRows      = `#pt1\:dataTable tr[role="row"]`
	SelectorDateInput = `input[id*="clockInDate"][id*="content"]`
	SelectorClockIn   = `input[id*="clockInTime"][id*="content"]`
	SelectorClockOut  = `input[id*="clockOutTime"][id*="content"]`
	SelectorWorkType  = `select[id*="workTypeSelect"]`
)

// fieldEvents is the sequence the Target page's handlers listen for.
// Order matters: validation runs on change, persistence on blur.
var fieldEvents = []string{"input", "change", "blur"}

// FieldWrite is one replayable DOM write: set the element's value,
// then dispatch each event (bubbling, cancelable) in order.
type FieldWrite struct {
	ElementID string   `json:"element_id"`
	Value     string   `json:"value"`
	Events    []string `json:"events"`
}

// FillResult is the outcome of matching the map against the page.
type FillResult struct {
	FilledCount int          `json:"filled_count"`
	Writes      []FieldWrite `json:"writes"`
}

// Fill builds the write plan for the Target page. Every table row
// whose date input matches a map key contributes: vacation entries
// select the paid-leave work type, everything else writes the clock
// pair. An empty map or zero matched rows is ErrNoData.
func Fill(doc *goquery.Document, data timesheet.Data) (FillResult, error) {
	if len(data) == 0 {
		return FillResult{}, timesheet.ErrNoData
	}

	var res FillResult
	doc.Find(SelectorRows).Each(func(_ int, row *goquery.Selection) {
		dateInput := row.Find(SelectorDateInput).First()
		date := strings.TrimSpace(dateInput.AttrOr("value", ""))
		if date == "" {
			return
		}
		entry, ok := data[date]
		if !ok {
			return
		}

		clockIn := row.Find(SelectorClockIn).First()
		clockOut := row.Find(SelectorClockOut).First()
		if clockIn.Length() == 0 || clockOut.Length() == 0 {
			return
		}

		if entry.IsVacation {
			// The work-type dropdown may be absent on locked rows;
			// the day still counts as handled.
			if workType := row.Find(SelectorWorkType).First(); workType.Length() > 0 {
				res.Writes = append(res.Writes, write(workType, timesheet.PaidLeaveWorkType))
			}
		} else {
			res.Writes = append(res.Writes,
				write(clockIn, entry.EntryTime),
				write(clockOut, entry.ExitTime))
		}
		res.FilledCount++
	})

	if res.FilledCount == 0 {
		return FillResult{}, timesheet.ErrNoData
	}
	return res, nil
}

func write(el *goquery.Selection, value string) FieldWrite {
	return FieldWrite{
		ElementID: el.AttrOr("id", ""),
		Value:     value,
		Events:    fieldEvents,
	}
}
