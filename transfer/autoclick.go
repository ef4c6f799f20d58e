/*
autoclick.go - Bulk-selection click plan for the Source calendar

PURPOSE:
  Finds every unreported day cell on the Source calendar view and
  plans a double-click on each, so a whole month is selected for
  reporting in one operation. Like the fill plan, this is replayed by
  the caller: clicks are addressed by position within the time-box
  selector's match list, in document order.

PACING:
  The Source page debounces cell selection; clicks replayed
  back-to-back get swallowed. Each click except the last carries a
  fixed delay the replayer must wait out before the next one.
*/
package transfer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/warp/timesheet-bridge/extract"
	"github.com/warp/timesheet-bridge/timesheet"
)

// ClickPaceMillis is the wait between successive replayed clicks.
const ClickPaceMillis = 100

// BoxClick is one replayable calendar click: dispatch Event on the
// Index-th match of the time-box selector, then wait DelayAfterMillis.
type BoxClick struct {
	Index            int    `json:"index"`
	Event            string `json:"event"`
	DelayAfterMillis int    `json:"delay_after_ms"`
}

// ClickResult is the outcome of planning a bulk selection.
type ClickResult struct {
	ClickedCount int        `json:"clicked_count"`
	TotalBoxes   int        `json:"total_boxes"`
	SkippedCount int        `json:"skipped_count"`
	Clicks       []BoxClick `json:"clicks"`
}

// PlanClicks scans the Source calendar for clickable day cells and
// returns the click plan. A cell is clickable when it is not already
// selected and carries either a valid clock time (in its title or its
// time-content child) or a leave marker. A page with no day cells at
// all is ErrNoTimeBoxes; cells present but every one already selected
// is ErrAllBoxesSelected.
func PlanClicks(doc *goquery.Document) (ClickResult, error) {
	boxes := doc.Find(extract.SelectorTimeBoxes)
	if boxes.Length() == 0 {
		return ClickResult{}, timesheet.ErrNoTimeBoxes
	}

	var clicks []BoxClick
	unclicked := 0
	boxes.Each(func(i int, box *goquery.Selection) {
		if box.HasClass(extract.ClickedClass) {
			return
		}
		unclicked++
		if !clickable(box) {
			return
		}
		clicks = append(clicks, BoxClick{
			Index:            i,
			Event:            "dblclick",
			DelayAfterMillis: ClickPaceMillis,
		})
	})

	if unclicked == 0 {
		return ClickResult{}, timesheet.ErrAllBoxesSelected
	}
	if len(clicks) == 0 {
		return ClickResult{}, timesheet.ErrNoTimeBoxes
	}
	clicks[len(clicks)-1].DelayAfterMillis = 0

	return ClickResult{
		ClickedCount: len(clicks),
		TotalBoxes:   len(clicks),
		SkippedCount: 0,
		Clicks:       clicks,
	}, nil
}

// clickable reports whether a day cell holds something worth
// selecting: a leave marker anywhere, a valid time in the title, or a
// valid time in the cell's time-content child.
func clickable(box *goquery.Selection) bool {
	title := box.AttrOr("title", "")
	if strings.Contains(title, extract.VacationLabel) ||
		strings.Contains(box.Text(), extract.VacationLabel) {
		return true
	}
	if timesheet.IsValidClock(strings.TrimSpace(title)) {
		return true
	}
	content := box.Find(extract.SelectorTimeContent).First()
	return content.Length() > 0 && timesheet.IsValidClock(strings.TrimSpace(content.Text()))
}
