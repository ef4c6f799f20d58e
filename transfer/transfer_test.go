package transfer_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-bridge/timesheet"
	"github.com/warp/timesheet-bridge/transfer"
)

// =============================================================================
// FIXTURES - minimal rows in the Target page's markup
// =============================================================================

func targetDoc(t *testing.T, rows string) *goquery.Document {
	t.Helper()
	html := `<table id="pt1:dataTable">` + rows + `</table>`
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

// targetRow renders one payroll table row with all editable fields.
func targetRow(n int, date string) string {
	return fmt.Sprintf(`<tr role="row">
		<td><input id="pt1:t%[1]d:clockInDate::content" value="%[2]s"></td>
		<td><input id="pt1:t%[1]d:clockInTime::content" value=""></td>
		<td><input id="pt1:t%[1]d:clockOutTime::content" value=""></td>
		<td><select id="pt1:t%[1]d:workTypeSelect"><option value="0_0">רגיל</option><option value="1_0">חופשה</option></select></td>
	</tr>`, n, date)
}

func entryFor(in, out string) timesheet.Entry {
	return timesheet.Entry{EntryTime: in, ExitTime: out, OriginalDate: "x", IsVacation: false}
}

// =============================================================================
// FILL PLAN
// =============================================================================

func TestFill_RegularDay(t *testing.T) {
	// GIVEN: one matching row and a regular entry
	// THEN: two writes (clock-in, clock-out), each firing input/change/blur
	d := targetDoc(t, targetRow(1, "15/3/2025"))
	data := timesheet.Data{"15/3/2025": entryFor("9:00", "17:30")}

	res, err := transfer.Fill(d, data)
	require.NoError(t, err)

	assert.Equal(t, 1, res.FilledCount)
	require.Len(t, res.Writes, 2)
	assert.Equal(t, "pt1:t1:clockInTime::content", res.Writes[0].ElementID)
	assert.Equal(t, "9:00", res.Writes[0].Value)
	assert.Equal(t, "pt1:t1:clockOutTime::content", res.Writes[1].ElementID)
	assert.Equal(t, "17:30", res.Writes[1].Value)
	for _, w := range res.Writes {
		assert.Equal(t, []string{"input", "change", "blur"}, w.Events)
	}
}

func TestFill_VacationDay(t *testing.T) {
	// A vacation entry selects the paid-leave work type and leaves the
	// clock inputs alone.
	d := targetDoc(t, targetRow(1, "16/3/2025"))
	data := timesheet.Data{"16/3/2025": {OriginalDate: "16/3", IsVacation: true}}

	res, err := transfer.Fill(d, data)
	require.NoError(t, err)

	assert.Equal(t, 1, res.FilledCount)
	require.Len(t, res.Writes, 1)
	assert.Equal(t, "pt1:t1:workTypeSelect", res.Writes[0].ElementID)
	assert.Equal(t, timesheet.PaidLeaveWorkType, res.Writes[0].Value)
}

func TestFill_VacationWithoutWorkTypeDropdown(t *testing.T) {
	// Locked rows drop the dropdown; the day still counts as handled.
	row := `<tr role="row">
		<td><input id="pt1:t1:clockInDate::content" value="16/3/2025"></td>
		<td><input id="pt1:t1:clockInTime::content" value=""></td>
		<td><input id="pt1:t1:clockOutTime::content" value=""></td>
	</tr>`
	data := timesheet.Data{"16/3/2025": {IsVacation: true}}

	res, err := transfer.Fill(targetDoc(t, row), data)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilledCount)
	assert.Empty(t, res.Writes)
}

func TestFill_UnmatchedDatesSkipped(t *testing.T) {
	d := targetDoc(t, targetRow(1, "15/3/2025")+targetRow(2, "18/3/2025"))
	data := timesheet.Data{"15/3/2025": entryFor("9:00", "17:00")}

	res, err := transfer.Fill(d, data)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilledCount)
	require.Len(t, res.Writes, 2)
	assert.Contains(t, res.Writes[0].ElementID, "t1:")
}

func TestFill_MissingClockInput_RowSkipped(t *testing.T) {
	// No clock-out input: the row is untouched even though the date matches.
	row := `<tr role="row">
		<td><input id="pt1:t1:clockInDate::content" value="15/3/2025"></td>
		<td><input id="pt1:t1:clockInTime::content" value=""></td>
	</tr>`
	data := timesheet.Data{"15/3/2025": entryFor("9:00", "17:00")}

	_, err := transfer.Fill(targetDoc(t, row), data)
	assert.ErrorIs(t, err, timesheet.ErrNoData)
}

func TestFill_EmptyData(t *testing.T) {
	_, err := transfer.Fill(targetDoc(t, targetRow(1, "15/3/2025")), timesheet.Data{})
	assert.ErrorIs(t, err, timesheet.ErrNoData)
}

func TestFill_NoMatchingRows(t *testing.T) {
	d := targetDoc(t, targetRow(1, "1/1/2020"))
	data := timesheet.Data{"15/3/2025": entryFor("9:00", "17:00")}

	_, err := transfer.Fill(d, data)
	assert.ErrorIs(t, err, timesheet.ErrNoData)
}
