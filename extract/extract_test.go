package extract_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-bridge/extract"
	"github.com/warp/timesheet-bridge/timesheet"
)

// =============================================================================
// FIXTURES - minimal rows in the Source page's markup
// =============================================================================

func doc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + body + "</table>"))
	require.NoError(t, err)
	return d
}

// dayRow renders one ordinary attendance row.
func dayRow(n int, dateOv, entry, exit, total, symbol string, extraOpt string) string {
	return fmt.Sprintf(`<tr>
		<td id="r%[1]d_cellOf_ReportDate" ov="%[2]s"></td>
		<td id="r%[1]d_cellOf_ManualEntry_EmployeeReports" ov="%[3]s"></td>
		<td id="r%[1]d_cellOf_ManualExit_EmployeeReports" ov="%[4]s"></td>
		<td id="r%[1]d_cellOf_ManualTotal_EmployeeReports" ov="%[5]s"></td>
		<td><select id="r%[1]d_Symbol.SymbolId">%[6]s%[7]s</select></td>
	</tr>`, n, dateOv, entry, exit, total, symbol, extraOpt)
}

func regularOption() string  { return `<option value="0" selected>רגיל</option>` }
func vacationOption() string { return `<option value="481" selected>חופשה</option>` }
func absenceOption() string {
	return `<option value="17" selected isabsencesymbol="true">מחלה</option>`
}

// =============================================================================
// ROW EXTRACTION
// =============================================================================

func TestRows_RegularDay(t *testing.T) {
	d := doc(t, dayRow(1, "15/3 יום א", "9:00", "17:30", "", regularOption(), ""))

	rows := extract.Rows(d)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "15/3", row.Date)
	assert.Equal(t, 0, row.DayOfWeek)
	assert.Equal(t, "9:00", row.EntryTime)
	assert.Equal(t, "17:30", row.ExitTime)
	assert.InDelta(t, 8.5, row.TotalHours, 1e-9)
	assert.Equal(t, timesheet.ReportRegular, row.ReportType)
	assert.False(t, row.IsHoliday)
}

func TestRows_ExplicitTotalWinsOverDerived(t *testing.T) {
	// The total cell says 8:00 even though exit-entry would be 8.5.
	d := doc(t, dayRow(1, "15/3 יום ב", "9:00", "17:30", "8:00", regularOption(), ""))

	rows := extract.Rows(d)
	require.Len(t, rows, 1)
	assert.InDelta(t, 8.0, rows[0].TotalHours, 1e-9)
}

func TestRows_HolidayLookahead(t *testing.T) {
	// GIVEN: a rowspan=2 date cell whose clock data sits in the sibling row
	// THEN: the emitted row is flagged and carries the sibling's times
	body := fmt.Sprintf(`<tr>
		<td id="r1_cellOf_ReportDate" ov="18/4 יום ה" rowspan="2"></td>
	</tr>
	<tr>
		<td id="r2_cellOf_ManualEntry_EmployeeReports" ov="9:00"></td>
		<td id="r2_cellOf_ManualExit_EmployeeReports" ov="17:00"></td>
		<td><select id="r2_Symbol.SymbolId">%s</select></td>
	</tr>`, regularOption())

	rows := extract.Rows(doc(t, body))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsHoliday)
	assert.Equal(t, "9:00", rows[0].EntryTime)
	assert.Equal(t, "17:00", rows[0].ExitTime)
	assert.InDelta(t, 8.0, rows[0].TotalHours, 1e-9)
}

func TestRows_HolidayWithoutSiblingRow_Skipped(t *testing.T) {
	body := `<tr><td id="r1_cellOf_ReportDate" ov="18/4 יום ה" rowspan="2"></td></tr>`
	assert.Empty(t, extract.Rows(doc(t, body)))
}

func TestRows_DuplicateDate_FirstWins(t *testing.T) {
	body := dayRow(1, "15/3 יום א", "9:00", "17:00", "", regularOption(), "") +
		dayRow(2, "15/3 יום א", "10:00", "18:00", "", regularOption(), "")

	rows := extract.Rows(doc(t, body))
	require.Len(t, rows, 1)
	assert.Equal(t, "9:00", rows[0].EntryTime)
}

func TestRows_UnresolvedDayLabel_Skipped(t *testing.T) {
	d := doc(t, dayRow(1, "15/3 bogus", "9:00", "17:00", "", regularOption(), ""))
	assert.Empty(t, extract.Rows(d))
}

func TestRows_DecoratedDayLabel_FallbackResolves(t *testing.T) {
	// The page sometimes appends a holiday name after the weekday.
	d := doc(t, dayRow(1, "15/3 יום ו ערב חג", "9:00", "14:00", "", regularOption(), ""))

	rows := extract.Rows(d)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].DayOfWeek)
}

func TestRows_NbspNormalization(t *testing.T) {
	d := doc(t, dayRow(1, "15/3\u00a0\u00a0שבת", "", "", "", regularOption(), ""))

	rows := extract.Rows(d)
	require.Len(t, rows, 1)
	assert.Equal(t, 6, rows[0].DayOfWeek)
}

func TestRows_ReportTypeClassification(t *testing.T) {
	body := dayRow(1, "1/3 יום א", "", "", "", vacationOption(), "") +
		dayRow(2, "2/3 יום ב", "", "", "", absenceOption(), "") +
		dayRow(3, "3/3 יום ג", "9:00", "17:00", "", regularOption(), "")

	rows := extract.Rows(doc(t, body))
	require.Len(t, rows, 3)
	assert.Equal(t, timesheet.ReportVacation, rows[0].ReportType)
	assert.Equal(t, timesheet.ReportAbsence, rows[1].ReportType)
	assert.Equal(t, timesheet.ReportRegular, rows[2].ReportType)
}

func TestRows_InvalidTimesBecomeEmpty(t *testing.T) {
	d := doc(t, dayRow(1, "15/3 יום ג", "9h00", "17:00", "", regularOption(), ""))

	rows := extract.Rows(d)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].EntryTime)
	assert.Equal(t, "17:00", rows[0].ExitTime)
	// No valid pair and no total cell: zero hours.
	assert.Equal(t, 0.0, rows[0].TotalHours)
}

func TestRows_OvernightShiftDerivation(t *testing.T) {
	d := doc(t, dayRow(1, "15/3 יום ו", "22:00", "2:00", "", regularOption(), ""))

	rows := extract.Rows(d)
	require.Len(t, rows, 1)
	assert.InDelta(t, 4.0, rows[0].TotalHours, 1e-9)
}

// =============================================================================
// CANONICAL RECORD BUILDER
// =============================================================================

var april2025 = time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)

func TestBuildRecord_QualifyingDays(t *testing.T) {
	body := dayRow(1, "15/3 יום א", "9:00", "17:00", "", regularOption(), "") + // valid pair
		dayRow(2, "16/3 יום ב", "", "", "", vacationOption(), "") + // vacation, no times
		dayRow(3, "17/3 יום ג", "9:00", "", "", regularOption(), "") // broken pair, excluded

	data, err := extract.BuildRecord(doc(t, body), april2025)
	require.NoError(t, err)
	require.Len(t, data, 2)

	entry, ok := data["15/3/2025"]
	require.True(t, ok)
	assert.Equal(t, "9:00", entry.EntryTime)
	assert.Equal(t, "17:00", entry.ExitTime)
	assert.Equal(t, "15/3", entry.OriginalDate)
	assert.False(t, entry.IsVacation)

	vac, ok := data["16/3/2025"]
	require.True(t, ok)
	assert.True(t, vac.IsVacation)
}

func TestBuildRecord_YearInference(t *testing.T) {
	// December data scraped in January belongs to the previous year.
	january2025 := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	body := dayRow(1, "31/12 יום ג", "9:00", "17:00", "", regularOption(), "")

	data, err := extract.BuildRecord(doc(t, body), january2025)
	require.NoError(t, err)
	_, ok := data["31/12/2024"]
	assert.True(t, ok)
}

func TestBuildRecord_HolidayLookahead(t *testing.T) {
	body := `<tr><td id="r1_cellOf_ReportDate" ov="18/4 יום ה" rowspan="2"></td></tr>
	<tr>
		<td id="r2_cellOf_ManualEntry_EmployeeReports" ov="9:00"></td>
		<td id="r2_cellOf_ManualExit_EmployeeReports" ov="17:00"></td>
	</tr>`

	data, err := extract.BuildRecord(doc(t, body), april2025)
	require.NoError(t, err)
	entry, ok := data["18/4/2025"]
	require.True(t, ok)
	assert.Equal(t, "9:00", entry.EntryTime)
}

func TestBuildRecord_NoQualifyingRows(t *testing.T) {
	// A date row with a broken clock pair and no vacation mark.
	body := dayRow(1, "15/3 יום א", "9:00", "", "", regularOption(), "")

	_, err := extract.BuildRecord(doc(t, body), april2025)
	assert.ErrorIs(t, err, timesheet.ErrNoData)
}

func TestBuildRecord_EmptyPage(t *testing.T) {
	_, err := extract.BuildRecord(doc(t, ""), april2025)
	assert.ErrorIs(t, err, timesheet.ErrNoData)
}
