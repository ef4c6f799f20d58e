package timesheet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/timesheet-bridge/timesheet"
)

func TestInferYear(t *testing.T) {
	april := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)
	january := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	february := time.Date(2025, time.February, 5, 0, 0, 0, 0, time.UTC)

	// March data seen in April: same year.
	assert.Equal(t, 2025, timesheet.InferYear("15/3", april))

	// March data seen in January: month 3 > 1+1, so last year's page.
	assert.Equal(t, 2024, timesheet.InferYear("15/3", january))

	// March data seen in February: month 3 == 2+1, still this year
	// (the page may show up to one month ahead).
	assert.Equal(t, 2025, timesheet.InferYear("15/3", february))

	// December data seen in January: last year.
	assert.Equal(t, 2024, timesheet.InferYear("31/12", january))
}

func TestCanonicalDateKey(t *testing.T) {
	april := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "15/3/2025", timesheet.CanonicalDateKey("15/3", april))

	// A date that already carries a year is left alone.
	assert.Equal(t, "15/3/2019", timesheet.CanonicalDateKey("15/3/2019", april))
}

func TestDecodeReportType(t *testing.T) {
	assert.Equal(t, timesheet.ReportVacation, timesheet.DecodeReportType("481", false))
	// Vacation symbol wins over the absence flag.
	assert.Equal(t, timesheet.ReportVacation, timesheet.DecodeReportType("481", true))
	assert.Equal(t, timesheet.ReportAbsence, timesheet.DecodeReportType("17", true))
	assert.Equal(t, timesheet.ReportRegular, timesheet.DecodeReportType("0", false))
}
