/*
report.go - Excel export of a calculated pay period

PURPOSE:
  Renders the extracted rows and the salary estimate into an .xlsx
  workbook: one sheet with the day-by-day timesheet, one with the pay
  breakdown. Returned as a buffer; the handler sets the response
  headers and streams it.
*/
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/warp/timesheet-bridge/timesheet"
	"github.com/xuri/excelize/v2"
)

const (
	sheetTimesheet = "Timesheet"
	sheetSummary   = "Summary"
)

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// Build renders the workbook and a suggested filename.
func Build(rows []timesheet.ParsedRow, result timesheet.CalculatorResult) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetTimesheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	writeTimesheet(f, headerStyle, rows)
	writeSummary(f, headerStyle, result)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("timesheet_%s-%s.xlsx",
		strings.ReplaceAll(result.PeriodStart, "/", "."),
		strings.ReplaceAll(result.PeriodEnd, "/", "."))
	return buf, filename, nil
}

func writeTimesheet(f *excelize.File, headerStyle int, rows []timesheet.ParsedRow) {
	headers := []string{"Date", "Day", "Entry", "Exit", "Hours", "Night Hours", "Type", "Holiday"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetTimesheet, col+"1", h)
		f.SetCellStyle(sheetTimesheet, col+"1", col+"1", headerStyle)
		f.SetColWidth(sheetTimesheet, col, col, 12)
	}

	for i, row := range rows {
		r := i + 2
		day := ""
		if row.DayOfWeek >= 0 && row.DayOfWeek <= 6 {
			day = weekdayNames[row.DayOfWeek]
		}
		night := 0.0
		if row.ReportType == timesheet.ReportRegular {
			night = timesheet.NightHours(row.EntryTime, row.ExitTime, row.DayOfWeek)
		}
		f.SetCellValue(sheetTimesheet, cell(1, r), row.Date)
		f.SetCellValue(sheetTimesheet, cell(2, r), day)
		f.SetCellValue(sheetTimesheet, cell(3, r), row.EntryTime)
		f.SetCellValue(sheetTimesheet, cell(4, r), row.ExitTime)
		f.SetCellValue(sheetTimesheet, cell(5, r), row.TotalHours)
		f.SetCellValue(sheetTimesheet, cell(6, r), night)
		f.SetCellValue(sheetTimesheet, cell(7, r), string(row.ReportType))
		if row.IsHoliday {
			f.SetCellValue(sheetTimesheet, cell(8, r), "yes")
		}
	}
}

func writeSummary(f *excelize.File, headerStyle int, result timesheet.CalculatorResult) {
	f.SetColWidth(sheetSummary, "A", "A", 24)
	f.SetColWidth(sheetSummary, "B", "B", 14)
	f.SetCellValue(sheetSummary, "A1", fmt.Sprintf("Pay period %s - %s", result.PeriodStart, result.PeriodEnd))
	f.MergeCell(sheetSummary, "A1", "B1")
	f.SetCellStyle(sheetSummary, "A1", "B1", headerStyle)

	lines := []struct {
		label string
		value any
	}{
		{"Work days", result.WorkDays},
		{"Vacation days", result.VacationDays},
		{"Meal-eligible days", result.MealEligibleDays},
		{"Regular hours", result.RegularHours},
		{"Night hours", result.NightHours},
		{"Overtime 125% hours", result.Overtime125Hours},
		{"Overtime 150% hours", result.Overtime150Hours},
		{"Regular pay", result.RegularPay},
		{"Night pay", result.NightPay},
		{"Overtime 125% pay", result.Overtime125Pay},
		{"Overtime 150% pay", result.Overtime150Pay},
		{"Vacation pay", result.VacationPay},
		{"Travel refund", result.TravelRefund},
		{"Meal refund", result.MealRefund},
		{"Total", result.TotalPay},
	}
	for i, line := range lines {
		r := i + 2
		f.SetCellValue(sheetSummary, cell(1, r), line.label)
		f.SetCellValue(sheetSummary, cell(2, r), line.value)
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
