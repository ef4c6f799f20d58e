/*
types.go - Core domain types for the timesheet bridge

PURPOSE:
  Defines the canonical data model shared by extraction, transfer and
  salary calculation. These types carry no DOM or HTTP concerns - the
  extract and transfer packages produce/consume them, the api package
  serializes them.

DATA FLOW:
  Source page HTML -> extract.Rows        -> []ParsedRow
                   -> extract.BuildRecord -> TimesheetData (persisted)
  TimesheetData    -> transfer.Fill       -> write plan for the Target page
  []ParsedRow      -> CalculateSalary     -> CalculatorResult

DATE KEYS:
  ParsedRow.Date is the raw "D/M" string as displayed by the Source
  page (no year). TimesheetData is keyed by the canonical "D/M/YYYY"
  string the Target page uses; see InferYear for how the year is
  resolved.

SEE ALSO:
  - clock.go: H:MM parsing and validation
  - salary.go: CalculatorResult construction
  - extract/extract.go: ParsedRow production
*/
package timesheet

// =============================================================================
// REPORT TYPE
// =============================================================================

// ReportType classifies a calendar day by its report symbol.
type ReportType string

const (
	ReportRegular  ReportType = "regular"
	ReportVacation ReportType = "vacation"
	ReportAbsence  ReportType = "absence"
)

// VacationSymbolCode is the report symbol value the Source page uses
// for paid vacation days.
const VacationSymbolCode = "481"

// PaidLeaveWorkType is the work-type selector value the Target page
// expects for a paid-leave day.
const PaidLeaveWorkType = "1_0"

// DecodeReportType maps raw report-symbol attributes to a ReportType.
// The vacation symbol code wins over the absence flag.
func DecodeReportType(symbolValue string, isAbsenceSymbol bool) ReportType {
	if symbolValue == VacationSymbolCode {
		return ReportVacation
	}
	if isAbsenceSymbol {
		return ReportAbsence
	}
	return ReportRegular
}

// =============================================================================
// PARSED ROW
// =============================================================================

// ParsedRow is one calendar day scraped from the Source page.
// At most one ParsedRow exists per unique Date string.
type ParsedRow struct {
	Date       string     // "D/M" as displayed, no year
	DayOfWeek  int        // 0 (Sunday) .. 6 (Saturday)
	EntryTime  string     // "H:MM", empty when absent/invalid
	ExitTime   string     // "H:MM", empty when absent/invalid
	TotalHours float64    // decimal hours for the day
	ReportType ReportType
	IsHoliday  bool       // date cell spans two rows; data lives in the sibling
}

// =============================================================================
// CANONICAL RECORD
// =============================================================================

// Entry is the transferable record for one day, keyed externally by
// the canonical "D/M/YYYY" date string.
type Entry struct {
	EntryTime      string `json:"entry_time"`
	ExitTime       string `json:"exit_time"`
	OriginalDate   string `json:"original_date"` // the Source "D/M" string, for traceability
	IsVacation     bool   `json:"is_vacation"`
}

// Data maps canonical date keys to entries. This is the sole artifact
// persisted between the copy and paste operations.
type Data map[string]Entry

// =============================================================================
// CALCULATOR RESULT
// =============================================================================

// CalculatorResult is the payroll breakdown over one scrape pass.
// Monetary fields and hour totals are rounded to 2 decimal places;
// day counts are integral.
type CalculatorResult struct {
	TotalPay float64 `json:"total_pay"`

	RegularHours float64 `json:"regular_hours"`
	RegularPay   float64 `json:"regular_pay"`

	NightHours float64 `json:"night_hours"`
	NightPay   float64 `json:"night_pay"`

	VacationDays int     `json:"vacation_days"`
	VacationPay  float64 `json:"vacation_pay"`

	WorkDays    int     `json:"work_days"`
	WorkDaysPay float64 `json:"work_days_pay"`

	TravelRefund     float64 `json:"travel_refund"`
	MealRefund       float64 `json:"meal_refund"`
	MealEligibleDays int     `json:"meal_eligible_days"`

	Overtime125Hours float64 `json:"overtime_125_hours"`
	Overtime125Pay   float64 `json:"overtime_125_pay"`
	Overtime150Hours float64 `json:"overtime_150_hours"`
	Overtime150Pay   float64 `json:"overtime_150_pay"`

	PeriodStart string `json:"period_start"` // "D/M"
	PeriodEnd   string `json:"period_end"`   // "D/M"
}
