/*
salary.go - Overtime banding and payroll aggregation

PURPOSE:
  Turns a scrape pass ([]ParsedRow) into a full payroll breakdown.
  Hour arithmetic stays on float64 because the banding and clamping
  rules are specified on decimal hours; money is accumulated with
  shopspring/decimal and rounded half-up to 2 places at the edges.

BANDING:
  Daily, not weekly: hours 9-11 of a day pay 1.25x, hours beyond 11
  pay 1.5x. The stored overtime pay components are the incremental
  premium only (0.25x / 0.5x) - the base hour is already counted in
  regular or night pay.

PERIOD BOUNDS:
  periodStart/periodEnd are the min/max rows by month*100+day across
  ALL rows, including absence rows that contribute nothing else. This
  ordering misbehaves across a December->January boundary; the page
  under scrape is a single-month view, so that span never occurs in
  practice and the simple ordering is kept.

SEE ALSO:
  - night.go: per-day night hours
  - types.go: CalculatorResult
*/
package timesheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CALCULATION CONSTANTS
// =============================================================================

const (
	TravelRefundPerDay  = 26
	MealRefundPerDay    = 15
	MealEligibleHours   = 6
	NightMultiplier     = 1.5
	VacationHoursPerDay = 8
	Overtime125Start    = 9
	Overtime125End      = 11
	Overtime150Start    = 11
)

// =============================================================================
// OVERTIME
// =============================================================================

// Overtime holds the incremental overtime hours of a single day.
type Overtime struct {
	OT125 float64
	OT150 float64
}

// CalculateOvertime bands a day's total hours: hours between the 9th
// and 11th land in OT125, hours beyond the 11th in OT150.
func CalculateOvertime(totalHours float64) Overtime {
	return Overtime{
		OT125: math.Max(0, math.Min(totalHours, Overtime125End)-Overtime125Start),
		OT150: math.Max(0, totalHours-Overtime150Start),
	}
}

// =============================================================================
// SALARY AGGREGATION
// =============================================================================

// CalculateSalary aggregates rows into a payroll breakdown at the
// given hourly rate. A non-positive rate is ErrInvalidRate; an empty
// row list is ErrNoData.
func CalculateSalary(rows []ParsedRow, hourlyRate float64) (CalculatorResult, error) {
	if hourlyRate <= 0 {
		return CalculatorResult{}, ErrInvalidRate
	}
	if len(rows) == 0 {
		return CalculatorResult{}, ErrNoData
	}

	var (
		regularHours, nightHours   float64
		ot125Hours, ot150Hours     float64
		vacationDays, workDays     int
		mealEligibleDays           int
		periodStart, periodEnd     string
		minDateVal                 = math.Inf(1)
		maxDateVal                 = math.Inf(-1)
	)

	for _, row := range rows {
		// Period bounds track every row seen, whatever its type.
		if v, ok := dateOrdinal(row.Date); ok {
			if v < minDateVal {
				minDateVal = v
				periodStart = row.Date
			}
			if v > maxDateVal {
				maxDateVal = v
				periodEnd = row.Date
			}
		}

		switch row.ReportType {
		case ReportAbsence:
			continue
		case ReportVacation:
			vacationDays++
			continue
		}

		if row.TotalHours <= 0 {
			// Non-work day (weekly rest with no logged hours).
			continue
		}

		workDays++
		night := NightHours(row.EntryTime, row.ExitTime, row.DayOfWeek)
		nightHours += night
		regularHours += row.TotalHours - night

		if row.TotalHours >= MealEligibleHours {
			mealEligibleDays++
		}

		ot := CalculateOvertime(row.TotalHours)
		ot125Hours += ot.OT125
		ot150Hours += ot.OT150
	}

	rate := decimal.NewFromFloat(hourlyRate)
	regularPay := rate.Mul(decimal.NewFromFloat(regularHours))
	nightPay := rate.Mul(decimal.NewFromFloat(NightMultiplier)).Mul(decimal.NewFromFloat(nightHours))
	vacationPay := rate.Mul(decimal.NewFromInt(VacationHoursPerDay)).Mul(decimal.NewFromInt(int64(vacationDays)))
	travelRefund := decimal.NewFromInt(TravelRefundPerDay).Mul(decimal.NewFromInt(int64(workDays)))
	mealRefund := decimal.NewFromInt(MealRefundPerDay).Mul(decimal.NewFromInt(int64(mealEligibleDays)))
	ot125Pay := rate.Mul(decimal.NewFromFloat(0.25)).Mul(decimal.NewFromFloat(ot125Hours))
	ot150Pay := rate.Mul(decimal.NewFromFloat(0.5)).Mul(decimal.NewFromFloat(ot150Hours))
	totalPay := regularPay.Add(nightPay).Add(vacationPay).Add(travelRefund).Add(mealRefund).Add(ot125Pay).Add(ot150Pay)

	return CalculatorResult{
		TotalPay:         round2(totalPay),
		RegularHours:     round2f(regularHours),
		RegularPay:       round2(regularPay),
		NightHours:       round2f(nightHours),
		NightPay:         round2(nightPay),
		VacationDays:     vacationDays,
		VacationPay:      round2(vacationPay),
		WorkDays:         workDays,
		WorkDaysPay:      round2(regularPay.Add(nightPay)),
		TravelRefund:     round2(travelRefund),
		MealRefund:       round2(mealRefund),
		MealEligibleDays: mealEligibleDays,
		Overtime125Hours: round2f(ot125Hours),
		Overtime125Pay:   round2(ot125Pay),
		Overtime150Hours: round2f(ot150Hours),
		Overtime150Pay:   round2(ot150Pay),
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
	}, nil
}

// dateOrdinal maps "D/M" to month*100+day for min/max ordering.
// Not calendar-correct across a year boundary; see the file header.
func dateOrdinal(date string) (float64, bool) {
	parts := strings.Split(date, "/")
	if len(parts) < 2 {
		return 0, false
	}
	d, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return float64(m*100 + d), true
}

// round2 rounds a decimal amount half-up to 2 places.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// round2f rounds an hour total half-up to 2 places.
func round2f(f float64) float64 {
	return math.Round(f*100) / 100
}
