package billing

import (
	"fmt"
	"math"

	"github.com/stemsi/daycare-backend/internal/model"
)

// Flat amounts, in currency units.
const (
	LooseDayFee               = 40.0
	ExtendedScheduleSurcharge = 30.0
	EnrollmentFee             = 100.0
)

const (
	descNoSchedule = "no schedule assigned"
	descNoDays     = "no valid enrollment days this month"
)

// Fee is the billable base amount of one month and how it was reached.
type Fee struct {
	Base        float64 `json:"base"`
	Description string  `json:"description"`
}

// prorationTier maps an inclusive range of business days to a fee.
type prorationTier struct {
	minDays int
	maxDays int
	amount  func(price float64) float64
	label   func(days int) string
}

// prorationTiers is evaluated top to bottom; the first matching tier wins.
// A zero count matches nothing and falls through to descNoDays.
var prorationTiers = []prorationTier{
	{
		minDays: 1, maxDays: 1,
		amount: func(float64) float64 { return LooseDayFee },
		label:  func(int) string { return "1 loose day" },
	},
	{
		minDays: 2, maxDays: 5,
		amount: func(price float64) float64 { return price / 4 },
		label:  func(n int) string { return fmt.Sprintf("1-week fee (%d days)", n) },
	},
	{
		minDays: 6, maxDays: 10,
		amount: func(price float64) float64 { return price / 3 },
		label:  func(n int) string { return fmt.Sprintf("2-week fee (%d days)", n) },
	},
	{
		minDays: 11, maxDays: 15,
		amount: func(price float64) float64 { return price / 2 },
		label:  func(n int) string { return fmt.Sprintf("3-week fee (%d days)", n) },
	},
	{
		minDays: 16, maxDays: math.MaxInt,
		amount: func(price float64) float64 { return price },
		label:  func(n int) string { return fmt.Sprintf("full monthly fee (%d days)", n) },
	},
}

// prorate picks the tier for a business-day count.
func prorate(price float64, days int) Fee {
	for _, t := range prorationTiers {
		if days >= t.minDays && days <= t.maxDays {
			return Fee{Base: t.amount(price), Description: t.label(days)}
		}
	}
	return Fee{Base: 0, Description: descNoDays}
}

// FeeCalculator computes monthly base fees against a schedule catalog.
type FeeCalculator struct {
	schedules map[string]model.Schedule
}

// NewFeeCalculator indexes the catalog by schedule ID.
func NewFeeCalculator(catalog []model.Schedule) *FeeCalculator {
	schedules := make(map[string]model.Schedule, len(catalog))
	for _, s := range catalog {
		schedules[s.ID] = s
	}
	return &FeeCalculator{schedules: schedules}
}

// Compute returns the base fee of student for the zero-based month0 of year.
//
// A student whose active window covers the whole month pays the schedule
// price. A partial month is pro-rated by the number of business days in the
// overlap. Missing data never errors: it yields a zero base and a description
// of why.
func (c *FeeCalculator) Compute(student model.Student, month0, year int) Fee {
	schedule, ok := c.schedules[student.ScheduleID]
	if !ok {
		return Fee{Base: 0, Description: descNoSchedule}
	}

	start, ok := parseOptional(student.StartDate)
	if !ok {
		return Fee{Base: 0, Description: descNoDays}
	}
	end, hasEnd := parseOptional(student.PlannedEndDate)

	period := NewPeriod(year, month0)
	first, last := period.First(), period.Last()

	if !start.After(first) && (!hasEnd || !end.Before(last)) {
		return Fee{Base: schedule.Price, Description: fmt.Sprintf("monthly fee (%s)", schedule.Name)}
	}

	from := maxDate(start, first)
	to := last
	if hasEnd {
		to = minDate(end, last)
	}

	return prorate(schedule.Price, CountBusinessDays(from, to))
}

// ComputeFee is Compute without a prebuilt calculator.
func ComputeFee(student model.Student, month0, year int, catalog []model.Schedule) Fee {
	return NewFeeCalculator(catalog).Compute(student, month0, year)
}
