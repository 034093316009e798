package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stemsi/daycare-backend/internal/model"
)

const testPrice = 410.0

var testCatalog = []model.Schedule{
	{ID: "full", Name: "Full day", Price: testPrice, ContractualEnd: "17:00"},
	{ID: "morning", Name: "Mornings", Price: 280, ContractualEnd: "13:00"},
}

func enrolled(start, end string) model.Student {
	return model.Student{ID: 1, ScheduleID: "full", StartDate: start, PlannedEndDate: end}
}

func TestComputeFee_FullMonth(t *testing.T) {
	fee := ComputeFee(enrolled("2024-12-01", ""), 0, 2025, testCatalog)

	assert.Equal(t, testPrice, fee.Base)
	assert.Equal(t, "monthly fee (Full day)", fee.Description)

	// Starting exactly on the 1st and ending exactly on the last day is still a full month.
	fee = ComputeFee(enrolled("2025-02-01", "2025-02-28"), 1, 2025, testCatalog)
	assert.Equal(t, testPrice, fee.Base)
}

// February 2025 starts on a Saturday; from Monday the 3rd each end date below
// yields the business-day count named in the test case.
func TestComputeFee_TierBoundaries(t *testing.T) {
	tests := []struct {
		end      string
		days     int
		wantBase float64
		wantDesc string
	}{
		{end: "2025-02-03", days: 1, wantBase: 40, wantDesc: "1 loose day"},
		{end: "2025-02-04", days: 2, wantBase: testPrice / 4, wantDesc: "1-week fee (2 days)"},
		{end: "2025-02-07", days: 5, wantBase: testPrice / 4, wantDesc: "1-week fee (5 days)"},
		{end: "2025-02-10", days: 6, wantBase: testPrice / 3, wantDesc: "2-week fee (6 days)"},
		{end: "2025-02-14", days: 10, wantBase: testPrice / 3, wantDesc: "2-week fee (10 days)"},
		{end: "2025-02-17", days: 11, wantBase: testPrice / 2, wantDesc: "3-week fee (11 days)"},
		{end: "2025-02-21", days: 15, wantBase: testPrice / 2, wantDesc: "3-week fee (15 days)"},
		{end: "2025-02-24", days: 16, wantBase: testPrice, wantDesc: "full monthly fee (16 days)"},
		{end: "", days: 20, wantBase: testPrice, wantDesc: "full monthly fee (20 days)"},
	}

	for _, tt := range tests {
		t.Run(tt.wantDesc, func(t *testing.T) {
			a := assert.New(t)
			a.Equal(tt.days, CountBusinessDays(Date{2025, 2, 3}, lastOr(tt.end)))

			fee := ComputeFee(enrolled("2025-02-03", tt.end), 1, 2025, testCatalog)
			a.Equal(tt.wantBase, fee.Base)
			a.Equal(tt.wantDesc, fee.Description)
		})
	}
}

func lastOr(s string) Date {
	if d, ok := parseOptional(s); ok {
		return d
	}
	return Date{2025, 2, 28}
}

func TestComputeFee_LooseDayIgnoresPrice(t *testing.T) {
	s := enrolled("2025-02-03", "2025-02-03")
	s.ScheduleID = "morning"

	fee := ComputeFee(s, 1, 2025, testCatalog)
	assert.Equal(t, LooseDayFee, fee.Base)
}

func TestComputeFee_NoStartDate(t *testing.T) {
	s := enrolled("", "")
	for month := 0; month < 12; month++ {
		fee := ComputeFee(s, month, 2025, testCatalog)
		assert.Zero(t, fee.Base)
		assert.Equal(t, "no valid enrollment days this month", fee.Description)
	}
}

func TestComputeFee_WeekendOnlyWindow(t *testing.T) {
	fee := ComputeFee(enrolled("2025-02-01", "2025-02-02"), 1, 2025, testCatalog)

	assert.Zero(t, fee.Base)
	assert.Equal(t, "no valid enrollment days this month", fee.Description)
}

func TestComputeFee_OutsideWindow(t *testing.T) {
	// Ended before the month.
	fee := ComputeFee(enrolled("2024-09-01", "2024-12-20"), 0, 2025, testCatalog)
	assert.Zero(t, fee.Base)

	// Starts after the month.
	fee = ComputeFee(enrolled("2025-03-03", ""), 1, 2025, testCatalog)
	assert.Zero(t, fee.Base)
}

func TestComputeFee_UnknownSchedule(t *testing.T) {
	s := enrolled("2024-01-01", "")
	s.ScheduleID = "evening"

	fee := ComputeFee(s, 0, 2025, testCatalog)
	assert.Zero(t, fee.Base)
	assert.Equal(t, "no schedule assigned", fee.Description)
}

func TestComputeFee_MidMonthStart(t *testing.T) {
	// 2025-01-15 (Wednesday) through the 31st holds 13 business days.
	fee := ComputeFee(enrolled("2025-01-15", ""), 0, 2025, testCatalog)

	assert.Equal(t, 205.0, fee.Base)
	assert.Equal(t, "3-week fee (13 days)", fee.Description)
}

func TestComputeFee_MidMonthEnd(t *testing.T) {
	// January 1-10 2025 holds 8 business days (Wed-Fri, then Mon-Fri).
	fee := ComputeFee(enrolled("2024-06-01", "2025-01-10"), 0, 2025, testCatalog)

	assert.Equal(t, testPrice/3, fee.Base)
	assert.Equal(t, "2-week fee (8 days)", fee.Description)
}

func TestComputeFee_Idempotent(t *testing.T) {
	s := enrolled("2025-01-15", "")
	calc := NewFeeCalculator(testCatalog)

	assert.Equal(t, calc.Compute(s, 0, 2025), calc.Compute(s, 0, 2025))
}

func TestActiveWindowPredicates(t *testing.T) {
	today := Date{2025, 3, 12}

	ongoing := enrolled("2025-01-15", "")
	assert.True(t, ActiveThisMonth(ongoing, today))
	assert.True(t, ActiveLastMonth(ongoing, today))
	assert.True(t, ActiveNextMonth(ongoing, today))

	leaving := enrolled("2024-09-01", "2025-02-28")
	assert.False(t, ActiveThisMonth(leaving, today))
	assert.True(t, ActiveLastMonth(leaving, today))
	assert.False(t, ActiveNextMonth(leaving, today))

	joining := enrolled("2025-04-01", "")
	assert.False(t, ActiveThisMonth(joining, today))
	assert.True(t, ActiveNextMonth(joining, today))

	assert.False(t, ActiveThisMonth(enrolled("", ""), today))
}
