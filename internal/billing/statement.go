package billing

import (
	"errors"
	"fmt"

	"github.com/stemsi/daycare-backend/internal/model"
)

// Line item categories.
const (
	CategoryFlexibleFee = "Flexible Fee"
	CategoryExtended    = "Extended Schedule"
	CategoryEnrollment  = "Enrollment Fee"
	CategoryPenalty     = "Penalty"
)

// ErrEmptyStatement marks a statement that must not be rendered.
var ErrEmptyStatement = errors.New("nothing billable")

// SuppressedError explains why no document is produced for a period.
type SuppressedError struct {
	Period Period
	Reason string
}

func (e *SuppressedError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrEmptyStatement, e.Period.Label(), e.Reason)
}

func (e *SuppressedError) Is(target error) bool { return target == ErrEmptyStatement }

// LineItem is one billable or informational entry.
// Informational items are shown but never added to the total.
type LineItem struct {
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Informational bool    `json:"informational,omitempty"`
}

// MonthCharges holds everything one month contributes to a statement.
type MonthCharges struct {
	Period     Period
	Fee        Fee
	Items      []LineItem
	Total      float64
	FirstMonth bool
	// Suppressed is set when the month has no base fee and no pending
	// enrollment fee; such a month never produces a document on its own.
	Suppressed bool
}

// penaltiesOnly keeps the penalty lines of a month and drops everything else.
func (m MonthCharges) penaltiesOnly() MonthCharges {
	out := MonthCharges{Period: m.Period, Fee: m.Fee, FirstMonth: m.FirstMonth, Suppressed: m.Suppressed}
	for _, item := range m.Items {
		if item.Category == CategoryPenalty {
			out.add(item)
		}
	}
	return out
}

func (m *MonthCharges) add(item LineItem) {
	m.Items = append(m.Items, item)
	if !item.Informational {
		m.Total += item.Amount
	}
}

// Statement is the rendered-ready result handed to the document renderer.
type Statement struct {
	StudentID int        `json:"student_id"`
	Periods   []Period   `json:"-"`
	Items     []LineItem `json:"items"`
	Total     float64    `json:"total"`
}

// PeriodLabel describes the months covered, e.g. "March 2025" or
// "November 2024 - January 2025".
func (s *Statement) PeriodLabel() string {
	switch len(s.Periods) {
	case 0:
		return ""
	case 1:
		return s.Periods[0].Label()
	}
	return s.Periods[0].Label() + " - " + s.Periods[len(s.Periods)-1].Label()
}

func (s *Statement) merge(m MonthCharges) {
	s.Periods = append(s.Periods, m.Period)
	s.Items = append(s.Items, m.Items...)
	s.Total += m.Total
}

// Assembler turns fees, surcharges, enrollment fees and penalties into statements.
type Assembler struct {
	calc *FeeCalculator
}

// NewAssembler creates an Assembler over the given schedule catalog.
func NewAssembler(catalog []model.Schedule) *Assembler {
	return &Assembler{calc: NewFeeCalculator(catalog)}
}

// Calculator exposes the underlying fee calculator.
func (a *Assembler) Calculator() *FeeCalculator { return a.calc }

// Month assembles the line items of a single month.
func (a *Assembler) Month(student model.Student, p Period, penalties []model.Penalty) MonthCharges {
	fee := a.calc.Compute(student, p.Month, p.Year)
	mc := MonthCharges{Period: p, Fee: fee}

	if fee.Base > 0 {
		mc.add(LineItem{
			Category:    CategoryFlexibleFee,
			Description: fmt.Sprintf("%s - %s", p.Label(), fee.Description),
			Amount:      fee.Base,
		})
		if student.ExtendedSchedule {
			mc.add(LineItem{
				Category:    CategoryExtended,
				Description: fmt.Sprintf("%s - extended schedule surcharge", p.Label()),
				Amount:      ExtendedScheduleSurcharge,
			})
		}
	}

	first, ok := FirstActivePeriod(student)
	mc.FirstMonth = ok && first == p
	if mc.FirstMonth {
		if student.EnrollmentFeePaid {
			mc.add(LineItem{
				Category:      CategoryEnrollment,
				Description:   "enrollment fee (already paid)",
				Amount:        EnrollmentFee,
				Informational: true,
			})
		} else {
			mc.add(LineItem{
				Category:    CategoryEnrollment,
				Description: "pending enrollment fee",
				Amount:      EnrollmentFee,
			})
		}
	}

	for _, pen := range penalties {
		d, err := ParseDate(pen.Date)
		if err != nil || !p.Contains(d) {
			continue
		}
		mc.add(LineItem{
			Category:    CategoryPenalty,
			Description: fmt.Sprintf("%02d/%02d - %s", d.Day, d.Month, pen.Reason),
			Amount:      pen.Amount,
		})
	}

	mc.Suppressed = fee.Base == 0 && (student.EnrollmentFeePaid || !mc.FirstMonth)
	return mc
}

func (a *Assembler) single(student model.Student, p Period, penalties []model.Penalty) (*Statement, error) {
	mc := a.Month(student, p, penalties)
	if mc.Suppressed {
		return nil, &SuppressedError{Period: p, Reason: mc.Fee.Description}
	}
	st := &Statement{StudentID: student.ID}
	st.merge(mc)
	return st, nil
}

// CurrentMonth builds the statement for the month containing today.
func (a *Assembler) CurrentMonth(student model.Student, today Date, penalties []model.Penalty) (*Statement, error) {
	return a.single(student, PeriodOf(today), penalties)
}

// NextMonth builds the statement for the month after today's.
func (a *Assembler) NextMonth(student model.Student, today Date, penalties []model.Penalty) (*Statement, error) {
	return a.single(student, PeriodOf(today).Next(), penalties)
}

// Consolidated builds one statement covering every elapsed month from the
// enrollment start month up to, but excluding, the current month. Months that
// would be suppressed on their own contribute only their penalty lines.
func (a *Assembler) Consolidated(student model.Student, today Date, penalties []model.Penalty) (*Statement, error) {
	current := PeriodOf(today)

	first, ok := FirstActivePeriod(student)
	if !ok {
		return nil, &SuppressedError{Period: current, Reason: descNoDays}
	}

	st := &Statement{StudentID: student.ID}
	for p := first; p.Before(current); p = p.Next() {
		mc := a.Month(student, p, penalties)
		if mc.Suppressed {
			mc = mc.penaltiesOnly()
			if len(mc.Items) == 0 {
				continue
			}
		}
		st.merge(mc)
	}

	if len(st.Periods) == 0 {
		return nil, &SuppressedError{Period: current.Prev(), Reason: "no billable months before the current one"}
	}
	return st, nil
}
