package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a calendar month. Month is zero-based (0 = January).
type Period struct {
	Year  int
	Month int
}

// NewPeriod builds a Period, carrying month overflow into the year.
func NewPeriod(year, month0 int) Period {
	year += month0 / 12
	month0 %= 12
	if month0 < 0 {
		month0 += 12
		year--
	}
	return Period{Year: year, Month: month0}
}

// PeriodOf returns the month containing d.
func PeriodOf(d Date) Period {
	return Period{Year: d.Year, Month: d.Month - 1}
}

// ParsePeriod parses a YYYY-MM string.
func ParsePeriod(s string) (Period, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Period{Year: y, Month: m - 1}, nil
}

// First returns the first day of the month.
func (p Period) First() Date {
	return Date{Year: p.Year, Month: p.Month + 1, Day: 1}
}

// Last returns the last day of the month.
func (p Period) Last() Date {
	return Date{Year: p.Year, Month: p.Month + 1, Day: DaysIn(p.Year, p.Month+1)}
}

func (p Period) Next() Period { return NewPeriod(p.Year, p.Month+1) }
func (p Period) Prev() Period { return NewPeriod(p.Year, p.Month-1) }

// Contains reports whether d falls inside the month.
func (p Period) Contains(d Date) bool {
	return d.Year == p.Year && d.Month == p.Month+1
}

// Before reports whether p is an earlier month than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Label renders the month for humans, e.g. "January 2025".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month+1), p.Year)
}

// String renders the month as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month+1)
}
