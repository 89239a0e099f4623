package models

import (
	"fmt"
	"strings"
	"time"
)

// Month identifies a calendar year and month. Boundaries are computed in UTC.
type Month struct {
	Year  int
	Month time.Month
}

var monthLayouts = []string{"2006-01", "January 2006", "Jan 2006"}

// ParseMonth accepts "2006-01", "January 2006" or "Jan 2006".
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Month{Year: t.Year(), Month: t.Month()}, nil
		}
	}
	return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM or \"January 2006\")", s)
}

func MonthOf(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Start is the first instant of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the following month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

func (m Month) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(m.Start()) && t.Before(m.End())
}

func (m Month) Before(o Month) bool {
	return m.Start().Before(o.Start())
}

// String renders the month as "2006-01".
func (m Month) String() string {
	return m.Start().Format("2006-01")
}

// Label renders the month as "January 2006".
func (m Month) Label() string {
	return m.Start().Format("January 2006")
}
