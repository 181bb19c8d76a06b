// Package dates provides the canonical calendar-day representation used by
// the ledger. All balances are daily, so time-of-day and timezone never
// enter the math: a Day is a bare YYYY-MM-DD value pinned to UTC midnight.
package dates

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the canonical wire and storage format for a Day.
const Layout = "2006-01-02"

// Day is a single calendar day. The zero Day is "no date" and is reported
// by IsZero; it never matches any real day in a ledger walk.
type Day struct {
	t time.Time
}

// ParseDay parses a YYYY-MM-DD string into a Day.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// FromTime truncates a time.Time to its calendar day in UTC.
func FromTime(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day in UTC.
func Today() Day {
	return FromTime(time.Now())
}

func (d Day) IsZero() bool { return d.t.IsZero() }

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

// DayOfMonth returns the day-of-month component (1-31).
func (d Day) DayOfMonth() int { return d.t.Day() }

// AddDays returns the day n calendar days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// AddMonths returns the day n months after d, with Go's normalization for
// month-end overflow.
func (d Day) AddMonths(n int) Day {
	return Day{t: d.t.AddDate(0, n, 0)}
}

func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool  { return d.t.Equal(o.t) }

// DiffDays returns the signed number of calendar days from a to b.
func DiffDays(a, b Day) int {
	return int(b.t.Sub(a.t) / (24 * time.Hour))
}

// MarshalJSON encodes the Day as a quoted YYYY-MM-DD string, or null for
// the zero Day.
func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted YYYY-MM-DD string or null.
func (d *Day) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Day{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	day, err := ParseDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// Value implements driver.Valuer so a Day is stored as TEXT.
func (d Day) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner for TEXT and NULL columns.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Day{}
		return nil
	case string:
		day, err := ParseDay(v)
		if err != nil {
			return err
		}
		*d = day
		return nil
	case []byte:
		day, err := ParseDay(string(v))
		if err != nil {
			return err
		}
		*d = day
		return nil
	case time.Time:
		*d = FromTime(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into dates.Day", src)
	}
}
