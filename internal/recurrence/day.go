package recurrence

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar day with no time-of-day ambiguity. The underlying instant
// is pinned to noon UTC, so weekday and date-string derivations stay stable no
// matter which local timezone the original timestamp passed through.
// Equality and ordering are defined on the YYYY-MM-DD key.
type Day struct {
	t time.Time
}

// NewDay builds the day for the given calendar date.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 12, 0, 0, 0, time.UTC)}
}

// DayOf normalizes an arbitrary timestamp to the calendar day of its UTC date.
func DayOf(t time.Time) Day {
	year, month, day := t.UTC().Date()
	return NewDay(year, month, day)
}

// ParseDay parses a strict YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DayOf(t), nil
}

// Key returns the YYYY-MM-DD form used for all equality and map keying.
func (d Day) Key() string {
	return d.t.Format(dayLayout)
}

// Time exposes the pinned noon-UTC instant for storage.
func (d Day) Time() time.Time {
	return d.t
}

func (d Day) IsZero() bool {
	return d.t.IsZero()
}

func (d Day) Weekday() Weekday {
	return weekdayTags[int(d.t.Weekday())]
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.t.AddDate(0, 0, n))
}

func (d Day) AddWeeks(n int) Day {
	return d.AddDays(7 * n)
}

// AddMonths advances by calendar months, clamping to the last day of the
// target month when the source day does not exist there (Jan 31 + 1 month
// lands on Feb 28 or 29).
func (d Day) AddMonths(n int) Day {
	year, month, day := d.t.Date()
	first := time.Date(year, month, 1, 12, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	if last := daysInMonth(first.Month(), first.Year()); day > last {
		day = last
	}
	return NewDay(first.Year(), first.Month(), day)
}

func (d Day) AddYears(n int) Day {
	return DayOf(d.t.AddDate(n, 0, 0))
}

func (d Day) Before(other Day) bool {
	return d.Key() < other.Key()
}

func (d Day) After(other Day) bool {
	return d.Key() > other.Key()
}

func (d Day) Equal(other Day) bool {
	return d.Key() == other.Key()
}

// DaysUntil returns the number of whole days from d to other, negative when
// other is earlier. Both days sit at noon UTC, so the division is exact.
func (d Day) DaysUntil(other Day) int {
	return int(other.t.Sub(d.t) / (24 * time.Hour))
}

func (d Day) String() string {
	return d.Key()
}

func daysInMonth(month time.Month, year int) int {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
