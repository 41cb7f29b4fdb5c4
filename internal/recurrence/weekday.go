package recurrence

import (
	"fmt"
	"strings"
	"time"
)

// Weekday tags a day of the week in rule definitions. Stored weekday sets are
// serialized as a JSON array of these tags at the persistence boundary; the
// calculator only ever sees the typed form.
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

// weekdayTags is indexed by time.Weekday (0 = Sunday .. 6 = Saturday).
var weekdayTags = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf maps the stdlib weekday to its tag.
func WeekdayOf(w time.Weekday) Weekday {
	return weekdayTags[int(w)]
}

// ParseWeekday converts a stored tag back to the typed form.
func ParseWeekday(s string) (Weekday, error) {
	switch tag := Weekday(strings.ToLower(strings.TrimSpace(s))); tag {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return tag, nil
	default:
		return "", fmt.Errorf("unknown weekday tag %q", s)
	}
}
