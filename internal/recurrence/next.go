package recurrence

import "fmt"

// NextOccurrence computes the next calendar day on which the rule recurs,
// starting from base. The result is always strictly after base: a base that
// already sits on a matching weekday advances a full interval, never "today".
func NextOccurrence(rule Rule, base Day) (Day, error) {
	switch rule.Type {
	case Daily, Custom:
		return base.AddDays(rule.Interval), nil
	case Weekly:
		return nextWeekly(rule, base), nil
	case Monthly:
		return base.AddMonths(rule.Interval), nil
	case Yearly:
		return base.AddYears(rule.Interval), nil
	default:
		return Day{}, fmt.Errorf("%w: %q", ErrUnsupportedRuleType, rule.Type)
	}
}

func nextWeekly(rule Rule, base Day) Day {
	if len(rule.DaysOfWeek) == 0 {
		// Incomplete weekly rules are rejected at the input boundary; if one
		// slips through, fall back to plain week arithmetic.
		return base.AddWeeks(rule.Interval)
	}
	if rule.hasWeekday(base.Weekday()) {
		return base.AddWeeks(rule.Interval)
	}
	// Forward-search for the nearest matching weekday, wrapping into the
	// following week when nothing later in the current week matches.
	for offset := 1; offset < 7; offset++ {
		day := base.AddDays(offset)
		if rule.hasWeekday(day.Weekday()) {
			return day
		}
	}
	return base.AddWeeks(rule.Interval)
}

// firstMatch finds the first day on or after anchor whose weekday is in the
// rule's set. It anchors the interval phase for weekly due-date checks.
func firstMatch(rule Rule, anchor Day) Day {
	day := anchor
	for offset := 0; offset < 7; offset++ {
		if rule.hasWeekday(day.Weekday()) {
			return day
		}
		day = day.AddDays(1)
	}
	return anchor
}
