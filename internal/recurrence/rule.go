package recurrence

import "fmt"

// RuleType names how often a task repeats.
type RuleType string

const (
	Daily   RuleType = "daily"
	Weekly  RuleType = "weekly"
	Monthly RuleType = "monthly"
	Yearly  RuleType = "yearly"
	// Custom repeats every Interval days, same arithmetic as daily.
	Custom RuleType = "custom"
)

// Rule describes a repeat pattern: type, interval, optional weekday set for
// weekly rules, and an optional end date after which no occurrence is valid.
type Rule struct {
	Type       RuleType
	Interval   int
	DaysOfWeek []Weekday
	EndDate    *Day
}

// Validate rejects rules that must not reach the calculator. A weekly rule
// with an empty weekday set is incomplete and fails with ErrIncompleteWeeklyRule.
func (r Rule) Validate() error {
	switch r.Type {
	case Daily, Weekly, Monthly, Yearly, Custom:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedRuleType, r.Type)
	}
	if r.Interval < 1 {
		return fmt.Errorf("recurrence interval must be at least 1, got %d", r.Interval)
	}
	if r.Type == Weekly && len(r.DaysOfWeek) == 0 {
		return ErrIncompleteWeeklyRule
	}
	return nil
}

// Ended reports whether day falls strictly after the rule's end date.
func (r Rule) Ended(day Day) bool {
	return r.EndDate != nil && day.After(*r.EndDate)
}

func (r Rule) hasWeekday(w Weekday) bool {
	for _, tag := range r.DaysOfWeek {
		if tag == w {
			return true
		}
	}
	return false
}
