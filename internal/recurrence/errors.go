package recurrence

import "errors"

var (
	// ErrInvalidDate reports a date string that does not parse as YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrUnsupportedRuleType reports an unknown recurrence type tag.
	ErrUnsupportedRuleType = errors.New("unsupported recurrence type")

	// ErrIncompleteWeeklyRule reports a weekly rule with an empty weekday set.
	// Such rules are rejected at the input boundary and never reach the calculator.
	ErrIncompleteWeeklyRule = errors.New("weekly rule has no days of week")

	// ErrMalformedRecurringTask reports a task flagged recurring whose stored
	// rule fields are missing or unusable. Batch callers skip and count these
	// instead of failing.
	ErrMalformedRecurringTask = errors.New("recurring task has no usable rule")
)
