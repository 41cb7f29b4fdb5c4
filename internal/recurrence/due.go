package recurrence

import "fmt"

// TaskState is the engine's view of a stored task. It is a copy: the engine
// computes derived values and returns them, it never touches storage.
type TaskState struct {
	ID              uint
	CreatedAt       Day
	DueDate         *Day
	Recurring       bool
	Rule            *Rule
	NextOccurrence  *Day
	LastCompletedAt *Day
	Completed       bool
}

// CheckRecurring verifies that a task flagged recurring carries a usable rule.
func (t TaskState) CheckRecurring() error {
	if !t.Recurring {
		return nil
	}
	if t.Rule == nil || t.Rule.Interval < 1 {
		return fmt.Errorf("%w: task %d", ErrMalformedRecurringTask, t.ID)
	}
	return nil
}

// IsDueOn decides whether the task should appear on the target calendar day.
//
// A task is never due before it was created or after its rule's end date. An
// explicit due date wins over all recurrence fields. Otherwise a recurring
// task is due on its cached next occurrence, or, for weekly rules with no
// cached occurrence, on any weekday-set match in the right interval phase.
func IsDueOn(task TaskState, target Day) bool {
	return isDueOn(task, target, weeklyAnchor(task))
}

func isDueOn(task TaskState, target Day, weeklyFirst Day) bool {
	if target.Before(task.CreatedAt) {
		return false
	}
	if task.Rule != nil && task.Rule.Ended(target) {
		return false
	}
	if task.DueDate != nil {
		return task.DueDate.Equal(target)
	}
	if !task.Recurring || task.Rule == nil {
		return false
	}
	if task.NextOccurrence != nil {
		return task.NextOccurrence.Equal(target)
	}
	rule := *task.Rule
	if rule.Type != Weekly || len(rule.DaysOfWeek) == 0 {
		return false
	}
	if !rule.hasWeekday(target.Weekday()) {
		return false
	}
	if rule.Interval <= 1 {
		return true
	}
	if target.Before(weeklyFirst) {
		return false
	}
	return (weeklyFirst.DaysUntil(target)/7)%rule.Interval == 0
}

// weeklyAnchor precomputes the phase anchor for weekly rules evaluated
// without a cached next occurrence. Zero for every other task shape.
func weeklyAnchor(task TaskState) Day {
	if !task.Recurring || task.Rule == nil || task.NextOccurrence != nil {
		return Day{}
	}
	if task.Rule.Type != Weekly || len(task.Rule.DaysOfWeek) == 0 {
		return Day{}
	}
	return firstMatch(*task.Rule, task.CreatedAt)
}

// MarkersInRange counts, for each day in [start, end] inclusive, how many of
// the given tasks are due on it, keyed by the day's YYYY-MM-DD form. Days with
// a zero count never get an entry. The weekly phase anchor is derived once per
// task, not once per day.
func MarkersInRange(tasks []TaskState, start, end Day) map[string]int {
	markers := make(map[string]int)
	if end.Before(start) {
		return markers
	}
	for _, task := range tasks {
		anchor := weeklyAnchor(task)
		for day := start; !day.After(end); day = day.AddDays(1) {
			if isDueOn(task, day, anchor) {
				markers[day.Key()]++
			}
		}
	}
	return markers
}
