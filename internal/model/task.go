package model

import (
	"encoding/json"
	"fmt"
	"time"

	"task-planner/internal/recurrence"
)

// Task represents a single item in the planner. Recurrence columns mirror the
// persisted representation: the weekday set is stored as a JSON array of tags
// and only converted to the typed form at this boundary.
type Task struct {
	ID              uint  `gorm:"primaryKey"`
	UserID          uint  `gorm:"index"`
	CategoryID      *uint `gorm:"index"`
	Title           string
	Description     string
	DueDate         *time.Time
	IsCompleted     bool   `gorm:"default:false"`
	IsRecurring     bool   `gorm:"default:false"`
	RecurType       string // daily, weekly, monthly, yearly, custom
	RecurInterval   int
	RecurDaysOfWeek string // JSON array of weekday tags, e.g. ["mon","thu"]
	RecurEndDate    *time.Time
	NextOccurrence  *time.Time
	LastCompletedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RecurrenceRule builds the typed rule from the stored recurrence columns.
// Returns nil for non-recurring tasks.
func (t *Task) RecurrenceRule() (*recurrence.Rule, error) {
	if !t.IsRecurring {
		return nil, nil
	}
	if t.RecurType == "" || t.RecurInterval < 1 {
		return nil, fmt.Errorf("%w: task %d", recurrence.ErrMalformedRecurringTask, t.ID)
	}
	days, err := DecodeWeekdays(t.RecurDaysOfWeek)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", t.ID, err)
	}
	rule := &recurrence.Rule{
		Type:       recurrence.RuleType(t.RecurType),
		Interval:   t.RecurInterval,
		DaysOfWeek: days,
	}
	if t.RecurEndDate != nil {
		end := recurrence.DayOf(*t.RecurEndDate)
		rule.EndDate = &end
	}
	return rule, nil
}

// RecurrenceState projects the task into the view the recurrence engine works
// on. On a malformed rule the returned state is still usable for due-date
// checks (rule left nil); the error tells batch callers to count the task as
// skipped instead of dropping it.
func (t *Task) RecurrenceState() (recurrence.TaskState, error) {
	state := recurrence.TaskState{
		ID:              t.ID,
		CreatedAt:       recurrence.DayOf(t.CreatedAt),
		DueDate:         dayPtr(t.DueDate),
		Recurring:       t.IsRecurring,
		NextOccurrence:  dayPtr(t.NextOccurrence),
		LastCompletedAt: dayPtr(t.LastCompletedAt),
		Completed:       t.IsCompleted,
	}
	rule, err := t.RecurrenceRule()
	if err != nil {
		return state, err
	}
	state.Rule = rule
	return state, nil
}

func dayPtr(t *time.Time) *recurrence.Day {
	if t == nil {
		return nil
	}
	day := recurrence.DayOf(*t)
	return &day
}

// EncodeWeekdays serializes weekday tags for the RecurDaysOfWeek column.
// An empty set stores as the empty string, not "[]".
func EncodeWeekdays(days []recurrence.Weekday) (string, error) {
	if len(days) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("encode weekdays: %w", err)
	}
	return string(raw), nil
}

// DecodeWeekdays parses the stored JSON array back into typed tags.
func DecodeWeekdays(raw string) ([]recurrence.Weekday, error) {
	if raw == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode weekdays %q: %w", raw, err)
	}
	days := make([]recurrence.Weekday, 0, len(tags))
	for _, tag := range tags {
		day, err := recurrence.ParseWeekday(tag)
		if err != nil {
			return nil, fmt.Errorf("decode weekdays: %w", err)
		}
		days = append(days, day)
	}
	return days, nil
}
