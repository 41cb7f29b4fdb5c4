package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceAllCatchesUpOverdueTask(t *testing.T) {
	// Created March 1, completed never, cached occurrence fell to March 2.
	// Running on March 5 walks the daily rule past today in one batch.
	task := TaskState{
		ID:             1,
		CreatedAt:      NewDay(2024, time.March, 1),
		Recurring:      true,
		Rule:           &Rule{Type: Daily, Interval: 1},
		NextOccurrence: dayPtr(NewDay(2024, time.March, 2)),
	}

	result := AdvanceAll([]TaskState{task}, NewDay(2024, time.March, 5))
	require.Len(t, result.Updates, 1)
	assert.Equal(t, uint(1), result.Updates[0].TaskID)
	assert.Equal(t, "2024-03-06", result.Updates[0].Next.Key())
	assert.Equal(t, 0, result.Skipped)
}

func TestAdvanceAllIsIdempotentWithinADay(t *testing.T) {
	today := NewDay(2024, time.March, 5)
	tasks := []TaskState{
		{
			ID:             1,
			CreatedAt:      NewDay(2024, time.March, 1),
			Recurring:      true,
			Rule:           &Rule{Type: Daily, Interval: 1},
			NextOccurrence: dayPtr(NewDay(2024, time.March, 2)),
		},
		{
			ID:        2,
			CreatedAt: NewDay(2024, time.January, 3),
			Recurring: true,
			Rule:      &Rule{Type: Weekly, Interval: 2, DaysOfWeek: []Weekday{Wednesday}},
		},
	}

	first := AdvanceAll(tasks, today)
	require.Len(t, first.Updates, 2)

	// Apply the updates the way a persistence layer would, then run again.
	next := make(map[uint]Day)
	for _, update := range first.Updates {
		assert.True(t, update.Next.After(today), "task %d not advanced past today", update.TaskID)
		next[update.TaskID] = update.Next
	}
	for i := range tasks {
		if day, ok := next[tasks[i].ID]; ok {
			tasks[i].NextOccurrence = dayPtr(day)
		}
	}

	second := AdvanceAll(tasks, today)
	assert.Empty(t, second.Updates)
	assert.Equal(t, len(tasks), second.Skipped)
}

func TestAdvanceAllSkipsStillPending(t *testing.T) {
	task := TaskState{
		ID:             1,
		CreatedAt:      NewDay(2024, time.March, 1),
		Recurring:      true,
		Rule:           &Rule{Type: Daily, Interval: 1},
		NextOccurrence: dayPtr(NewDay(2024, time.March, 9)),
	}

	result := AdvanceAll([]TaskState{task}, NewDay(2024, time.March, 5))
	assert.Empty(t, result.Updates)
	assert.Equal(t, 1, result.Skipped)
}

func TestAdvanceAllBasePreference(t *testing.T) {
	today := NewDay(2024, time.March, 10)
	rule := &Rule{Type: Weekly, Interval: 1, DaysOfWeek: []Weekday{Friday}}

	tests := []struct {
		name string
		task TaskState
		want string
	}{
		{
			name: "last completion wins over stale occurrence",
			task: TaskState{
				ID:              1,
				CreatedAt:       NewDay(2024, time.February, 1),
				Recurring:       true,
				Rule:            rule,
				NextOccurrence:  dayPtr(NewDay(2024, time.March, 1)),
				LastCompletedAt: dayPtr(NewDay(2024, time.March, 8)), // Friday
			},
			want: "2024-03-15",
		},
		{
			name: "stale occurrence wins over due date",
			task: TaskState{
				ID:             2,
				CreatedAt:      NewDay(2024, time.February, 1),
				Recurring:      true,
				Rule:           rule,
				NextOccurrence: dayPtr(NewDay(2024, time.March, 8)),
				DueDate:        dayPtr(NewDay(2024, time.February, 2)),
			},
			want: "2024-03-15",
		},
		{
			name: "due date wins over today",
			task: TaskState{
				ID:        3,
				CreatedAt: NewDay(2024, time.February, 1),
				Recurring: true,
				Rule:      &Rule{Type: Monthly, Interval: 1},
				DueDate:   dayPtr(NewDay(2024, time.February, 20)),
			},
			want: "2024-03-20",
		},
		{
			name: "falls back to today",
			task: TaskState{
				ID:        4,
				CreatedAt: NewDay(2024, time.February, 1),
				Recurring: true,
				Rule:      &Rule{Type: Daily, Interval: 1},
			},
			want: "2024-03-11",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := AdvanceAll([]TaskState{tc.task}, today)
			require.Len(t, result.Updates, 1)
			assert.Equal(t, tc.want, result.Updates[0].Next.Key())
		})
	}
}

func TestAdvanceAllSkipsPastEndDate(t *testing.T) {
	end := NewDay(2024, time.March, 4)
	task := TaskState{
		ID:             1,
		CreatedAt:      NewDay(2024, time.February, 1),
		Recurring:      true,
		Rule:           &Rule{Type: Daily, Interval: 1, EndDate: &end},
		NextOccurrence: dayPtr(NewDay(2024, time.March, 4)),
	}

	// The only candidate after today would land past the end date: the task is
	// skipped and its stored occurrence left alone so expiry stays detectable.
	result := AdvanceAll([]TaskState{task}, NewDay(2024, time.March, 5))
	assert.Empty(t, result.Updates)
	assert.Equal(t, 1, result.Skipped)
}

func TestAdvanceAllSkipsMalformedWithoutAborting(t *testing.T) {
	tasks := []TaskState{
		{ID: 1, CreatedAt: NewDay(2024, time.March, 1), Recurring: true}, // no rule at all
		{ID: 2, CreatedAt: NewDay(2024, time.March, 1), Recurring: true, Rule: &Rule{Type: Daily}},         // interval missing
		{ID: 3, CreatedAt: NewDay(2024, time.March, 1), Recurring: true, Rule: &Rule{Type: "??", Interval: 1}}, // unknown type
		{ID: 4, CreatedAt: NewDay(2024, time.March, 1), Recurring: true, Rule: &Rule{Type: Daily, Interval: 1}},
	}

	result := AdvanceAll(tasks, NewDay(2024, time.March, 5))
	require.Len(t, result.Updates, 1)
	assert.Equal(t, uint(4), result.Updates[0].TaskID)
	assert.Equal(t, 3, result.Skipped)
}

func TestAdvanceAllIgnoresCompletedAndNonRecurring(t *testing.T) {
	tasks := []TaskState{
		{ID: 1, CreatedAt: NewDay(2024, time.March, 1), Recurring: true, Completed: true, Rule: &Rule{Type: Daily, Interval: 1}},
		{ID: 2, CreatedAt: NewDay(2024, time.March, 1), DueDate: dayPtr(NewDay(2024, time.March, 2))},
	}

	result := AdvanceAll(tasks, NewDay(2024, time.March, 5))
	assert.Empty(t, result.Updates)
	assert.Equal(t, 0, result.Skipped)
}

func TestAdvanceAllWeeklyLandsOnPatternDay(t *testing.T) {
	task := TaskState{
		ID:              1,
		CreatedAt:       NewDay(2024, time.January, 1),
		Recurring:       true,
		Rule:            &Rule{Type: Weekly, Interval: 2, DaysOfWeek: []Weekday{Wednesday}},
		LastCompletedAt: dayPtr(NewDay(2024, time.January, 3)), // Wednesday
	}

	result := AdvanceAll([]TaskState{task}, NewDay(2024, time.January, 4))
	require.Len(t, result.Updates, 1)
	assert.Equal(t, "2024-01-17", result.Updates[0].Next.Key())
	assert.Equal(t, Wednesday, result.Updates[0].Next.Weekday())
}
