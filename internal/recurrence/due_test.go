package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dayPtr(d Day) *Day { return &d }

func TestIsDueOnExplicitDueDate(t *testing.T) {
	task := TaskState{
		ID:        1,
		CreatedAt: NewDay(2024, time.March, 1),
		DueDate:   dayPtr(NewDay(2024, time.March, 10)),
	}

	assert.True(t, IsDueOn(task, NewDay(2024, time.March, 10)))
	assert.False(t, IsDueOn(task, NewDay(2024, time.March, 9)))
	assert.False(t, IsDueOn(task, NewDay(2024, time.March, 11)))
}

func TestIsDueOnNeverBeforeCreation(t *testing.T) {
	task := TaskState{
		ID:        1,
		CreatedAt: NewDay(2024, time.March, 10),
		DueDate:   dayPtr(NewDay(2024, time.March, 10)),
	}

	// One day before creation is always false, whatever else matches.
	assert.False(t, IsDueOn(task, NewDay(2024, time.March, 9)))

	weekly := TaskState{
		ID:        2,
		CreatedAt: NewDay(2024, time.March, 10),
		Recurring: true,
		Rule:      &Rule{Type: Weekly, Interval: 1, DaysOfWeek: []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}},
	}
	assert.False(t, IsDueOn(weekly, NewDay(2024, time.March, 9)))
}

func TestIsDueOnNeverAfterEndDate(t *testing.T) {
	end := NewDay(2024, time.March, 20)
	task := TaskState{
		ID:        1,
		CreatedAt: NewDay(2024, time.March, 1),
		Recurring: true,
		Rule:      &Rule{Type: Weekly, Interval: 1, DaysOfWeek: []Weekday{Thursday}, EndDate: &end},
	}

	assert.True(t, IsDueOn(task, NewDay(2024, time.March, 14)))  // Thursday before end
	assert.False(t, IsDueOn(task, NewDay(2024, time.March, 21))) // Thursday, one day past end
	assert.False(t, IsDueOn(task, NewDay(2024, time.March, 28)))
}

func TestIsDueOnDueDateWinsOverRecurrence(t *testing.T) {
	task := TaskState{
		ID:             1,
		CreatedAt:      NewDay(2024, time.March, 1),
		DueDate:        dayPtr(NewDay(2024, time.March, 5)),
		Recurring:      true,
		Rule:           &Rule{Type: Daily, Interval: 1},
		NextOccurrence: dayPtr(NewDay(2024, time.March, 8)),
	}

	assert.True(t, IsDueOn(task, NewDay(2024, time.March, 5)))
	assert.False(t, IsDueOn(task, NewDay(2024, time.March, 8)))
}

func TestIsDueOnCachedNextOccurrence(t *testing.T) {
	task := TaskState{
		ID:             1,
		CreatedAt:      NewDay(2024, time.March, 1),
		Recurring:      true,
		Rule:           &Rule{Type: Daily, Interval: 1},
		NextOccurrence: dayPtr(NewDay(2024, time.March, 8)),
	}

	assert.True(t, IsDueOn(task, NewDay(2024, time.March, 8)))
	assert.False(t, IsDueOn(task, NewDay(2024, time.March, 7)))
	assert.False(t, IsDueOn(task, NewDay(2024, time.March, 9)))
}

func TestIsDueOnWeeklyIntervalPhase(t *testing.T) {
	// Every second Wednesday, created on a Wednesday: the creation-week hit
	// and every other Wednesday after it are due; the ones between are not.
	task := TaskState{
		ID:        1,
		CreatedAt: NewDay(2024, time.January, 3), // Wednesday
		Recurring: true,
		Rule:      &Rule{Type: Weekly, Interval: 2, DaysOfWeek: []Weekday{Wednesday}},
	}

	assert.True(t, IsDueOn(task, NewDay(2024, time.January, 3)))
	assert.False(t, IsDueOn(task, NewDay(2024, time.January, 10)))
	assert.True(t, IsDueOn(task, NewDay(2024, time.January, 17)))
	assert.False(t, IsDueOn(task, NewDay(2024, time.January, 24)))
	assert.True(t, IsDueOn(task, NewDay(2024, time.January, 31)))

	// Non-Wednesdays never match.
	assert.False(t, IsDueOn(task, NewDay(2024, time.January, 16)))
}

func TestIsDueOnWeeklyPhaseAnchorsAtFirstMatch(t *testing.T) {
	// Created on a Friday with a Monday-only rule: the anchor is the first
	// Monday on or after creation, not creation itself.
	task := TaskState{
		ID:        1,
		CreatedAt: NewDay(2024, time.March, 1), // Friday
		Recurring: true,
		Rule:      &Rule{Type: Weekly, Interval: 2, DaysOfWeek: []Weekday{Monday}},
	}

	assert.True(t, IsDueOn(task, NewDay(2024, time.March, 4)))   // first Monday
	assert.False(t, IsDueOn(task, NewDay(2024, time.March, 11))) // off phase
	assert.True(t, IsDueOn(task, NewDay(2024, time.March, 18)))
}

func TestIsDueOnWeeklyMultipleDays(t *testing.T) {
	task := TaskState{
		ID:        1,
		CreatedAt: NewDay(2024, time.March, 4), // Monday
		Recurring: true,
		Rule:      &Rule{Type: Weekly, Interval: 1, DaysOfWeek: []Weekday{Monday, Friday}},
	}

	assert.True(t, IsDueOn(task, NewDay(2024, time.March, 4)))
	assert.True(t, IsDueOn(task, NewDay(2024, time.March, 8)))
	assert.False(t, IsDueOn(task, NewDay(2024, time.March, 6)))
	assert.True(t, IsDueOn(task, NewDay(2024, time.March, 11)))
}

func TestIsDueOnNonRecurringWithoutDueDate(t *testing.T) {
	task := TaskState{ID: 1, CreatedAt: NewDay(2024, time.March, 1)}
	assert.False(t, IsDueOn(task, NewDay(2024, time.March, 1)))
}

func TestMarkersInRangeMatchesPerDayEvaluation(t *testing.T) {
	end := NewDay(2024, time.March, 20)
	tasks := []TaskState{
		{
			ID:        1,
			CreatedAt: NewDay(2024, time.March, 1),
			DueDate:   dayPtr(NewDay(2024, time.March, 10)),
		},
		{
			ID:        2,
			CreatedAt: NewDay(2024, time.March, 1), // Friday
			Recurring: true,
			Rule:      &Rule{Type: Weekly, Interval: 2, DaysOfWeek: []Weekday{Monday, Friday}},
		},
		{
			ID:        3,
			CreatedAt: NewDay(2024, time.February, 1),
			Recurring: true,
			Rule:      &Rule{Type: Weekly, Interval: 1, DaysOfWeek: []Weekday{Sunday}, EndDate: &end},
		},
		{
			ID:             4,
			CreatedAt:      NewDay(2024, time.March, 1),
			Recurring:      true,
			Rule:           &Rule{Type: Daily, Interval: 1},
			NextOccurrence: dayPtr(NewDay(2024, time.March, 10)),
		},
	}

	start, stop := NewDay(2024, time.February, 25), NewDay(2024, time.March, 31)
	markers := MarkersInRange(tasks, start, stop)

	for day := start; !day.After(stop); day = day.AddDays(1) {
		want := 0
		for _, task := range tasks {
			if IsDueOn(task, day) {
				want++
			}
		}
		got, present := markers[day.Key()]
		if want == 0 {
			assert.False(t, present, "zero-count day %s must not be materialized", day.Key())
			continue
		}
		assert.Equal(t, want, got, "count for %s", day.Key())
	}

	// March 10 is a Sunday hit by the fixed due date, the cached occurrence
	// and the Sunday rule at once: one entry, three counts, no double counting.
	assert.Equal(t, 3, markers["2024-03-10"])
}

func TestMarkersInRangeEmptyAndInverted(t *testing.T) {
	tasks := []TaskState{{ID: 1, CreatedAt: NewDay(2024, time.March, 1), DueDate: dayPtr(NewDay(2024, time.March, 10))}}

	assert.Empty(t, MarkersInRange(nil, NewDay(2024, time.March, 1), NewDay(2024, time.March, 5)))
	assert.Empty(t, MarkersInRange(tasks, NewDay(2024, time.March, 5), NewDay(2024, time.March, 1)))
}

func TestCheckRecurring(t *testing.T) {
	assert.NoError(t, TaskState{ID: 1}.CheckRecurring())
	assert.NoError(t, TaskState{ID: 1, Recurring: true, Rule: &Rule{Type: Daily, Interval: 1}}.CheckRecurring())
	assert.ErrorIs(t, TaskState{ID: 1, Recurring: true}.CheckRecurring(), ErrMalformedRecurringTask)
	assert.ErrorIs(t, TaskState{ID: 1, Recurring: true, Rule: &Rule{Type: Daily}}.CheckRecurring(), ErrMalformedRecurringTask)
}
