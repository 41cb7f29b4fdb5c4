package service

import (
	"context"
	"log"
	"time"

	"task-planner/internal/recurrence"
	"task-planner/internal/repository"
)

// RollForwardService advances recurring tasks whose cached next occurrence is
// today or earlier. The pure batch decision lives in recurrence.AdvanceAll;
// this service only loads the working set and persists the proposed updates,
// one task at a time so a failed write never aborts the rest.
type RollForwardService struct {
	taskRepo *repository.TaskRepository
}

func NewRollForwardService(taskRepo *repository.TaskRepository) *RollForwardService {
	return &RollForwardService{taskRepo: taskRepo}
}

// RollForwardResult reports a single run for the caller to log.
type RollForwardResult struct {
	Updated int
	Skipped int
}

// Run executes one roll-forward pass as of now. It is idempotent within a
// calendar day: a second run with no completions in between updates nothing.
func (s *RollForwardService) Run(ctx context.Context, now time.Time) (RollForwardResult, error) {
	tasks, err := s.taskRepo.ListIncompleteRecurring(ctx)
	if err != nil {
		return RollForwardResult{}, err
	}

	var result RollForwardResult
	states := make([]recurrence.TaskState, 0, len(tasks))
	for i := range tasks {
		state, err := tasks[i].RecurrenceState()
		if err != nil {
			// Malformed rule: leave the row untouched and move on.
			log.Printf("[warn] roll-forward: %v", err)
			result.Skipped++
			continue
		}
		states = append(states, state)
	}

	batch := recurrence.AdvanceAll(states, recurrence.DayOf(now))
	result.Skipped += batch.Skipped

	for _, update := range batch.Updates {
		if err := ctx.Err(); err != nil {
			// Wall-clock budget exhausted: report the remainder as skipped
			// rather than failing the batch.
			result.Skipped++
			continue
		}
		if err := s.taskRepo.UpdateNextOccurrence(ctx, update.TaskID, update.Next.Time()); err != nil {
			log.Printf("[warn] roll-forward: task %d: %v", update.TaskID, err)
			result.Skipped++
			continue
		}
		result.Updated++
	}
	return result, nil
}
