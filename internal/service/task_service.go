package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"task-planner/internal/model"
	"task-planner/internal/recurrence"
	"task-planner/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title           string
	Description     string
	Category        string
	DueDate         *time.Time
	IsRecurring     bool
	RecurType       string
	RecurInterval   int
	RecurDaysOfWeek []string
	RecurEndDate    *time.Time
}

// TaskService wraps task-related business logic: rule validation at the input
// boundary, the creation-time next-occurrence computation, due-date queries
// and the completion rollover.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo}
}

// CreateTask validates the input, computes the initial next occurrence for
// recurring tasks (base = due date, or now when none is set) and persists the
// new task. Incomplete rules are rejected here, never silently defaulted.
func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput, now time.Time) (*model.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	var categoryID *uint
	if input.Category != "" {
		category, err := s.categoryRepo.GetOrCreate(ctx, user.ID, input.Category)
		if err != nil {
			return nil, err
		}
		if category != nil {
			categoryID = &category.ID
		}
	}

	task := model.Task{
		UserID:      user.ID,
		CategoryID:  categoryID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		IsRecurring: input.IsRecurring,
		// Creation time comes from the caller's clock: it establishes the
		// earliest day the task can ever be due.
		CreatedAt: now,
	}

	if input.IsRecurring {
		rule, err := buildRule(input)
		if err != nil {
			return nil, err
		}

		encoded, err := model.EncodeWeekdays(rule.DaysOfWeek)
		if err != nil {
			return nil, err
		}
		task.RecurType = string(rule.Type)
		task.RecurInterval = rule.Interval
		task.RecurDaysOfWeek = encoded
		task.RecurEndDate = input.RecurEndDate

		base := recurrence.DayOf(now)
		if input.DueDate != nil {
			base = recurrence.DayOf(*input.DueDate)
		}
		next, err := recurrence.NextOccurrence(*rule, base)
		if err != nil {
			return nil, err
		}
		if !rule.Ended(next) {
			nextAt := next.Time()
			task.NextOccurrence = &nextAt
		}
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func buildRule(input TaskInput) (*recurrence.Rule, error) {
	days := make([]recurrence.Weekday, 0, len(input.RecurDaysOfWeek))
	for _, tag := range input.RecurDaysOfWeek {
		day, err := recurrence.ParseWeekday(tag)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	rule := recurrence.Rule{
		Type:       recurrence.RuleType(strings.ToLower(strings.TrimSpace(input.RecurType))),
		Interval:   input.RecurInterval,
		DaysOfWeek: days,
	}
	if input.RecurEndDate != nil {
		end := recurrence.DayOf(*input.RecurEndDate)
		rule.EndDate = &end
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListDueOn returns the user's tasks due on the target calendar day.
// Tasks with malformed recurrence rules degrade to their stored fields
// instead of disappearing from the view.
func (s *TaskService) ListDueOn(ctx context.Context, user *model.User, target recurrence.Day) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var due []model.Task
	for i := range tasks {
		state, _ := tasks[i].RecurrenceState()
		if recurrence.IsDueOn(state, target) {
			due = append(due, tasks[i])
		}
	}
	return due, nil
}

// Markers aggregates per-day due counts over [start, end] for the user's
// calendar view. Only days with at least one due task appear in the map.
func (s *TaskService) Markers(ctx context.Context, user *model.User, start, end recurrence.Day) (map[string]int, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	states := make([]recurrence.TaskState, 0, len(tasks))
	for i := range tasks {
		state, _ := tasks[i].RecurrenceState()
		states = append(states, state)
	}
	return recurrence.MarkersInRange(states, start, end), nil
}

func (s *TaskService) ListActive(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.taskRepo.ListActiveOrRecurring(ctx, user.ID)
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, user.ID, taskID)
}

// CompleteTask marks a task as done. A recurring task stays open: the
// completion time is recorded and the next occurrence rolled forward from it,
// or cleared once the rule's end date is exceeded.
func (s *TaskService) CompleteTask(ctx context.Context, user *model.User, taskID uint, completedAt time.Time) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsRecurring {
		if err := s.taskRepo.MarkCompleted(ctx, task, completedAt); err != nil {
			return nil, err
		}
		return task, nil
	}

	var nextAt *time.Time
	if rule, err := task.RecurrenceRule(); err == nil && rule != nil {
		next, err := recurrence.NextOccurrence(*rule, recurrence.DayOf(completedAt))
		if err == nil && !rule.Ended(next) {
			t := next.Time()
			nextAt = &t
		}
	}
	// A malformed rule still records the completion; the task just stops
	// advancing until its rule is repaired.
	if err := s.taskRepo.MarkRecurringDone(ctx, task, completedAt, nextAt); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task completely (for both one-time and recurring tasks).
func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	return s.taskRepo.Delete(ctx, user.ID, taskID)
}
