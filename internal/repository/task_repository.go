package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-planner/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListActiveOrRecurring returns the tasks a user still cares about: anything
// open plus every recurring task regardless of completion state.
func (r *TaskRepository) ListActiveOrRecurring(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND (is_completed = ? OR is_recurring = ?)", userID, false, true).
		Order("due_date NULLS LAST, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListIncompleteRecurring returns the roll-forward working set across all
// users: recurring tasks not yet completed.
func (r *TaskRepository) ListIncompleteRecurring(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("is_recurring = ? AND is_completed = ?", true, false).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) MarkCompleted(ctx context.Context, task *model.Task, completedAt time.Time) error {
	task.IsCompleted = true
	task.LastCompletedAt = &completedAt
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

// MarkRecurringDone records a completion of a recurring task without closing
// it, storing the freshly rolled-over next occurrence (nil once the rule has
// run past its end date).
func (r *TaskRepository) MarkRecurringDone(ctx context.Context, task *model.Task, completedAt time.Time, next *time.Time) error {
	task.LastCompletedAt = &completedAt
	task.NextOccurrence = next
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("mark recurring done: %w", err)
	}
	return nil
}

// UpdateNextOccurrence applies a single roll-forward update.
func (r *TaskRepository) UpdateNextOccurrence(ctx context.Context, taskID uint, next time.Time) error {
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", taskID).
		Update("next_occurrence", next).Error; err != nil {
		return fmt.Errorf("update next occurrence: %w", err)
	}
	return nil
}

// Delete removes a task for the given user, regardless of it being recurring or not.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
