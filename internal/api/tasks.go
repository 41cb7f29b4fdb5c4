package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"task-planner/internal/model"
	"task-planner/internal/recurrence"
	"task-planner/internal/service"
)

const userIDHeader = "X-User-ID"

type createTaskRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category,omitempty"`
	DueDate         string   `json:"due_date,omitempty"` // YYYY-MM-DD
	Recurring       bool     `json:"recurring"`
	RecurType       string   `json:"recur_type,omitempty"`
	RecurInterval   int      `json:"recur_interval,omitempty"`
	RecurDaysOfWeek []string `json:"recur_days_of_week,omitempty"`
	RecurEndDate    string   `json:"recur_end_date,omitempty"` // YYYY-MM-DD
}

type taskResponse struct {
	ID              uint     `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	CategoryID      *uint    `json:"category_id,omitempty"`
	DueDate         string   `json:"due_date,omitempty"`
	Completed       bool     `json:"completed"`
	Recurring       bool     `json:"recurring"`
	RecurType       string   `json:"recur_type,omitempty"`
	RecurInterval   int      `json:"recur_interval,omitempty"`
	RecurDaysOfWeek []string `json:"recur_days_of_week,omitempty"`
	RecurEndDate    string   `json:"recur_end_date,omitempty"`
	NextOccurrence  string   `json:"next_occurrence,omitempty"`
	LastCompletedAt string   `json:"last_completed_at,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

func toTaskResponse(task *model.Task) taskResponse {
	resp := taskResponse{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		CategoryID:      task.CategoryID,
		DueDate:         dayKey(task.DueDate),
		Completed:       task.IsCompleted,
		Recurring:       task.IsRecurring,
		RecurType:       task.RecurType,
		RecurInterval:   task.RecurInterval,
		RecurEndDate:    dayKey(task.RecurEndDate),
		NextOccurrence:  dayKey(task.NextOccurrence),
		LastCompletedAt: dayKey(task.LastCompletedAt),
		CreatedAt:       recurrence.DayOf(task.CreatedAt).Key(),
	}
	if days, err := model.DecodeWeekdays(task.RecurDaysOfWeek); err == nil {
		for _, day := range days {
			resp.RecurDaysOfWeek = append(resp.RecurDaysOfWeek, string(day))
		}
	}
	return resp
}

func dayKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return recurrence.DayOf(*t).Key()
}

// resolveUser turns the opaque caller identity header into a stored user.
func (s *Server) resolveUser(w http.ResponseWriter, r *http.Request) *model.User {
	externalID := r.Header.Get(userIDHeader)
	if externalID == "" {
		respondError(w, http.StatusUnauthorized, "missing "+userIDHeader+" header")
		return nil
	}
	user, err := s.users.UpsertByExternalID(r.Context(), externalID, r.Header.Get("X-User-Name"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "resolve user")
		return nil
	}
	return user
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	user := s.resolveUser(w, r)
	if user == nil {
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := buildTaskInput(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := s.tasks.CreateTask(r.Context(), user, input, time.Now())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, toTaskResponse(task))
}

func buildTaskInput(req createTaskRequest) (service.TaskInput, error) {
	input := service.TaskInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		IsRecurring:     req.Recurring,
		RecurType:       req.RecurType,
		RecurInterval:   req.RecurInterval,
		RecurDaysOfWeek: req.RecurDaysOfWeek,
	}
	if req.DueDate != "" {
		day, err := recurrence.ParseDay(req.DueDate)
		if err != nil {
			return input, err
		}
		due := day.Time()
		input.DueDate = &due
	}
	if req.RecurEndDate != "" {
		day, err := recurrence.ParseDay(req.RecurEndDate)
		if err != nil {
			return input, err
		}
		end := day.Time()
		input.RecurEndDate = &end
	}
	return input, nil
}

// handleListDue returns the tasks due on the requested day (default today).
func (s *Server) handleListDue(w http.ResponseWriter, r *http.Request) {
	user := s.resolveUser(w, r)
	if user == nil {
		return
	}

	target := recurrence.DayOf(time.Now())
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := recurrence.ParseDay(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		target = day
	}

	tasks, err := s.tasks.ListDueOn(r.Context(), user, target)
	if err != nil {
		respondError(w, statusFor(err), "list tasks")
		return
	}

	responses := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, toTaskResponse(&tasks[i]))
	}
	respondJSON(w, http.StatusOK, map[string]any{"date": target.Key(), "tasks": responses})
}

// handleListActive returns everything still open plus all recurring tasks,
// the working set a client renders outside the calendar view.
func (s *Server) handleListActive(w http.ResponseWriter, r *http.Request) {
	user := s.resolveUser(w, r)
	if user == nil {
		return
	}
	tasks, err := s.tasks.ListActive(r.Context(), user)
	if err != nil {
		respondError(w, statusFor(err), "list tasks")
		return
	}
	responses := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, toTaskResponse(&tasks[i]))
	}
	respondJSON(w, http.StatusOK, map[string]any{"tasks": responses})
}

// handleMarkers returns the day→count map for a calendar range.
func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	user := s.resolveUser(w, r)
	if user == nil {
		return
	}

	start, err := recurrence.ParseDay(r.URL.Query().Get("start"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := recurrence.ParseDay(r.URL.Query().Get("end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	markers, err := s.tasks.Markers(r.Context(), user, start, end)
	if err != nil {
		respondError(w, statusFor(err), "compute markers")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"markers": markers})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	user := s.resolveUser(w, r)
	if user == nil {
		return
	}
	taskID, err := parseTaskID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := s.tasks.GetTask(r.Context(), user, taskID)
	if err != nil {
		respondError(w, statusFor(err), "get task")
		return
	}
	respondJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	user := s.resolveUser(w, r)
	if user == nil {
		return
	}
	taskID, err := parseTaskID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := s.tasks.CompleteTask(r.Context(), user, taskID, time.Now())
	if err != nil {
		respondError(w, statusFor(err), "complete task")
		return
	}
	respondJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	user := s.resolveUser(w, r)
	if user == nil {
		return
	}
	taskID, err := parseTaskID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := s.tasks.DeleteTask(r.Context(), user, taskID); err != nil {
		respondError(w, statusFor(err), "delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	user := s.resolveUser(w, r)
	if user == nil {
		return
	}
	categories, err := s.categories.List(r.Context(), user)
	if err != nil {
		respondError(w, statusFor(err), "list categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// handleRollForward is the manual maintenance trigger; the scheduler invokes
// the same service on its own cadence.
func (s *Server) handleRollForward(w http.ResponseWriter, r *http.Request) {
	result, err := s.rollForward.Run(r.Context(), time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "roll forward")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"updated": result.Updated, "skipped": result.Skipped})
}

func parseTaskID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	return uint(id), err
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, recurrence.ErrInvalidDate),
		errors.Is(err, recurrence.ErrIncompleteWeeklyRule),
		errors.Is(err, recurrence.ErrUnsupportedRuleType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
