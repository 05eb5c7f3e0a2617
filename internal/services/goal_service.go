package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/models"
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/repository"

	"github.com/google/uuid"
)

// GoalService manages personal goals and their analytics
type GoalService struct {
	goalRepo repository.GoalRepository
	now      func() time.Time // mockable
}

// NewGoalService creates a new goal service
func NewGoalService(goalRepo repository.GoalRepository) *GoalService {
	return &GoalService{
		goalRepo: goalRepo,
		now:      time.Now,
	}
}

// CreateGoalRequest carries the data needed to create a goal
type CreateGoalRequest struct {
	Title       string
	Description string
	Priority    models.GoalPriority
	Category    string
	DueDate     *time.Time
	Tags        []string
}

// UpdateGoalRequest carries a partial goal update; nil fields are left
// unchanged
type UpdateGoalRequest struct {
	Title       *string
	Description *string
	Priority    *models.GoalPriority
	Category    *string
	Status      *models.GoalStatus
	DueDate     *time.Time
	ClearDue    bool
	Tags        []string
}

// GoalAnalytics aggregates a user's goals; all numbers are recomputed
// from scratch per call
type GoalAnalytics struct {
	TotalGoals           int64                    `json:"total_goals"`
	CompletedGoals       int64                    `json:"completed_goals"`
	PendingGoals         int64                    `json:"pending_goals"`
	InProgressGoals      int64                    `json:"in_progress_goals"`
	CompletionRate       float64                  `json:"completion_rate"`
	CompletedInTimeframe int64                    `json:"completed_in_timeframe"`
	DailyCompletions     []models.DailyCompletion `json:"daily_completions"`
	CategoryStats        []models.CategoryCount   `json:"category_stats"`
	PriorityStats        []models.PriorityCount   `json:"priority_stats"`
}

// CreateGoal creates a goal for a user. The due date, when given, must
// not be before today.
func (s *GoalService) CreateGoal(req CreateGoalRequest, studentID uuid.UUID) (*models.Goal, error) {
	if req.Title == "" {
		return nil, NewValidationError("title is required",
			FieldError{Field: "title", Error: "this field is required"})
	}
	if req.DueDate != nil {
		today := truncateToDate(s.now())
		if req.DueDate.Before(today) {
			return nil, NewValidationError("due date cannot be in the past",
				FieldError{Field: "due_date", Error: "due date cannot be in the past"})
		}
	}

	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if req.Category == "" {
		req.Category = "academic"
	}

	goal := &models.Goal{
		ID:          uuid.New(),
		StudentID:   studentID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Status:      models.GoalPending,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
	if err := s.goalRepo.Create(goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return goal, nil
}

// GetGoals returns a user's goals, newest first
func (s *GoalService) GetGoals(studentID uuid.UUID, filter repository.GoalFilter) ([]models.Goal, error) {
	return s.goalRepo.GetByStudentID(studentID, filter)
}

// UpdateGoal applies a partial update. Only the owner can change a
// goal; anyone else's goal reads as not found. CompletedAt is stamped
// the moment the status transitions into completed and cleared the
// moment it transitions out.
func (s *GoalService) UpdateGoal(goalID, studentID uuid.UUID, req UpdateGoalRequest) (*models.Goal, error) {
	goal, err := s.goalRepo.GetByID(goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: goal", ErrNotFound)
		}
		return nil, err
	}
	if goal.StudentID != studentID {
		return nil, fmt.Errorf("%w: goal", ErrNotFound)
	}

	if req.Title != nil && *req.Title != "" {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Priority != nil {
		goal.Priority = *req.Priority
	}
	if req.Category != nil {
		goal.Category = *req.Category
	}
	if req.Status != nil {
		previous := goal.Status
		goal.Status = *req.Status
		if goal.Status == models.GoalCompleted && previous != models.GoalCompleted {
			completedAt := s.now()
			goal.CompletedAt = &completedAt
		} else if goal.Status != models.GoalCompleted {
			goal.CompletedAt = nil
		}
	}
	if req.ClearDue {
		goal.DueDate = nil
	} else if req.DueDate != nil {
		goal.DueDate = req.DueDate
	}
	if req.Tags != nil {
		goal.Tags = req.Tags
	}

	if err := s.goalRepo.Update(goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

// DeleteGoal removes a goal. Only the owner can delete a goal; anyone
// else's goal reads as not found.
func (s *GoalService) DeleteGoal(goalID, studentID uuid.UUID) error {
	goal, err := s.goalRepo.GetByID(goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: goal", ErrNotFound)
		}
		return err
	}
	if goal.StudentID != studentID {
		return fmt.Errorf("%w: goal", ErrNotFound)
	}

	if err := s.goalRepo.Delete(goalID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: goal", ErrNotFound)
		}
		return err
	}
	return nil
}

// Analytics aggregates a user's goals over a lookback window of the
// given number of days (30 when zero or negative). Category and
// priority breakdowns cover all goals, not just the window.
func (s *GoalService) Analytics(studentID uuid.UUID, timeframeDays int) (*GoalAnalytics, error) {
	if timeframeDays <= 0 {
		timeframeDays = 30
	}
	since := s.now().AddDate(0, 0, -timeframeDays)

	total, err := s.goalRepo.CountAll(studentID)
	if err != nil {
		return nil, err
	}
	completed, err := s.goalRepo.CountByStatus(studentID, models.GoalCompleted)
	if err != nil {
		return nil, err
	}
	pending, err := s.goalRepo.CountByStatus(studentID, models.GoalPending)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.goalRepo.CountByStatus(studentID, models.GoalInProgress)
	if err != nil {
		return nil, err
	}
	completedInWindow, err := s.goalRepo.CountCompletedSince(studentID, since)
	if err != nil {
		return nil, err
	}
	daily, err := s.goalRepo.DailyCompletions(studentID, since, 7)
	if err != nil {
		return nil, err
	}
	categories, err := s.goalRepo.CountByCategory(studentID)
	if err != nil {
		return nil, err
	}
	priorities, err := s.goalRepo.CountByPriority(studentID)
	if err != nil {
		return nil, err
	}

	var rate float64
	if total > 0 {
		rate = math.Round(float64(completed)/float64(total)*1000) / 10
	}

	return &GoalAnalytics{
		TotalGoals:           total,
		CompletedGoals:       completed,
		PendingGoals:         pending,
		InProgressGoals:      inProgress,
		CompletionRate:       rate,
		CompletedInTimeframe: completedInWindow,
		DailyCompletions:     daily,
		CategoryStats:        categories,
		PriorityStats:        priorities,
	}, nil
}
