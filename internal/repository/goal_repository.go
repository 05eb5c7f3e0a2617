package repository

import (
	"time"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalFilter narrows a goal listing; empty fields are not filtered on
type GoalFilter struct {
	Status   string
	Category string
	Priority string
}

// GoalRepository defines the persistence and aggregation operations on goals
type GoalRepository interface {
	Create(goal *models.Goal) error
	GetByID(id uuid.UUID) (*models.Goal, error)
	GetByStudentID(studentID uuid.UUID, filter GoalFilter) ([]models.Goal, error)
	Update(goal *models.Goal) error
	Delete(id uuid.UUID) error

	// Aggregation methods
	CountAll(studentID uuid.UUID) (int64, error)
	CountByStatus(studentID uuid.UUID, status models.GoalStatus) (int64, error)
	CountCompletedSince(studentID uuid.UUID, since time.Time) (int64, error)
	DailyCompletions(studentID uuid.UUID, since time.Time, limit int) ([]models.DailyCompletion, error)
	CountByCategory(studentID uuid.UUID) ([]models.CategoryCount, error)
	CountByPriority(studentID uuid.UUID) ([]models.PriorityCount, error)
}

// goalRepository is the gorm-backed implementation
type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

// Create persists a new goal
func (r *goalRepository) Create(goal *models.Goal) error {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	return r.db.Create(goal).Error
}

// GetByID fetches a goal by ID
func (r *goalRepository) GetByID(id uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	if err := r.db.First(&goal, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &goal, nil
}

// GetByStudentID fetches a user's goals, newest first
func (r *goalRepository) GetByStudentID(studentID uuid.UUID, filter GoalFilter) ([]models.Goal, error) {
	q := r.db.Where("student_id = ?", studentID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}

	var goals []models.Goal
	err := q.Order("created_at DESC").Find(&goals).Error
	return goals, err
}

// Update saves the goal
func (r *goalRepository) Update(goal *models.Goal) error {
	return r.db.Save(goal).Error
}

// Delete removes a goal
func (r *goalRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&models.Goal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAll counts all goals of a user
func (r *goalRepository) CountAll(studentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Goal{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

// CountByStatus counts a user's goals with the given status
func (r *goalRepository) CountByStatus(studentID uuid.UUID, status models.GoalStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Goal{}).
		Where("student_id = ? AND status = ?", studentID, status).
		Count(&count).Error
	return count, err
}

// CountCompletedSince counts a user's goals completed since the given time
func (r *goalRepository) CountCompletedSince(studentID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Goal{}).
		Where("student_id = ? AND status = ? AND completed_at >= ?",
			studentID, models.GoalCompleted, since).
		Count(&count).Error
	return count, err
}

// DailyCompletions buckets a user's completions since the given time
// by UTC calendar date, most recent days first
func (r *goalRepository) DailyCompletions(studentID uuid.UUID, since time.Time, limit int) ([]models.DailyCompletion, error) {
	var daily []models.DailyCompletion
	err := r.db.Model(&models.Goal{}).
		Select("strftime('%Y-%m-%d', completed_at) AS date, COUNT(*) AS completions").
		Where("student_id = ? AND status = ? AND completed_at >= ?",
			studentID, models.GoalCompleted, since).
		Group("date").
		Order("date DESC").
		Limit(limit).
		Scan(&daily).Error
	return daily, err
}

// CountByCategory counts a user's goals grouped by category
func (r *goalRepository) CountByCategory(studentID uuid.UUID) ([]models.CategoryCount, error) {
	var stats []models.CategoryCount
	err := r.db.Model(&models.Goal{}).
		Select("category, COUNT(*) AS count").
		Where("student_id = ?", studentID).
		Group("category").
		Order("count DESC").
		Scan(&stats).Error
	return stats, err
}

// CountByPriority counts a user's goals grouped by priority
func (r *goalRepository) CountByPriority(studentID uuid.UUID) ([]models.PriorityCount, error) {
	var stats []models.PriorityCount
	err := r.db.Model(&models.Goal{}).
		Select("priority, COUNT(*) AS count").
		Where("student_id = ?", studentID).
		Group("priority").
		Order("count DESC").
		Scan(&stats).Error
	return stats, err
}
