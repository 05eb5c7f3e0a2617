package repository

import (
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentRepository defines the persistence operations on
// assignments and their embedded submissions
type AssignmentRepository interface {
	Create(assignment *models.Assignment) error
	GetByID(id uuid.UUID) (*models.Assignment, error)
	GetByStudentID(studentID uuid.UUID) ([]models.Assignment, error)
	GetByTeacherID(teacherID uuid.UUID) ([]models.Assignment, error)
	UpdateStatus(id uuid.UUID, status models.AssignmentStatus) error

	// Submission methods
	GetSubmission(assignmentID, studentID uuid.UUID) (*models.Submission, error)
	GetSubmissionsByAssignmentID(assignmentID uuid.UUID) ([]models.Submission, error)
	ReplaceSubmission(submission *models.Submission) error
	CreateSubmission(submission *models.Submission) error
	UpdateSubmission(submission *models.Submission) error
}

// assignmentRepository is the gorm-backed implementation
type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// Create persists a new assignment with its assignees
func (r *assignmentRepository) Create(assignment *models.Assignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	for i := range assignment.Assignees {
		if assignment.Assignees[i].ID == uuid.Nil {
			assignment.Assignees[i].ID = uuid.New()
		}
		assignment.Assignees[i].AssignmentID = assignment.ID
	}
	return r.db.Create(assignment).Error
}

// GetByID fetches an assignment with its assignees and submissions
func (r *assignmentRepository) GetByID(id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.Preload("Assignees").Preload("Submissions").Preload("Submissions.Student").
		First(&assignment, "id = ?", id).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &assignment, nil
}

// GetByStudentID fetches the assignments handed out to a student,
// newest first
func (r *assignmentRepository) GetByStudentID(studentID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.Preload("UploadedBy").Preload("Assignees").
		Joins("JOIN assignees ON assignees.assignment_id = assignments.id").
		Where("assignees.student_id = ?", studentID).
		Order("assignments.assigned_date DESC").
		Find(&assignments).Error
	return assignments, err
}

// GetByTeacherID fetches the assignments uploaded by a teacher,
// newest first
func (r *assignmentRepository) GetByTeacherID(teacherID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.Preload("Assignees").Preload("Submissions").Preload("Submissions.Student").
		Where("uploaded_by_id = ?", teacherID).
		Order("assigned_date DESC").
		Find(&assignments).Error
	return assignments, err
}

// UpdateStatus sets the roll-up status of an assignment
func (r *assignmentRepository) UpdateStatus(id uuid.UUID, status models.AssignmentStatus) error {
	return r.db.Model(&models.Assignment{}).Where("id = ?", id).
		Update("status", status).Error
}

// GetSubmission fetches a student's submission for an assignment
func (r *assignmentRepository) GetSubmission(assignmentID, studentID uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		First(&submission).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &submission, nil
}

// GetSubmissionsByAssignmentID fetches all submissions of an assignment
func (r *assignmentRepository) GetSubmissionsByAssignmentID(assignmentID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.Preload("Student").
		Where("assignment_id = ?", assignmentID).
		Find(&submissions).Error
	return submissions, err
}

// ReplaceSubmission removes the student's previous submission, if any,
// and persists the new one
func (r *assignmentRepository) ReplaceSubmission(submission *models.Submission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("assignment_id = ? AND student_id = ?",
			submission.AssignmentID, submission.StudentID).
			Delete(&models.Submission{}).Error
		if err != nil {
			return err
		}
		return tx.Create(submission).Error
	})
}

// CreateSubmission persists a new submission
func (r *assignmentRepository) CreateSubmission(submission *models.Submission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	return r.db.Create(submission).Error
}

// UpdateSubmission saves the submission
func (r *assignmentRepository) UpdateSubmission(submission *models.Submission) error {
	return r.db.Save(submission).Error
}
