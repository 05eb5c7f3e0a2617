package models

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus is the roll-up of the submission statuses
type AssignmentStatus string

const (
	AssignmentActive      AssignmentStatus = "active"
	AssignmentSubmitted   AssignmentStatus = "submitted"
	AssignmentUnderReview AssignmentStatus = "under_review"
	AssignmentReviewed    AssignmentStatus = "reviewed"
)

// SubmissionStatus defines the review state of a single submission
type SubmissionStatus string

const (
	SubmissionSubmitted   SubmissionStatus = "submitted"
	SubmissionUnderReview SubmissionStatus = "under_review"
	SubmissionReviewed    SubmissionStatus = "reviewed"
)

// Assignment represents homework handed out by a teacher. Its content
// is an uploaded file, an external link, or both.
type Assignment struct {
	ID           uuid.UUID        `json:"id" gorm:"type:text;primary_key"`
	Title        string           `json:"title" gorm:"not null"`
	Description  string           `json:"description"`
	FileURL      string           `json:"file_url"`
	Link         string           `json:"link"`
	UploadedByID uuid.UUID        `json:"uploaded_by" gorm:"type:text;not null;index"`
	Deadline     *time.Time       `json:"deadline,omitempty"`
	AssignedDate time.Time        `json:"assigned_date"`
	Status       AssignmentStatus `json:"status" gorm:"default:'active'"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	// Relations
	UploadedBy  User         `json:"-" gorm:"foreignKey:UploadedByID"`
	Assignees   []Assignee   `json:"assigned_to" gorm:"foreignKey:AssignmentID"`
	Submissions []Submission `json:"submissions" gorm:"foreignKey:AssignmentID"`
}

// Assignee links an assignment to a student it was handed out to
type Assignee struct {
	ID           uuid.UUID `json:"-" gorm:"type:text;primary_key"`
	AssignmentID uuid.UUID `json:"-" gorm:"type:text;uniqueIndex:idx_assignee_once"`
	StudentID    uuid.UUID `json:"student_id" gorm:"type:text;uniqueIndex:idx_assignee_once"`

	// Relations
	Student User `json:"-" gorm:"foreignKey:StudentID"`
}

// Submission represents a student's answer to an assignment,
// at most one per student (a resubmission replaces the previous one)
type Submission struct {
	ID           uuid.UUID        `json:"id" gorm:"type:text;primary_key"`
	AssignmentID uuid.UUID        `json:"assignment_id" gorm:"type:text;uniqueIndex:idx_submission_once"`
	StudentID    uuid.UUID        `json:"student_id" gorm:"type:text;uniqueIndex:idx_submission_once"`
	Answer       string           `json:"answer"`
	FileURL      string           `json:"file_url"`
	Marks        *float64         `json:"marks"`
	Status       SubmissionStatus `json:"status" gorm:"default:'submitted'"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	// Relations
	Student User `json:"student" gorm:"foreignKey:StudentID"`
}

// RollUpStatus derives the assignment status from its submissions:
// none yet -> active, all reviewed -> reviewed, any reviewed ->
// under_review, otherwise -> submitted.
func RollUpStatus(subs []Submission) AssignmentStatus {
	if len(subs) == 0 {
		return AssignmentActive
	}
	reviewed := 0
	for _, s := range subs {
		if s.Status == SubmissionReviewed {
			reviewed++
		}
	}
	switch {
	case reviewed == len(subs):
		return AssignmentReviewed
	case reviewed > 0:
		return AssignmentUnderReview
	default:
		return AssignmentSubmitted
	}
}
