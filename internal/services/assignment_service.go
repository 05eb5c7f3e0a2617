package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/models"
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/repository"

	"github.com/google/uuid"
)

// Submission list filters
const (
	FilterToBeReviewed = "tobereviewed"
	FilterReviewed     = "reviewed"
	FilterActive       = "active"
	FilterNonActive    = "nonactive"
)

// AssignmentService manages the assignment lifecycle from upload to
// fully graded
type AssignmentService struct {
	assignmentRepo repository.AssignmentRepository
	userRepo       repository.UserRepository
	now            func() time.Time // mockable
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(assignmentRepo repository.AssignmentRepository, userRepo repository.UserRepository) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

// CreateAssignmentRequest carries the data needed to hand out an assignment
type CreateAssignmentRequest struct {
	Title       string
	Description string
	FileURL     string
	Link        string
	AssignedTo  []uuid.UUID
	Deadline    *time.Time
}

// SubmissionView is a flattened submission record for teacher listings
type SubmissionView struct {
	AssignmentID      uuid.UUID               `json:"assignment_id"`
	AssignmentTitle   string                  `json:"assignment_title"`
	AssignmentFileURL string                  `json:"assignment_file_url"`
	Student           models.User             `json:"student"`
	Answer            string                  `json:"answer"`
	FileURL           string                  `json:"file_url"`
	Marks             *float64                `json:"marks"`
	Status            models.SubmissionStatus `json:"status"`
	Deadline          *time.Time              `json:"deadline,omitempty"`
}

// TeacherAssignments partitions a teacher's assignments by deadline
type TeacherAssignments struct {
	Active    []models.Assignment `json:"active"`
	NonActive []models.Assignment `json:"nonactive"`
}

// CreateAssignment hands out a new assignment. The uploader must be a
// teacher; the content must be a file, a link, or both.
func (s *AssignmentService) CreateAssignment(req CreateAssignmentRequest, uploadedBy uuid.UUID) (*models.Assignment, error) {
	uploader, err := s.userRepo.GetByID(uploadedBy)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: uploader", ErrNotFound)
		}
		return nil, err
	}
	if !uploader.IsTeacher() {
		return nil, fmt.Errorf("%w: only teachers can upload assignments", ErrForbidden)
	}

	if req.Title == "" {
		return nil, NewValidationError("title and file or link required",
			FieldError{Field: "title", Error: "this field is required"})
	}
	if req.FileURL == "" && req.Link == "" {
		return nil, NewValidationError("title and file or link required",
			FieldError{Field: "file", Error: "a file or a link is required"})
	}

	assignees := make([]models.Assignee, 0, len(req.AssignedTo))
	for _, studentID := range req.AssignedTo {
		assignees = append(assignees, models.Assignee{StudentID: studentID})
	}

	assignment := &models.Assignment{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		FileURL:      req.FileURL,
		Link:         req.Link,
		UploadedByID: uploadedBy,
		Deadline:     req.Deadline,
		AssignedDate: s.now(),
		Status:       models.AssignmentActive,
		Assignees:    assignees,
	}
	if err := s.assignmentRepo.Create(assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return assignment, nil
}

// GetAssignmentsForStudent returns the assignments handed out to a
// student, newest first
func (s *AssignmentService) GetAssignmentsForStudent(studentID uuid.UUID) ([]models.Assignment, error) {
	return s.assignmentRepo.GetByStudentID(studentID)
}

// Submit records a student's answer, replacing any previous submission
// by the same student, and recomputes the assignment status. It
// returns the file URL of the replaced submission, if any, so the
// caller can remove the orphaned upload.
func (s *AssignmentService) Submit(assignmentID, studentID uuid.UUID, answer, fileURL string) (string, error) {
	assignment, err := s.assignmentRepo.GetByID(assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: assignment", ErrNotFound)
		}
		return "", err
	}

	var replacedFileURL string
	previous, err := s.assignmentRepo.GetSubmission(assignmentID, studentID)
	switch {
	case err == nil:
		if previous.FileURL != "" && previous.FileURL != fileURL {
			replacedFileURL = previous.FileURL
		}
	case !errors.Is(err, repository.ErrNotFound):
		return "", err
	}

	submission := &models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    studentID,
		Answer:       answer,
		FileURL:      fileURL,
		Marks:        nil,
		Status:       models.SubmissionSubmitted,
		SubmittedAt:  s.now(),
	}
	if err := s.assignmentRepo.ReplaceSubmission(submission); err != nil {
		return "", fmt.Errorf("failed to save submission: %w", err)
	}
	return replacedFileURL, s.recomputeStatus(assignment.ID)
}

// TeacherSubmissions returns a flattened view of the submissions on a
// teacher's assignments, optionally filtered. This is a pure read;
// overdue assignments are closed out by CloseOutOverdueAssignments.
func (s *AssignmentService) TeacherSubmissions(teacherID uuid.UUID, filter string) ([]SubmissionView, error) {
	assignments, err := s.assignmentRepo.GetByTeacherID(teacherID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]SubmissionView, 0)
	for _, a := range assignments {
		pastDeadline := a.Deadline != nil && !a.Deadline.After(now)

		for _, sub := range a.Submissions {
			var show bool
			switch filter {
			case FilterToBeReviewed:
				show = sub.Status == models.SubmissionSubmitted
			case FilterReviewed:
				show = sub.Status == models.SubmissionReviewed
			case FilterActive:
				show = !pastDeadline
			case FilterNonActive:
				show = pastDeadline
			default:
				show = true
			}
			if !show {
				continue
			}
			views = append(views, SubmissionView{
				AssignmentID:      a.ID,
				AssignmentTitle:   a.Title,
				AssignmentFileURL: a.FileURL,
				Student:           sub.Student,
				Answer:            sub.Answer,
				FileURL:           sub.FileURL,
				Marks:             sub.Marks,
				Status:            sub.Status,
				Deadline:          a.Deadline,
			})
		}
	}
	return views, nil
}

// CloseOutOverdueAssignments backfills a zero-mark reviewed submission
// for every assigned student who missed a past deadline, then
// recomputes each touched assignment's status. Assignments are
// persisted one at a time; there is no transaction across the set.
// It returns the number of submissions backfilled.
func (s *AssignmentService) CloseOutOverdueAssignments(teacherID uuid.UUID) (int, error) {
	assignments, err := s.assignmentRepo.GetByTeacherID(teacherID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	backfilled := 0
	for _, a := range assignments {
		// Assignments without a deadline never expire
		if a.Deadline == nil || a.Deadline.After(now) {
			continue
		}

		submitted := make(map[uuid.UUID]bool, len(a.Submissions))
		for _, sub := range a.Submissions {
			submitted[sub.StudentID] = true
		}

		touched := false
		for _, assignee := range a.Assignees {
			if submitted[assignee.StudentID] {
				continue
			}
			zero := 0.0
			sub := &models.Submission{
				AssignmentID: a.ID,
				StudentID:    assignee.StudentID,
				Answer:       "",
				FileURL:      "",
				Marks:        &zero,
				Status:       models.SubmissionReviewed,
				SubmittedAt:  now,
			}
			if err := s.assignmentRepo.CreateSubmission(sub); err != nil {
				return backfilled, fmt.Errorf("failed to backfill submission: %w", err)
			}
			backfilled++
			touched = true
		}
		if touched {
			if err := s.recomputeStatus(a.ID); err != nil {
				return backfilled, err
			}
		}
	}
	return backfilled, nil
}

// Grade sets the marks on a student's submission, marks it reviewed
// and recomputes the assignment status.
func (s *AssignmentService) Grade(assignmentID, studentID uuid.UUID, marks float64) error {
	if _, err := s.assignmentRepo.GetByID(assignmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: assignment", ErrNotFound)
		}
		return err
	}

	submission, err := s.assignmentRepo.GetSubmission(assignmentID, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: submission", ErrNotFound)
		}
		return err
	}

	submission.Marks = &marks
	submission.Status = models.SubmissionReviewed
	if err := s.assignmentRepo.UpdateSubmission(submission); err != nil {
		return fmt.Errorf("failed to grade submission: %w", err)
	}
	return s.recomputeStatus(assignmentID)
}

// AssignmentsByTeacher partitions a teacher's assignments into active
// and nonactive by a date-only deadline comparison. Assignments
// without a deadline are always active.
func (s *AssignmentService) AssignmentsByTeacher(teacherID uuid.UUID) (*TeacherAssignments, error) {
	assignments, err := s.assignmentRepo.GetByTeacherID(teacherID)
	if err != nil {
		return nil, err
	}

	today := truncateToDate(s.now())
	result := &TeacherAssignments{
		Active:    make([]models.Assignment, 0),
		NonActive: make([]models.Assignment, 0),
	}
	for _, a := range assignments {
		if a.Deadline == nil || !truncateToDate(*a.Deadline).Before(today) {
			result.Active = append(result.Active, a)
		} else {
			result.NonActive = append(result.NonActive, a)
		}
	}
	return result, nil
}

// recomputeStatus re-derives the roll-up status from the stored submissions
func (s *AssignmentService) recomputeStatus(assignmentID uuid.UUID) error {
	submissions, err := s.assignmentRepo.GetSubmissionsByAssignmentID(assignmentID)
	if err != nil {
		return err
	}
	return s.assignmentRepo.UpdateStatus(assignmentID, models.RollUpStatus(submissions))
}

// truncateToDate drops the time-of-day part
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
