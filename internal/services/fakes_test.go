package services

import (
	"errors"
	"sort"
	"time"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/models"
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/repository"

	"github.com/google/uuid"
)

// fakeMailer records outgoing mail and can be told to fail
type fakeMailer struct {
	sent    []fakeMail
	sendErr error
}

type fakeMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, fakeMail{To: to, Subject: subject, Body: body})
	return nil
}

// fakeUserRepo is an in-memory user store. Reads return copies, so a
// mutation is only persisted by an explicit Update.
type fakeUserRepo struct {
	users     map[uuid.UUID]*models.User
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) ListStudents() ([]models.User, error) {
	var students []models.User
	for _, user := range r.users {
		if user.Role == models.RoleStudent {
			students = append(students, *user)
		}
	}
	return students, nil
}

func (r *fakeUserRepo) FilterStudents(semester, year, branch string) ([]models.User, error) {
	var students []models.User
	for _, user := range r.users {
		if user.Role != models.RoleStudent {
			continue
		}
		if semester != "" && user.Semester != semester {
			continue
		}
		if year != "" && user.Year != year {
			continue
		}
		if branch != "" && user.Branch != branch {
			continue
		}
		students = append(students, *user)
	}
	return students, nil
}

// fakeAssignmentRepo is an in-memory assignment store. Submissions are
// kept separately and attached on every read, like the preloads of the
// real repository.
type fakeAssignmentRepo struct {
	assignments map[uuid.UUID]*models.Assignment
	order       []uuid.UUID
	submissions map[uuid.UUID][]models.Submission
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		assignments: make(map[uuid.UUID]*models.Assignment),
		submissions: make(map[uuid.UUID][]models.Submission),
	}
}

func (r *fakeAssignmentRepo) Create(assignment *models.Assignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	cp := *assignment
	cp.Submissions = nil
	r.assignments[assignment.ID] = &cp
	r.order = append(r.order, assignment.ID)
	return nil
}

func (r *fakeAssignmentRepo) GetByID(id uuid.UUID) (*models.Assignment, error) {
	assignment, ok := r.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *assignment
	cp.Submissions = append([]models.Submission(nil), r.submissions[id]...)
	return &cp, nil
}

func (r *fakeAssignmentRepo) GetByStudentID(studentID uuid.UUID) ([]models.Assignment, error) {
	var result []models.Assignment
	for _, id := range r.order {
		a := r.assignments[id]
		for _, assignee := range a.Assignees {
			if assignee.StudentID == studentID {
				cp := *a
				cp.Submissions = append([]models.Submission(nil), r.submissions[id]...)
				result = append(result, cp)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeAssignmentRepo) GetByTeacherID(teacherID uuid.UUID) ([]models.Assignment, error) {
	var result []models.Assignment
	for _, id := range r.order {
		a := r.assignments[id]
		if a.UploadedByID == teacherID {
			cp := *a
			cp.Submissions = append([]models.Submission(nil), r.submissions[id]...)
			result = append(result, cp)
		}
	}
	return result, nil
}

func (r *fakeAssignmentRepo) UpdateStatus(id uuid.UUID, status models.AssignmentStatus) error {
	assignment, ok := r.assignments[id]
	if !ok {
		return repository.ErrNotFound
	}
	assignment.Status = status
	return nil
}

func (r *fakeAssignmentRepo) GetSubmission(assignmentID, studentID uuid.UUID) (*models.Submission, error) {
	for _, sub := range r.submissions[assignmentID] {
		if sub.StudentID == studentID {
			cp := sub
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAssignmentRepo) GetSubmissionsByAssignmentID(assignmentID uuid.UUID) ([]models.Submission, error) {
	return append([]models.Submission(nil), r.submissions[assignmentID]...), nil
}

func (r *fakeAssignmentRepo) ReplaceSubmission(submission *models.Submission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	subs := r.submissions[submission.AssignmentID]
	kept := subs[:0]
	for _, sub := range subs {
		if sub.StudentID != submission.StudentID {
			kept = append(kept, sub)
		}
	}
	r.submissions[submission.AssignmentID] = append(kept, *submission)
	return nil
}

func (r *fakeAssignmentRepo) CreateSubmission(submission *models.Submission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	for _, sub := range r.submissions[submission.AssignmentID] {
		if sub.StudentID == submission.StudentID {
			return errors.New("duplicate submission")
		}
	}
	r.submissions[submission.AssignmentID] = append(r.submissions[submission.AssignmentID], *submission)
	return nil
}

func (r *fakeAssignmentRepo) UpdateSubmission(submission *models.Submission) error {
	subs := r.submissions[submission.AssignmentID]
	for i, sub := range subs {
		if sub.ID == submission.ID {
			subs[i] = *submission
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeGoalRepo is an in-memory goal store with the aggregations
// computed in Go instead of SQL
type fakeGoalRepo struct {
	goals map[uuid.UUID]*models.Goal
	order []uuid.UUID
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[uuid.UUID]*models.Goal)}
}

func (r *fakeGoalRepo) Create(goal *models.Goal) error {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	cp := *goal
	r.goals[goal.ID] = &cp
	r.order = append(r.order, goal.ID)
	return nil
}

func (r *fakeGoalRepo) GetByID(id uuid.UUID) (*models.Goal, error) {
	goal, ok := r.goals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *goal
	return &cp, nil
}

func (r *fakeGoalRepo) GetByStudentID(studentID uuid.UUID, filter repository.GoalFilter) ([]models.Goal, error) {
	var result []models.Goal
	for i := len(r.order) - 1; i >= 0; i-- {
		g := r.goals[r.order[i]]
		if g.StudentID != studentID {
			continue
		}
		if filter.Status != "" && string(g.Status) != filter.Status {
			continue
		}
		if filter.Category != "" && g.Category != filter.Category {
			continue
		}
		if filter.Priority != "" && string(g.Priority) != filter.Priority {
			continue
		}
		result = append(result, *g)
	}
	return result, nil
}

func (r *fakeGoalRepo) Update(goal *models.Goal) error {
	if _, ok := r.goals[goal.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *goal
	r.goals[goal.ID] = &cp
	return nil
}

func (r *fakeGoalRepo) Delete(id uuid.UUID) error {
	if _, ok := r.goals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.goals, id)
	return nil
}

func (r *fakeGoalRepo) CountAll(studentID uuid.UUID) (int64, error) {
	var count int64
	for _, g := range r.goals {
		if g.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeGoalRepo) CountByStatus(studentID uuid.UUID, status models.GoalStatus) (int64, error) {
	var count int64
	for _, g := range r.goals {
		if g.StudentID == studentID && g.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeGoalRepo) CountCompletedSince(studentID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	for _, g := range r.goals {
		if g.StudentID == studentID && g.Status == models.GoalCompleted &&
			g.CompletedAt != nil && !g.CompletedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeGoalRepo) DailyCompletions(studentID uuid.UUID, since time.Time, limit int) ([]models.DailyCompletion, error) {
	buckets := make(map[string]int64)
	for _, g := range r.goals {
		if g.StudentID == studentID && g.Status == models.GoalCompleted &&
			g.CompletedAt != nil && !g.CompletedAt.Before(since) {
			buckets[g.CompletedAt.UTC().Format("2006-01-02")]++
		}
	}
	var daily []models.DailyCompletion
	for date, count := range buckets {
		daily = append(daily, models.DailyCompletion{Date: date, Completions: count})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date > daily[j].Date })
	if len(daily) > limit {
		daily = daily[:limit]
	}
	return daily, nil
}

func (r *fakeGoalRepo) CountByCategory(studentID uuid.UUID) ([]models.CategoryCount, error) {
	buckets := make(map[string]int64)
	for _, g := range r.goals {
		if g.StudentID == studentID {
			buckets[g.Category]++
		}
	}
	var stats []models.CategoryCount
	for category, count := range buckets {
		stats = append(stats, models.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	return stats, nil
}

func (r *fakeGoalRepo) CountByPriority(studentID uuid.UUID) ([]models.PriorityCount, error) {
	buckets := make(map[models.GoalPriority]int64)
	for _, g := range r.goals {
		if g.StudentID == studentID {
			buckets[g.Priority]++
		}
	}
	var stats []models.PriorityCount
	for priority, count := range buckets {
		stats = append(stats, models.PriorityCount{Priority: priority, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	return stats, nil
}
