package services

import (
	"testing"
	"time"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/models"
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGoalService() (*GoalService, *fakeGoalRepo) {
	goalRepo := newFakeGoalRepo()
	svc := NewGoalService(goalRepo)
	svc.now = func() time.Time { return testTime }
	return svc, goalRepo
}

func TestCreateGoalDefaults(t *testing.T) {
	svc, _ := newTestGoalService()
	studentID := uuid.New()

	goal, err := svc.CreateGoal(CreateGoalRequest{Title: "Read two papers"}, studentID)
	require.NoError(t, err)
	assert.Equal(t, studentID, goal.StudentID)
	assert.Equal(t, models.PriorityMedium, goal.Priority)
	assert.Equal(t, "academic", goal.Category)
	assert.Equal(t, models.GoalPending, goal.Status)
	assert.Nil(t, goal.CompletedAt)
}

func TestCreateGoalTitleRequired(t *testing.T) {
	svc, _ := newTestGoalService()
	var vErr *ValidationError

	_, err := svc.CreateGoal(CreateGoalRequest{}, uuid.New())
	assert.ErrorAs(t, err, &vErr)
}

func TestCreateGoalDueDateValidation(t *testing.T) {
	svc, _ := newTestGoalService()
	studentID := uuid.New()

	yesterday := testTime.AddDate(0, 0, -1)
	_, err := svc.CreateGoal(CreateGoalRequest{Title: "Too late", DueDate: &yesterday}, studentID)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	// Earlier today is still acceptable, the comparison is date-only
	earlierToday := testTime.Add(-3 * time.Hour)
	_, err = svc.CreateGoal(CreateGoalRequest{Title: "Today", DueDate: &earlierToday}, studentID)
	assert.NoError(t, err)

	tomorrow := testTime.AddDate(0, 0, 1)
	_, err = svc.CreateGoal(CreateGoalRequest{Title: "Tomorrow", DueDate: &tomorrow}, studentID)
	assert.NoError(t, err)
}

func TestGetGoalsFilters(t *testing.T) {
	svc, _ := newTestGoalService()
	studentID := uuid.New()

	_, err := svc.CreateGoal(CreateGoalRequest{Title: "A", Category: "health", Priority: models.PriorityHigh}, studentID)
	require.NoError(t, err)
	_, err = svc.CreateGoal(CreateGoalRequest{Title: "B", Category: "academic"}, studentID)
	require.NoError(t, err)
	_, err = svc.CreateGoal(CreateGoalRequest{Title: "other user"}, uuid.New())
	require.NoError(t, err)

	all, err := svc.GetGoals(studentID, repository.GoalFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	health, err := svc.GetGoals(studentID, repository.GoalFilter{Category: "health"})
	require.NoError(t, err)
	require.Len(t, health, 1)
	assert.Equal(t, "A", health[0].Title)

	high, err := svc.GetGoals(studentID, repository.GoalFilter{Priority: string(models.PriorityHigh)})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "A", high[0].Title)
}

func TestUpdateGoalStampsCompletedAt(t *testing.T) {
	svc, _ := newTestGoalService()
	goal, err := svc.CreateGoal(CreateGoalRequest{Title: "Finish project"}, uuid.New())
	require.NoError(t, err)

	completed := models.GoalCompleted
	updated, err := svc.UpdateGoal(goal.ID, goal.StudentID, UpdateGoalRequest{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, testTime, *updated.CompletedAt)

	// Completing an already completed goal keeps the original stamp
	svc.now = func() time.Time { return testTime.Add(time.Hour) }
	updated, err = svc.UpdateGoal(goal.ID, goal.StudentID, UpdateGoalRequest{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, testTime, *updated.CompletedAt)

	// Reopening clears it
	pending := models.GoalPending
	updated, err = svc.UpdateGoal(goal.ID, goal.StudentID, UpdateGoalRequest{Status: &pending})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestUpdateGoalPartial(t *testing.T) {
	svc, _ := newTestGoalService()
	due := testTime.AddDate(0, 0, 7)
	goal, err := svc.CreateGoal(CreateGoalRequest{
		Title:       "Finish project",
		Description: "initial",
		DueDate:     &due,
		Tags:        []string{"college"},
	}, uuid.New())
	require.NoError(t, err)

	newTitle := "Finish capstone project"
	updated, err := svc.UpdateGoal(goal.ID, goal.StudentID, UpdateGoalRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, "initial", updated.Description)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, []string{"college"}, []string(updated.Tags))

	updated, err = svc.UpdateGoal(goal.ID, goal.StudentID, UpdateGoalRequest{ClearDue: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestUpdateGoalNotFound(t *testing.T) {
	svc, _ := newTestGoalService()
	_, err := svc.UpdateGoal(uuid.New(), uuid.New(), UpdateGoalRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteGoal(t *testing.T) {
	svc, _ := newTestGoalService()
	goal, err := svc.CreateGoal(CreateGoalRequest{Title: "Short lived"}, uuid.New())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGoal(goal.ID, goal.StudentID))
	assert.ErrorIs(t, svc.DeleteGoal(goal.ID, goal.StudentID), ErrNotFound)
}

func TestGoalOwnerOnly(t *testing.T) {
	svc, goalRepo := newTestGoalService()
	owner := uuid.New()
	intruder := uuid.New()

	goal, err := svc.CreateGoal(CreateGoalRequest{Title: "Private goal"}, owner)
	require.NoError(t, err)

	// Someone else's goal reads as not found, both on update and delete
	completed := models.GoalCompleted
	_, err = svc.UpdateGoal(goal.ID, intruder, UpdateGoalRequest{Status: &completed})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteGoal(goal.ID, intruder), ErrNotFound)

	// The goal is untouched
	stored, err := goalRepo.GetByID(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GoalPending, stored.Status)
	assert.Nil(t, stored.CompletedAt)

	// The owner still can
	_, err = svc.UpdateGoal(goal.ID, owner, UpdateGoalRequest{Status: &completed})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteGoal(goal.ID, owner))
}

func TestAnalytics(t *testing.T) {
	svc, _ := newTestGoalService()
	studentID := uuid.New()

	// Four goals: one completed today, the rest in various states
	completed := models.GoalCompleted
	inProgress := models.GoalInProgress

	done, err := svc.CreateGoal(CreateGoalRequest{Title: "Done", Category: "health", Priority: models.PriorityHigh}, studentID)
	require.NoError(t, err)
	_, err = svc.UpdateGoal(done.ID, studentID, UpdateGoalRequest{Status: &completed})
	require.NoError(t, err)

	running, err := svc.CreateGoal(CreateGoalRequest{Title: "Running"}, studentID)
	require.NoError(t, err)
	_, err = svc.UpdateGoal(running.ID, studentID, UpdateGoalRequest{Status: &inProgress})
	require.NoError(t, err)

	_, err = svc.CreateGoal(CreateGoalRequest{Title: "Waiting 1"}, studentID)
	require.NoError(t, err)
	_, err = svc.CreateGoal(CreateGoalRequest{Title: "Waiting 2"}, studentID)
	require.NoError(t, err)

	analytics, err := svc.Analytics(studentID, 0) // defaults to 30 days
	require.NoError(t, err)

	assert.Equal(t, int64(4), analytics.TotalGoals)
	assert.Equal(t, int64(1), analytics.CompletedGoals)
	assert.Equal(t, int64(2), analytics.PendingGoals)
	assert.Equal(t, int64(1), analytics.InProgressGoals)
	assert.Equal(t, 25.0, analytics.CompletionRate)
	assert.Equal(t, int64(1), analytics.CompletedInTimeframe)

	require.Len(t, analytics.DailyCompletions, 1)
	assert.Equal(t, testTime.UTC().Format("2006-01-02"), analytics.DailyCompletions[0].Date)
	assert.Equal(t, int64(1), analytics.DailyCompletions[0].Completions)

	categories := make(map[string]int64)
	for _, c := range analytics.CategoryStats {
		categories[c.Category] = c.Count
	}
	assert.Equal(t, int64(1), categories["health"])
	assert.Equal(t, int64(3), categories["academic"])

	priorities := make(map[models.GoalPriority]int64)
	for _, p := range analytics.PriorityStats {
		priorities[p.Priority] = p.Count
	}
	assert.Equal(t, int64(1), priorities[models.PriorityHigh])
	assert.Equal(t, int64(3), priorities[models.PriorityMedium])
}

func TestAnalyticsTimeframeWindow(t *testing.T) {
	svc, goalRepo := newTestGoalService()
	studentID := uuid.New()

	// Completed well in the past, outside a 7-day window
	old := testTime.AddDate(0, 0, -20)
	require.NoError(t, goalRepo.Create(&models.Goal{
		ID:          uuid.New(),
		StudentID:   studentID,
		Title:       "Old win",
		Status:      models.GoalCompleted,
		CompletedAt: &old,
	}))

	analytics, err := svc.Analytics(studentID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), analytics.CompletedGoals)
	assert.Equal(t, int64(0), analytics.CompletedInTimeframe)
	assert.Empty(t, analytics.DailyCompletions)
	assert.Equal(t, 100.0, analytics.CompletionRate)
}

func TestAnalyticsEmpty(t *testing.T) {
	svc, _ := newTestGoalService()

	analytics, err := svc.Analytics(uuid.New(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), analytics.TotalGoals)
	assert.Equal(t, 0.0, analytics.CompletionRate)
}
