package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/models"
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/repository"
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GoalHandler exposes the goal endpoints
type GoalHandler struct {
	goalService *services.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// CreateGoalRequest creates a new goal
type CreateGoalRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date" binding:"omitempty,notpastdate"`
	Tags        []string   `json:"tags"`
}

// UpdateGoalRequest updates a goal; omitted fields are left unchanged
type UpdateGoalRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Category    *string    `json:"category"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
	DueDate     *time.Time `json:"due_date"`
	ClearDue    bool       `json:"clear_due"`
	Tags        []string   `json:"tags"`
}

// GetGoals lists the authenticated user's goals, optionally filtered
// by status, category and priority query parameters
func (h *GoalHandler) GetGoals(c *gin.Context) {
	studentID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	filter := repository.GoalFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	}

	goals, err := h.goalService.GetGoals(studentID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// CreateGoal creates a goal for the authenticated user
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	studentID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.goalService.CreateGoal(services.CreateGoalRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.GoalPriority(req.Priority),
		Category:    req.Category,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}, studentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Goal created successfully", "goal": goal})
}

// UpdateGoal applies a partial update to one of the caller's goals
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	studentID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	goalID, err := uuid.Parse(c.Param("goalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := services.UpdateGoalRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDue,
		Tags:        req.Tags,
	}
	if req.Priority != nil {
		priority := models.GoalPriority(*req.Priority)
		update.Priority = &priority
	}
	if req.Status != nil {
		status := models.GoalStatus(*req.Status)
		update.Status = &status
	}

	goal, err := h.goalService.UpdateGoal(goalID, studentID, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal updated successfully", "goal": goal})
}

// DeleteGoal removes one of the caller's goals
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	studentID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	goalID, err := uuid.Parse(c.Param("goalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	if err := h.goalService.DeleteGoal(goalID, studentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

// Analytics aggregates the authenticated user's goals over a lookback
// window given by the timeframe query parameter (days, default 30)
func (h *GoalHandler) Analytics(c *gin.Context) {
	studentID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	timeframe := 30
	if raw := c.Query("timeframe"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timeframe"})
			return
		}
		timeframe = parsed
	}

	analytics, err := h.goalService.Analytics(studentID, timeframe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": analytics})
}
