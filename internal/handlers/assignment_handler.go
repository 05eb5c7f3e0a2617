package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/services"
	"github.com/deepeshagarwal1116/smartstudent-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssignmentHandler exposes the assignment endpoints
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
	storage           *storage.Storage
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignmentService *services.AssignmentService, storage *storage.Storage) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		storage:           storage,
	}
}

// GradeRequest carries a grading decision
type GradeRequest struct {
	AssignmentID uuid.UUID `json:"assignment_id" binding:"required"`
	StudentID    uuid.UUID `json:"student_id" binding:"required"`
	Marks        *float64  `json:"marks" binding:"required"`
}

// Upload hands out a new assignment from a multipart form. The
// material is a file, a link, or both.
func (h *AssignmentHandler) Upload(c *gin.Context) {
	teacherID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	req := services.CreateAssignmentRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Link:        c.PostForm("link"),
	}

	if deadline := c.PostForm("deadline"); deadline != "" {
		parsed, err := time.Parse(time.RFC3339, deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline format, expected RFC3339"})
			return
		}
		req.Deadline = &parsed
	}

	assignedTo, err := parseAssignedTo(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.AssignedTo = assignedTo

	if file, err := c.FormFile("file"); err == nil {
		fileURL, err := h.storage.SaveFile(file, "assignments")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}
		req.FileURL = fileURL
	}

	assignment, err := h.assignmentService.CreateAssignment(req, teacherID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Assignment uploaded successfully", "assignment": assignment})
}

// GetStudentAssignments lists the assignments handed out to a student
func (h *AssignmentHandler) GetStudentAssignments(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("studentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	assignments, err := h.assignmentService.GetAssignmentsForStudent(studentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

// Submit records the authenticated student's answer, replacing any
// previous submission
func (h *AssignmentHandler) Submit(c *gin.Context) {
	studentID, ok := contextUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	assignmentID, err := uuid.Parse(c.PostForm("assignment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	answer := c.PostForm("answer")
	var fileURL string
	if file, err := c.FormFile("file"); err == nil {
		fileURL, err = h.storage.SaveFile(file, "submissions")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}
	}

	if answer == "" && fileURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An answer or a file is required"})
		return
	}

	replacedFileURL, err := h.assignmentService.Submit(assignmentID, studentID, answer, fileURL)
	if err != nil {
		respondError(c, err)
		return
	}

	// The previous submission's upload is orphaned now
	if replacedFileURL != "" {
		if err := h.storage.DeleteFile(replacedFileURL); err != nil {
			log.Printf("Failed to delete replaced submission file: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment submitted successfully"})
}

// TeacherSubmissions lists the submissions on the caller's own
// assignments, optionally filtered by the status query parameter
func (h *AssignmentHandler) TeacherSubmissions(c *gin.Context) {
	teacherID, ok := pathTeacherID(c)
	if !ok {
		return
	}

	submissions, err := h.assignmentService.TeacherSubmissions(teacherID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// CloseOut backfills zero-mark reviewed submissions for students who
// missed a past deadline on the caller's own assignments
func (h *AssignmentHandler) CloseOut(c *gin.Context) {
	teacherID, ok := pathTeacherID(c)
	if !ok {
		return
	}

	backfilled, err := h.assignmentService.CloseOutOverdueAssignments(teacherID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Overdue assignments closed out",
		"backfilled": backfilled,
	})
}

// Grade sets the marks on a student's submission
func (h *AssignmentHandler) Grade(c *gin.Context) {
	var req GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.assignmentService.Grade(req.AssignmentID, req.StudentID, *req.Marks); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission graded successfully"})
}

// TeacherAssignments lists the caller's own assignments partitioned
// into active and nonactive by deadline
func (h *AssignmentHandler) TeacherAssignments(c *gin.Context) {
	teacherID, ok := pathTeacherID(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.AssignmentsByTeacher(teacherID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// pathTeacherID parses the :teacherId parameter and checks it names
// the authenticated caller; teachers only see their own assignments.
// It writes the error response itself when the check fails.
func pathTeacherID(c *gin.Context) (uuid.UUID, bool) {
	teacherID, err := uuid.Parse(c.Param("teacherId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid teacher ID"})
		return uuid.Nil, false
	}
	userID, ok := contextUserID(c)
	if !ok || userID != teacherID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return uuid.Nil, false
	}
	return teacherID, true
}

// parseAssignedTo reads the assignee list from the form, either as a
// repeated assigned_to field or as a single JSON array string
func parseAssignedTo(c *gin.Context) ([]uuid.UUID, error) {
	values := c.PostFormArray("assigned_to")
	if len(values) == 1 && len(values[0]) > 0 && values[0][0] == '[' {
		var raw []string
		if err := json.Unmarshal([]byte(values[0]), &raw); err != nil {
			return nil, err
		}
		values = raw
	}

	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
