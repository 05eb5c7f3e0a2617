package handlers

import (
	"net/http"
	"strings"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/models"
	"github.com/deepeshagarwal1116/smartstudent-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware validates the bearer token and stashes the resolved
// user in the request context
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The token comes from the Authorization header or a cookie
		var token string
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			if cookie, err := c.Cookie("jwt"); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		user, err := authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID) // uuid.UUID
		c.Set("user_role", user.Role)

		c.Next()
	}
}

// TeacherOnlyMiddleware allows only teachers through
func TeacherOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("user_role")
		role, ok := roleVal.(models.UserRole)
		if !exists || !ok || role != models.RoleTeacher {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Teacher role required."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORSMiddleware sets the CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// contextUserID extracts the authenticated user's ID from the context
func contextUserID(c *gin.Context) (uuid.UUID, bool) {
	idVal, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := idVal.(uuid.UUID)
	return id, ok
}
