package handlers

import (
	"errors"
	"net/http"

	"github.com/deepeshagarwal1116/smartstudent-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status and JSON body
func respondError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		body := gin.H{"error": vErr.Msg}
		if len(vErr.Fields) > 0 {
			body["fields"] = vErr.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, services.ErrInvalidOrExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
