package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greenchainz/greenchainz-api/internal/auth"
	apperrors "github.com/greenchainz/greenchainz-api/internal/errors"
)

// respondError maps an application error to an HTTP response
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var status int
	switch appErr.Code {
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeValidationError:
		status = http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		status = http.StatusForbidden
	case apperrors.ErrCodeConflict, apperrors.ErrCodeInvalidTransition:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	body := gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
	}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	c.JSON(status, body)
}

// organizationID returns the caller's organization from the JWT claims
func organizationID(c *gin.Context) string {
	return c.GetString(auth.OrganizationIDKey)
}

// currentUserID returns the authenticated user's id as a string
func currentUserID(c *gin.Context) string {
	if id, exists := c.Get(auth.UserIDKey); exists {
		if userUUID, ok := id.(uuid.UUID); ok {
			return userUUID.String()
		}
	}
	return ""
}

// parseDateParam accepts RFC3339 timestamps or plain dates
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
