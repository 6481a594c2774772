package controller

import (
	"errors"
	"net/http"

	"github.com/eklundh/tidflow/internal/api/response"
	"github.com/eklundh/tidflow/internal/service"
	"github.com/gin-gonic/gin"
)

// currentSession resolves the authenticated identity for a request. Writes
// the error response itself and returns nil when the session cannot be
// loaded.
func currentSession(c *gin.Context, auth *service.AuthService) *service.Session {
	userID := c.GetString("userID")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "Not authenticated")
		return nil
	}
	session, err := auth.CurrentSession(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unknown user")
		return nil
	}
	return session
}

// writeServiceError maps the service sentinel errors onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrProjectRequired),
		errors.Is(err, service.ErrAlreadyClockedIn),
		errors.Is(err, service.ErrNoActiveEntry),
		errors.Is(err, service.ErrNotClockedOut),
		errors.Is(err, service.ErrAllocationRequired),
		errors.Is(err, service.ErrConfirmationRequired),
		errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrEntryDeleted),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNoSuggestion):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
