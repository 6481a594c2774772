package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/eklundh/tidflow/internal/api/response"
	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/repository"
	"github.com/eklundh/tidflow/internal/service"
	"github.com/eklundh/tidflow/internal/timecalc"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TimeEntryController struct {
	entries *service.TimeEntryService
	auth    *service.AuthService
	log     *zap.Logger
}

func NewTimeEntryController(entries *service.TimeEntryService, auth *service.AuthService, log *zap.Logger) *TimeEntryController {
	return &TimeEntryController{entries: entries, auth: auth, log: log}
}

type ClockInRequest struct {
	ProjectID uint              `json:"project_id" binding:"required"`
	Location  *service.Location `json:"location"`
}

type ClockOutRequest struct {
	Location *service.Location `json:"location"`
}

// ClockOutResponse tells the client whether a separate allocation step is
// still needed.
type ClockOutResponse struct {
	Entry           *model.TimeEntry `json:"entry"`
	NeedsAllocation bool             `json:"needs_allocation"`
	AvailableHours  float64          `json:"available_hours"`
}

type AllocationRowRequest struct {
	ProjectID uint    `json:"project_id"`
	Hours     float64 `json:"hours"`
	Category  string  `json:"category"`
	Notes     string  `json:"notes"`
}

type AllocateRequest struct {
	Rows      []AllocationRowRequest `json:"rows" binding:"required"`
	Confirmed bool                   `json:"confirmed"`
}

type AdjustmentRequest struct {
	ClockIn      time.Time `json:"clock_in" binding:"required"`
	ClockOut     time.Time `json:"clock_out" binding:"required"`
	BreakMinutes int       `json:"break_minutes"`
	Reason       string    `json:"reason" binding:"required"`
}

func (ctrl *TimeEntryController) ClockIn(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	var req ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid parameters: "+err.Error())
		return
	}

	entry, err := ctrl.entries.ClockIn(c.Request.Context(), session, req.ProjectID, req.Location)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	ctrl.log.Info("clock in", zap.String("employee", session.Email()), zap.Uint("entry_id", entry.ID))
	response.Success(c, entry)
}

func (ctrl *TimeEntryController) ToggleBreak(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	entry, err := ctrl.entries.ToggleBreak(c.Request.Context(), session)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, entry)
}

func (ctrl *TimeEntryController) ClockOut(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	// Body is optional; clock-out without a location is fine.
	var req ClockOutRequest
	_ = c.ShouldBindJSON(&req)

	entry, needsAllocation, err := ctrl.entries.ClockOut(c.Request.Context(), session, req.Location)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	ctrl.log.Info("clock out",
		zap.String("employee", session.Email()),
		zap.Uint("entry_id", entry.ID),
		zap.Float64("total_hours", entry.TotalHours),
	)
	response.Success(c, ClockOutResponse{
		Entry:           entry,
		NeedsAllocation: needsAllocation,
		AvailableHours:  ctrl.entries.AvailableHours(entry),
	})
}

func (ctrl *TimeEntryController) Allocate(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid parameters: "+err.Error())
		return
	}

	rows := make([]timecalc.AllocationRow, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = timecalc.AllocationRow{
			ProjectID: r.ProjectID,
			Hours:     r.Hours,
			Category:  r.Category,
			Notes:     r.Notes,
		}
	}

	entry, err := ctrl.entries.AllocateProjects(c.Request.Context(), session, uint(entryID), rows, req.Confirmed)
	if err != nil {
		var overErr *timecalc.OverAllocationError
		if errors.As(err, &overErr) {
			response.Error(c, http.StatusBadRequest, overErr.Error())
			return
		}
		writeServiceError(c, err)
		return
	}
	response.Success(c, entry)
}

func (ctrl *TimeEntryController) RequestAdjustment(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid parameters: "+err.Error())
		return
	}

	request, err := ctrl.entries.RequestAdjustment(c.Request.Context(), session, uint(entryID), req.ClockIn, req.ClockOut, req.BreakMinutes, req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, request)
}

func (ctrl *TimeEntryController) Active(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	entry, err := ctrl.entries.Active(c.Request.Context(), session)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, entry)
}

func (ctrl *TimeEntryController) Get(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	entry, err := ctrl.entries.Get(c.Request.Context(), uint(entryID))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Entry not found")
		return
	}
	if entry.EmployeeEmail != session.Email() && !session.IsAdmin() {
		response.Error(c, http.StatusForbidden, "Forbidden")
		return
	}
	response.Success(c, entry)
}

func (ctrl *TimeEntryController) List(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	filter := repository.TimeEntryFilter{
		Status: c.Query("status"),
	}
	// Employees only see their own entries; admins may filter by employee.
	if session.IsAdmin() {
		filter.EmployeeEmail = c.Query("employee")
	} else {
		filter.EmployeeEmail = session.Email()
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = t.Add(24 * time.Hour)
		}
	}

	entries, err := ctrl.entries.List(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, entries)
}
