package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/eklundh/tidflow/internal/api/response"
	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/repository"
	"github.com/eklundh/tidflow/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type JournalController struct {
	journal *service.JournalService
	auth    *service.AuthService
	log     *zap.Logger
}

func NewJournalController(journal *service.JournalService, auth *service.AuthService, log *zap.Logger) *JournalController {
	return &JournalController{journal: journal, auth: auth, log: log}
}

type ManualTripRequest struct {
	VehicleID          string    `json:"vehicle_id"`
	RegistrationNumber string    `json:"registration_number" binding:"required"`
	StartTime          time.Time `json:"start_time" binding:"required"`
	EndTime            time.Time `json:"end_time" binding:"required"`
	DistanceKm         float64   `json:"distance_km" binding:"required"`
}

type ClassifyRequest struct {
	TripType    string `json:"trip_type" binding:"required"`
	Purpose     string `json:"purpose"`
	ProjectCode string `json:"project_code"`
	Customer    string `json:"customer"`
}

type AcceptSuggestionRequest struct {
	Override *model.TripSuggestion `json:"override"`
}

type ReviewRequest struct {
	Comment string `json:"comment"`
}

func (ctrl *JournalController) Create(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	var req ManualTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid parameters: "+err.Error())
		return
	}
	if !req.EndTime.After(req.StartTime) {
		response.Error(c, http.StatusBadRequest, "End time must be after start time")
		return
	}

	entry, err := ctrl.journal.CreateManual(c.Request.Context(), session, service.TripInput{
		VehicleID:          req.VehicleID,
		RegistrationNumber: req.RegistrationNumber,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		DistanceKm:         req.DistanceKm,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, entry)
}

func (ctrl *JournalController) Get(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	entry, err := ctrl.journal.Get(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Entry not found")
		return
	}
	if entry.DriverEmail != session.Email() && !session.IsAdmin() {
		response.Error(c, http.StatusForbidden, "Forbidden")
		return
	}
	response.Success(c, entry)
}

func (ctrl *JournalController) List(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	filter := repository.JournalFilter{
		VehicleID: c.Query("vehicle_id"),
		TripType:  c.Query("trip_type"),
		Status:    c.Query("status"),
	}
	if session.IsAdmin() {
		filter.DriverEmail = c.Query("driver")
	} else {
		filter.DriverEmail = session.Email()
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

	entries, err := ctrl.journal.List(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, entries)
}

func (ctrl *JournalController) Classify(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid parameters: "+err.Error())
		return
	}

	entry, err := ctrl.journal.QuickClassify(c.Request.Context(), session, uint(id), req.TripType, req.Purpose, req.ProjectCode, req.Customer)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, entry)
}

func (ctrl *JournalController) Suggest(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	suggestion, err := ctrl.journal.Suggest(c.Request.Context(), session, uint(id))
	if err != nil {
		ctrl.log.Error("trip suggestion failed", zap.Uint64("entry_id", id), zap.Error(err))
		writeServiceError(c, err)
		return
	}
	response.Success(c, suggestion)
}

func (ctrl *JournalController) AcceptSuggestion(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	var req AcceptSuggestionRequest
	_ = c.ShouldBindJSON(&req)

	entry, err := ctrl.journal.AcceptSuggestion(c.Request.Context(), session, uint(id), req.Override)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, entry)
}

func (ctrl *JournalController) RejectSuggestion(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	entry, err := ctrl.journal.RejectSuggestion(c.Request.Context(), session, uint(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, entry)
}

func (ctrl *JournalController) Approve(c *gin.Context) {
	ctrl.review(c, ctrl.journal.Approve)
}

func (ctrl *JournalController) RequestInfo(c *gin.Context) {
	ctrl.review(c, ctrl.journal.RequestInfo)
}

func (ctrl *JournalController) RejectDraft(c *gin.Context) {
	ctrl.review(c, ctrl.journal.RejectDraft)
}

func (ctrl *JournalController) Delete(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	var req ReviewRequest
	_ = c.ShouldBindJSON(&req)

	if err := ctrl.journal.SoftDelete(c.Request.Context(), session, uint(id), req.Comment); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

func (ctrl *JournalController) review(c *gin.Context, fn func(ctx context.Context, session *service.Session, id uint, comment string) (*model.DrivingJournalEntry, error)) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	var req ReviewRequest
	_ = c.ShouldBindJSON(&req)

	entry, err := fn(c.Request.Context(), session, uint(id), req.Comment)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, entry)
}
