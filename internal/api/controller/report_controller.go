package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/eklundh/tidflow/internal/api/response"
	"github.com/eklundh/tidflow/internal/export"
	"github.com/eklundh/tidflow/internal/repository"
	"github.com/eklundh/tidflow/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportController struct {
	reports *service.ReportService
	auth    *service.AuthService
	log     *zap.Logger
}

func NewReportController(reports *service.ReportService, auth *service.AuthService, log *zap.Logger) *ReportController {
	return &ReportController{reports: reports, auth: auth, log: log}
}

// period parses the from/to query range, defaulting to the current month.
func period(c *gin.Context) (time.Time, time.Time) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t.Add(24 * time.Hour)
		}
	}
	return from, to
}

func (ctrl *ReportController) timesheetEmployee(c *gin.Context, session *service.Session) string {
	if session.IsAdmin() {
		return c.Query("employee")
	}
	return session.Email()
}

func (ctrl *ReportController) Timesheet(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	from, to := period(c)
	summary, err := ctrl.reports.Timesheet(c.Request.Context(), ctrl.timesheetEmployee(c, session), from, to, c.Query("include_entries") == "true")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, summary)
}

func (ctrl *ReportController) Journal(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	from, to := period(c)
	filter := repository.JournalFilter{
		VehicleID: c.Query("vehicle_id"),
		TripType:  c.Query("trip_type"),
		From:      from,
		To:        to,
	}
	if session.IsAdmin() {
		filter.DriverEmail = c.Query("driver")
	} else {
		filter.DriverEmail = session.Email()
	}

	summary, err := ctrl.reports.Journal(c.Request.Context(), filter, c.Query("include_entries") == "true")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, summary)
}

func (ctrl *ReportController) Projects(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}
	if !session.IsAdmin() {
		response.Error(c, http.StatusForbidden, "Admin access required")
		return
	}

	reports, err := ctrl.reports.Projects(c.Request.Context(), c.Query("status"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, reports)
}

// TimesheetExcel streams the timesheet period as a workbook download.
func (ctrl *ReportController) TimesheetExcel(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	from, to := period(c)
	summary, err := ctrl.reports.Timesheet(c.Request.Context(), ctrl.timesheetEmployee(c, session), from, to, true)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	f, err := export.Timesheet(summary)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	ctrl.writeWorkbook(c, f, fmt.Sprintf("timesheet_%s_%s.xlsx", summary.From, summary.To))
}

// JournalExcel streams the driving journal period as a workbook download.
func (ctrl *ReportController) JournalExcel(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	from, to := period(c)
	filter := repository.JournalFilter{From: from, To: to}
	if session.IsAdmin() {
		filter.DriverEmail = c.Query("driver")
	} else {
		filter.DriverEmail = session.Email()
	}

	summary, err := ctrl.reports.Journal(c.Request.Context(), filter, true)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	f, err := export.Journal(summary)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	ctrl.writeWorkbook(c, f, fmt.Sprintf("korjournal_%s_%s.xlsx", summary.From, summary.To))
}

func (ctrl *ReportController) writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := f.WriteTo(c.Writer); err != nil {
		ctrl.log.Error("workbook write failed", zap.Error(err))
	}
}
