package api

import (
	"github.com/eklundh/tidflow/internal/api/controller"
	"github.com/eklundh/tidflow/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint. Admin-only surfaces sit behind the
// RequireAdmin gate on top of JWT auth; services still re-check roles.
func RegisterRoutes(
	r *gin.Engine,
	authCtrl *controller.AuthController,
	entryCtrl *controller.TimeEntryController,
	journalCtrl *controller.JournalController,
	projectCtrl *controller.ProjectController,
	approvalCtrl *controller.ApprovalController,
	reportCtrl *controller.ReportController,
	notificationCtrl *controller.NotificationController,
	vehicleCtrl *controller.VehicleController,
) {
	r.Use(middleware.Cors())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/api/v1/auth")
	{
		public.POST("/register", authCtrl.Register)
		public.POST("/login", authCtrl.Login)
	}

	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	{
		protected.GET("/auth/me", authCtrl.Me)

		protected.POST("/time-entries/clock-in", entryCtrl.ClockIn)
		protected.POST("/time-entries/clock-out", entryCtrl.ClockOut)
		protected.POST("/time-entries/break", entryCtrl.ToggleBreak)
		protected.GET("/time-entries/active", entryCtrl.Active)
		protected.GET("/time-entries", entryCtrl.List)
		protected.GET("/time-entries/:id", entryCtrl.Get)
		protected.POST("/time-entries/:id/allocations", entryCtrl.Allocate)
		protected.POST("/time-entries/:id/adjustment", entryCtrl.RequestAdjustment)

		protected.POST("/journal", journalCtrl.Create)
		protected.GET("/journal", journalCtrl.List)
		protected.GET("/journal/:id", journalCtrl.Get)
		protected.POST("/journal/:id/classify", journalCtrl.Classify)
		protected.POST("/journal/:id/suggest", journalCtrl.Suggest)
		protected.POST("/journal/:id/suggestion/accept", journalCtrl.AcceptSuggestion)
		protected.POST("/journal/:id/suggestion/reject", journalCtrl.RejectSuggestion)

		protected.GET("/projects", projectCtrl.List)
		protected.GET("/projects/:id", projectCtrl.Get)

		protected.GET("/approvals/mine", approvalCtrl.ListMine)

		protected.GET("/reports/timesheet", reportCtrl.Timesheet)
		protected.GET("/reports/timesheet/excel", reportCtrl.TimesheetExcel)
		protected.GET("/reports/journal", reportCtrl.Journal)
		protected.GET("/reports/journal/excel", reportCtrl.JournalExcel)

		protected.GET("/notifications", notificationCtrl.List)
		protected.POST("/notifications/:id/read", notificationCtrl.MarkRead)
	}

	admin := r.Group("/api/v1")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/projects", projectCtrl.Create)
		admin.PUT("/projects/:id", projectCtrl.Update)
		admin.DELETE("/projects/:id", projectCtrl.Delete)

		admin.GET("/approvals/pending", approvalCtrl.ListPending)
		admin.POST("/approvals/:id/approve", approvalCtrl.Approve)
		admin.POST("/approvals/:id/reject", approvalCtrl.Reject)

		admin.POST("/journal/:id/approve", journalCtrl.Approve)
		admin.POST("/journal/:id/request-info", journalCtrl.RequestInfo)
		admin.POST("/journal/:id/reject-draft", journalCtrl.RejectDraft)
		admin.DELETE("/journal/:id", journalCtrl.Delete)

		admin.GET("/reports/projects", reportCtrl.Projects)

		admin.GET("/vehicles/positions", vehicleCtrl.Positions)
	}
}
