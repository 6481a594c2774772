package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/eklundh/tidflow/internal/api/response"
	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/repository"
	"github.com/eklundh/tidflow/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProjectController is a thin CRUD surface; the interesting project math
// lives in the report service.
type ProjectController struct {
	projects repository.ProjectRepo
	auth     *service.AuthService
}

func NewProjectController(projects repository.ProjectRepo, auth *service.AuthService) *ProjectController {
	return &ProjectController{projects: projects, auth: auth}
}

type ProjectRequest struct {
	Name                string     `json:"name" binding:"required"`
	ProjectCode         string     `json:"project_code" binding:"required"`
	Status              string     `json:"status"`
	BudgetHours         *float64   `json:"budget_hours"`
	HourlyRate          *string    `json:"hourly_rate"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
	ProjectManagerEmail string     `json:"project_manager_email"`
	IsBillable          bool       `json:"is_billable"`
}

func (req *ProjectRequest) apply(p *model.Project) error {
	p.Name = req.Name
	p.ProjectCode = req.ProjectCode
	p.Status = req.Status
	if p.Status == "" {
		p.Status = model.ProjectStatusPlanned
	}
	p.BudgetHours = req.BudgetHours
	p.StartDate = req.StartDate
	p.EndDate = req.EndDate
	p.ProjectManagerEmail = req.ProjectManagerEmail
	p.IsBillable = req.IsBillable

	p.HourlyRate = nil
	if req.HourlyRate != nil {
		rate, err := decimal.NewFromString(*req.HourlyRate)
		if err != nil {
			return err
		}
		p.HourlyRate = &rate
	}
	return nil
}

func (ctrl *ProjectController) Create(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid parameters: "+err.Error())
		return
	}

	var project model.Project
	if err := req.apply(&project); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid hourly rate")
		return
	}
	if err := ctrl.projects.Create(c.Request.Context(), &project); err != nil {
		response.Error(c, http.StatusConflict, "Could not create project: "+err.Error())
		return
	}
	response.Success(c, project)
}

func (ctrl *ProjectController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid project id")
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid parameters: "+err.Error())
		return
	}

	project, err := ctrl.projects.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Project not found")
		return
	}
	if err := req.apply(project); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid hourly rate")
		return
	}
	if err := ctrl.projects.Update(c.Request.Context(), project); err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, project)
}

func (ctrl *ProjectController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid project id")
		return
	}
	if err := ctrl.projects.Delete(c.Request.Context(), uint(id)); err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, nil)
}

func (ctrl *ProjectController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid project id")
		return
	}
	project, err := ctrl.projects.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Project not found")
		return
	}
	response.Success(c, project)
}

func (ctrl *ProjectController) List(c *gin.Context) {
	projects, err := ctrl.projects.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, projects)
}
