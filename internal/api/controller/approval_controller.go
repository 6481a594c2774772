package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/eklundh/tidflow/internal/api/response"
	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/service"
	"github.com/gin-gonic/gin"
)

type ApprovalController struct {
	approvals *service.ApprovalService
	auth      *service.AuthService
}

func NewApprovalController(approvals *service.ApprovalService, auth *service.AuthService) *ApprovalController {
	return &ApprovalController{approvals: approvals, auth: auth}
}

type DecisionRequest struct {
	Comment string `json:"comment"`
}

func (ctrl *ApprovalController) ListPending(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}
	requests, err := ctrl.approvals.ListPending(c.Request.Context(), session)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, requests)
}

func (ctrl *ApprovalController) ListMine(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}
	requests, err := ctrl.approvals.ListMine(c.Request.Context(), session)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, requests)
}

func (ctrl *ApprovalController) Approve(c *gin.Context) {
	ctrl.decide(c, ctrl.approvals.Approve)
}

func (ctrl *ApprovalController) Reject(c *gin.Context) {
	ctrl.decide(c, ctrl.approvals.Reject)
}

func (ctrl *ApprovalController) decide(c *gin.Context, fn func(ctx context.Context, session *service.Session, requestID uint, comment string) (*model.ApprovalRequest, error)) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request id")
		return
	}

	var req DecisionRequest
	_ = c.ShouldBindJSON(&req)

	request, err := fn(c.Request.Context(), session, uint(id), req.Comment)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, request)
}
