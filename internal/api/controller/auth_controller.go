package controller

import (
	"net/http"

	"github.com/eklundh/tidflow/internal/api/response"
	"github.com/eklundh/tidflow/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	authService *service.AuthService
	log         *zap.Logger
}

func NewAuthController(authService *service.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{authService: authService, log: log}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid parameters: "+err.Error())
		return
	}

	err := ctrl.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		ctrl.log.Error("register failed", zap.String("email", req.Email), zap.Error(err))
		response.Error(c, http.StatusConflict, "Registration failed: "+err.Error())
		return
	}

	ctrl.log.Info("user registered", zap.String("email", req.Email))
	response.Success(c, nil)
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid parameters")
		return
	}

	token, userID, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		ctrl.log.Warn("login failed", zap.String("email", req.Email))
		response.Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	response.Success(c, LoginResponse{Token: token, UserID: userID})
}

// Me returns the current account and its personnel record.
func (ctrl *AuthController) Me(c *gin.Context) {
	session := currentSession(c, ctrl.authService)
	if session == nil {
		return
	}
	response.Success(c, gin.H{
		"user":     session.User,
		"employee": session.Employee,
	})
}
