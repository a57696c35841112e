package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/service"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
)

// AuthHandler handles login, logout and the operator's own profile
type AuthHandler struct {
	authService  *service.AuthService
	staffService *service.StaffService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, staffService *service.StaffService) *AuthHandler {
	return &AuthHandler{authService: authService, staffService: staffService}
}

// Login handles operator login
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Username:   req.Username,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", sess)
}

// Logout ends the register's session
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Logged out", nil)
}

// GetProfile returns the current session
func (h *AuthHandler) GetProfile(c *gin.Context) {
	sess, err := h.authService.Current()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Profile retrieved successfully", sess)
}

// UpdateProfile changes the operator's own name, username, email or password
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	op, ok := GetOperator(c)
	if !ok {
		return
	}

	var req request.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	staff, err := h.staffService.UpdateProfile(op, service.ProfileInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile updated successfully", staff)
}
