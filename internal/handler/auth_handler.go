package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/middleware"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/response"
	"github.com/stemsi/daycare-backend/internal/service"
	"github.com/stemsi/daycare-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService  *service.AuthService
	adminService *service.AdminService
	log          zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, adminService *service.AdminService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		adminService: adminService,
		log:          log.With().Str("component", "auth_handler").Logger(),
	}
}

func adminView(admin *model.Admin) gin.H {
	return gin.H{
		"id":        admin.ID,
		"email":     admin.Email,
		"name":      admin.Name,
		"role_id":   admin.RoleID,
		"role_name": admin.RoleName,
	}
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
// Validates email + password, returns JWT with permissions.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.adminService.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	permissions, err := h.adminService.GetPermissions(c.Request.Context(), admin.RoleID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	token, err := h.authService.GenerateAdminToken(c.Request.Context(), admin.ID, admin.RoleID, permissions)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	h.log.Info().Int("admin_id", admin.ID).Msg("Admin logged in")
	response.Success(c, http.StatusOK, gin.H{
		"token":       token,
		"admin":       adminView(admin),
		"permissions": permissions,
	})
}

// GetAdminProfile godoc
// GET /api/v1/auth/admin/me
// Returns the profile of the currently authenticated admin.
func (h *AuthHandler) GetAdminProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.adminService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	permissions, err := h.adminService.GetPermissions(c.Request.Context(), admin.RoleID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"admin":       adminView(admin),
		"permissions": permissions,
	})
}

// AdminLogout godoc
// POST /api/v1/auth/admin/logout
// Drops the admin's session so the current token stops working.
func (h *AuthHandler) AdminLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.UserID); err != nil {
		fail(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// CreateAdminRequest payload
type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"required,min=2,max=50"`
}

// CreateAdmin godoc
// POST /api/v1/admin/users
// Creates a front-desk or admin account under an existing role.
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	admin := &model.Admin{Email: req.Email, Name: req.Name, PasswordHash: hash}
	if err := h.adminService.Create(c.Request.Context(), admin, req.Role); err != nil {
		fail(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, adminView(admin))
}
