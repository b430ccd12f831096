package users

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docuhub-backend/internal/shared/server/middleware"
	"docuhub-backend/internal/shared/server/respond"
)

// Handler exposes the auth HTTP routes.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the auth endpoints. Profile routes require a
// verified token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/register", h.register)
	a.POST("/login", h.login)

	protected := a.Group("")
	protected.Use(middleware.RequireAuth())
	protected.GET("/profile", h.profile)
	protected.PUT("/profile", h.updateProfile)
	protected.PUT("/change-password", h.changePassword)
}

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, err := h.service.Register(c.Request.Context(), RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		respond.DomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    userResponse(u),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond.DomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    userResponse(u),
	})
}

func (h *Handler) profile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	u, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, userResponse(u))
}

type updateProfileRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserIDFromContext(c)
	u, err := h.service.UpdateProfile(c.Request.Context(), userID, ProfileInput{
		Name:       req.Name,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, userResponse(u))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := middleware.UserIDFromContext(c)
	if err := h.service.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OKMessage(c, "password updated")
}

func userResponse(u *User) gin.H {
	var lastLogin *string
	if u.LastLogin != nil {
		s := u.LastLogin.UTC().Format(time.RFC3339)
		lastLogin = &s
	}
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"department": u.Department,
		"position":   u.Position,
		"created_at": u.CreatedAt.UTC().Format(time.RFC3339),
		"last_login": lastLogin,
	}
}
