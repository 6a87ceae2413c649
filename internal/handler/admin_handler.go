package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bizbook/internal/config"
	"bizbook/internal/model"
	"bizbook/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles the platform admin console
type AdminHandler struct {
	service service.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filters model.AdminUserFilters
	if roleParam := c.Query("role"); roleParam != "" {
		filters.Role = &roleParam
	}
	if activeParam := c.Query("is_active"); activeParam != "" {
		active, err := strconv.ParseBool(activeParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid is_active, expected true or false"})
			return
		}
		filters.IsActive = &active
	}
	if searchParam := c.Query("search"); searchParam != "" {
		filters.Search = &searchParam
	}

	users, err := h.service.ListUsers(c.Request.Context(), filters)
	if err != nil {
		config.LogError("admin_handler", "ListUsers", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("admin_handler", "GetUser", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.SetUserStatus(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrCannotModifyAdmin):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			config.LogError("admin_handler", "SetUserStatus", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set user status"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.service.PlatformStats(c.Request.Context())
	if err != nil {
		config.LogError("admin_handler", "GetPlatformStats", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get platform stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RegisterAdminRoutes registers admin console routes
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	adminRoutes := rg.Group("/admin")
	adminRoutes.Use(authMW)
	adminRoutes.Use(adminMW)
	{
		adminRoutes.GET("/users", h.ListUsers)
		adminRoutes.GET("/users/:id", h.GetUser)
		adminRoutes.PUT("/users/:id/status", h.SetUserStatus)
		adminRoutes.GET("/stats", h.GetPlatformStats)
	}
}
