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

// UserHandler handles profile and subuser requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("user_handler", "GetProfile", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), uid, req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("user_handler", "UpdateProfile", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), uid, req); err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		config.LogError("user_handler", "ChangePassword", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *UserHandler) CreateSubuser(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req model.CreateSubuserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	subuser, err := h.service.CreateSubuser(c.Request.Context(), uid, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUnknownPermission):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			config.LogError("user_handler", "CreateSubuser", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subuser"})
		}
		return
	}
	c.JSON(http.StatusCreated, subuser)
}

func (h *UserHandler) ListSubusers(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subusers, err := h.service.ListSubusers(c.Request.Context(), uid)
	if err != nil {
		config.LogError("user_handler", "ListSubusers", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list subusers"})
		return
	}
	c.JSON(http.StatusOK, subusers)
}

func (h *UserHandler) UpdateSubuser(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subuserID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subuser ID"})
		return
	}

	var req model.UpdateSubuserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	subuser, err := h.service.UpdateSubuser(c.Request.Context(), uid, subuserID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrNotSubuser):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUnknownPermission):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			config.LogError("user_handler", "UpdateSubuser", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subuser"})
		}
		return
	}
	c.JSON(http.StatusOK, subuser)
}

func (h *UserHandler) DeleteSubuser(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subuserID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subuser ID"})
		return
	}

	if err := h.service.DeleteSubuser(c.Request.Context(), uid, subuserID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrNotSubuser) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("user_handler", "DeleteSubuser", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subuser"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subuser deleted successfully"})
}

// RegisterUserRoutes registers profile and subuser routes. Subuser management
// is owner-only; profile routes are open to any authenticated user.
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, ownerMW gin.HandlerFunc) {
	profileRoutes := rg.Group("/profile")
	profileRoutes.Use(authMW)
	{
		profileRoutes.GET("", h.GetProfile)
		profileRoutes.PUT("", h.UpdateProfile)
		profileRoutes.PUT("/password", h.ChangePassword)
	}

	subuserRoutes := rg.Group("/subusers")
	subuserRoutes.Use(authMW)
	subuserRoutes.Use(ownerMW)
	{
		subuserRoutes.POST("", h.CreateSubuser)
		subuserRoutes.GET("", h.ListSubusers)
		subuserRoutes.PUT("/:id", h.UpdateSubuser)
		subuserRoutes.DELETE("/:id", h.DeleteSubuser)
	}
}
