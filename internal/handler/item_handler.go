package handler

import (
	"errors"
	"net/http"

	"bizbook/internal/config"
	"bizbook/internal/model"
	"bizbook/internal/service"

	"github.com/gin-gonic/gin"
)

// ItemHandler handles inventory item requests
type ItemHandler struct {
	service service.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(s service.ItemService) *ItemHandler {
	return &ItemHandler{service: s}
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req model.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	item, err := h.service.Create(c.Request.Context(), account, req)
	if err != nil {
		config.LogError("item_handler", "CreateItem", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), account, id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("item_handler", "GetItem", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) ListItems(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	items, err := h.service.List(c.Request.Context(), account)
	if err != nil {
		config.LogError("item_handler", "ListItems", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	item, err := h.service.Update(c.Request.Context(), account, id, req)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("item_handler", "UpdateItem", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), account, id); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("item_handler", "DeleteItem", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

func (h *ItemHandler) AdjustStock(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req model.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	item, err := h.service.AdjustStock(c.Request.Context(), account, id, req)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("item_handler", "AdjustStock", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust stock"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) ListLowStock(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	items, err := h.service.ListLowStock(c.Request.Context(), account)
	if err != nil {
		config.LogError("item_handler", "ListLowStock", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list low stock items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// RegisterItemRoutes registers inventory routes
func (h *ItemHandler) RegisterItemRoutes(rg *gin.RouterGroup, authMW, permMW gin.HandlerFunc) {
	itemRoutes := rg.Group("/items")
	itemRoutes.Use(authMW)
	itemRoutes.Use(permMW)
	{
		itemRoutes.POST("", h.CreateItem)
		itemRoutes.GET("", h.ListItems)
		itemRoutes.GET("/low-stock", h.ListLowStock)
		itemRoutes.GET("/:id", h.GetItem)
		itemRoutes.PUT("/:id", h.UpdateItem)
		itemRoutes.DELETE("/:id", h.DeleteItem)
		itemRoutes.POST("/:id/adjust", h.AdjustStock)
	}
}
