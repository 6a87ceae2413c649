package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bizbook/internal/config"
	"bizbook/internal/model"
	"bizbook/internal/service"
	"bizbook/internal/utils"

	"github.com/gin-gonic/gin"
)

// PurchaseHandler handles supplier bill requests
type PurchaseHandler struct {
	service service.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(s service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: s}
}

func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req model.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	purchase, err := h.service.Create(c.Request.Context(), account, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound), errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			config.LogError("purchase_handler", "CreatePurchase", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase"})
		}
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase ID"})
		return
	}

	purchase, err := h.service.GetByID(c.Request.Context(), account, id)
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("purchase_handler", "GetPurchase", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get purchase"})
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var filters model.PurchaseFilters
	if supplierParam := c.Query("supplier_id"); supplierParam != "" {
		sid, err := strconv.ParseInt(supplierParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier_id"})
			return
		}
		filters.SupplierID = &sid
	}
	if statusParam := c.Query("payment_status"); statusParam != "" {
		filters.PaymentStatus = &statusParam
	}
	if startDateParam := c.Query("start_date"); startDateParam != "" {
		parsedDate, err := time.Parse("2006-01-02", startDateParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
			return
		}
		filters.StartDate = &parsedDate
	}
	if endDateParam := c.Query("end_date"); endDateParam != "" {
		parsedDate, err := time.Parse("2006-01-02", endDateParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
			return
		}
		endOfDay := utils.EndOfDay(parsedDate)
		filters.EndDate = &endOfDay
	}

	purchases, err := h.service.List(c.Request.Context(), account, filters)
	if err != nil {
		config.LogError("purchase_handler", "ListPurchases", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list purchases"})
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func (h *PurchaseHandler) DeletePurchase(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), account, id); err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("purchase_handler", "DeletePurchase", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete purchase"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchase deleted successfully"})
}

func (h *PurchaseHandler) MarkPaid(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase ID"})
		return
	}

	var req model.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	purchase, err := h.service.MarkPaid(c.Request.Context(), account, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPurchaseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPurchaseAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			config.LogError("purchase_handler", "MarkPaid", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark purchase paid"})
		}
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// RegisterPurchaseRoutes registers purchase routes
func (h *PurchaseHandler) RegisterPurchaseRoutes(rg *gin.RouterGroup, authMW, permMW gin.HandlerFunc) {
	purchaseRoutes := rg.Group("/purchases")
	purchaseRoutes.Use(authMW)
	purchaseRoutes.Use(permMW)
	{
		purchaseRoutes.POST("", h.CreatePurchase)
		purchaseRoutes.GET("", h.ListPurchases)
		purchaseRoutes.GET("/:id", h.GetPurchase)
		purchaseRoutes.DELETE("/:id", h.DeletePurchase)
		purchaseRoutes.POST("/:id/payment", h.MarkPaid)
	}
}
