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

// EstimateHandler handles sales document requests
type EstimateHandler struct {
	service service.EstimateService
}

// NewEstimateHandler creates a new EstimateHandler
func NewEstimateHandler(s service.EstimateService) *EstimateHandler {
	return &EstimateHandler{service: s}
}

func (h *EstimateHandler) CreateEstimate(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req model.CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	estimate, err := h.service.Create(c.Request.Context(), account, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound), errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			config.LogError("estimate_handler", "CreateEstimate", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create estimate"})
		}
		return
	}
	c.JSON(http.StatusCreated, estimate)
}

func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid estimate ID"})
		return
	}

	estimate, err := h.service.GetByID(c.Request.Context(), account, id)
	if err != nil {
		if errors.Is(err, service.ErrEstimateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("estimate_handler", "GetEstimate", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get estimate"})
		return
	}
	c.JSON(http.StatusOK, estimate)
}

func (h *EstimateHandler) ListEstimates(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var filters model.EstimateFilters
	if customerParam := c.Query("customer_id"); customerParam != "" {
		cid, err := strconv.ParseInt(customerParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer_id"})
			return
		}
		filters.CustomerID = &cid
	}
	if statusParam := c.Query("status"); statusParam != "" {
		filters.Status = &statusParam
	}
	if typeParam := c.Query("payment_type"); typeParam != "" {
		filters.PaymentType = &typeParam
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

	estimates, err := h.service.List(c.Request.Context(), account, filters)
	if err != nil {
		config.LogError("estimate_handler", "ListEstimates", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list estimates"})
		return
	}
	c.JSON(http.StatusOK, estimates)
}

func (h *EstimateHandler) CancelEstimate(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid estimate ID"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), account, id); err != nil {
		switch {
		case errors.Is(err, service.ErrEstimateNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEstimateCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			config.LogError("estimate_handler", "CancelEstimate", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel estimate"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Estimate cancelled successfully"})
}

func (h *EstimateHandler) DeleteEstimate(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid estimate ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), account, id); err != nil {
		if errors.Is(err, service.ErrEstimateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("estimate_handler", "DeleteEstimate", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete estimate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Estimate deleted successfully"})
}

func (h *EstimateHandler) RecordPayment(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid estimate ID"})
		return
	}

	var req model.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	estimate, err := h.service.RecordPayment(c.Request.Context(), account, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEstimateNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEstimateCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			config.LogError("estimate_handler", "RecordPayment", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		}
		return
	}
	c.JSON(http.StatusOK, estimate)
}

// RegisterEstimateRoutes registers estimate routes
func (h *EstimateHandler) RegisterEstimateRoutes(rg *gin.RouterGroup, authMW, permMW gin.HandlerFunc) {
	estimateRoutes := rg.Group("/estimates")
	estimateRoutes.Use(authMW)
	estimateRoutes.Use(permMW)
	{
		estimateRoutes.POST("", h.CreateEstimate)
		estimateRoutes.GET("", h.ListEstimates)
		estimateRoutes.GET("/:id", h.GetEstimate)
		estimateRoutes.POST("/:id/cancel", h.CancelEstimate)
		estimateRoutes.DELETE("/:id", h.DeleteEstimate)
		estimateRoutes.POST("/:id/payment", h.RecordPayment)
	}
}
