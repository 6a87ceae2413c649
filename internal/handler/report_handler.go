package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"bizbook/internal/config"
	"bizbook/internal/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting requests
type ReportHandler struct {
	service service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

func (h *ReportHandler) GetCashFlowReport(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.service.CashFlowReport(c.Request.Context(), account, start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		config.LogError("report_handler", "GetCashFlowReport", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build cash flow report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetIncomeExpenseReport(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.service.IncomeExpenseReport(c.Request.Context(), account, start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		config.LogError("report_handler", "GetIncomeExpenseReport", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build income expense report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) ExportCashFlowCSV(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buffer, err := h.service.ExportCashFlowCSV(c.Request.Context(), account, start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		config.LogError("report_handler", "ExportCashFlowCSV", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export cash flow report"})
		return
	}

	fileName := fmt.Sprintf("cashflow_%s_%s.csv", start.Format("2006-01-02"), end.Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv", buffer.Bytes())
}

func (h *ReportHandler) GetInventoryReport(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	report, err := h.service.InventoryReport(c.Request.Context(), account)
	if err != nil {
		config.LogError("report_handler", "GetInventoryReport", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build inventory report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetDashboard(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	summary, err := h.service.Dashboard(c.Request.Context(), account, time.Now())
	if err != nil {
		config.LogError("report_handler", "GetDashboard", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RegisterReportRoutes registers reporting routes
func (h *ReportHandler) RegisterReportRoutes(rg *gin.RouterGroup, authMW, permMW gin.HandlerFunc) {
	reportRoutes := rg.Group("/reports")
	reportRoutes.Use(authMW)
	reportRoutes.Use(permMW)
	{
		reportRoutes.GET("/cashflow", h.GetCashFlowReport)
		reportRoutes.GET("/cashflow/export", h.ExportCashFlowCSV)
		reportRoutes.GET("/income-expense", h.GetIncomeExpenseReport)
		reportRoutes.GET("/inventory", h.GetInventoryReport)
	}

	dashboardRoutes := rg.Group("/dashboard")
	dashboardRoutes.Use(authMW)
	{
		dashboardRoutes.GET("", h.GetDashboard)
	}
}
