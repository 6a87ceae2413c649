package handler

import (
	"errors"
	"net/http"

	"bizbook/internal/config"
	"bizbook/internal/model"
	"bizbook/internal/service"

	"github.com/gin-gonic/gin"
)

// PartyHandler handles customer and supplier requests
type PartyHandler struct {
	service service.PartyService
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(s service.PartyService) *PartyHandler {
	return &PartyHandler{service: s}
}

func (h *PartyHandler) CreateCustomer(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req model.PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), account, req)
	if err != nil {
		config.LogError("party_handler", "CreateCustomer", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *PartyHandler) GetCustomer(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), account, id)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("party_handler", "GetCustomer", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *PartyHandler) ListCustomers(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	customers, err := h.service.ListCustomers(c.Request.Context(), account)
	if err != nil {
		config.LogError("party_handler", "ListCustomers", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *PartyHandler) UpdateCustomer(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	var req model.PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), account, id, req)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("party_handler", "UpdateCustomer", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *PartyHandler) DeleteCustomer(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	if err := h.service.DeleteCustomer(c.Request.Context(), account, id); err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("party_handler", "DeleteCustomer", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

func (h *PartyHandler) GetCustomerLedger(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	ledger, err := h.service.CustomerLedger(c.Request.Context(), account, id)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("party_handler", "GetCustomerLedger", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build customer ledger"})
		return
	}
	c.JSON(http.StatusOK, ledger)
}

func (h *PartyHandler) CreateSupplier(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req model.PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	supplier, err := h.service.CreateSupplier(c.Request.Context(), account, req)
	if err != nil {
		config.LogError("party_handler", "CreateSupplier", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *PartyHandler) GetSupplier(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	supplier, err := h.service.GetSupplier(c.Request.Context(), account, id)
	if err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("party_handler", "GetSupplier", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get supplier"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *PartyHandler) ListSuppliers(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	suppliers, err := h.service.ListSuppliers(c.Request.Context(), account)
	if err != nil {
		config.LogError("party_handler", "ListSuppliers", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list suppliers"})
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *PartyHandler) UpdateSupplier(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	var req model.PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	supplier, err := h.service.UpdateSupplier(c.Request.Context(), account, id, req)
	if err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("party_handler", "UpdateSupplier", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update supplier"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *PartyHandler) DeleteSupplier(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	if err := h.service.DeleteSupplier(c.Request.Context(), account, id); err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("party_handler", "DeleteSupplier", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete supplier"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}

func (h *PartyHandler) GetSupplierLedger(c *gin.Context) {
	account, ok := accountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	ledger, err := h.service.SupplierLedger(c.Request.Context(), account, id)
	if err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		config.LogError("party_handler", "GetSupplierLedger", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build supplier ledger"})
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// RegisterPartyRoutes registers customer and supplier routes
func (h *PartyHandler) RegisterPartyRoutes(rg *gin.RouterGroup, authMW, permMW gin.HandlerFunc) {
	customerRoutes := rg.Group("/customers")
	customerRoutes.Use(authMW)
	customerRoutes.Use(permMW)
	{
		customerRoutes.POST("", h.CreateCustomer)
		customerRoutes.GET("", h.ListCustomers)
		customerRoutes.GET("/:id", h.GetCustomer)
		customerRoutes.PUT("/:id", h.UpdateCustomer)
		customerRoutes.DELETE("/:id", h.DeleteCustomer)
		customerRoutes.GET("/:id/ledger", h.GetCustomerLedger)
	}

	supplierRoutes := rg.Group("/suppliers")
	supplierRoutes.Use(authMW)
	supplierRoutes.Use(permMW)
	{
		supplierRoutes.POST("", h.CreateSupplier)
		supplierRoutes.GET("", h.ListSuppliers)
		supplierRoutes.GET("/:id", h.GetSupplier)
		supplierRoutes.PUT("/:id", h.UpdateSupplier)
		supplierRoutes.DELETE("/:id", h.DeleteSupplier)
		supplierRoutes.GET("/:id/ledger", h.GetSupplierLedger)
	}
}
