package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizbook/internal/model"
	"bizbook/internal/repository"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSupplierNotFound = errors.New("supplier not found")
)

// PartyService defines customer and supplier management with their ledgers
type PartyService interface {
	CreateCustomer(ctx context.Context, accountID int, req model.PartyRequest) (*model.Customer, error)
	GetCustomer(ctx context.Context, accountID int, id int64) (*model.Customer, error)
	ListCustomers(ctx context.Context, accountID int) ([]model.Customer, error)
	UpdateCustomer(ctx context.Context, accountID int, id int64, req model.PartyRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, accountID int, id int64) error
	CustomerLedger(ctx context.Context, accountID int, id int64) (*model.CustomerLedger, error)

	CreateSupplier(ctx context.Context, accountID int, req model.PartyRequest) (*model.Supplier, error)
	GetSupplier(ctx context.Context, accountID int, id int64) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, accountID int) ([]model.Supplier, error)
	UpdateSupplier(ctx context.Context, accountID int, id int64, req model.PartyRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, accountID int, id int64) error
	SupplierLedger(ctx context.Context, accountID int, id int64) (*model.SupplierLedger, error)
}

type partyService struct {
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
	estimateRepo repository.EstimateRepository
	purchaseRepo repository.PurchaseRepository
}

// NewPartyService creates a new PartyService
func NewPartyService(customerRepo repository.CustomerRepository, supplierRepo repository.SupplierRepository,
	estimateRepo repository.EstimateRepository, purchaseRepo repository.PurchaseRepository) PartyService {
	return &partyService{
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		estimateRepo: estimateRepo,
		purchaseRepo: purchaseRepo,
	}
}

func (s *partyService) CreateCustomer(ctx context.Context, accountID int, req model.PartyRequest) (*model.Customer, error) {
	now := time.Now()
	customer := &model.Customer{
		UserID:    accountID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *partyService) GetCustomer(ctx context.Context, accountID int, id int64) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

func (s *partyService) ListCustomers(ctx context.Context, accountID int) ([]model.Customer, error) {
	customers, err := s.customerRepo.FindByUser(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *partyService) UpdateCustomer(ctx context.Context, accountID int, id int64, req model.PartyRequest) (*model.Customer, error) {
	customer, err := s.GetCustomer(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *partyService) DeleteCustomer(ctx context.Context, accountID int, id int64) error {
	if _, err := s.GetCustomer(ctx, accountID, id); err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, id, accountID); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// CustomerLedger returns the customer's position: billed totals over completed
// estimates, cash actually received, and the balance still due.
func (s *partyService) CustomerLedger(ctx context.Context, accountID int, id int64) (*model.CustomerLedger, error) {
	customer, err := s.GetCustomer(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	billed, received, err := s.estimateRepo.CustomerSums(ctx, accountID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to sum customer ledger: %w", err)
	}

	estimates, err := s.estimateRepo.FindByUser(ctx, accountID, model.EstimateFilters{CustomerID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list customer estimates: %w", err)
	}

	return &model.CustomerLedger{
		Customer:      customer,
		TotalBilled:   billed,
		TotalReceived: received,
		BalanceDue:    billed.Sub(received),
		Estimates:     estimates,
	}, nil
}

func (s *partyService) CreateSupplier(ctx context.Context, accountID int, req model.PartyRequest) (*model.Supplier, error) {
	now := time.Now()
	supplier := &model.Supplier{
		UserID:    accountID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

func (s *partyService) GetSupplier(ctx context.Context, accountID int, id int64) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	if supplier == nil {
		return nil, ErrSupplierNotFound
	}
	return supplier, nil
}

func (s *partyService) ListSuppliers(ctx context.Context, accountID int) ([]model.Supplier, error) {
	suppliers, err := s.supplierRepo.FindByUser(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *partyService) UpdateSupplier(ctx context.Context, accountID int, id int64, req model.PartyRequest) (*model.Supplier, error) {
	supplier, err := s.GetSupplier(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	supplier.Name = req.Name
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

func (s *partyService) DeleteSupplier(ctx context.Context, accountID int, id int64) error {
	if _, err := s.GetSupplier(ctx, accountID, id); err != nil {
		return err
	}
	if err := s.supplierRepo.Delete(ctx, id, accountID); err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	return nil
}

// SupplierLedger returns the supplier's position: purchased totals, cash paid
// out, and the balance still owed.
func (s *partyService) SupplierLedger(ctx context.Context, accountID int, id int64) (*model.SupplierLedger, error) {
	supplier, err := s.GetSupplier(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	purchased, paid, err := s.purchaseRepo.SupplierSums(ctx, accountID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to sum supplier ledger: %w", err)
	}

	purchases, err := s.purchaseRepo.FindByUser(ctx, accountID, model.PurchaseFilters{SupplierID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier purchases: %w", err)
	}

	return &model.SupplierLedger{
		Supplier:       supplier,
		TotalPurchased: purchased,
		TotalPaid:      paid,
		BalanceDue:     purchased.Sub(paid),
		Purchases:      purchases,
	}, nil
}
