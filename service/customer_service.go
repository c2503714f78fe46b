package service

import (
	"context"
	"fmt"

	"bizledger/models"
	"bizledger/repository"

	"github.com/go-playground/validator/v10"
)

// CustomerService handles customer management and manual category
// overrides.
type CustomerService struct {
	customerRepo *repository.CustomerRepository
	rulesRepo    *repository.RulesRepository
	validate     *validator.Validate
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo *repository.CustomerRepository, rulesRepo *repository.RulesRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		rulesRepo:    rulesRepo,
		validate:     validator.New(),
	}
}

// CreateCustomer validates and inserts a customer, starting in alpha.
func (s *CustomerService) CreateCustomer(ctx context.Context, tenantID string, req *models.CreateCustomerRequest) (*models.Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("%w: credit limit must not be negative", ErrValidation)
	}

	customer := &models.Customer{
		TenantID:    tenantID,
		Name:        req.Name,
		Email:       nullString(req.Email),
		Phone:       nullString(req.Phone),
		CreditLimit: req.CreditLimit,
		Category:    models.TierAlpha,
	}
	if err := s.customerRepo.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer fetches one customer.
func (s *CustomerService) GetCustomer(ctx context.Context, tenantID string, customerID int64) (*models.Customer, error) {
	return s.customerRepo.GetCustomerByID(ctx, tenantID, customerID)
}

// ListCustomers lists the tenant's active customers.
func (s *CustomerService) ListCustomers(ctx context.Context, tenantID string) ([]models.Customer, error) {
	return s.customerRepo.ListCustomers(ctx, tenantID)
}

// SetCategoryManually sets a customer's tier by hand. Allowed only while
// auto-upgrade is disabled; with auto-upgrade on the recompute owns the
// field and a manual write would be overwritten on the next run anyway.
func (s *CustomerService) SetCategoryManually(ctx context.Context, tenantID string, customerID int64, req *models.UpdateCustomerCategoryRequest) (*models.Customer, error) {
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}

	settings, err := s.rulesRepo.GetRecoverySettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if settings.AutoUpgradeEnabled {
		return nil, fmt.Errorf("%w: categories are managed automatically while auto-upgrade is enabled", ErrValidation)
	}

	if err := s.customerRepo.UpdateCategory(ctx, tenantID, customerID, req.Category, true); err != nil {
		return nil, err
	}
	return s.customerRepo.GetCustomerByID(ctx, tenantID, customerID)
}
