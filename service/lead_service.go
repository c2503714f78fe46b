package service

import (
	"context"
	"database/sql"
	"fmt"

	"bizledger/logger"
	"bizledger/models"
	"bizledger/repository"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// LeadService handles the lead pipeline, including conversion into a
// customer.
type LeadService struct {
	leadRepo     *repository.LeadRepository
	customerRepo *repository.CustomerRepository
	validate     *validator.Validate
}

// NewLeadService creates a new lead service
func NewLeadService(leadRepo *repository.LeadRepository, customerRepo *repository.CustomerRepository) *LeadService {
	return &LeadService{
		leadRepo:     leadRepo,
		customerRepo: customerRepo,
		validate:     validator.New(),
	}
}

// CreateLead validates and inserts a new lead.
func (s *LeadService) CreateLead(ctx context.Context, tenantID string, req *models.CreateLeadRequest) (*models.Lead, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	lead := &models.Lead{
		TenantID: tenantID,
		Name:     req.Name,
		Email:    nullString(req.Email),
		Phone:    nullString(req.Phone),
		Source:   nullString(req.Source),
		Notes:    nullString(req.Notes),
		Status:   models.LeadNew,
	}
	if err := s.leadRepo.CreateLead(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// GetLead fetches one lead.
func (s *LeadService) GetLead(ctx context.Context, tenantID string, leadID int64) (*models.Lead, error) {
	return s.leadRepo.GetLeadByID(ctx, tenantID, leadID)
}

// ListLeads lists the tenant's leads, optionally filtered by status.
func (s *LeadService) ListLeads(ctx context.Context, tenantID string, status models.LeadStatus) ([]models.Lead, error) {
	return s.leadRepo.ListLeads(ctx, tenantID, status)
}

// TransitionLead moves a lead along the pipeline. Moving a qualified lead
// to converted creates a customer carrying the lead's contact details.
func (s *LeadService) TransitionLead(ctx context.Context, tenantID string, leadID int64, to models.LeadStatus) (*models.Lead, error) {
	lead, err := s.leadRepo.GetLeadByID(ctx, tenantID, leadID)
	if err != nil {
		return nil, err
	}

	if !models.ValidLeadTransition(lead.Status, to) {
		return nil, fmt.Errorf("%w: cannot move lead from %s to %s", ErrValidation, lead.Status, to)
	}

	var convertedID *int64
	if to == models.LeadConverted {
		customer := &models.Customer{
			TenantID:    tenantID,
			Name:        lead.Name,
			Email:       lead.Email,
			Phone:       lead.Phone,
			CreditLimit: decimal.Zero,
			Category:    models.TierAlpha,
		}
		if err := s.customerRepo.CreateCustomer(ctx, customer); err != nil {
			return nil, err
		}
		convertedID = &customer.CustomerID
		logger.Log.WithField("tenant_id", tenantID).
			Infof("lead %d converted to customer %d", leadID, customer.CustomerID)
	}

	if err := s.leadRepo.UpdateLeadStatus(ctx, tenantID, leadID, to, convertedID); err != nil {
		return nil, err
	}
	return s.leadRepo.GetLeadByID(ctx, tenantID, leadID)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
