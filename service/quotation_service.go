package service

import (
	"context"
	"fmt"
	"time"

	"bizledger/logger"
	"bizledger/models"
	"bizledger/repository"
	"bizledger/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// QuotationService handles quotations and their conversion into invoices.
type QuotationService struct {
	quotationRepo *repository.QuotationRepository
	invoiceRepo   *repository.InvoiceRepository
	customerRepo  *repository.CustomerRepository
	validate      *validator.Validate
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	quotationRepo *repository.QuotationRepository,
	invoiceRepo *repository.InvoiceRepository,
	customerRepo *repository.CustomerRepository,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		invoiceRepo:   invoiceRepo,
		customerRepo:  customerRepo,
		validate:      validator.New(),
	}
}

// CreateQuotation validates line items, totals them, and inserts the draft.
func (s *QuotationService) CreateQuotation(ctx context.Context, tenantID string, req *models.CreateQuotationRequest) (*models.Quotation, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.customerRepo.GetCustomerByID(ctx, tenantID, req.CustomerID); err != nil {
		return nil, err
	}

	quotation := &models.Quotation{
		TenantID:        tenantID,
		QuotationNumber: utils.NewDocumentNumber("QT", time.Now().UTC()),
		CustomerID:      req.CustomerID,
		Status:          models.QuotationDraft,
	}
	if req.ValidUntil != nil {
		quotation.ValidUntil.Time = *req.ValidUntil
		quotation.ValidUntil.Valid = true
	}

	total := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity.IsNegative() || item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: quantity and unit price must not be negative", ErrValidation)
		}
		amount := item.Quantity.Mul(item.UnitPrice)
		total = total.Add(amount)
		quotation.Items = append(quotation.Items, models.QuotationItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      amount,
		})
	}
	quotation.Total = total

	if err := s.quotationRepo.CreateQuotation(ctx, quotation); err != nil {
		return nil, err
	}
	return quotation, nil
}

// GetQuotation fetches one quotation with its items.
func (s *QuotationService) GetQuotation(ctx context.Context, tenantID string, quotationID int64) (*models.Quotation, error) {
	return s.quotationRepo.GetQuotationByID(ctx, tenantID, quotationID)
}

// ListQuotations lists the tenant's quotations.
func (s *QuotationService) ListQuotations(ctx context.Context, tenantID string) ([]models.Quotation, error) {
	return s.quotationRepo.ListQuotations(ctx, tenantID)
}

// TransitionQuotation moves a quotation along its lifecycle. Acceptance
// creates the invoice for the quotation total; dueDate defaults to 30 days
// out when the client omits it.
func (s *QuotationService) TransitionQuotation(ctx context.Context, tenantID string, quotationID int64, req *models.UpdateQuotationStatusRequest) (*models.Quotation, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	quotation, err := s.quotationRepo.GetQuotationByID(ctx, tenantID, quotationID)
	if err != nil {
		return nil, err
	}

	if !models.ValidQuotationTransition(quotation.Status, req.Status) {
		return nil, fmt.Errorf("%w: cannot move quotation from %s to %s", ErrValidation, quotation.Status, req.Status)
	}

	var invoiceID *int64
	if req.Status == models.QuotationAccepted {
		now := time.Now().UTC()
		dueDate := now.AddDate(0, 0, 30)
		if req.DueDate != nil {
			dueDate = *req.DueDate
		}

		invoice := &models.Invoice{
			TenantID:      tenantID,
			InvoiceNumber: utils.NewDocumentNumber("INV", now),
			CustomerID:    quotation.CustomerID,
			Status:        models.InvoiceOpen,
			Total:         quotation.Total,
			PaidAmount:    decimal.Zero,
			IssueDate:     now,
			DueDate:       dueDate,
		}
		if err := s.invoiceRepo.CreateInvoice(ctx, invoice); err != nil {
			return nil, err
		}
		invoiceID = &invoice.InvoiceID
		logger.Log.WithField("tenant_id", tenantID).
			Infof("quotation %s accepted, invoice %s created", quotation.QuotationNumber, invoice.InvoiceNumber)
	}

	if err := s.quotationRepo.UpdateQuotationStatus(ctx, tenantID, quotationID, req.Status, invoiceID); err != nil {
		return nil, err
	}
	return s.quotationRepo.GetQuotationByID(ctx, tenantID, quotationID)
}
