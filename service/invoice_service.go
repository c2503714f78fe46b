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

// InvoiceService handles invoices, receipts, and credit checks.
type InvoiceService struct {
	invoiceRepo  *repository.InvoiceRepository
	customerRepo *repository.CustomerRepository
	validate     *validator.Validate
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo *repository.InvoiceRepository, customerRepo *repository.CustomerRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		validate:     validator.New(),
	}
}

// CreateInvoice validates and inserts a new open invoice. A customer over
// their credit limit (outstanding receivables plus the new total) is
// rejected.
func (s *InvoiceService) CreateInvoice(ctx context.Context, tenantID string, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.Total.IsNegative() || req.Total.IsZero() {
		return nil, fmt.Errorf("%w: invoice total must be positive", ErrValidation)
	}
	if req.DueDate.Before(req.IssueDate) {
		return nil, fmt.Errorf("%w: due date precedes issue date", ErrValidation)
	}

	customer, err := s.customerRepo.GetCustomerByID(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	if customer.CreditLimit.IsPositive() {
		outstanding, err := s.outstandingFor(ctx, tenantID, req.CustomerID)
		if err != nil {
			return nil, err
		}
		if outstanding.Add(req.Total).GreaterThan(customer.CreditLimit) {
			return nil, fmt.Errorf("%w: credit limit %s exceeded (outstanding %s)",
				ErrValidation, customer.CreditLimit, outstanding)
		}
	}

	invoice := &models.Invoice{
		TenantID:      tenantID,
		InvoiceNumber: utils.NewDocumentNumber("INV", time.Now().UTC()),
		CustomerID:    req.CustomerID,
		Status:        models.InvoiceOpen,
		Total:         req.Total,
		PaidAmount:    decimal.Zero,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
	}
	if err := s.invoiceRepo.CreateInvoice(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) outstandingFor(ctx context.Context, tenantID string, customerID int64) (decimal.Decimal, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx, tenantID)
	if err != nil {
		return decimal.Zero, err
	}
	outstanding := decimal.Zero
	for _, inv := range invoices {
		if inv.CustomerID != customerID {
			continue
		}
		if inv.Status == models.InvoiceOpen || inv.Status == models.InvoicePartial {
			outstanding = outstanding.Add(inv.Total.Sub(inv.PaidAmount))
		}
	}
	return outstanding, nil
}

// GetInvoice fetches one invoice.
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID string, invoiceID int64) (*models.Invoice, error) {
	return s.invoiceRepo.GetInvoiceByID(ctx, tenantID, invoiceID)
}

// ListInvoices lists the tenant's invoices.
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID string) ([]models.Invoice, error) {
	return s.invoiceRepo.ListInvoices(ctx, tenantID)
}

// VoidInvoice voids an unpaid invoice.
func (s *InvoiceService) VoidInvoice(ctx context.Context, tenantID string, invoiceID int64) error {
	return s.invoiceRepo.Void(ctx, tenantID, invoiceID)
}

// RecordReceipt applies a payment against an invoice.
func (s *InvoiceService) RecordReceipt(ctx context.Context, tenantID string, invoiceID int64, req *models.CreateReceiptRequest) (*models.Receipt, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: receipt amount must be positive", ErrValidation)
	}

	receivedAt := time.Now().UTC()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	receipt := &models.Receipt{
		TenantID:      tenantID,
		ReceiptNumber: utils.NewDocumentNumber("RCT", receivedAt),
		InvoiceID:     invoiceID,
		Amount:        req.Amount,
		Method:        nullString(req.Method),
		ReceivedAt:    receivedAt,
	}
	if err := s.invoiceRepo.ApplyReceipt(ctx, receipt); err != nil {
		return nil, err
	}

	logger.Log.WithField("tenant_id", tenantID).
		Infof("receipt %s recorded against invoice %d for %s", receipt.ReceiptNumber, invoiceID, req.Amount)
	return receipt, nil
}

// ListReceipts lists payments recorded against an invoice.
func (s *InvoiceService) ListReceipts(ctx context.Context, tenantID string, invoiceID int64) ([]models.Receipt, error) {
	if _, err := s.invoiceRepo.GetInvoiceByID(ctx, tenantID, invoiceID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.ListReceipts(ctx, tenantID, invoiceID)
}
