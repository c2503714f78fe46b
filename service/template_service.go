package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizledger/logger"
	"bizledger/models"
	"bizledger/notification"
	"bizledger/repository"

	"github.com/go-playground/validator/v10"
)

// TemplateService handles communication templates: CRUD, placeholder
// rendering, and the HTTP handoff to the channel collaborator.
type TemplateService struct {
	templateRepo *repository.TemplateRepository
	customerRepo *repository.CustomerRepository
	invoiceRepo  *repository.InvoiceRepository
	dispatcher   notification.Dispatcher
	validate     *validator.Validate
}

// NewTemplateService creates a new template service
func NewTemplateService(
	templateRepo *repository.TemplateRepository,
	customerRepo *repository.CustomerRepository,
	invoiceRepo *repository.InvoiceRepository,
	dispatcher notification.Dispatcher,
) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		dispatcher:   dispatcher,
		validate:     validator.New(),
	}
}

// CreateTemplate validates and inserts a template.
func (s *TemplateService) CreateTemplate(ctx context.Context, tenantID string, req *models.CreateTemplateRequest) (*models.CommunicationTemplate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	tpl := &models.CommunicationTemplate{
		TenantID: tenantID,
		Name:     req.Name,
		Channel:  req.Channel,
		Subject:  nullString(req.Subject),
		Body:     req.Body,
		IsActive: true,
	}
	if err := s.templateRepo.CreateTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// GetTemplate fetches one template.
func (s *TemplateService) GetTemplate(ctx context.Context, tenantID string, templateID int64) (*models.CommunicationTemplate, error) {
	return s.templateRepo.GetTemplateByID(ctx, tenantID, templateID)
}

// ListTemplates lists the tenant's templates, optionally by channel.
func (s *TemplateService) ListTemplates(ctx context.Context, tenantID string, channel models.FollowUpChannel) ([]models.CommunicationTemplate, error) {
	return s.templateRepo.ListTemplates(ctx, tenantID, channel)
}

// UpdateTemplate validates and updates a template.
func (s *TemplateService) UpdateTemplate(ctx context.Context, tenantID string, templateID int64, req *models.UpdateTemplateRequest) (*models.CommunicationTemplate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	tpl, err := s.templateRepo.GetTemplateByID(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	tpl.Name = req.Name
	tpl.Subject = nullString(req.Subject)
	tpl.Body = req.Body
	tpl.IsActive = req.IsActive

	if err := s.templateRepo.UpdateTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// DeleteTemplate removes a template.
func (s *TemplateService) DeleteTemplate(ctx context.Context, tenantID string, templateID int64) error {
	return s.templateRepo.DeleteTemplate(ctx, tenantID, templateID)
}

// SendTemplate renders a template for a customer (and optionally an
// invoice) and hands the message to the channel collaborator.
func (s *TemplateService) SendTemplate(ctx context.Context, tenantID string, templateID int64, req *models.SendTemplateRequest) (*models.OutboundMessage, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	tpl, err := s.templateRepo.GetTemplateByID(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, fmt.Errorf("%w: template %q is inactive", ErrValidation, tpl.Name)
	}

	customer, err := s.customerRepo.GetCustomerByID(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	vars := map[string]string{
		"customer_name": customer.Name,
	}
	var invoice *models.Invoice
	if req.InvoiceID > 0 {
		invoice, err = s.invoiceRepo.GetInvoiceByID(ctx, tenantID, req.InvoiceID)
		if err != nil {
			return nil, err
		}
		vars["invoice_number"] = invoice.InvoiceNumber
		vars["invoice_total"] = invoice.Total.StringFixed(2)
		vars["amount_due"] = invoice.Total.Sub(invoice.PaidAmount).StringFixed(2)
		vars["due_date"] = invoice.DueDate.Format("2006-01-02")
		vars["days_overdue"] = fmt.Sprintf("%d", invoice.DaysOverdue(time.Now().UTC()))
	}

	recipient := ""
	switch tpl.Channel {
	case models.ChannelEmail:
		if customer.Email.Valid {
			recipient = customer.Email.String
		}
	case models.ChannelWhatsApp, models.ChannelCall:
		if customer.Phone.Valid {
			recipient = customer.Phone.String
		}
	}
	if recipient == "" {
		return nil, fmt.Errorf("%w: customer %d has no %s contact", ErrValidation, customer.CustomerID, tpl.Channel)
	}

	msg := &models.OutboundMessage{
		TenantID:   tenantID,
		Channel:    tpl.Channel,
		Recipient:  recipient,
		Subject:    RenderPlaceholders(stringOrEmpty(tpl.Subject.String, tpl.Subject.Valid), vars),
		Body:       RenderPlaceholders(tpl.Body, vars),
		CustomerID: customer.CustomerID,
		InvoiceID:  req.InvoiceID,
	}

	if err := s.dispatcher.Dispatch(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to dispatch message: %w", err)
	}

	logger.Log.WithField("tenant_id", tenantID).
		Infof("template %q dispatched via %s to customer %d", tpl.Name, tpl.Channel, customer.CustomerID)
	return msg, nil
}

// RenderPlaceholders substitutes {{name}} markers with values. Unknown
// placeholders are left in place so a bad template is visible in the
// output rather than silently blanked.
func RenderPlaceholders(text string, vars map[string]string) string {
	for name, value := range vars {
		text = strings.ReplaceAll(text, "{{"+name+"}}", value)
	}
	return text
}

func stringOrEmpty(s string, valid bool) string {
	if valid {
		return s
	}
	return ""
}
