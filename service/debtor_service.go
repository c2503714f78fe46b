package service

import (
	"context"
	"fmt"
	"time"

	"bizledger/category"
	"bizledger/logger"
	"bizledger/models"
	"bizledger/repository"

	"github.com/go-playground/validator/v10"
)

// DebtorService builds the collections view and runs the category
// recompute. Tier resolution itself lives in the category package; this
// service feeds it invoice data and applies the results.
type DebtorService struct {
	invoiceRepo  *repository.InvoiceRepository
	customerRepo *repository.CustomerRepository
	rulesRepo    *repository.RulesRepository
	followUpRepo *repository.FollowUpRepository
	validate     *validator.Validate
}

// NewDebtorService creates a new debtor service
func NewDebtorService(
	invoiceRepo *repository.InvoiceRepository,
	customerRepo *repository.CustomerRepository,
	rulesRepo *repository.RulesRepository,
	followUpRepo *repository.FollowUpRepository,
) *DebtorService {
	return &DebtorService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		rulesRepo:    rulesRepo,
		followUpRepo: followUpRepo,
		validate:     validator.New(),
	}
}

// ListDebtors returns the tenant's collections view at now.
func (s *DebtorService) ListDebtors(ctx context.Context, tenantID string, now time.Time) ([]models.DebtorRow, error) {
	catRules, err := s.rulesRepo.GetCategoryRules(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	fuRules, err := s.rulesRepo.GetFollowupRules(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.ListDebtorInvoices(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return BuildDebtorRows(invoices, catRules, fuRules, now)
}

// BuildDebtorRows assembles collections rows from unsettled invoices and
// the current rules. Pure over its inputs so the view and its tests never
// need a database.
func BuildDebtorRows(
	invoices []models.DebtorInvoice,
	catRules *models.CategoryRules,
	fuRules *models.FollowupRules,
	now time.Time,
) ([]models.DebtorRow, error) {
	rows := make([]models.DebtorRow, 0, len(invoices))
	for _, inv := range invoices {
		row := models.DebtorRow{
			InvoiceID:      inv.InvoiceID,
			InvoiceNumber:  inv.InvoiceNumber,
			CustomerID:     inv.CustomerID,
			CustomerName:   inv.CustomerName,
			Total:          inv.Total,
			PaidAmount:     inv.PaidAmount,
			PaymentPercent: inv.PaymentPercent(),
			DueDate:        inv.DueDate,
			DaysOverdue:    inv.DaysOverdue(now),
		}

		res, err := category.Resolve(row.DaysOverdue, row.PaymentPercent, catRules)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category for invoice %d: %w", inv.InvoiceID, err)
		}
		row.Excluded = res.Excluded
		if !res.Excluded {
			row.Category = res.Tier
		}

		standing, err := category.ClassifyPayment(inv.DueDate, nil, catRules, now)
		if err != nil {
			return nil, fmt.Errorf("failed to classify invoice %d: %w", inv.InvoiceID, err)
		}
		row.Standing = standing

		var last *time.Time
		if inv.LastFollowUpAt.Valid {
			t := inv.LastFollowUpAt.Time
			last = &t
			row.LastFollowUpAt = &t
		}
		if !res.Excluded {
			due, err := category.IsFollowUpDue(last, res.Tier, fuRules, now)
			if err != nil {
				return nil, fmt.Errorf("failed to check follow-up for invoice %d: %w", inv.InvoiceID, err)
			}
			row.FollowUpDue = due
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// Recompute re-evaluates every open invoice's tier and, when auto-upgrade
// is on, persists the highest tier per customer. With auto-upgrade off the
// run is advisory: results are counted but nothing is written. Re-running
// with unchanged inputs writes the same tiers again, which is safe.
func (s *DebtorService) Recompute(ctx context.Context, tenantID string, now time.Time) (*models.RecomputeResult, error) {
	catRules, err := s.rulesRepo.GetCategoryRules(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	settings, err := s.rulesRepo.GetRecoverySettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.ListDebtorInvoices(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	targets, excluded, err := ComputeCustomerTiers(invoices, catRules, now)
	if err != nil {
		return nil, err
	}

	result := &models.RecomputeResult{
		TenantID:    tenantID,
		Evaluated:   len(invoices),
		Excluded:    excluded,
		Advisory:    !settings.AutoUpgradeEnabled,
		ProcessedAt: now,
	}

	for customerID, tier := range targets {
		current := currentTierOf(invoices, customerID)
		if tier == current {
			result.Unchanged++
			continue
		}
		if settings.AutoUpgradeEnabled {
			// Each write is an independent idempotent update; a failed one is
			// skipped and picked up by the next run.
			if err := s.customerRepo.UpdateCategory(ctx, tenantID, customerID, tier, false); err != nil {
				logger.Log.WithError(err).
					Warnf("recompute: could not persist tier %s for customer %d", tier, customerID)
				continue
			}
		}
		result.Upgraded++
	}

	logger.Log.WithField("tenant_id", tenantID).
		Infof("recompute finished: evaluated=%d excluded=%d changed=%d unchanged=%d advisory=%t",
			result.Evaluated, result.Excluded, result.Upgraded, result.Unchanged, result.Advisory)
	return result, nil
}

// ComputeCustomerTiers resolves a tier per invoice and keeps the most
// severe one per customer. Excluded invoices (paid past the partial-payment
// threshold) do not contribute. Pure over its inputs.
func ComputeCustomerTiers(
	invoices []models.DebtorInvoice,
	rules *models.CategoryRules,
	now time.Time,
) (map[int64]models.Tier, int, error) {
	targets := map[int64]models.Tier{}
	excluded := 0
	for _, inv := range invoices {
		res, err := category.Resolve(inv.DaysOverdue(now), inv.PaymentPercent(), rules)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to resolve category for invoice %d: %w", inv.InvoiceID, err)
		}
		if res.Excluded {
			excluded++
			continue
		}
		if existing, ok := targets[inv.CustomerID]; !ok || res.Tier.Rank() > existing.Rank() {
			targets[inv.CustomerID] = res.Tier
		}
	}
	return targets, excluded, nil
}

func currentTierOf(invoices []models.DebtorInvoice, customerID int64) models.Tier {
	for _, inv := range invoices {
		if inv.CustomerID == customerID {
			return inv.CustomerCategory
		}
	}
	return ""
}

// LogFollowUp records an outreach touch and stamps the customer's
// last-follow-up time, resetting the cadence clock.
func (s *DebtorService) LogFollowUp(ctx context.Context, tenantID string, customerID int64, userID int64, req *models.CreateFollowUpRequest) (*models.FollowUpLog, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.customerRepo.GetCustomerByID(ctx, tenantID, customerID); err != nil {
		return nil, err
	}

	entry := &models.FollowUpLog{
		TenantID:   tenantID,
		CustomerID: customerID,
		Channel:    req.Channel,
		Notes:      nullString(req.Notes),
	}
	if req.InvoiceID > 0 {
		entry.InvoiceID.Int64 = req.InvoiceID
		entry.InvoiceID.Valid = true
	}
	if userID > 0 {
		entry.LoggedBy.Int64 = userID
		entry.LoggedBy.Valid = true
	}

	if err := s.followUpRepo.CreateFollowUp(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.customerRepo.StampFollowUp(ctx, tenantID, customerID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListFollowUps returns a customer's outreach history.
func (s *DebtorService) ListFollowUps(ctx context.Context, tenantID string, customerID int64) ([]models.FollowUpLog, error) {
	return s.followUpRepo.ListFollowUps(ctx, tenantID, customerID)
}

// ScanFollowUpsDue returns the debtors whose follow-up cadence has elapsed.
// The periodic scan job logs these; the dashboard can also poll them.
func (s *DebtorService) ScanFollowUpsDue(ctx context.Context, tenantID string, now time.Time) ([]models.DebtorRow, error) {
	rows, err := s.ListDebtors(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}
	var due []models.DebtorRow
	for _, row := range rows {
		if row.FollowUpDue {
			due = append(due, row)
		}
	}
	return due, nil
}
