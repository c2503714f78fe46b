package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger/models"
)

func debtorInvoice(id, customerID int64, dueDaysAgo int, total, paid int64) models.DebtorInvoice {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	return models.DebtorInvoice{
		Invoice: models.Invoice{
			InvoiceID:     id,
			TenantID:      "t1",
			InvoiceNumber: "INV-TEST",
			CustomerID:    customerID,
			Status:        models.InvoiceOpen,
			Total:         decimal.NewFromInt(total),
			PaidAmount:    decimal.NewFromInt(paid),
			IssueDate:     now.AddDate(0, 0, -dueDaysAgo-30),
			DueDate:       now.AddDate(0, 0, -dueDaysAgo),
		},
		CustomerName:     "Acme Traders",
		CustomerCategory: models.TierAlpha,
	}
}

func TestBuildDebtorRows(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	catRules := models.DefaultCategoryRules("t1")  // buckets 5/20/40, threshold 90%, grace 7
	fuRules := models.DefaultFollowupRules("t1")   // cadence 7/5/3/1

	invoices := []models.DebtorInvoice{
		debtorInvoice(1, 10, 3, 1000, 0),    // 3 days overdue: alpha, in grace
		debtorInvoice(2, 10, 30, 1000, 0),   // 30 days overdue: gamma
		debtorInvoice(3, 20, 70, 1000, 950), // 95% paid: excluded regardless of age
	}

	rows, err := BuildDebtorRows(invoices, catRules, fuRules, now)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.TierAlpha, rows[0].Category)
	assert.Equal(t, 3, rows[0].DaysOverdue)
	assert.Equal(t, models.StandingUnpaidWithinGrace, rows[0].Standing)
	assert.False(t, rows[0].Excluded)
	// No follow-up ever logged, so one is due immediately.
	assert.True(t, rows[0].FollowUpDue)

	assert.Equal(t, models.TierGamma, rows[1].Category)
	assert.Equal(t, models.StandingOverdue, rows[1].Standing)

	assert.True(t, rows[2].Excluded)
	assert.Empty(t, rows[2].Category)
	assert.False(t, rows[2].FollowUpDue)
}

func TestBuildDebtorRowsFollowUpCadence(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	catRules := models.DefaultCategoryRules("t1")
	fuRules := models.DefaultFollowupRules("t1")

	recent := debtorInvoice(1, 10, 3, 1000, 0) // alpha, cadence 7 days
	recent.LastFollowUpAt = sql.NullTime{Time: now.AddDate(0, 0, -2), Valid: true}

	stale := debtorInvoice(2, 20, 3, 1000, 0)
	stale.LastFollowUpAt = sql.NullTime{Time: now.AddDate(0, 0, -10), Valid: true}

	rows, err := BuildDebtorRows([]models.DebtorInvoice{recent, stale}, catRules, fuRules, now)
	require.NoError(t, err)

	assert.False(t, rows[0].FollowUpDue, "followed up 2 days ago, cadence is 7")
	assert.True(t, rows[1].FollowUpDue, "followed up 10 days ago, cadence is 7")
	require.NotNil(t, rows[0].LastFollowUpAt)
}

func TestComputeCustomerTiersKeepsMostSevere(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	rules := models.DefaultCategoryRules("t1")

	invoices := []models.DebtorInvoice{
		debtorInvoice(1, 10, 3, 1000, 0),   // alpha
		debtorInvoice(2, 10, 30, 1000, 0),  // gamma
		debtorInvoice(3, 20, 200, 1000, 0), // delta
	}

	targets, excluded, err := ComputeCustomerTiers(invoices, rules, now)
	require.NoError(t, err)
	assert.Zero(t, excluded)
	assert.Equal(t, models.TierGamma, targets[10], "worst invoice wins per customer")
	assert.Equal(t, models.TierDelta, targets[20])
}

func TestComputeCustomerTiersExclusion(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	rules := models.DefaultCategoryRules("t1")

	invoices := []models.DebtorInvoice{
		debtorInvoice(1, 10, 200, 1000, 950), // 95% paid: excluded
		debtorInvoice(2, 10, 3, 1000, 0),     // alpha
	}

	targets, excluded, err := ComputeCustomerTiers(invoices, rules, now)
	require.NoError(t, err)
	assert.Equal(t, 1, excluded)
	assert.Equal(t, models.TierAlpha, targets[10],
		"near-settled delta invoice must not drag the customer to delta")
}

func TestComputeCustomerTiersAllExcluded(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	rules := models.DefaultCategoryRules("t1")

	invoices := []models.DebtorInvoice{
		debtorInvoice(1, 10, 200, 1000, 1000),
	}

	targets, excluded, err := ComputeCustomerTiers(invoices, rules, now)
	require.NoError(t, err)
	assert.Equal(t, 1, excluded)
	assert.Empty(t, targets)
}
