package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPaymentPercent(t *testing.T) {
	inv := Invoice{Total: decimal.NewFromInt(1000), PaidAmount: decimal.NewFromInt(450)}
	assert.InDelta(t, 45.0, inv.PaymentPercent(), 0.001)

	inv.PaidAmount = decimal.Zero
	assert.Zero(t, inv.PaymentPercent())

	inv.PaidAmount = decimal.NewFromInt(1000)
	assert.InDelta(t, 100.0, inv.PaymentPercent(), 0.001)

	// Zero-total invoices have nothing to collect.
	empty := Invoice{Total: decimal.Zero}
	assert.Equal(t, 100.0, empty.PaymentPercent())
}

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := Invoice{DueDate: due}

	assert.Equal(t, 0, inv.DaysOverdue(due), "not overdue at the due instant")
	assert.Equal(t, 0, inv.DaysOverdue(due.AddDate(0, 0, -5)), "not overdue before due")
	assert.Equal(t, 0, inv.DaysOverdue(due.Add(23*time.Hour)), "partial days floor to zero")
	assert.Equal(t, 1, inv.DaysOverdue(due.Add(25*time.Hour)))
	assert.Equal(t, 10, inv.DaysOverdue(due.AddDate(0, 0, 10)))
}
