package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// DebtorRow is one line of the collections view: an unpaid invoice joined
// with its customer and the evaluator outputs for the current rules.
type DebtorRow struct {
	InvoiceID      int64           `json:"invoice_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	CustomerID     int64           `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	Total          decimal.Decimal `json:"total"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	PaymentPercent float64         `json:"payment_percent"`
	DueDate        time.Time       `json:"due_date"`
	DaysOverdue    int             `json:"days_overdue"`
	Excluded       bool            `json:"excluded"`
	Category       Tier            `json:"category,omitempty"`
	Standing       PaymentStanding `json:"standing"`
	LastFollowUpAt *time.Time      `json:"last_follow_up_at,omitempty"`
	FollowUpDue    bool            `json:"follow_up_due"`
}

// DebtorInvoice is the repository projection the debtor view is built from.
type DebtorInvoice struct {
	Invoice
	CustomerName     string       `db:"customer_name"`
	CustomerCategory Tier         `db:"customer_category"`
	LastFollowUpAt   sql.NullTime `db:"last_follow_up_at"`
}

// FollowUpChannel is the outreach channel of a logged follow-up.
type FollowUpChannel string

const (
	ChannelEmail    FollowUpChannel = "email"
	ChannelWhatsApp FollowUpChannel = "whatsapp"
	ChannelCall     FollowUpChannel = "call"
)

// FollowUpLog records a single outreach touch against a customer. Logging
// one stamps the customer's last_follow_up_at, which resets the cadence.
type FollowUpLog struct {
	FollowUpID int64           `db:"follow_up_id" json:"follow_up_id"`
	TenantID   string          `db:"tenant_id" json:"tenant_id"`
	CustomerID int64           `db:"customer_id" json:"customer_id"`
	InvoiceID  sql.NullInt64   `db:"invoice_id" json:"invoice_id"`
	Channel    FollowUpChannel `db:"channel" json:"channel"`
	Notes      sql.NullString  `db:"notes" json:"notes"`
	LoggedBy   sql.NullInt64   `db:"logged_by" json:"logged_by"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// CreateFollowUpRequest logs an outreach touch.
type CreateFollowUpRequest struct {
	InvoiceID int64           `json:"invoice_id" validate:"omitempty,gt=0"`
	Channel   FollowUpChannel `json:"channel" validate:"required,oneof=email whatsapp call"`
	Notes     string          `json:"notes"`
}

// RecomputeResult summarizes one batch category recompute run.
type RecomputeResult struct {
	TenantID    string    `json:"tenant_id"`
	Evaluated   int       `json:"evaluated"`
	Excluded    int       `json:"excluded"`
	Upgraded    int       `json:"upgraded"`
	Unchanged   int       `json:"unchanged"`
	Advisory    bool      `json:"advisory"`
	ProcessedAt time.Time `json:"processed_at"`
}
