package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is derived from payment state, not stored workflow.
type InvoiceStatus string

const (
	InvoiceOpen    InvoiceStatus = "open"
	InvoicePartial InvoiceStatus = "partial"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceVoid    InvoiceStatus = "void"
)

// Invoice represents a receivable. PaidAmount is maintained by receipt
// recording; PaidAt is set when the invoice becomes fully paid.
type Invoice struct {
	InvoiceID     int64           `db:"invoice_id" json:"invoice_id"`
	TenantID      string          `db:"tenant_id" json:"tenant_id"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	CustomerID    int64           `db:"customer_id" json:"customer_id"`
	Status        InvoiceStatus   `db:"status" json:"status"`
	Total         decimal.Decimal `db:"total" json:"total"`
	PaidAmount    decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	IssueDate     time.Time       `db:"issue_date" json:"issue_date"`
	DueDate       time.Time       `db:"due_date" json:"due_date"`
	PaidAt        sql.NullTime    `db:"paid_at" json:"paid_at"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     sql.NullTime    `db:"updated_at" json:"updated_at"`
}

// PaymentPercent returns paid/total as a 0-100 percentage. A zero-total
// invoice counts as fully paid.
func (i *Invoice) PaymentPercent() float64 {
	if i.Total.IsZero() {
		return 100
	}
	pct, _ := i.PaidAmount.Div(i.Total).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// DaysOverdue returns whole days elapsed past the due date at now, floored
// at zero for invoices not yet due.
func (i *Invoice) DaysOverdue(now time.Time) int {
	if !now.After(i.DueDate) {
		return 0
	}
	return int(now.Sub(i.DueDate).Hours() / 24)
}

// Receipt records a payment applied to an invoice.
type Receipt struct {
	ReceiptID     int64           `db:"receipt_id" json:"receipt_id"`
	TenantID      string          `db:"tenant_id" json:"tenant_id"`
	ReceiptNumber string          `db:"receipt_number" json:"receipt_number"`
	InvoiceID     int64           `db:"invoice_id" json:"invoice_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Method        sql.NullString  `db:"method" json:"method"`
	ReceivedAt    time.Time       `db:"received_at" json:"received_at"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// CreateInvoiceRequest is the POST /invoices payload.
type CreateInvoiceRequest struct {
	CustomerID int64           `json:"customer_id" validate:"required,gt=0"`
	Total      decimal.Decimal `json:"total" validate:"required"`
	IssueDate  time.Time       `json:"issue_date" validate:"required"`
	DueDate    time.Time       `json:"due_date" validate:"required"`
}

// CreateReceiptRequest is the POST /invoices/{id}/receipts payload.
type CreateReceiptRequest struct {
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	Method     string          `json:"method" validate:"omitempty,max=30"`
	ReceivedAt *time.Time      `json:"received_at"`
}
