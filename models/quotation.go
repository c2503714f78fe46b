package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus represents the quotation lifecycle.
type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "draft"
	QuotationSent     QuotationStatus = "sent"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationDeclined QuotationStatus = "declined"
)

// ValidQuotationTransition reports whether a status change is allowed.
// Accepted and declined are terminal; acceptance triggers invoice creation.
func ValidQuotationTransition(from, to QuotationStatus) bool {
	switch from {
	case QuotationDraft:
		return to == QuotationSent
	case QuotationSent:
		return to == QuotationAccepted || to == QuotationDeclined
	}
	return false
}

// Quotation represents a priced offer to a customer.
type Quotation struct {
	QuotationID     int64           `db:"quotation_id" json:"quotation_id"`
	TenantID        string          `db:"tenant_id" json:"tenant_id"`
	QuotationNumber string          `db:"quotation_number" json:"quotation_number"`
	CustomerID      int64           `db:"customer_id" json:"customer_id"`
	Status          QuotationStatus `db:"status" json:"status"`
	Total           decimal.Decimal `db:"total" json:"total"`
	InvoiceID       sql.NullInt64   `db:"invoice_id" json:"invoice_id"`
	ValidUntil      sql.NullTime    `db:"valid_until" json:"valid_until"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       sql.NullTime    `db:"updated_at" json:"updated_at"`

	Items []QuotationItem `json:"items"`
}

// QuotationItem is a single quotation line.
type QuotationItem struct {
	ItemID      int64           `db:"item_id" json:"item_id"`
	QuotationID int64           `db:"quotation_id" json:"quotation_id"`
	Description string          `db:"description" json:"description"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
}

// CreateQuotationRequest is the POST /quotations payload.
type CreateQuotationRequest struct {
	CustomerID int64                        `json:"customer_id" validate:"required,gt=0"`
	ValidUntil *time.Time                   `json:"valid_until"`
	Items      []CreateQuotationItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateQuotationItemRequest is one line of a new quotation.
type CreateQuotationItemRequest struct {
	Description string          `json:"description" validate:"required,max=255"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
}

// UpdateQuotationStatusRequest moves a quotation along its lifecycle.
type UpdateQuotationStatusRequest struct {
	Status QuotationStatus `json:"status" validate:"required"`
	// DueDate for the invoice created when status becomes accepted.
	DueDate *time.Time `json:"due_date"`
}
