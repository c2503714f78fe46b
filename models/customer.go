package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a billable customer. Category holds the current
// collection tier; when auto-upgrade is disabled it is only ever set
// manually and the computed tier stays advisory.
type Customer struct {
	CustomerID     int64           `db:"customer_id" json:"customer_id"`
	TenantID       string          `db:"tenant_id" json:"tenant_id"`
	Name           string          `db:"name" json:"name"`
	Email          sql.NullString  `db:"email" json:"email"`
	Phone          sql.NullString  `db:"phone" json:"phone"`
	CreditLimit    decimal.Decimal `db:"credit_limit" json:"credit_limit"`
	Category       Tier            `db:"category" json:"category"`
	CategoryManual bool            `db:"category_manual" json:"category_manual"`
	LastFollowUpAt sql.NullTime    `db:"last_follow_up_at" json:"last_follow_up_at"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      sql.NullTime    `db:"updated_at" json:"updated_at"`
}

// CreateCustomerRequest is the POST /customers payload.
type CreateCustomerRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Email       string          `json:"email" validate:"omitempty,email"`
	Phone       string          `json:"phone" validate:"omitempty,max=20"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// UpdateCustomerCategoryRequest sets the category manually. Only honored
// when auto-upgrade is disabled for the tenant.
type UpdateCustomerCategoryRequest struct {
	Category Tier `json:"category" validate:"required"`
}
