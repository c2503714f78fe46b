package models

import (
	"database/sql"
	"time"
)

// LeadStatus represents the lead pipeline states.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// ValidLeadTransition reports whether a status change follows the pipeline.
// Converted and lost are terminal.
func ValidLeadTransition(from, to LeadStatus) bool {
	switch from {
	case LeadNew:
		return to == LeadContacted || to == LeadLost
	case LeadContacted:
		return to == LeadQualified || to == LeadLost
	case LeadQualified:
		return to == LeadConverted || to == LeadLost
	}
	return false
}

// Lead represents a sales lead. Converting a qualified lead creates a
// customer and stamps ConvertedCustomerID.
type Lead struct {
	LeadID              int64          `db:"lead_id" json:"lead_id"`
	TenantID            string         `db:"tenant_id" json:"tenant_id"`
	Name                string         `db:"name" json:"name"`
	Email               sql.NullString `db:"email" json:"email"`
	Phone               sql.NullString `db:"phone" json:"phone"`
	Source              sql.NullString `db:"source" json:"source"`
	Notes               sql.NullString `db:"notes" json:"notes"`
	Status              LeadStatus     `db:"status" json:"status"`
	ConvertedCustomerID sql.NullInt64  `db:"converted_customer_id" json:"converted_customer_id"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           sql.NullTime   `db:"updated_at" json:"updated_at"`
}

// CreateLeadRequest is the POST /leads payload.
type CreateLeadRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone" validate:"omitempty,max=20"`
	Source string `json:"source" validate:"omitempty,max=50"`
	Notes  string `json:"notes"`
}

// UpdateLeadStatusRequest moves a lead along the pipeline.
type UpdateLeadStatusRequest struct {
	Status LeadStatus `json:"status" validate:"required"`
}
