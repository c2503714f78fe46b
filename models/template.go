package models

import (
	"database/sql"
	"time"
)

// CommunicationTemplate is a reusable outreach message with {{placeholder}}
// markers. Rendering fills placeholders from debtor/invoice fields; actual
// delivery is handed to an external channel collaborator over HTTP.
type CommunicationTemplate struct {
	TemplateID int64           `db:"template_id" json:"template_id"`
	TenantID   string          `db:"tenant_id" json:"tenant_id"`
	Name       string          `db:"name" json:"name"`
	Channel    FollowUpChannel `db:"channel" json:"channel"`
	Subject    sql.NullString  `db:"subject" json:"subject"`
	Body       string          `db:"body" json:"body"`
	IsActive   bool            `db:"is_active" json:"is_active"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  sql.NullTime    `db:"updated_at" json:"updated_at"`
}

// CreateTemplateRequest is the POST /templates payload.
type CreateTemplateRequest struct {
	Name    string          `json:"name" validate:"required,max=100"`
	Channel FollowUpChannel `json:"channel" validate:"required,oneof=email whatsapp call"`
	Subject string          `json:"subject" validate:"omitempty,max=200"`
	Body    string          `json:"body" validate:"required"`
}

// UpdateTemplateRequest is the PUT /templates/{id} payload.
type UpdateTemplateRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Subject  string `json:"subject" validate:"omitempty,max=200"`
	Body     string `json:"body" validate:"required"`
	IsActive bool   `json:"is_active"`
}

// SendTemplateRequest renders a template for a customer/invoice and hands
// the message to the channel collaborator.
type SendTemplateRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
	InvoiceID  int64 `json:"invoice_id" validate:"omitempty,gt=0"`
}

// OutboundMessage is the rendered payload posted to the channel endpoint.
type OutboundMessage struct {
	TenantID   string          `json:"tenant_id"`
	Channel    FollowUpChannel `json:"channel"`
	Recipient  string          `json:"recipient"`
	Subject    string          `json:"subject,omitempty"`
	Body       string          `json:"body"`
	CustomerID int64           `json:"customer_id"`
	InvoiceID  int64           `json:"invoice_id,omitempty"`
}
