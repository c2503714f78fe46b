package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bizledger/models"
)

// LeadRepository handles database operations for leads
type LeadRepository struct {
	db *sql.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `
	lead_id, tenant_id, name, email, phone, source, notes, status,
	converted_customer_id, created_at, updated_at
`

func scanLead(row interface{ Scan(...interface{}) error }) (*models.Lead, error) {
	var l models.Lead
	err := row.Scan(
		&l.LeadID,
		&l.TenantID,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.Source,
		&l.Notes,
		&l.Status,
		&l.ConvertedCustomerID,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLead inserts a new lead in status "new".
func (r *LeadRepository) CreateLead(ctx context.Context, l *models.Lead) error {
	query := `
		INSERT INTO leads (tenant_id, name, email, phone, source, notes, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		l.TenantID, l.Name, l.Email, l.Phone, l.Source, l.Notes, l.Status)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get lead ID: %w", err)
	}
	l.LeadID = id
	return nil
}

// GetLeadByID fetches one lead scoped to the tenant.
func (r *LeadRepository) GetLeadByID(ctx context.Context, tenantID string, leadID int64) (*models.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE tenant_id = ? AND lead_id = ?`, leadColumns)
	l, err := scanLead(r.db.QueryRowContext(ctx, query, tenantID, leadID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query lead: %w", err)
	}
	return l, nil
}

// ListLeads returns the tenant's leads, optionally filtered by status.
func (r *LeadRepository) ListLeads(ctx context.Context, tenantID string, status models.LeadStatus) ([]models.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE tenant_id = ?`, leadColumns)
	args := []interface{}{tenantID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leads: %w", err)
	}
	return leads, nil
}

// UpdateLeadStatus moves a lead to a new status, optionally linking the
// customer created by conversion.
func (r *LeadRepository) UpdateLeadStatus(ctx context.Context, tenantID string, leadID int64, status models.LeadStatus, convertedCustomerID *int64) error {
	query := `
		UPDATE leads
		SET status = ?, converted_customer_id = COALESCE(?, converted_customer_id), updated_at = UTC_TIMESTAMP()
		WHERE tenant_id = ? AND lead_id = ?
	`
	var converted sql.NullInt64
	if convertedCustomerID != nil {
		converted = sql.NullInt64{Int64: *convertedCustomerID, Valid: true}
	}
	if _, err := r.db.ExecContext(ctx, query, status, converted, tenantID, leadID); err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	return nil
}
