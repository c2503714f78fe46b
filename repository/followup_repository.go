package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bizledger/models"
)

// FollowUpRepository handles database operations for the outreach log
type FollowUpRepository struct {
	db *sql.DB
}

// NewFollowUpRepository creates a new follow-up repository
func NewFollowUpRepository(db *sql.DB) *FollowUpRepository {
	return &FollowUpRepository{db: db}
}

// CreateFollowUp records an outreach touch.
func (r *FollowUpRepository) CreateFollowUp(ctx context.Context, f *models.FollowUpLog) error {
	query := `
		INSERT INTO follow_up_log (tenant_id, customer_id, invoice_id, channel, notes, logged_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		f.TenantID, f.CustomerID, f.InvoiceID, f.Channel, f.Notes, f.LoggedBy)
	if err != nil {
		return fmt.Errorf("failed to create follow-up log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get follow-up ID: %w", err)
	}
	f.FollowUpID = id
	return nil
}

// ListFollowUps returns a customer's outreach history, newest first.
func (r *FollowUpRepository) ListFollowUps(ctx context.Context, tenantID string, customerID int64) ([]models.FollowUpLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT follow_up_id, tenant_id, customer_id, invoice_id, channel, notes, logged_by, created_at
		FROM follow_up_log
		WHERE tenant_id = ? AND customer_id = ?
		ORDER BY created_at DESC
	`, tenantID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query follow-up log: %w", err)
	}
	defer rows.Close()

	var logs []models.FollowUpLog
	for rows.Next() {
		var f models.FollowUpLog
		if err := rows.Scan(&f.FollowUpID, &f.TenantID, &f.CustomerID, &f.InvoiceID,
			&f.Channel, &f.Notes, &f.LoggedBy, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan follow-up log: %w", err)
		}
		logs = append(logs, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follow-up log: %w", err)
	}
	return logs, nil
}
