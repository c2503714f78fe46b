package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bizledger/models"
)

// QuotationRepository handles database operations for quotations and their
// line items.
type QuotationRepository struct {
	db *sql.DB
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *sql.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// CreateQuotation inserts a quotation with its items in one transaction.
func (r *QuotationRepository) CreateQuotation(ctx context.Context, q *models.Quotation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO quotations (tenant_id, quotation_number, customer_id, status, total, valid_until)
		VALUES (?, ?, ?, ?, ?, ?)
	`, q.TenantID, q.QuotationNumber, q.CustomerID, q.Status, q.Total, q.ValidUntil)
	if err != nil {
		return fmt.Errorf("failed to create quotation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get quotation ID: %w", err)
	}
	q.QuotationID = id

	for i := range q.Items {
		item := &q.Items[i]
		res, err := tx.ExecContext(ctx, `
			INSERT INTO quotation_items (quotation_id, description, quantity, unit_price, amount)
			VALUES (?, ?, ?, ?, ?)
		`, id, item.Description, item.Quantity, item.UnitPrice, item.Amount)
		if err != nil {
			return fmt.Errorf("failed to create quotation item: %w", err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get quotation item ID: %w", err)
		}
		item.ItemID = itemID
		item.QuotationID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quotation: %w", err)
	}
	return nil
}

// GetQuotationByID fetches a quotation with its items.
func (r *QuotationRepository) GetQuotationByID(ctx context.Context, tenantID string, quotationID int64) (*models.Quotation, error) {
	var q models.Quotation
	err := r.db.QueryRowContext(ctx, `
		SELECT quotation_id, tenant_id, quotation_number, customer_id, status, total,
			invoice_id, valid_until, created_at, updated_at
		FROM quotations
		WHERE tenant_id = ? AND quotation_id = ?
	`, tenantID, quotationID).Scan(
		&q.QuotationID,
		&q.TenantID,
		&q.QuotationNumber,
		&q.CustomerID,
		&q.Status,
		&q.Total,
		&q.InvoiceID,
		&q.ValidUntil,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query quotation: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, quotation_id, description, quantity, unit_price, amount
		FROM quotation_items
		WHERE quotation_id = ?
		ORDER BY item_id ASC
	`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotation items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.QuotationItem
		if err := rows.Scan(&item.ItemID, &item.QuotationID, &item.Description,
			&item.Quantity, &item.UnitPrice, &item.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan quotation item: %w", err)
		}
		q.Items = append(q.Items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotation items: %w", err)
	}
	return &q, nil
}

// ListQuotations returns the tenant's quotations, newest first.
func (r *QuotationRepository) ListQuotations(ctx context.Context, tenantID string) ([]models.Quotation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT quotation_id, tenant_id, quotation_number, customer_id, status, total,
			invoice_id, valid_until, created_at, updated_at
		FROM quotations
		WHERE tenant_id = ?
		ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotations: %w", err)
	}
	defer rows.Close()

	var quotations []models.Quotation
	for rows.Next() {
		var q models.Quotation
		if err := rows.Scan(&q.QuotationID, &q.TenantID, &q.QuotationNumber, &q.CustomerID,
			&q.Status, &q.Total, &q.InvoiceID, &q.ValidUntil, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quotation: %w", err)
		}
		quotations = append(quotations, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotations: %w", err)
	}
	return quotations, nil
}

// UpdateQuotationStatus moves a quotation to a new status, optionally
// linking the invoice created on acceptance.
func (r *QuotationRepository) UpdateQuotationStatus(ctx context.Context, tenantID string, quotationID int64, status models.QuotationStatus, invoiceID *int64) error {
	var invoice sql.NullInt64
	if invoiceID != nil {
		invoice = sql.NullInt64{Int64: *invoiceID, Valid: true}
	}
	query := `
		UPDATE quotations
		SET status = ?, invoice_id = COALESCE(?, invoice_id), updated_at = UTC_TIMESTAMP()
		WHERE tenant_id = ? AND quotation_id = ?
	`
	if _, err := r.db.ExecContext(ctx, query, status, invoice, tenantID, quotationID); err != nil {
		return fmt.Errorf("failed to update quotation status: %w", err)
	}
	return nil
}
