package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bizledger/models"

	"github.com/shopspring/decimal"
)

// InvoiceRepository handles database operations for invoices and receipts
type InvoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `
	invoice_id, tenant_id, invoice_number, customer_id, status, total,
	paid_amount, issue_date, due_date, paid_at, created_at, updated_at
`

func scanInvoice(row interface{ Scan(...interface{}) error }) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.TenantID,
		&inv.InvoiceNumber,
		&inv.CustomerID,
		&inv.Status,
		&inv.Total,
		&inv.PaidAmount,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.PaidAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvoice inserts a new open invoice.
func (r *InvoiceRepository) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	query := `
		INSERT INTO invoices (tenant_id, invoice_number, customer_id, status, total, paid_amount, issue_date, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		inv.TenantID, inv.InvoiceNumber, inv.CustomerID, inv.Status,
		inv.Total, inv.PaidAmount, inv.IssueDate, inv.DueDate)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get invoice ID: %w", err)
	}
	inv.InvoiceID = id
	return nil
}

// GetInvoiceByID fetches one invoice scoped to the tenant.
func (r *InvoiceRepository) GetInvoiceByID(ctx context.Context, tenantID string, invoiceID int64) (*models.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE tenant_id = ? AND invoice_id = ?`, invoiceColumns)
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, tenantID, invoiceID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice: %w", err)
	}
	return inv, nil
}

// ListInvoices returns the tenant's invoices, newest first.
func (r *InvoiceRepository) ListInvoices(ctx context.Context, tenantID string) ([]models.Invoice, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM invoices
		WHERE tenant_id = ?
		ORDER BY created_at DESC
	`, invoiceColumns)

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}
	return invoices, nil
}

// ListDebtorInvoices returns the tenant's unsettled invoices joined with
// customer fields, the projection the collections view and the batch
// recompute are built from.
func (r *InvoiceRepository) ListDebtorInvoices(ctx context.Context, tenantID string) ([]models.DebtorInvoice, error) {
	query := `
		SELECT i.invoice_id, i.tenant_id, i.invoice_number, i.customer_id, i.status,
			i.total, i.paid_amount, i.issue_date, i.due_date, i.paid_at,
			i.created_at, i.updated_at,
			c.name, c.category, c.last_follow_up_at
		FROM invoices i
		JOIN customers c ON c.customer_id = i.customer_id AND c.tenant_id = i.tenant_id
		WHERE i.tenant_id = ?
			AND i.status IN ('open', 'partial')
		ORDER BY i.due_date ASC
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query debtor invoices: %w", err)
	}
	defer rows.Close()

	var debtors []models.DebtorInvoice
	for rows.Next() {
		var d models.DebtorInvoice
		err := rows.Scan(
			&d.InvoiceID,
			&d.TenantID,
			&d.InvoiceNumber,
			&d.CustomerID,
			&d.Status,
			&d.Total,
			&d.PaidAmount,
			&d.IssueDate,
			&d.DueDate,
			&d.PaidAt,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.CustomerName,
			&d.CustomerCategory,
			&d.LastFollowUpAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debtor invoice: %w", err)
		}
		debtors = append(debtors, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debtor invoices: %w", err)
	}
	return debtors, nil
}

// ApplyReceipt records a payment and updates the invoice's paid amount and
// status in one transaction. Overpayment is rejected.
func (r *InvoiceRepository) ApplyReceipt(ctx context.Context, rec *models.Receipt) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var total, paid decimal.Decimal
	var status models.InvoiceStatus
	err = tx.QueryRowContext(ctx, `
		SELECT total, paid_amount, status FROM invoices
		WHERE tenant_id = ? AND invoice_id = ?
		FOR UPDATE
	`, rec.TenantID, rec.InvoiceID).Scan(&total, &paid, &status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock invoice: %w", err)
	}
	if status == models.InvoiceVoid {
		return fmt.Errorf("cannot apply receipt to a void invoice")
	}

	newPaid := paid.Add(rec.Amount)
	if newPaid.GreaterThan(total) {
		return fmt.Errorf("receipt amount exceeds invoice balance: %s remaining", total.Sub(paid))
	}

	newStatus := models.InvoicePartial
	var paidAt interface{}
	if newPaid.Equal(total) {
		newStatus = models.InvoicePaid
		paidAt = rec.ReceivedAt
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE invoices
		SET paid_amount = ?, status = ?, paid_at = COALESCE(?, paid_at), updated_at = UTC_TIMESTAMP()
		WHERE tenant_id = ? AND invoice_id = ?
	`, newPaid, newStatus, paidAt, rec.TenantID, rec.InvoiceID)
	if err != nil {
		return fmt.Errorf("failed to update invoice payment: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO receipts (tenant_id, receipt_number, invoice_id, amount, method, received_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.TenantID, rec.ReceiptNumber, rec.InvoiceID, rec.Amount, rec.Method, rec.ReceivedAt)
	if err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get receipt ID: %w", err)
	}
	rec.ReceiptID = id

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit receipt: %w", err)
	}
	return nil
}

// ListReceipts returns receipts for an invoice.
func (r *InvoiceRepository) ListReceipts(ctx context.Context, tenantID string, invoiceID int64) ([]models.Receipt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT receipt_id, tenant_id, receipt_number, invoice_id, amount, method, received_at, created_at
		FROM receipts
		WHERE tenant_id = ? AND invoice_id = ?
		ORDER BY received_at ASC
	`, tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		var rec models.Receipt
		if err := rows.Scan(&rec.ReceiptID, &rec.TenantID, &rec.ReceiptNumber,
			&rec.InvoiceID, &rec.Amount, &rec.Method, &rec.ReceivedAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}
	return receipts, nil
}

// Void marks an invoice void; void invoices drop out of the debtor view.
func (r *InvoiceRepository) Void(ctx context.Context, tenantID string, invoiceID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE invoices SET status = 'void', updated_at = UTC_TIMESTAMP()
		WHERE tenant_id = ? AND invoice_id = ? AND status <> 'paid'
	`, tenantID, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to void invoice: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("invoice not found or already paid")
	}
	return nil
}
