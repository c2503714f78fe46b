package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bizledger/models"
)

// CustomerRepository handles database operations for customers
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `
	customer_id, tenant_id, name, email, phone, credit_limit,
	category, category_manual, last_follow_up_at, is_active, created_at, updated_at
`

func scanCustomer(row interface{ Scan(...interface{}) error }) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(
		&c.CustomerID,
		&c.TenantID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.CreditLimit,
		&c.Category,
		&c.CategoryManual,
		&c.LastFollowUpAt,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCustomer inserts a customer. New customers start in the alpha tier.
func (r *CustomerRepository) CreateCustomer(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (tenant_id, name, email, phone, credit_limit, category, category_manual, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, true)
	`
	result, err := r.db.ExecContext(ctx, query,
		c.TenantID, c.Name, c.Email, c.Phone, c.CreditLimit, c.Category, c.CategoryManual)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get customer ID: %w", err)
	}
	c.CustomerID = id
	return nil
}

// GetCustomerByID fetches one customer scoped to the tenant.
func (r *CustomerRepository) GetCustomerByID(ctx context.Context, tenantID string, customerID int64) (*models.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE tenant_id = ? AND customer_id = ?`, customerColumns)
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, tenantID, customerID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	return c, nil
}

// ListCustomers returns the tenant's active customers.
func (r *CustomerRepository) ListCustomers(ctx context.Context, tenantID string) ([]models.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM customers
		WHERE tenant_id = ? AND is_active = true
		ORDER BY name ASC
	`, customerColumns)

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	return customers, nil
}

// UpdateCategory persists a computed or manual tier. Writing the same tier
// again is a no-op row update, so recompute retries are always safe.
func (r *CustomerRepository) UpdateCategory(ctx context.Context, tenantID string, customerID int64, tier models.Tier, manual bool) error {
	query := `
		UPDATE customers
		SET category = ?, category_manual = ?, updated_at = UTC_TIMESTAMP()
		WHERE tenant_id = ? AND customer_id = ?
	`
	result, err := r.db.ExecContext(ctx, query, tier, manual, tenantID, customerID)
	if err != nil {
		return fmt.Errorf("failed to update customer category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		// MySQL reports 0 when the row exists with identical values, so only
		// treat this as missing when the customer truly is not there.
		if _, getErr := r.GetCustomerByID(ctx, tenantID, customerID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// StampFollowUp records when the customer was last followed up on.
func (r *CustomerRepository) StampFollowUp(ctx context.Context, tenantID string, customerID int64, at time.Time) error {
	query := `
		UPDATE customers
		SET last_follow_up_at = ?, updated_at = UTC_TIMESTAMP()
		WHERE tenant_id = ? AND customer_id = ?
	`
	if _, err := r.db.ExecContext(ctx, query, at, tenantID, customerID); err != nil {
		return fmt.Errorf("failed to stamp follow-up: %w", err)
	}
	return nil
}
