package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bizledger/models"
)

// TemplateRepository handles database operations for communication templates
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = `
	template_id, tenant_id, name, channel, subject, body, is_active, created_at, updated_at
`

func scanTemplate(row interface{ Scan(...interface{}) error }) (*models.CommunicationTemplate, error) {
	var t models.CommunicationTemplate
	err := row.Scan(
		&t.TemplateID,
		&t.TenantID,
		&t.Name,
		&t.Channel,
		&t.Subject,
		&t.Body,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTemplate inserts a new active template.
func (r *TemplateRepository) CreateTemplate(ctx context.Context, t *models.CommunicationTemplate) error {
	query := `
		INSERT INTO communication_templates (tenant_id, name, channel, subject, body, is_active)
		VALUES (?, ?, ?, ?, ?, true)
	`
	result, err := r.db.ExecContext(ctx, query, t.TenantID, t.Name, t.Channel, t.Subject, t.Body)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get template ID: %w", err)
	}
	t.TemplateID = id
	return nil
}

// GetTemplateByID fetches one template scoped to the tenant.
func (r *TemplateRepository) GetTemplateByID(ctx context.Context, tenantID string, templateID int64) (*models.CommunicationTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM communication_templates WHERE tenant_id = ? AND template_id = ?`, templateColumns)
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, tenantID, templateID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query template: %w", err)
	}
	return t, nil
}

// ListTemplates returns the tenant's templates, optionally filtered by
// channel.
func (r *TemplateRepository) ListTemplates(ctx context.Context, tenantID string, channel models.FollowUpChannel) ([]models.CommunicationTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM communication_templates WHERE tenant_id = ?`, templateColumns)
	args := []interface{}{tenantID}
	if channel != "" {
		query += " AND channel = ?"
		args = append(args, channel)
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []models.CommunicationTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplate updates a template's content and active flag.
func (r *TemplateRepository) UpdateTemplate(ctx context.Context, t *models.CommunicationTemplate) error {
	query := `
		UPDATE communication_templates
		SET name = ?, subject = ?, body = ?, is_active = ?, updated_at = UTC_TIMESTAMP()
		WHERE tenant_id = ? AND template_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Subject, t.Body, t.IsActive, t.TenantID, t.TemplateID)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		if _, getErr := r.GetTemplateByID(ctx, t.TenantID, t.TemplateID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// DeleteTemplate removes a template.
func (r *TemplateRepository) DeleteTemplate(ctx context.Context, tenantID string, templateID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM communication_templates WHERE tenant_id = ? AND template_id = ?`,
		tenantID, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
