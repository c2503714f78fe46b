package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"bizledger/models"
)

// RoleRepository handles database operations for roles and per-user table
// preferences.
type RoleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// CreateRole inserts a role with its serialized permission matrix.
func (r *RoleRepository) CreateRole(ctx context.Context, role *models.Role) error {
	matrix, err := models.MarshalMatrix(role.Matrix)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO roles (tenant_id, name, is_admin, matrix)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, role.TenantID, role.Name, role.IsAdmin, matrix)
	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get role ID: %w", err)
	}
	role.RoleID = id
	return nil
}

// GetRoleByName fetches a role by name within the tenant.
func (r *RoleRepository) GetRoleByName(ctx context.Context, tenantID, name string) (*models.Role, error) {
	return r.getRole(ctx, `SELECT role_id, tenant_id, name, is_admin, matrix, created_at FROM roles WHERE tenant_id = ? AND name = ?`, tenantID, name)
}

// GetRoleByID fetches a role by id within the tenant.
func (r *RoleRepository) GetRoleByID(ctx context.Context, tenantID string, roleID int64) (*models.Role, error) {
	return r.getRole(ctx, `SELECT role_id, tenant_id, name, is_admin, matrix, created_at FROM roles WHERE tenant_id = ? AND role_id = ?`, tenantID, roleID)
}

func (r *RoleRepository) getRole(ctx context.Context, query string, args ...interface{}) (*models.Role, error) {
	var role models.Role
	var matrix string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&role.RoleID,
		&role.TenantID,
		&role.Name,
		&role.IsAdmin,
		&matrix,
		&role.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query role: %w", err)
	}

	role.Matrix, err = models.UnmarshalMatrix(matrix)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// ListRoles returns the tenant's roles.
func (r *RoleRepository) ListRoles(ctx context.Context, tenantID string) ([]models.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role_id, tenant_id, name, is_admin, matrix, created_at FROM roles WHERE tenant_id = ? ORDER BY name ASC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		var matrix string
		if err := rows.Scan(&role.RoleID, &role.TenantID, &role.Name, &role.IsAdmin, &matrix, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		role.Matrix, err = models.UnmarshalMatrix(matrix)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}
	return roles, nil
}

// DeleteRole removes a non-admin role.
func (r *RoleRepository) DeleteRole(ctx context.Context, tenantID string, roleID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM roles WHERE tenant_id = ? AND role_id = ? AND is_admin = false`,
		tenantID, roleID)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("role not found or is the built-in admin role")
	}
	return nil
}

// GetPreference returns a user's view preferences for one table key.
func (r *RoleRepository) GetPreference(ctx context.Context, tenantID string, userID int64, tableKey string) (*models.TablePreference, error) {
	var pref models.TablePreference
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, tenant_id, table_key, payload, updated_at
		FROM table_preferences
		WHERE tenant_id = ? AND user_id = ? AND table_key = ?
	`, tenantID, userID, tableKey).Scan(&pref.UserID, &pref.TenantID, &pref.TableKey, &payload, &pref.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query table preference: %w", err)
	}
	pref.Payload = json.RawMessage(payload)
	return &pref, nil
}

// SavePreference upserts a user's view preferences for one table key.
func (r *RoleRepository) SavePreference(ctx context.Context, pref *models.TablePreference) error {
	query := `
		INSERT INTO table_preferences (user_id, tenant_id, table_key, payload, updated_at)
		VALUES (?, ?, ?, ?, UTC_TIMESTAMP())
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = UTC_TIMESTAMP()
	`
	_, err := r.db.ExecContext(ctx, query, pref.UserID, pref.TenantID, pref.TableKey, []byte(pref.Payload))
	if err != nil {
		return fmt.Errorf("failed to save table preference: %w", err)
	}
	return nil
}
