package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Module names the permission-matrix rows.
type Module string

const (
	ModuleLeads      Module = "leads"
	ModuleQuotations Module = "quotations"
	ModuleCustomers  Module = "customers"
	ModuleInvoices   Module = "invoices"
	ModuleReceipts   Module = "receipts"
	ModuleDebtors    Module = "debtors"
	ModuleTemplates  Module = "templates"
	ModuleSettings   Module = "settings"
	ModuleRoles      Module = "roles"
)

// Action names the permission-matrix columns.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// PermissionMatrix maps module -> allowed actions.
type PermissionMatrix map[Module][]Action

// Allows reports whether the matrix grants an action on a module.
func (m PermissionMatrix) Allows(module Module, action Action) bool {
	for _, a := range m[module] {
		if a == action {
			return true
		}
	}
	return false
}

// Role is a named permission matrix scoped to a tenant. The built-in admin
// role is seeded at provisioning and cannot be deleted.
type Role struct {
	RoleID    int64            `db:"role_id" json:"role_id"`
	TenantID  string           `db:"tenant_id" json:"tenant_id"`
	Name      string           `db:"name" json:"name"`
	IsAdmin   bool             `db:"is_admin" json:"is_admin"`
	Matrix    PermissionMatrix `json:"matrix"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// AdminMatrix grants every action on every module.
func AdminMatrix() PermissionMatrix {
	all := []Action{ActionView, ActionCreate, ActionUpdate, ActionDelete}
	m := PermissionMatrix{}
	for _, mod := range []Module{
		ModuleLeads, ModuleQuotations, ModuleCustomers, ModuleInvoices,
		ModuleReceipts, ModuleDebtors, ModuleTemplates, ModuleSettings,
		ModuleRoles,
	} {
		m[mod] = all
	}
	return m
}

// MarshalMatrix serializes a matrix for the roles.matrix JSON column.
func MarshalMatrix(m PermissionMatrix) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal permission matrix: %w", err)
	}
	return string(b), nil
}

// UnmarshalMatrix parses the roles.matrix JSON column.
func UnmarshalMatrix(raw string) (PermissionMatrix, error) {
	var m PermissionMatrix
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("failed to parse permission matrix: %w", err)
	}
	return m, nil
}

// CreateRoleRequest is the POST /roles payload.
type CreateRoleRequest struct {
	Name   string           `json:"name" validate:"required,max=50"`
	Matrix PermissionMatrix `json:"matrix" validate:"required"`
}

// TablePreference is a per-user, per-table view preference blob
// (search/sort/column visibility), stored server-side instead of browser
// local storage. The payload is opaque JSON owned by the client.
type TablePreference struct {
	UserID    int64           `db:"user_id" json:"user_id"`
	TenantID  string          `db:"tenant_id" json:"tenant_id"`
	TableKey  string          `db:"table_key" json:"table_key"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
