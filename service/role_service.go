package service

import (
	"context"
	"encoding/json"
	"fmt"

	"bizledger/models"
	"bizledger/repository"

	"github.com/go-playground/validator/v10"
)

// RoleService handles tenant roles and per-user table preferences.
type RoleService struct {
	roleRepo *repository.RoleRepository
	validate *validator.Validate
}

// NewRoleService creates a new role service
func NewRoleService(roleRepo *repository.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo, validate: validator.New()}
}

// CreateRole validates the matrix and inserts a custom role.
func (s *RoleService) CreateRole(ctx context.Context, tenantID string, req *models.CreateRoleRequest) (*models.Role, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for module, actions := range req.Matrix {
		for _, action := range actions {
			switch action {
			case models.ActionView, models.ActionCreate, models.ActionUpdate, models.ActionDelete:
			default:
				return nil, fmt.Errorf("%w: unknown action %q for module %q", ErrValidation, action, module)
			}
		}
	}

	role := &models.Role{
		TenantID: tenantID,
		Name:     req.Name,
		Matrix:   req.Matrix,
	}
	if err := s.roleRepo.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// GetRole fetches one role.
func (s *RoleService) GetRole(ctx context.Context, tenantID string, roleID int64) (*models.Role, error) {
	return s.roleRepo.GetRoleByID(ctx, tenantID, roleID)
}

// ListRoles lists the tenant's roles.
func (s *RoleService) ListRoles(ctx context.Context, tenantID string) ([]models.Role, error) {
	return s.roleRepo.ListRoles(ctx, tenantID)
}

// DeleteRole removes a custom role; the built-in admin role is protected.
func (s *RoleService) DeleteRole(ctx context.Context, tenantID string, roleID int64) error {
	return s.roleRepo.DeleteRole(ctx, tenantID, roleID)
}

// GetPreference returns a user's view preferences for one table.
func (s *RoleService) GetPreference(ctx context.Context, tenantID string, userID int64, tableKey string) (*models.TablePreference, error) {
	return s.roleRepo.GetPreference(ctx, tenantID, userID, tableKey)
}

// SavePreference stores a user's view preferences for one table. The
// payload is opaque client JSON; only well-formedness is checked.
func (s *RoleService) SavePreference(ctx context.Context, tenantID string, userID int64, tableKey string, payload json.RawMessage) (*models.TablePreference, error) {
	if tableKey == "" {
		return nil, fmt.Errorf("%w: table key is required", ErrValidation)
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("%w: preference payload is not valid JSON", ErrValidation)
	}

	pref := &models.TablePreference{
		UserID:   userID,
		TenantID: tenantID,
		TableKey: tableKey,
		Payload:  payload,
	}
	if err := s.roleRepo.SavePreference(ctx, pref); err != nil {
		return nil, err
	}
	return s.roleRepo.GetPreference(ctx, tenantID, userID, tableKey)
}
