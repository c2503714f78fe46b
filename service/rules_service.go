package service

import (
	"context"
	"errors"
	"fmt"

	"bizledger/logger"
	"bizledger/models"
	"bizledger/repository"

	"github.com/go-playground/validator/v10"
)

// RulesService owns escalation configuration. Validation happens here, at
// the write boundary; the evaluator downstream assumes well-formed rules.
type RulesService struct {
	rulesRepo *repository.RulesRepository
	roleRepo  *repository.RoleRepository
	validate  *validator.Validate
}

// NewRulesService creates a new rules service
func NewRulesService(rulesRepo *repository.RulesRepository, roleRepo *repository.RoleRepository) *RulesService {
	return &RulesService{
		rulesRepo: rulesRepo,
		roleRepo:  roleRepo,
		validate:  validator.New(),
	}
}

// ErrValidation wraps a validator error so handlers can map it to a 400.
var ErrValidation = errors.New("validation failed")

func (s *RulesService) check(req interface{}) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// ProvisionTenant seeds the singleton rule rows and the built-in admin role
// for a new tenant. Re-provisioning an existing tenant is a no-op for rows
// that already exist.
func (s *RulesService) ProvisionTenant(ctx context.Context, tenantID string) error {
	if _, err := s.rulesRepo.GetCategoryRules(ctx, tenantID); err == repository.ErrNotFound {
		if err := s.rulesRepo.SaveCategoryRules(ctx, models.DefaultCategoryRules(tenantID)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if _, err := s.rulesRepo.GetFollowupRules(ctx, tenantID); err == repository.ErrNotFound {
		if err := s.rulesRepo.SaveFollowupRules(ctx, models.DefaultFollowupRules(tenantID)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if _, err := s.rulesRepo.GetRecoverySettings(ctx, tenantID); err == repository.ErrNotFound {
		if err := s.rulesRepo.SaveRecoverySettings(ctx, models.DefaultRecoverySettings(tenantID)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if _, err := s.roleRepo.GetRoleByName(ctx, tenantID, "admin"); err == repository.ErrNotFound {
		role := &models.Role{
			TenantID: tenantID,
			Name:     "admin",
			IsAdmin:  true,
			Matrix:   models.AdminMatrix(),
		}
		if err := s.roleRepo.CreateRole(ctx, role); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	logger.Log.WithField("tenant_id", tenantID).Info("tenant provisioned")
	return nil
}

// GetCategoryRules returns the tenant's category rules.
func (s *RulesService) GetCategoryRules(ctx context.Context, tenantID string) (*models.CategoryRules, error) {
	return s.rulesRepo.GetCategoryRules(ctx, tenantID)
}

// UpdateCategoryRules validates and persists new category rules.
func (s *RulesService) UpdateCategoryRules(ctx context.Context, tenantID string, req *models.UpdateCategoryRulesRequest) (*models.CategoryRules, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	rules := &models.CategoryRules{
		TenantID:                       tenantID,
		AlphaDays:                      req.AlphaDays,
		BetaDays:                       req.BetaDays,
		GammaDays:                      req.GammaDays,
		DeltaDays:                      req.DeltaDays,
		PartialPaymentThresholdPercent: req.PartialPaymentThresholdPercent,
		GraceDays:                      req.GraceDays,
	}
	if err := s.rulesRepo.SaveCategoryRules(ctx, rules); err != nil {
		return nil, err
	}

	logger.Log.WithField("tenant_id", tenantID).
		Infof("category rules updated: alpha=%d beta=%d gamma=%d delta=%d threshold=%.1f grace=%d",
			rules.AlphaDays, rules.BetaDays, rules.GammaDays, rules.DeltaDays,
			rules.PartialPaymentThresholdPercent, rules.GraceDays)
	return s.rulesRepo.GetCategoryRules(ctx, tenantID)
}

// GetFollowupRules returns the tenant's follow-up cadences.
func (s *RulesService) GetFollowupRules(ctx context.Context, tenantID string) (*models.FollowupRules, error) {
	return s.rulesRepo.GetFollowupRules(ctx, tenantID)
}

// UpdateFollowupRules validates and persists new follow-up cadences. Each
// cadence must be at least one day; ordering between tiers is left to the
// operator.
func (s *RulesService) UpdateFollowupRules(ctx context.Context, tenantID string, req *models.UpdateFollowupRulesRequest) (*models.FollowupRules, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	rules := &models.FollowupRules{
		TenantID:  tenantID,
		AlphaDays: req.AlphaDays,
		BetaDays:  req.BetaDays,
		GammaDays: req.GammaDays,
		DeltaDays: req.DeltaDays,
	}
	if err := s.rulesRepo.SaveFollowupRules(ctx, rules); err != nil {
		return nil, err
	}
	return s.rulesRepo.GetFollowupRules(ctx, tenantID)
}

// GetRecoverySettings returns the tenant's auto-upgrade toggle.
func (s *RulesService) GetRecoverySettings(ctx context.Context, tenantID string) (*models.RecoverySettings, error) {
	return s.rulesRepo.GetRecoverySettings(ctx, tenantID)
}

// UpdateRecoverySettings toggles automatic category upgrades.
func (s *RulesService) UpdateRecoverySettings(ctx context.Context, tenantID string, req *models.UpdateRecoverySettingsRequest) (*models.RecoverySettings, error) {
	settings := &models.RecoverySettings{
		TenantID:           tenantID,
		AutoUpgradeEnabled: req.AutoUpgradeEnabled,
	}
	if err := s.rulesRepo.SaveRecoverySettings(ctx, settings); err != nil {
		return nil, err
	}
	return s.rulesRepo.GetRecoverySettings(ctx, tenantID)
}
