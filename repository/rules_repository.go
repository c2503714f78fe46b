package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"bizledger/logger"
	"bizledger/models"

	"github.com/redis/go-redis/v9"
)

// RulesRepository stores per-tenant escalation configuration. Reads go
// through a Redis cache because rules are loaded on every debtor-list
// render; settings writes invalidate the cached copy.
type RulesRepository struct {
	db       *sql.DB
	rdb      *redis.Client
	cacheTTL time.Duration
}

// NewRulesRepository creates a new rules repository. rdb may be nil, in
// which case every read hits MySQL.
func NewRulesRepository(db *sql.DB, rdb *redis.Client) *RulesRepository {
	return &RulesRepository{db: db, rdb: rdb, cacheTTL: 10 * time.Minute}
}

func categoryRulesKey(tenantID string) string { return "rules:category:" + tenantID }
func followupRulesKey(tenantID string) string { return "rules:followup:" + tenantID }
func recoveryKey(tenantID string) string      { return "rules:recovery:" + tenantID }

// GetCategoryRules returns the tenant's category rules, from cache when
// possible.
func (r *RulesRepository) GetCategoryRules(ctx context.Context, tenantID string) (*models.CategoryRules, error) {
	var rules models.CategoryRules
	if r.cacheGet(ctx, categoryRulesKey(tenantID), &rules) {
		return &rules, nil
	}

	query := `
		SELECT tenant_id, alpha_days, beta_days, gamma_days, delta_days,
			partial_payment_threshold_percent, grace_days, updated_at
		FROM category_rules
		WHERE tenant_id = ?
	`
	err := r.db.QueryRowContext(ctx, query, tenantID).Scan(
		&rules.TenantID,
		&rules.AlphaDays,
		&rules.BetaDays,
		&rules.GammaDays,
		&rules.DeltaDays,
		&rules.PartialPaymentThresholdPercent,
		&rules.GraceDays,
		&rules.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category rules: %w", err)
	}

	r.cacheSet(ctx, categoryRulesKey(tenantID), &rules)
	return &rules, nil
}

// SaveCategoryRules upserts the tenant's category rules and drops the
// cached copy.
func (r *RulesRepository) SaveCategoryRules(ctx context.Context, rules *models.CategoryRules) error {
	query := `
		INSERT INTO category_rules (
			tenant_id, alpha_days, beta_days, gamma_days, delta_days,
			partial_payment_threshold_percent, grace_days, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())
		ON DUPLICATE KEY UPDATE
			alpha_days = VALUES(alpha_days),
			beta_days = VALUES(beta_days),
			gamma_days = VALUES(gamma_days),
			delta_days = VALUES(delta_days),
			partial_payment_threshold_percent = VALUES(partial_payment_threshold_percent),
			grace_days = VALUES(grace_days),
			updated_at = UTC_TIMESTAMP()
	`
	_, err := r.db.ExecContext(ctx, query,
		rules.TenantID,
		rules.AlphaDays,
		rules.BetaDays,
		rules.GammaDays,
		rules.DeltaDays,
		rules.PartialPaymentThresholdPercent,
		rules.GraceDays,
	)
	if err != nil {
		return fmt.Errorf("failed to save category rules: %w", err)
	}

	r.cacheDel(ctx, categoryRulesKey(rules.TenantID))
	return nil
}

// GetFollowupRules returns the tenant's follow-up cadences, from cache when
// possible.
func (r *RulesRepository) GetFollowupRules(ctx context.Context, tenantID string) (*models.FollowupRules, error) {
	var rules models.FollowupRules
	if r.cacheGet(ctx, followupRulesKey(tenantID), &rules) {
		return &rules, nil
	}

	query := `
		SELECT tenant_id, alpha_days, beta_days, gamma_days, delta_days, updated_at
		FROM followup_rules
		WHERE tenant_id = ?
	`
	err := r.db.QueryRowContext(ctx, query, tenantID).Scan(
		&rules.TenantID,
		&rules.AlphaDays,
		&rules.BetaDays,
		&rules.GammaDays,
		&rules.DeltaDays,
		&rules.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query followup rules: %w", err)
	}

	r.cacheSet(ctx, followupRulesKey(tenantID), &rules)
	return &rules, nil
}

// SaveFollowupRules upserts the tenant's follow-up cadences and drops the
// cached copy.
func (r *RulesRepository) SaveFollowupRules(ctx context.Context, rules *models.FollowupRules) error {
	query := `
		INSERT INTO followup_rules (tenant_id, alpha_days, beta_days, gamma_days, delta_days, updated_at)
		VALUES (?, ?, ?, ?, ?, UTC_TIMESTAMP())
		ON DUPLICATE KEY UPDATE
			alpha_days = VALUES(alpha_days),
			beta_days = VALUES(beta_days),
			gamma_days = VALUES(gamma_days),
			delta_days = VALUES(delta_days),
			updated_at = UTC_TIMESTAMP()
	`
	_, err := r.db.ExecContext(ctx, query,
		rules.TenantID, rules.AlphaDays, rules.BetaDays, rules.GammaDays, rules.DeltaDays)
	if err != nil {
		return fmt.Errorf("failed to save followup rules: %w", err)
	}

	r.cacheDel(ctx, followupRulesKey(rules.TenantID))
	return nil
}

// GetRecoverySettings returns the tenant's auto-upgrade toggle.
func (r *RulesRepository) GetRecoverySettings(ctx context.Context, tenantID string) (*models.RecoverySettings, error) {
	var settings models.RecoverySettings
	if r.cacheGet(ctx, recoveryKey(tenantID), &settings) {
		return &settings, nil
	}

	query := `
		SELECT tenant_id, auto_upgrade_enabled, updated_at
		FROM recovery_settings
		WHERE tenant_id = ?
	`
	err := r.db.QueryRowContext(ctx, query, tenantID).Scan(
		&settings.TenantID,
		&settings.AutoUpgradeEnabled,
		&settings.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query recovery settings: %w", err)
	}

	r.cacheSet(ctx, recoveryKey(tenantID), &settings)
	return &settings, nil
}

// SaveRecoverySettings upserts the auto-upgrade toggle and drops the cached
// copy.
func (r *RulesRepository) SaveRecoverySettings(ctx context.Context, settings *models.RecoverySettings) error {
	query := `
		INSERT INTO recovery_settings (tenant_id, auto_upgrade_enabled, updated_at)
		VALUES (?, ?, UTC_TIMESTAMP())
		ON DUPLICATE KEY UPDATE
			auto_upgrade_enabled = VALUES(auto_upgrade_enabled),
			updated_at = UTC_TIMESTAMP()
	`
	_, err := r.db.ExecContext(ctx, query, settings.TenantID, settings.AutoUpgradeEnabled)
	if err != nil {
		return fmt.Errorf("failed to save recovery settings: %w", err)
	}

	r.cacheDel(ctx, recoveryKey(settings.TenantID))
	return nil
}

// ListTenantIDs returns every tenant that has category rules configured.
// The batch recompute walks this list.
func (r *RulesRepository) ListTenantIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tenant_id FROM category_rules ORDER BY tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tenant id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenants: %w", err)
	}
	return ids, nil
}

func (r *RulesRepository) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if r.rdb == nil {
		return false
	}
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Warnf("rules cache read failed for %s", key)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Log.WithError(err).Warnf("rules cache entry corrupt for %s, dropping", key)
		r.rdb.Del(ctx, key)
		return false
	}
	return true
}

func (r *RulesRepository) cacheSet(ctx context.Context, key string, value interface{}) {
	if r.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, key, raw, r.cacheTTL).Err(); err != nil {
		logger.Log.WithError(err).Warnf("rules cache write failed for %s", key)
	}
}

func (r *RulesRepository) cacheDel(ctx context.Context, key string) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logger.Log.WithError(err).Warnf("rules cache invalidation failed for %s", key)
	}
}
