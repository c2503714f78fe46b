package models

import "time"

// Tier represents the four ordered collection-severity categories.
// Severity ordering: Alpha < Beta < Gamma < Delta.
type Tier string

const (
	TierAlpha Tier = "alpha"
	TierBeta  Tier = "beta"
	TierGamma Tier = "gamma"
	TierDelta Tier = "delta"
)

// Rank returns the severity rank of a tier (Alpha=0 .. Delta=3).
// Unknown tiers rank below Alpha.
func (t Tier) Rank() int {
	switch t {
	case TierAlpha:
		return 0
	case TierBeta:
		return 1
	case TierGamma:
		return 2
	case TierDelta:
		return 3
	}
	return -1
}

// Valid reports whether t is one of the four known tiers.
func (t Tier) Valid() bool {
	return t.Rank() >= 0
}

// PaymentStanding classifies payment timeliness against the due date and
// grace period. It is independent of the tier system.
type PaymentStanding string

const (
	StandingPaidOnTime        PaymentStanding = "paid_on_time"
	StandingInGrace           PaymentStanding = "in_grace"
	StandingOverdue           PaymentStanding = "overdue"
	StandingUnpaidWithinGrace PaymentStanding = "unpaid_within_grace"
)

// CategoryRules is the per-tenant escalation configuration. The four *Days
// values are bucket WIDTHS, not absolute cutoffs: Alpha covers [0, AlphaDays],
// Beta covers (AlphaDays, AlphaDays+BetaDays], and so on; Delta is open-ended.
// Boundaries are always recomputed from the current widths at evaluation time.
type CategoryRules struct {
	TenantID                       string    `db:"tenant_id" json:"tenant_id"`
	AlphaDays                      int       `db:"alpha_days" json:"alpha_days"`
	BetaDays                       int       `db:"beta_days" json:"beta_days"`
	GammaDays                      int       `db:"gamma_days" json:"gamma_days"`
	DeltaDays                      int       `db:"delta_days" json:"delta_days"`
	PartialPaymentThresholdPercent float64   `db:"partial_payment_threshold_percent" json:"partial_payment_threshold_percent"`
	GraceDays                      int       `db:"grace_days" json:"grace_days"`
	UpdatedAt                      time.Time `db:"updated_at" json:"updated_at"`
}

// FollowupRules holds the reminder cadence (days between follow-ups) per
// tier. By convention operators give Delta the shortest cadence and Alpha the
// longest; nothing enforces that ordering.
type FollowupRules struct {
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	AlphaDays int       `db:"alpha_days" json:"alpha_days"`
	BetaDays  int       `db:"beta_days" json:"beta_days"`
	GammaDays int       `db:"gamma_days" json:"gamma_days"`
	DeltaDays int       `db:"delta_days" json:"delta_days"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RecoverySettings controls whether computed tiers are persisted
// automatically or treated as advisory.
type RecoverySettings struct {
	TenantID           string    `db:"tenant_id" json:"tenant_id"`
	AutoUpgradeEnabled bool      `db:"auto_upgrade_enabled" json:"auto_upgrade_enabled"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultCategoryRules are seeded when a tenant is provisioned.
func DefaultCategoryRules(tenantID string) *CategoryRules {
	return &CategoryRules{
		TenantID:                       tenantID,
		AlphaDays:                      5,
		BetaDays:                       20,
		GammaDays:                      40,
		DeltaDays:                      100,
		PartialPaymentThresholdPercent: 90,
		GraceDays:                      7,
	}
}

// DefaultFollowupRules are seeded when a tenant is provisioned. Lower
// severity gets a longer cadence.
func DefaultFollowupRules(tenantID string) *FollowupRules {
	return &FollowupRules{
		TenantID:  tenantID,
		AlphaDays: 7,
		BetaDays:  5,
		GammaDays: 3,
		DeltaDays: 1,
	}
}

// DefaultRecoverySettings are seeded when a tenant is provisioned.
func DefaultRecoverySettings(tenantID string) *RecoverySettings {
	return &RecoverySettings{TenantID: tenantID, AutoUpgradeEnabled: true}
}

// CadenceFor maps a tier to its configured cadence in days.
func (r *FollowupRules) CadenceFor(tier Tier) int {
	switch tier {
	case TierAlpha:
		return r.AlphaDays
	case TierBeta:
		return r.BetaDays
	case TierGamma:
		return r.GammaDays
	case TierDelta:
		return r.DeltaDays
	}
	return 0
}

// UpdateCategoryRulesRequest is the settings-write payload. Validation runs
// at this boundary; the evaluator assumes pre-validated rules.
type UpdateCategoryRulesRequest struct {
	AlphaDays                      int     `json:"alpha_days" validate:"gte=0,lte=3650"`
	BetaDays                       int     `json:"beta_days" validate:"gte=0,lte=3650"`
	GammaDays                      int     `json:"gamma_days" validate:"gte=0,lte=3650"`
	DeltaDays                      int     `json:"delta_days" validate:"gte=0,lte=3650"`
	PartialPaymentThresholdPercent float64 `json:"partial_payment_threshold_percent" validate:"gte=0,lte=100"`
	GraceDays                      int     `json:"grace_days" validate:"gte=0,lte=365"`
}

// UpdateFollowupRulesRequest is the follow-up cadence write payload. Each
// cadence must be at least one day; a zero cadence would make every
// customer permanently due.
type UpdateFollowupRulesRequest struct {
	AlphaDays int `json:"alpha_days" validate:"gte=1,lte=365"`
	BetaDays  int `json:"beta_days" validate:"gte=1,lte=365"`
	GammaDays int `json:"gamma_days" validate:"gte=1,lte=365"`
	DeltaDays int `json:"delta_days" validate:"gte=1,lte=365"`
}

// UpdateRecoverySettingsRequest toggles automatic category upgrades.
type UpdateRecoverySettingsRequest struct {
	AutoUpgradeEnabled bool `json:"auto_upgrade_enabled"`
}
