// Package category implements the collection-severity evaluator: tier
// resolution from days overdue, follow-up cadence checks, and payment
// timeliness classification. All functions are pure and safe to call from
// any request or batch context without synchronization.
package category

import (
	"errors"
	"time"

	"bizledger/models"
)

// ErrInvalidInput marks a caller contract violation (negative day counts,
// zero dates, follow-up timestamps in the future). The evaluator fails fast
// instead of coercing, so a null-as-zero bug upstream cannot silently
// miscategorize a customer.
var ErrInvalidInput = errors.New("category: invalid input")

// Result is the outcome of a tier resolution. Excluded means the invoice is
// paid at or above the partial-payment threshold and is not subject to
// escalation at all.
type Result struct {
	Excluded bool
	Tier     models.Tier
}

// Resolve determines which severity tier applies for daysOverdue under the
// given rules.
//
// The exclusion check runs before any tier math: paymentPercent at or above
// the threshold short-circuits to Excluded no matter how overdue the invoice
// is. Tier boundaries are cumulative sums of the configured bucket widths,
// recomputed on every call so a rules change takes effect immediately.
// A zero bucket width simply makes that tier unreachable; the comparison
// chain is total over all non-negative inputs.
func Resolve(daysOverdue int, paymentPercent float64, rules *models.CategoryRules) (Result, error) {
	if rules == nil {
		return Result{}, ErrInvalidInput
	}
	if daysOverdue < 0 || paymentPercent < 0 {
		return Result{}, ErrInvalidInput
	}
	if rules.AlphaDays < 0 || rules.BetaDays < 0 || rules.GammaDays < 0 || rules.DeltaDays < 0 {
		return Result{}, ErrInvalidInput
	}

	if paymentPercent >= rules.PartialPaymentThresholdPercent {
		return Result{Excluded: true}, nil
	}

	b1 := rules.AlphaDays
	b2 := b1 + rules.BetaDays
	b3 := b2 + rules.GammaDays

	switch {
	case daysOverdue <= b1:
		return Result{Tier: models.TierAlpha}, nil
	case daysOverdue <= b2:
		return Result{Tier: models.TierBeta}, nil
	case daysOverdue <= b3:
		return Result{Tier: models.TierGamma}, nil
	default:
		return Result{Tier: models.TierDelta}, nil
	}
}

// DaysBetween returns whole days from `from` to `to`, truncating partial
// days. Both times must already be normalized to one reference zone; no
// timezone conversion happens here.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// IsFollowUpDue reports whether another reminder is due for a customer in
// the given tier. A customer never followed up on is due immediately;
// otherwise a reminder is due once the tier's cadence has elapsed since the
// last follow-up.
func IsFollowUpDue(lastFollowUp *time.Time, tier models.Tier, rules *models.FollowupRules, now time.Time) (bool, error) {
	if rules == nil || !tier.Valid() || now.IsZero() {
		return false, ErrInvalidInput
	}
	if lastFollowUp == nil {
		return true, nil
	}
	if lastFollowUp.After(now) {
		return false, ErrInvalidInput
	}
	return DaysBetween(*lastFollowUp, now) >= rules.CadenceFor(tier), nil
}

// ClassifyPayment classifies payment timeliness against the due date and
// grace window. This is deliberately separate from tier resolution: both
// read the grace setting but answer different questions (was the payment
// timely vs. which collection bucket applies).
func ClassifyPayment(dueDate time.Time, paidDate *time.Time, rules *models.CategoryRules, now time.Time) (models.PaymentStanding, error) {
	if rules == nil || dueDate.IsZero() || now.IsZero() {
		return "", ErrInvalidInput
	}
	if rules.GraceDays < 0 {
		return "", ErrInvalidInput
	}

	graceEnd := dueDate.AddDate(0, 0, rules.GraceDays)

	if paidDate != nil {
		if paidDate.IsZero() {
			return "", ErrInvalidInput
		}
		switch {
		case !paidDate.After(dueDate):
			return models.StandingPaidOnTime, nil
		case !paidDate.After(graceEnd):
			return models.StandingInGrace, nil
		default:
			return models.StandingOverdue, nil
		}
	}

	if !now.After(graceEnd) {
		return models.StandingUnpaidWithinGrace, nil
	}
	return models.StandingOverdue, nil
}
