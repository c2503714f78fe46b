package category

import (
	"testing"
	"time"

	"bizledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() *models.CategoryRules {
	return &models.CategoryRules{
		AlphaDays:                      5,
		BetaDays:                       20,
		GammaDays:                      40,
		DeltaDays:                      100,
		PartialPaymentThresholdPercent: 90,
		GraceDays:                      7,
	}
}

func TestResolveBoundaries(t *testing.T) {
	rules := testRules()

	tests := []struct {
		days int
		want models.Tier
	}{
		{0, models.TierAlpha},
		{5, models.TierAlpha},
		{6, models.TierBeta},
		{25, models.TierBeta},
		{26, models.TierGamma},
		{65, models.TierGamma},
		{66, models.TierDelta},
		{1000, models.TierDelta},
	}

	for _, tt := range tests {
		res, err := Resolve(tt.days, 0, rules)
		require.NoError(t, err)
		assert.False(t, res.Excluded)
		assert.Equal(t, tt.want, res.Tier, "daysOverdue=%d", tt.days)
	}
}

func TestResolveExclusionPrecedence(t *testing.T) {
	rules := testRules()

	// At or above the threshold the invoice is excluded regardless of how
	// overdue it is.
	for _, days := range []int{0, 6, 66, 100000} {
		res, err := Resolve(days, 90, rules)
		require.NoError(t, err)
		assert.True(t, res.Excluded, "daysOverdue=%d", days)

		res, err = Resolve(days, 99.5, rules)
		require.NoError(t, err)
		assert.True(t, res.Excluded)
	}

	// Just below the threshold escalation applies normally.
	res, err := Resolve(1000, 89.99, rules)
	require.NoError(t, err)
	assert.False(t, res.Excluded)
	assert.Equal(t, models.TierDelta, res.Tier)
}

func TestResolveMonotonic(t *testing.T) {
	rules := testRules()

	prev := -1
	for days := 0; days <= 200; days++ {
		res, err := Resolve(days, 0, rules)
		require.NoError(t, err)
		rank := res.Tier.Rank()
		require.GreaterOrEqual(t, rank, prev, "tier rank regressed at daysOverdue=%d", days)
		prev = rank
	}
}

func TestResolveIdempotent(t *testing.T) {
	rules := testRules()

	first, err := Resolve(25, 40, rules)
	require.NoError(t, err)
	second, err := Resolve(25, 40, rules)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveZeroBucketWidths(t *testing.T) {
	// A zero width makes the tier unreachable but must never fault.
	rules := &models.CategoryRules{
		AlphaDays:                      0,
		BetaDays:                       0,
		GammaDays:                      0,
		DeltaDays:                      0,
		PartialPaymentThresholdPercent: 100,
	}

	res, err := Resolve(0, 0, rules)
	require.NoError(t, err)
	assert.Equal(t, models.TierAlpha, res.Tier, "day zero is always inside alpha")

	res, err = Resolve(1, 0, rules)
	require.NoError(t, err)
	assert.Equal(t, models.TierDelta, res.Tier)
}

func TestResolveInvalidInput(t *testing.T) {
	rules := testRules()

	_, err := Resolve(-1, 0, rules)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Resolve(10, -0.5, rules)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Resolve(10, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Resolve(10, 0, &models.CategoryRules{AlphaDays: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIsFollowUpDue(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	rules := &models.FollowupRules{AlphaDays: 7, BetaDays: 5, GammaDays: 3, DeltaDays: 1}

	// Never followed up: due immediately.
	due, err := IsFollowUpDue(nil, models.TierAlpha, rules, now)
	require.NoError(t, err)
	assert.True(t, due)

	// 3 days elapsed against a 7-day cadence: not due.
	last := now.AddDate(0, 0, -3)
	due, err = IsFollowUpDue(&last, models.TierAlpha, rules, now)
	require.NoError(t, err)
	assert.False(t, due)

	// Same elapsed time against a 2-day cadence: due.
	short := &models.FollowupRules{AlphaDays: 2, BetaDays: 2, GammaDays: 2, DeltaDays: 2}
	due, err = IsFollowUpDue(&last, models.TierAlpha, short, now)
	require.NoError(t, err)
	assert.True(t, due)

	// Delta cadence of 1 day: due after a single day.
	yesterday := now.AddDate(0, 0, -1)
	due, err = IsFollowUpDue(&yesterday, models.TierDelta, rules, now)
	require.NoError(t, err)
	assert.True(t, due)

	// Partial days truncate: 23 hours is zero whole days.
	recent := now.Add(-23 * time.Hour)
	due, err = IsFollowUpDue(&recent, models.TierDelta, rules, now)
	require.NoError(t, err)
	assert.False(t, due)
}

func TestIsFollowUpDueInvalidInput(t *testing.T) {
	now := time.Now().UTC()
	rules := &models.FollowupRules{AlphaDays: 7, BetaDays: 5, GammaDays: 3, DeltaDays: 1}

	_, err := IsFollowUpDue(nil, models.TierAlpha, nil, now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = IsFollowUpDue(nil, models.Tier("bogus"), rules, now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	future := now.AddDate(0, 0, 1)
	_, err = IsFollowUpDue(&future, models.TierAlpha, rules, now)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClassifyPayment(t *testing.T) {
	rules := testRules() // grace 7 days
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	paid := func(d time.Time) *time.Time { return &d }

	tests := []struct {
		name     string
		paidDate *time.Time
		now      time.Time
		want     models.PaymentStanding
	}{
		{"paid on due date", paid(due), due, models.StandingPaidOnTime},
		{"paid early", paid(due.AddDate(0, 0, -10)), due, models.StandingPaidOnTime},
		{"paid in grace", paid(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)), due, models.StandingInGrace},
		{"paid at grace end", paid(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)), due, models.StandingInGrace},
		{"paid late", paid(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)), due, models.StandingOverdue},
		{"unpaid within grace", nil, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), models.StandingUnpaidWithinGrace},
		{"unpaid past grace", nil, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), models.StandingOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyPayment(due, tt.paidDate, rules, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyPaymentInvalidInput(t *testing.T) {
	rules := testRules()
	now := time.Now().UTC()

	_, err := ClassifyPayment(time.Time{}, nil, rules, now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ClassifyPayment(now, nil, nil, now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var zero time.Time
	_, err = ClassifyPayment(now, &zero, rules, now)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(base, base))
	assert.Equal(t, 0, DaysBetween(base, base.Add(23*time.Hour)))
	assert.Equal(t, 1, DaysBetween(base, base.Add(24*time.Hour)))
	assert.Equal(t, 3, DaysBetween(base, base.AddDate(0, 0, 3)))
}
