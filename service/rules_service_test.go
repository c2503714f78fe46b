package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger/models"
)

func newRulesServiceForValidation() *RulesService {
	return NewRulesService(nil, nil)
}

func TestCategoryRulesValidation(t *testing.T) {
	s := newRulesServiceForValidation()

	valid := &models.UpdateCategoryRulesRequest{
		AlphaDays: 5, BetaDays: 20, GammaDays: 40, DeltaDays: 100,
		PartialPaymentThresholdPercent: 90, GraceDays: 7,
	}
	require.NoError(t, s.check(valid))

	// Zero bucket widths are allowed; the evaluator collapses them.
	zeroWidths := &models.UpdateCategoryRulesRequest{
		AlphaDays: 0, BetaDays: 0, GammaDays: 0, DeltaDays: 0,
		PartialPaymentThresholdPercent: 90, GraceDays: 0,
	}
	require.NoError(t, s.check(zeroWidths))

	negative := &models.UpdateCategoryRulesRequest{
		AlphaDays: -1, BetaDays: 20, GammaDays: 40, DeltaDays: 100,
		PartialPaymentThresholdPercent: 90, GraceDays: 7,
	}
	err := s.check(negative)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	overPercent := &models.UpdateCategoryRulesRequest{
		AlphaDays: 5, BetaDays: 20, GammaDays: 40, DeltaDays: 100,
		PartialPaymentThresholdPercent: 101, GraceDays: 7,
	}
	assert.ErrorIs(t, s.check(overPercent), ErrValidation)
}

func TestFollowupRulesValidation(t *testing.T) {
	s := newRulesServiceForValidation()

	require.NoError(t, s.check(&models.UpdateFollowupRulesRequest{
		AlphaDays: 7, BetaDays: 5, GammaDays: 3, DeltaDays: 1,
	}))

	// Cadence of zero days is rejected at the write boundary.
	assert.ErrorIs(t, s.check(&models.UpdateFollowupRulesRequest{
		AlphaDays: 7, BetaDays: 5, GammaDays: 3, DeltaDays: 0,
	}), ErrValidation)

	assert.ErrorIs(t, s.check(&models.UpdateFollowupRulesRequest{
		AlphaDays: 400, BetaDays: 5, GammaDays: 3, DeltaDays: 1,
	}), ErrValidation)
}
