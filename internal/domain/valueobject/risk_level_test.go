package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/aml-service/internal/domain/valueobject"
)

func TestRiskLevelFromScore(t *testing.T) {
	tests := []struct {
		score    int
		expected valueobject.RiskLevel
	}{
		{0, valueobject.RiskLevelLow},
		{3, valueobject.RiskLevelLow},
		{4, valueobject.RiskLevelMedium},
		{6, valueobject.RiskLevelMedium},
		{7, valueobject.RiskLevelHigh},
		{9, valueobject.RiskLevelHigh},
		{10, valueobject.RiskLevelCritical},
		{25, valueobject.RiskLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, valueobject.RiskLevelFromScore(tt.score), "score %d", tt.score)
		})
	}
}

func TestRiskLevelPriority(t *testing.T) {
	assert.Equal(t, valueobject.PriorityUrgent, valueobject.RiskLevelCritical.Priority())
	assert.Equal(t, valueobject.PriorityHigh, valueobject.RiskLevelHigh.Priority())
	assert.Equal(t, valueobject.PriorityMedium, valueobject.RiskLevelMedium.Priority())
	assert.Equal(t, valueobject.PriorityLow, valueobject.RiskLevelLow.Priority())
}

func TestRiskLevelFromString(t *testing.T) {
	for _, s := range []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"} {
		level, err := valueobject.RiskLevelFromString(s)
		require.NoError(t, err)
		assert.Equal(t, s, level.String())
	}

	_, err := valueobject.RiskLevelFromString("SEVERE")
	assert.Error(t, err)
}

func TestPriorityFromString(t *testing.T) {
	p, err := valueobject.PriorityFromString("URGENT")
	require.NoError(t, err)
	assert.True(t, p.Equal(valueobject.PriorityUrgent))

	_, err = valueobject.PriorityFromString("whenever")
	assert.Error(t, err)
}

func TestReviewStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    valueobject.ReviewStatus
		to      valueobject.ReviewStatus
		allowed bool
	}{
		{"pending to reviewed", valueobject.ReviewStatusPending, valueobject.ReviewStatusReviewed, true},
		{"pending to approved", valueobject.ReviewStatusPending, valueobject.ReviewStatusApproved, true},
		{"reviewed to rejected", valueobject.ReviewStatusReviewed, valueobject.ReviewStatusRejected, true},
		{"reviewed to pending", valueobject.ReviewStatusReviewed, valueobject.ReviewStatusPending, false},
		{"approved is terminal", valueobject.ReviewStatusApproved, valueobject.ReviewStatusRejected, false},
		{"pending to pending", valueobject.ReviewStatusPending, valueobject.ReviewStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.from.TransitionTo(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, next)
				return
			}
			require.ErrorIs(t, err, valueobject.ErrInvalidReviewTransition)
			assert.Equal(t, tt.from, next)
		})
	}
}
