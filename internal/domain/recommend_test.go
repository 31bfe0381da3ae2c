package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationsForTier(t *testing.T) {
	t.Run("high tier gets three urgent actions", func(t *testing.T) {
		recs := RecommendationsForTier(TierHigh)
		require.Len(t, recs, 3)
		assert.Contains(t, recs[0], "CRITICAL ACTION REQUIRED")
	})

	t.Run("moderate tier gets three actions", func(t *testing.T) {
		assert.Len(t, RecommendationsForTier(TierModerate), 3)
	})

	t.Run("low tier gets one conservation action", func(t *testing.T) {
		recs := RecommendationsForTier(TierLow)
		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "CONSERVATION")
	})

	t.Run("unknown tier gets an empty non-nil list", func(t *testing.T) {
		recs := RecommendationsForTier(TierUnknown)
		require.NotNil(t, recs)
		assert.Empty(t, recs)
	})
}

func TestPlanForDistribution(t *testing.T) {
	dist := func(low, moderate, high float64) Distribution {
		return Distribution{
			PercentLow:      low,
			PercentModerate: moderate,
			PercentHigh:     high,
			SeverityIndex:   (0.5*moderate + high) / 100,
		}
	}

	tests := []struct {
		name         string
		dist         Distribution
		wantZone     string
		wantPriority string
	}{
		{"high share above forty is severe", dist(45, 10, 45), ZoneSevereHeat, PriorityCritical},
		{"combined share above sixty needs mitigation", dist(35, 45, 20), ZoneMitigation, PriorityHigh},
		{"low share above seventy is conservation", dist(85, 10, 5), ZoneConservation, PriorityModerate},
		{"no threshold crossed is mixed", dist(50, 25, 25), ZoneMixed, PriorityModerate},
		{"exactly forty percent high is not severe", dist(50, 10, 40), ZoneMixed, PriorityModerate},
		{"exactly sixty percent combined is not mitigation", dist(40, 30, 30), ZoneMixed, PriorityModerate},
		{"exactly seventy percent low is not conservation", dist(70, 15, 15), ZoneMixed, PriorityModerate},
		{"severe wins over mitigation when both apply", dist(10, 40, 50), ZoneSevereHeat, PriorityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanForDistribution(tt.dist, 2.5)
			assert.Equal(t, tt.wantZone, plan.ZoneType)
			assert.Equal(t, tt.wantPriority, plan.Priority)
			assert.NotEmpty(t, plan.Title)
			assert.NotEmpty(t, plan.Explanation)
			assert.Len(t, plan.KeyActions, 5)
		})
	}

	t.Run("explanation carries the projected area", func(t *testing.T) {
		plan := PlanForDistribution(dist(45, 10, 45), 3.14)
		assert.True(t, strings.Contains(plan.Explanation, "3.14"))
	})
}
