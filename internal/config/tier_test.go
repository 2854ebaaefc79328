package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kj114022/abyss/internal/config"
	"github.com/kj114022/abyss/internal/model"
)

func TestParseTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  config.Tier
		ok    bool
	}{
		{"summary", config.TierSummary, true},
		{"detailed", config.TierDetailed, true},
		{"full", config.TierFull, true},
		{"", config.TierFull, true},
		{"bogus", config.TierFull, false},
	}

	for _, tt := range tests {
		got, ok := config.ParseTier(tt.input)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.ok, ok)
	}
}

func TestTier_CompressionLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.CompressionAggressive, config.TierSummary.CompressionLevel())
	assert.Equal(t, model.CompressionStandard, config.TierDetailed.CompressionLevel())
	assert.Equal(t, model.CompressionNone, config.TierFull.CompressionLevel())
}

func TestTier_BudgetMultiplier(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.1, config.TierSummary.BudgetMultiplier(), 0.0001)
	assert.InDelta(t, 0.3, config.TierDetailed.BudgetMultiplier(), 0.0001)
	assert.InDelta(t, 1.0, config.TierFull.BudgetMultiplier(), 0.0001)
}

func TestTier_Apply_ScalesMaxTokens(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{MaxTokens: 100000}
	config.TierSummary.Apply(cfg)

	assert.Equal(t, "aggressive", cfg.CompressionLevel)
	assert.Equal(t, 10000, cfg.MaxTokens)
}

func TestTier_Apply_LeavesUnconstrainedBudgetAlone(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{MaxTokens: 0}
	config.TierDetailed.Apply(cfg)

	assert.Equal(t, "standard", cfg.CompressionLevel)
	assert.Equal(t, 0, cfg.MaxTokens)
}
