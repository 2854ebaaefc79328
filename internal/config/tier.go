package config

import "github.com/kj114022/abyss/internal/model"

// Tier is a preset tuple of (compression level, budget multiplier)
// selected with --tier, letting a caller trade completeness for size
// without hand-tuning compression_level and max_tokens separately.
type Tier int

// Recognized tiers, from shallowest to deepest.
const (
	TierSummary Tier = iota
	TierDetailed
	TierFull
)

// ParseTier parses the CLI string form of a tier.
func ParseTier(s string) (Tier, bool) {
	switch s {
	case "summary":
		return TierSummary, true
	case "detailed":
		return TierDetailed, true
	case "", "full":
		return TierFull, true
	default:
		return TierFull, false
	}
}

// String renders the tier the way it appears on the CLI.
func (t Tier) String() string {
	switch t {
	case TierSummary:
		return "summary"
	case TierDetailed:
		return "detailed"
	case TierFull:
		return "full"
	default:
		return "unknown"
	}
}

// CompressionLevel returns the compression level this tier implies.
func (t Tier) CompressionLevel() model.CompressionLevel {
	switch t {
	case TierSummary:
		return model.CompressionAggressive
	case TierDetailed:
		return model.CompressionStandard
	case TierFull:
		return model.CompressionNone
	default:
		return model.CompressionNone
	}
}

// BudgetMultiplier returns the fraction of max_tokens this tier admits.
func (t Tier) BudgetMultiplier() float64 {
	switch t {
	case TierSummary:
		return 0.1
	case TierDetailed:
		return 0.3
	case TierFull:
		return 1.0
	default:
		return 1.0
	}
}

// Apply overlays the tier's compression level onto cfg and scales
// MaxTokens by the tier's budget multiplier, leaving an unset
// MaxTokens (0, unconstrained) untouched.
func (t Tier) Apply(cfg *Config) {
	cfg.CompressionLevel = t.CompressionLevel().String()

	if cfg.MaxTokens > 0 {
		cfg.MaxTokens = int(float64(cfg.MaxTokens) * t.BudgetMultiplier())
	}
}
