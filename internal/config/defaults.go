package config

// Default values applied before the config file, environment and CLI
// flags are layered on top.
const (
	DefaultMaxFileSize      = 1 << 20 // 1 MiB
	DefaultMaxDepth         = 0       // 0 means unlimited
	DefaultCompressionLevel = "none"
	DefaultRedact           = false
	DefaultMaxTokens        = 0 // 0 means unconstrained
	DefaultSplitTokens      = 0 // 0 means never rotate
	DefaultOutputFormat     = "xml"
	DefaultGraph            = false
	DefaultDiff             = ""
	DefaultBundle           = false
)

// Model token-budget presets selected through the --preset flag
// (128k, 200k or 1m).
const (
	PresetTokens128K = 128_000
	PresetTokens200K = 200_000
	PresetTokens1M   = 1_000_000
)

// defaultIgnorePatterns are excluded before user ignore_patterns and
// .abyssignore are layered on.
var defaultIgnorePatterns = []string{
	".git/**",
	".hg/**",
	".svn/**",
	"node_modules/**",
	"vendor/**",
	"target/**",
	"dist/**",
	"build/**",
	"*.lock",
	"go.sum",
	"package-lock.json",
	"yarn.lock",
	"Cargo.lock",
	"*.min.js",
	"*.map",
}

// DefaultIgnorePatterns returns a copy of the built-in exclude globs.
func DefaultIgnorePatterns() []string {
	out := make([]string, len(defaultIgnorePatterns))
	copy(out, defaultIgnorePatterns)

	return out
}
