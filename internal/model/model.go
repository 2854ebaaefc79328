// Package model holds the data types shared across every pipeline stage:
// the file record produced by the walker/analyzer, its score, and its
// git churn statistics.
package model

// CompressionLevel selects which transformer pipeline runs over admitted
// file content.
type CompressionLevel int

// Recognized compression levels, ordered from lightest to heaviest.
const (
	CompressionNone CompressionLevel = iota
	CompressionLight
	CompressionStandard
	CompressionAggressive
)

// String renders the level the way it appears in abyss.toml and CLI flags.
func (l CompressionLevel) String() string {
	switch l {
	case CompressionNone:
		return "none"
	case CompressionLight:
		return "light"
	case CompressionStandard:
		return "standard"
	case CompressionAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// ParseCompressionLevel parses the CLI/config string form of a level.
func ParseCompressionLevel(s string) (CompressionLevel, bool) {
	switch s {
	case "", "none":
		return CompressionNone, true
	case "light":
		return CompressionLight, true
	case "standard":
		return CompressionStandard, true
	case "aggressive":
		return CompressionAggressive, true
	default:
		return CompressionNone, false
	}
}

// OutputFormat selects which Writer implementation renders the final
// artifact.
type OutputFormat int

// Recognized output formats.
const (
	FormatXML OutputFormat = iota
	FormatJSON
	FormatMarkdown
	FormatPlain
)

// String renders the format the way it appears in abyss.toml and CLI flags.
func (f OutputFormat) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "markdown"
	case FormatPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// ParseOutputFormat parses the CLI/config string form of a format.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch s {
	case "", "xml":
		return FormatXML, true
	case "json":
		return FormatJSON, true
	case "markdown", "md":
		return FormatMarkdown, true
	case "plain", "txt":
		return FormatPlain, true
	default:
		return FormatXML, false
	}
}

// File is a single discovered, analyzed source file and everything the
// downstream stages need to rank, select, transform and emit it.
type File struct {
	// Path is the absolute path to the file on disk.
	Path string
	// RepoRoot is the absolute path to the repository root this file
	// belongs to. Repositories may be merged through a workspace
	// descriptor, so this is not necessarily the scan root.
	RepoRoot string
	// Language is the detected language tag derived from the file
	// extension ("rs", "py", "go", "js", "ts", ...); empty if unknown.
	Language string
	// Size is the file size in bytes.
	Size int64
	// ModifiedEpoch is the last-modified time as a Unix epoch, 0 if
	// unknown.
	ModifiedEpoch int64
	// Binary marks files whose first 8000 bytes contained a NUL byte. Binary
	// files are dropped from analysis but may still appear in listings.
	Binary bool
	// Entropy is the Shannon entropy of the file's byte distribution,
	// in [0, 8].
	Entropy float64
	// Tokens is the file's estimated (later, accurate) token count.
	Tokens int
	// Imports is the ordered, deduplicated list of raw import strings
	// extracted from the file's syntax tree.
	Imports []string
	// Content is the UTF-8 decoded file content (lossy for invalid
	// bytes). Empty for binary files.
	Content string
}

// Score is the aggregate ranking signal for a File, combining a
// filename/path heuristic class, git churn, graph centrality and content
// density.
type Score struct {
	Heuristic int
	Churn     int
	PageRank  float64
	Entropy   float64
	Tokens    int
}

// pageRankWeight and entropyWeight are the scalar multipliers from the
// aggregate score formula: heuristic + churn + pagerank*1000 + entropy*10.
const (
	pageRankWeight = 1000.0
	entropyWeight  = 10.0
)

// Aggregate combines the score components into the single scalar used
// for sorting. Higher is earlier.
func (s Score) Aggregate() float64 {
	return float64(s.Heuristic) + float64(s.Churn) + s.PageRank*pageRankWeight + s.Entropy*entropyWeight
}

// ChurnStat holds per-path git history derived from walking commit
// parents: how many commits touched the path (capped later by the
// ranker) and the newest commit time that touched it.
type ChurnStat struct {
	Commits       int
	LastModified  int64
	LastAuthor    string
}
