// Package ranker assigns each discovered file an aggregate score
// combining a filename/path heuristic class, git churn, graph
// centrality (PageRank), and content density (entropy).
package ranker

import (
	"path/filepath"
	"strings"

	"github.com/kj114022/abyss/internal/model"
)

// Heuristic score classes, highest first. Higher score sorts earlier.
const (
	scoreDocumentation = 1000
	scoreProjectNotes  = 900
	scoreConfig        = 800
	scoreEntryPoint    = 700
	scoreCoreLogic     = 600
	scoreDefault       = 500
	scoreUtility       = 400
	scoreTest          = 100
)

// depthPenaltyPerLevel is subtracted per path component to prefer
// high-level files over deeply nested ones.
const depthPenaltyPerLevel = 10

// churnBoostScale and churnBoostCap turn a raw commit count into a
// bounded score contribution.
const (
	churnBoostScale = 5
	churnBoostCap   = 200
)

var (
	docFilenames    = map[string]struct{}{"readme.md": {}, "readme.txt": {}}
	notesFilenames  = map[string]struct{}{"architecture.md": {}, "contributing.md": {}}
	configFilenames = map[string]struct{}{
		"cargo.toml": {}, "package.json": {}, "go.mod": {}, "makefile": {}, "dockerfile": {},
	}
	entryFilenames = map[string]struct{}{
		"main.rs": {}, "lib.rs": {}, "index.js": {}, "main.go": {},
	}
)

// Heuristic computes the path-class component of a file's score: a
// filename/directory-keyword lookup followed by a per-depth-level
// penalty. It does not depend on file content or git history, so it
// can run before the Analyzer or Git interface stages complete.
func Heuristic(path string) int {
	filename := strings.ToLower(filepath.Base(path))
	lowerPath := strings.ToLower(filepath.ToSlash(path))

	score := classify(filename, lowerPath)

	depth := len(strings.Split(filepath.ToSlash(path), "/"))
	score -= depth * depthPenaltyPerLevel

	return score
}

func classify(filename, lowerPath string) int {
	switch {
	case has(docFilenames, filename):
		return scoreDocumentation
	case has(notesFilenames, filename):
		return scoreProjectNotes
	case has(configFilenames, filename):
		return scoreConfig
	case has(entryFilenames, filename):
		return scoreEntryPoint
	case containsAny(lowerPath, "core", "app", "model", "schema"):
		return scoreCoreLogic
	case containsAny(lowerPath, "util", "common", "helper"):
		return scoreUtility
	case containsAny(lowerPath, "test", "spec", "bench") ||
		strings.HasSuffix(filename, "_test.go") || strings.HasSuffix(filename, ".test.ts"):
		return scoreTest
	default:
		return scoreDefault
	}
}

func has(set map[string]struct{}, key string) bool {
	_, ok := set[key]

	return ok
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}

// ChurnBoost converts a raw historical commit count into the capped
// score contribution churny files receive.
func ChurnBoost(commits int) int {
	boost := commits * churnBoostScale
	if boost > churnBoostCap {
		return churnBoostCap
	}

	return boost
}

// Score computes the full model.Score for a file, given its git churn
// stat (zero value if the repository has no history for it) and its
// PageRank centrality (zero if the file is not part of the dependency
// graph).
func Score(f model.File, churn model.ChurnStat, pageRank float64) model.Score {
	return model.Score{
		Heuristic: Heuristic(f.Path),
		Churn:     ChurnBoost(churn.Commits),
		PageRank:  pageRank,
		Entropy:   f.Entropy,
		Tokens:    f.Tokens,
	}
}
