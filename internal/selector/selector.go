// Package selector decides which analyzed files are emitted and in
// what order: an optional score-prioritized knapsack admission pass
// decoupled from a always-dependency-prioritized emission order.
package selector

import (
	"sort"

	"github.com/kj114022/abyss/internal/graph"
	"github.com/kj114022/abyss/internal/model"
)

// Result is the Selector's output: the files to emit, in emission
// order, plus the paths it dropped for exceeding the token budget.
type Result struct {
	Admitted []model.File
	Dropped  []string
}

// Select runs the Selector stage. scores must contain one entry per
// file in files, keyed by path. g is the dependency graph built over
// the same file set. maxTokens of 0 means unconstrained: every file is
// admitted and emission order is purely topological.
func Select(files []model.File, scores map[string]model.Score, g *graph.Graph, maxTokens int) Result {
	byPath := make(map[string]model.File, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	admitted := admit(files, scores, maxTokens)

	cmp := scoreComparator(scores)
	order := g.TopologicalSort(cmp)

	result := Result{}

	for _, path := range order {
		if _, ok := admitted[path]; !ok {
			continue
		}

		if f, ok := byPath[path]; ok {
			result.Admitted = append(result.Admitted, f)
		}
	}

	if maxTokens > 0 {
		for _, f := range files {
			if _, ok := admitted[f.Path]; !ok {
				result.Dropped = append(result.Dropped, f.Path)
			}
		}

		sort.Strings(result.Dropped)
	}

	return result
}

// admit returns the set of admitted paths. With no budget, every file
// is admitted. With a budget, candidates are sorted by score
// descending and greedily admitted while the running token total stays
// at or under maxTokens.
func admit(files []model.File, scores map[string]model.Score, maxTokens int) map[string]struct{} {
	admitted := make(map[string]struct{}, len(files))

	if maxTokens <= 0 {
		for _, f := range files {
			admitted[f.Path] = struct{}{}
		}

		return admitted
	}

	candidates := make([]model.File, len(files))
	copy(candidates, files)

	sort.Slice(candidates, func(i, j int) bool {
		si, sj := scores[candidates[i].Path].Aggregate(), scores[candidates[j].Path].Aggregate()
		if si != sj {
			return si > sj
		}

		return candidates[i].Path < candidates[j].Path
	})

	total := 0

	for _, f := range candidates {
		if total+f.Tokens > maxTokens {
			continue
		}

		total += f.Tokens
		admitted[f.Path] = struct{}{}
	}

	return admitted
}

// scoreComparator builds a graph.Comparator from file scores: higher
// aggregate score first, path as tie-break.
func scoreComparator(scores map[string]model.Score) graph.Comparator {
	return func(a, b string) int {
		sa, sb := scores[a].Aggregate(), scores[b].Aggregate()

		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}
