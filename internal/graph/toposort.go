package graph

import "sort"

// Comparator orders two independent (tied) paths within a batch, and
// orders the cycle-residue fallback. Typically score-descending with a
// path tie-break.
type Comparator func(a, b string) int

// TopologicalSort returns the graph's nodes in dependency order (if A
// depends on B, B appears before A) using Kahn's algorithm: at each
// step, every node with no remaining unresolved dependency is popped
// as a batch and sorted by cmp before being appended to the result.
//
// Cyclic import graphs are expected (mutual recursion, module
// re-exports); when no node is ready but unprocessed nodes remain, the
// residue is appended in cmp order rather than asserting acyclicity.
func (g *Graph) TopologicalSort(cmp Comparator) []string {
	// remaining[n] counts how many not-yet-emitted dependencies n has.
	remaining := make(map[string]int, len(g.nodes))
	for n := range g.nodes {
		remaining[n] = 0
	}

	// dependents[d] lists nodes that depend on d, so emitting d can
	// decrement their remaining count.
	dependents := make(map[string][]string)

	for from, targets := range g.edges {
		for to := range targets {
			remaining[from]++
			dependents[to] = append(dependents[to], from)
		}
	}

	var result []string

	pending := make(map[string]struct{}, len(g.nodes))
	for n := range g.nodes {
		pending[n] = struct{}{}
	}

	for len(pending) > 0 {
		var batch []string

		for n := range pending {
			if remaining[n] == 0 {
				batch = append(batch, n)
			}
		}

		if len(batch) == 0 {
			break
		}

		sortBatch(batch, cmp)

		for _, n := range batch {
			delete(pending, n)

			for _, dependent := range dependents[n] {
				remaining[dependent]--
			}
		}

		result = append(result, batch...)
	}

	if len(result) < len(g.nodes) {
		residue := make([]string, 0, len(pending))
		for n := range pending {
			residue = append(residue, n)
		}

		sortBatch(residue, cmp)
		result = append(result, residue...)
	}

	return result
}

func sortBatch(batch []string, cmp Comparator) {
	sort.Slice(batch, func(i, j int) bool {
		return cmp(batch[i], batch[j]) < 0
	})
}
