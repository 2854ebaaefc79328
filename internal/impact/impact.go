// Package impact computes the --show-impact report: the reverse-
// dependency blast radius of a changed-file set and a coarse risk
// grade derived from how much of the graph that radius touches.
package impact

import (
	"sort"

	"github.com/kj114022/abyss/internal/graph"
)

// Grade is a coarse human-facing risk label for a blast radius.
type Grade string

// Recognized risk grades, lowest to highest.
const (
	GradeLow      Grade = "low"
	GradeMedium   Grade = "medium"
	GradeHigh     Grade = "high"
	GradeCritical Grade = "critical"
)

// thresholds are the fraction-of-graph cutoffs between risk grades.
const (
	mediumThreshold   = 0.10
	highThreshold     = 0.25
	criticalThreshold = 0.50
)

// Report is the result of a blast-radius computation: the changed
// files themselves, every node that transitively depends on one of
// them, and the resulting risk grade.
type Report struct {
	Changed       []string
	BlastRadius   []string
	TotalNodes    int
	AffectedRatio float64
	Grade         Grade
}

// Compute builds the reverse-dependency closure of changed within g:
// every node A such that A (transitively) depends on some node in
// changed, since an edge A->B means "A depends on B" and a change to B
// can therefore affect A. changed itself is included in the result.
func Compute(g *graph.Graph, changed map[string]struct{}) Report {
	reverse := reverseEdges(g)

	visited := make(map[string]struct{}, len(changed))

	var queue []string

	for path := range changed {
		if !g.HasNode(path) {
			continue
		}

		if _, ok := visited[path]; !ok {
			visited[path] = struct{}{}
			queue = append(queue, path)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, dependent := range reverse[cur] {
			if _, ok := visited[dependent]; ok {
				continue
			}

			visited[dependent] = struct{}{}
			queue = append(queue, dependent)
		}
	}

	radius := make([]string, 0, len(visited))
	for path := range visited {
		radius = append(radius, path)
	}

	sort.Strings(radius)

	total := g.NodeCount()

	ratio := 0.0
	if total > 0 {
		ratio = float64(len(radius)) / float64(total)
	}

	changedList := make([]string, 0, len(changed))
	for path := range changed {
		changedList = append(changedList, path)
	}

	sort.Strings(changedList)

	return Report{
		Changed:       changedList,
		BlastRadius:   radius,
		TotalNodes:    total,
		AffectedRatio: ratio,
		Grade:         gradeFor(ratio),
	}
}

// reverseEdges inverts g's A->B ("A depends on B") edges into a
// B->[A...] map: for each node, the set of nodes that depend on it.
func reverseEdges(g *graph.Graph) map[string][]string {
	reverse := make(map[string][]string)

	for _, node := range g.Nodes() {
		for _, dep := range g.Edges(node) {
			reverse[dep] = append(reverse[dep], node)
		}
	}

	return reverse
}

// gradeFor maps an affected-node ratio onto a risk grade.
func gradeFor(ratio float64) Grade {
	switch {
	case ratio >= criticalThreshold:
		return GradeCritical
	case ratio >= highThreshold:
		return GradeHigh
	case ratio >= mediumThreshold:
		return GradeMedium
	default:
		return GradeLow
	}
}
