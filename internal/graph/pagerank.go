package graph

const (
	dampingFactor = 0.85
	iterations    = 20
)

// PageRank computes each node's relative importance, returning a map
// from path to a score that sums to approximately 1.0 across the
// graph once sink mass has been redistributed.
//
// A fixed 20 iterations with no convergence check is used rather than
// an epsilon-tolerance stopping rule: it matches the original
// implementation exactly and keeps results deterministic and
// reproducible across runs and test fixtures on the file-scale (sub
// 10^4 nodes) this tool targets.
func (g *Graph) PageRank() map[string]float64 {
	n := len(g.nodes)
	if n == 0 {
		return map[string]float64{}
	}

	initial := 1.0 / float64(n)

	scores := make(map[string]float64, n)
	for node := range g.nodes {
		scores[node] = initial
	}

	outDegree := make(map[string]int, len(g.edges))
	for from, targets := range g.edges {
		outDegree[from] = len(targets)
	}

	incoming := make(map[string][]string)

	for from, targets := range g.edges {
		for to := range targets {
			incoming[to] = append(incoming[to], from)
		}
	}

	for i := 0; i < iterations; i++ {
		scores = pageRankStep(g.nodes, g.edges, outDegree, incoming, scores, n)
	}

	return scores
}

func pageRankStep(
	nodes map[string]struct{},
	edges map[string]map[string]struct{},
	outDegree map[string]int,
	incoming map[string][]string,
	scores map[string]float64,
	n int,
) map[string]float64 {
	sinkRank := 0.0

	for node := range nodes {
		targets := edges[node]
		if len(targets) == 0 {
			sinkRank += scores[node]
		}
	}

	sinkContribution := sinkRank / float64(n)

	newScores := make(map[string]float64, n)

	for node := range nodes {
		incomingSum := 0.0

		for _, voter := range incoming[node] {
			degree := outDegree[voter]
			if degree == 0 {
				degree = 1
			}

			incomingSum += scores[voter] / float64(degree)
		}

		newScores[node] = (1-dampingFactor)/float64(n) + dampingFactor*(incomingSum+sinkContribution)
	}

	return newScores
}
