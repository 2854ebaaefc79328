// Package mermaid renders a DependencyGraph as a Mermaid flowchart
// string for inclusion in a writer header or a bundle's graph.mermaid
// side-channel file. Mermaid's grammar is small and fixed enough that
// no third-party renderer in the pack covers it; this is a plain
// string builder, grounded on the same `internal/graph` node/edge
// shape the writer already consumes.
package mermaid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kj114022/abyss/internal/graph"
)

// MaxNodes is the node-count ceiling above which a graph diagram is
// skipped rather than rendered. Mermaid's renderer (and most terminal
// previewers) become unreadable well before this, so oversize graphs
// degrade gracefully: the caller gets an empty string and omits the
// diagram rather than failing the run.
const MaxNodes = 200

// Render returns a Mermaid flowchart definition for g, with paths
// shown relative to root, or an empty string if g has more than
// MaxNodes nodes. Output is deterministic: nodes and edges are sorted
// before emission.
func Render(g *graph.Graph, root string) string {
	nodes := g.Nodes()
	if len(nodes) == 0 || len(nodes) > MaxNodes {
		return ""
	}

	sort.Strings(nodes)

	ids := make(map[string]string, len(nodes))

	var b strings.Builder

	b.WriteString("flowchart TD\n")

	for i, n := range nodes {
		id := fmt.Sprintf("n%d", i)
		ids[n] = id
		fmt.Fprintf(&b, "    %s[%q]\n", id, relative(n, root))
	}

	type edge struct{ from, to string }

	var edges []edge

	for _, n := range nodes {
		for _, dep := range g.Edges(n) {
			if _, ok := ids[dep]; !ok {
				continue
			}

			edges = append(edges, edge{n, dep})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}

		return edges[i].to < edges[j].to
	})

	for _, e := range edges {
		fmt.Fprintf(&b, "    %s --> %s\n", ids[e.from], ids[e.to])
	}

	return b.String()
}

// relative strips root as a path prefix, falling back to the full path
// when it isn't a prefix (files merged from a different workspace repo).
func relative(path, root string) string {
	trimmed := strings.TrimPrefix(path, root)
	trimmed = strings.TrimPrefix(trimmed, "/")

	if trimmed == "" {
		return path
	}

	return trimmed
}
