package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kj114022/abyss/internal/graph"
	"github.com/kj114022/abyss/internal/model"
	"github.com/kj114022/abyss/internal/selector"
)

func TestSelect_UnconstrainedAdmitsEveryoneInTopoOrder(t *testing.T) {
	t.Parallel()

	files := []model.File{
		{Path: "app.go", Tokens: 10},
		{Path: "util.go", Tokens: 10},
	}
	scores := map[string]model.Score{
		"app.go":  {Heuristic: 600},
		"util.go": {Heuristic: 400},
	}

	g := graph.New()
	g.AddEdge("app.go", "util.go")

	result := selector.Select(files, scores, g, 0)

	assert.Empty(t, result.Dropped)
	assert.Len(t, result.Admitted, 2)
	assert.Equal(t, "util.go", result.Admitted[0].Path)
	assert.Equal(t, "app.go", result.Admitted[1].Path)
}

func TestSelect_BudgetDropsLowestScoringFiles(t *testing.T) {
	t.Parallel()

	files := []model.File{
		{Path: "readme.md", Tokens: 50},
		{Path: "main.go", Tokens: 50},
		{Path: "tests/spec.go", Tokens: 50},
	}
	scores := map[string]model.Score{
		"readme.md":     {Heuristic: 1000},
		"main.go":       {Heuristic: 700},
		"tests/spec.go": {Heuristic: 100},
	}

	g := graph.New()
	g.AddNode("readme.md")
	g.AddNode("main.go")
	g.AddNode("tests/spec.go")

	result := selector.Select(files, scores, g, 100)

	assert.Len(t, result.Admitted, 2)
	assert.Equal(t, []string{"tests/spec.go"}, result.Dropped)
}

func TestSelect_EmissionOrderIsTopologicalNotScoreOrder(t *testing.T) {
	t.Parallel()

	files := []model.File{
		{Path: "app.go", Tokens: 10},
		{Path: "util.go", Tokens: 10},
	}
	scores := map[string]model.Score{
		"app.go":  {Heuristic: 1000},
		"util.go": {Heuristic: 100},
	}

	g := graph.New()
	g.AddEdge("app.go", "util.go")

	result := selector.Select(files, scores, g, 1000)

	require := assert.New(t)
	require.Len(result.Admitted, 2)
	require.Equal("util.go", result.Admitted[0].Path)
	require.Equal("app.go", result.Admitted[1].Path)
}

func TestSelect_NeverSplitsBudgetAcrossPartialFile(t *testing.T) {
	t.Parallel()

	files := []model.File{
		{Path: "big.go", Tokens: 90},
		{Path: "small.go", Tokens: 20},
	}
	scores := map[string]model.Score{
		"big.go":   {Heuristic: 700},
		"small.go": {Heuristic: 600},
	}

	g := graph.New()
	g.AddNode("big.go")
	g.AddNode("small.go")

	result := selector.Select(files, scores, g, 100)

	assert.Len(t, result.Admitted, 1)
	assert.Equal(t, "big.go", result.Admitted[0].Path)
	assert.Equal(t, []string{"small.go"}, result.Dropped)
}
