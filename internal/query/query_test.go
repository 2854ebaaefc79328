package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kj114022/abyss/internal/model"
	"github.com/kj114022/abyss/internal/query"
)

func TestParse_DropsStopwords(t *testing.T) {
	t.Parallel()

	q := query.Parse("how does the auth flow work")

	assert.True(t, q.Active())
	assert.Contains(t, q.Explain(), "auth")
	assert.NotContains(t, q.Explain(), "does")
}

func TestParse_EmptyPhraseIsInactive(t *testing.T) {
	t.Parallel()

	q := query.Parse("   ")

	assert.False(t, q.Active())
	assert.Equal(t, "(no query)", q.Explain())
}

func TestScore_InactiveQueryScoresZero(t *testing.T) {
	t.Parallel()

	f := model.File{Path: "/repo/auth.go", Content: "package auth"}

	assert.Zero(t, query.Score(f, query.Query{}))
}

func TestScore_FilenameMatchOutweighsContentMatch(t *testing.T) {
	t.Parallel()

	q := query.Parse("auth")

	nameMatch := model.File{Path: "/repo/auth.go", Content: "package main"}
	contentMatch := model.File{Path: "/repo/server.go", Content: "handles auth tokens"}

	assert.Greater(t, query.Score(nameMatch, q), query.Score(contentMatch, q))
}

func TestScore_SynonymExpansionMatches(t *testing.T) {
	t.Parallel()

	q := query.Parse("auth")
	f := model.File{Path: "/repo/session.go", Content: "manages login credential exchange"}

	assert.Positive(t, query.Score(f, q))
}

func TestScore_NoMatchIsZero(t *testing.T) {
	t.Parallel()

	q := query.Parse("graph")
	f := model.File{Path: "/repo/unrelated.go", Content: "nothing relevant here"}

	assert.Zero(t, query.Score(f, q))
}
