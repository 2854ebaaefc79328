package transformer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens_NonEmptyContent(t *testing.T) {
	t.Parallel()

	n, ok := CountTokens("package main\n\nfunc main() {}\n")
	require.True(t, ok)
	assert.Positive(t, n)
}

func TestCountTokens_EmptyContentIsZero(t *testing.T) {
	t.Parallel()

	n, ok := CountTokens("")
	require.True(t, ok)
	assert.Equal(t, 0, n)
}
