package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, estimateTokens(""))
}

func TestEstimateTokens_UsesByteHeuristicForDenseCode(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("x", 400)

	assert.Equal(t, 100, estimateTokens(content))
}

func TestEstimateTokens_UsesWordCountForProse(t *testing.T) {
	t.Parallel()

	words := make([]string, 50)
	for i := range words {
		words[i] = "a"
	}

	content := strings.Join(words, " ")

	assert.Equal(t, 50, estimateTokens(content))
}

func TestCountWhitespaceWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, countWhitespaceWords("one  two\tthree\n"))
	assert.Equal(t, 0, countWhitespaceWords("   \n\t"))
}
