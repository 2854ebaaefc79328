package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShannonEntropy_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, shannonEntropy(nil))
}

func TestShannonEntropy_SingleByteRepeated(t *testing.T) {
	t.Parallel()

	data := []byte("aaaaaaaaaa")

	assert.Equal(t, 0.0, shannonEntropy(data))
}

func TestShannonEntropy_UniformDistributionIsMaximal(t *testing.T) {
	t.Parallel()

	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}

	assert.InDelta(t, 8.0, shannonEntropy(data), 0.0001)
}

func TestShannonEntropy_MixedIsBetweenExtremes(t *testing.T) {
	t.Parallel()

	uniform := make([]byte, 256)
	for i := range uniform {
		uniform[i] = byte(i)
	}

	mixed := shannonEntropy([]byte("hello world, this has some variety!"))

	assert.Greater(t, mixed, 0.0)
	assert.Less(t, mixed, shannonEntropy(uniform))
}
