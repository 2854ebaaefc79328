package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kj114022/abyss/internal/cache"
)

func TestCache_LookupMiss(t *testing.T) {
	t.Parallel()

	c := cache.Load(t.TempDir())

	_, ok := c.Lookup("/repo/main.go", "deadbeef", 100)
	assert.False(t, ok)
}

func TestCache_StoreThenLookupHit(t *testing.T) {
	t.Parallel()

	c := cache.Load(t.TempDir())
	c.Store("/repo/main.go", cache.Entry{Hash: "deadbeef", Tokens: 42, ModifiedEpoch: 100})

	tokens, ok := c.Lookup("/repo/main.go", "deadbeef", 100)
	require.True(t, ok)
	assert.Equal(t, 42, tokens)
}

func TestCache_LookupStaleHashMisses(t *testing.T) {
	t.Parallel()

	c := cache.Load(t.TempDir())
	c.Store("/repo/main.go", cache.Entry{Hash: "deadbeef", Tokens: 42, ModifiedEpoch: 100})

	_, ok := c.Lookup("/repo/main.go", "different", 100)
	assert.False(t, ok)
}

func TestCache_LookupStaleModifiedMisses(t *testing.T) {
	t.Parallel()

	c := cache.Load(t.TempDir())
	c.Store("/repo/main.go", cache.Entry{Hash: "deadbeef", Tokens: 42, ModifiedEpoch: 100})

	_, ok := c.Lookup("/repo/main.go", "deadbeef", 200)
	assert.False(t, ok)
}

func TestCache_SaveAndReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	c := cache.Load(dir)
	c.Store("/repo/main.go", cache.Entry{Hash: "deadbeef", Tokens: 42, ModifiedEpoch: 100})
	c.Save()

	reloaded := cache.Load(dir)
	tokens, ok := reloaded.Lookup("/repo/main.go", "deadbeef", 100)
	require.True(t, ok)
	assert.Equal(t, 42, tokens)

	assert.FileExists(t, filepath.Join(dir, cache.FileName))
}

func TestCache_LoadMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	c := cache.Load(t.TempDir())

	_, ok := c.Lookup("/anything", "x", 1)
	assert.False(t, ok)
}

func TestHash_DeterministicAndConfigSensitive(t *testing.T) {
	t.Parallel()

	h1 := cache.Hash([]byte("package main"), "compression=none")
	h2 := cache.Hash([]byte("package main"), "compression=none")
	h3 := cache.Hash([]byte("package main"), "compression=light")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}
