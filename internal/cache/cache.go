// Package cache implements the content-hash keyed memoization layer
// that lets a second run over unchanged files skip the accurate
// tokenizer entirely. It persists to a well-known JSON file at the
// repository root and fronts it with an in-memory LRU so repeated
// lookups of the same path within one run (workspace merges of
// overlapping repositories) never re-hash.
package cache

import (
	"crypto/md5" //nolint:gosec // used as a content fingerprint, not for security
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// FileName is the cache file created at the repository root.
const FileName = ".abyss-cache.json"

// hotLayerSize bounds the in-memory LRU sitting in front of the
// on-disk map; abyss scans rarely revisit more paths than this within
// a single run.
const hotLayerSize = 4096

// Entry is one cache record: the fingerprint of the bytes that were
// hashed (file content plus the run's configuration signature), the
// accurate token count computed for them, and the file's modified
// time at computation. An entry is valid only if both match the
// current file.
type Entry struct {
	Hash          string `json:"hash"`
	Tokens        int    `json:"tokens"`
	ModifiedEpoch int64  `json:"modified_epoch"`
}

// Cache is a concurrent, content-hash keyed map from absolute path to
// Entry, loaded once at scan start and saved once after every worker
// has finished writing to it. I/O failures are logged and otherwise
// ignored: the cache is a pure performance optimization, never a
// correctness dependency.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
	hot     *lru.Cache[string, Entry]
}

// Load reads the on-disk cache file at repoRoot, returning an empty
// cache if it is missing, unreadable, or malformed.
func Load(repoRoot string) *Cache {
	path := filepath.Join(repoRoot, FileName)

	entries := make(map[string]Entry)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("cache: read failed, starting empty", "path", path, "error", err)
		}
	} else if unmarshalErr := json.Unmarshal(data, &entries); unmarshalErr != nil {
		slog.Warn("cache: parse failed, starting empty", "path", path, "error", unmarshalErr)

		entries = make(map[string]Entry)
	}

	hot, _ := lru.New[string, Entry](hotLayerSize)

	return &Cache{path: path, entries: entries, hot: hot}
}

// Hash computes the cache key fingerprint for a file's content and the
// run's configuration signature, as described in §3 of the data model
// ("a 128-bit digest of (file bytes ⊕ configuration signature)").
func Hash(content []byte, configSignature string) string {
	sum := md5.New() //nolint:gosec // fingerprint, not a security boundary
	sum.Write(content)
	sum.Write([]byte(configSignature))

	return hex.EncodeToString(sum.Sum(nil))
}

// Lookup returns the cached token count for path if its hash and
// modified time both match the current file, consulting the hot LRU
// layer before the full on-disk-backed map.
func (c *Cache) Lookup(path, hash string, modifiedEpoch int64) (int, bool) {
	if e, ok := c.hot.Get(path); ok {
		return validate(e, hash, modifiedEpoch)
	}

	c.mu.Lock()
	e, ok := c.entries[path]
	c.mu.Unlock()

	if !ok {
		return 0, false
	}

	c.hot.Add(path, e)

	return validate(e, hash, modifiedEpoch)
}

func validate(e Entry, hash string, modifiedEpoch int64) (int, bool) {
	if e.Hash != hash || e.ModifiedEpoch != modifiedEpoch {
		return 0, false
	}

	return e.Tokens, true
}

// Store records a freshly computed token count for path, updating
// both the hot layer and the persisted map.
func (c *Cache) Store(path string, entry Entry) {
	c.hot.Add(path, entry)

	c.mu.Lock()
	c.entries[path] = entry
	c.mu.Unlock()
}

// Save writes the cache back to its on-disk file. Failures are logged
// and swallowed; a failed save simply means the next run recomputes
// tokens for every file.
func (c *Cache) Save() {
	c.mu.Lock()
	snapshot := make(map[string]Entry, len(c.entries))

	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		slog.Warn("cache: marshal failed, not persisted", "error", err)

		return
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil { //nolint:gosec // cache file is not sensitive
		slog.Warn("cache: write failed, not persisted", "path", c.path, "error", err)
	}
}
