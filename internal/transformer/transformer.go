// Package transformer turns each admitted file's raw content into the
// form the writer emits: optionally redacted, prefixed with an
// extracted-concept comment, compressed to the configured level, and
// accurately token-counted (consulting the cache before paying for a
// fresh BPE pass), alongside a short symbol-digest summary.
package transformer

import (
	"context"
	"runtime"
	"sync"

	"github.com/kj114022/abyss/internal/cache"
	"github.com/kj114022/abyss/internal/config"
	"github.com/kj114022/abyss/internal/model"
	"github.com/kj114022/abyss/internal/redact"
)

// Result is one file's transformed content alongside the summary the
// writer attaches to its heading and the selection index used to
// reorder out-of-order completions.
type Result struct {
	Index   int
	File    model.File
	Summary string
}

// Workers returns the default worker-pool size for the Transformer
// stage, matching the Analyzer's one-goroutine-per-core policy.
func Workers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}

	return n
}

// Transform runs the redact/concept/compress/token-count/summarize
// pipeline over every file in files concurrently across workers
// goroutines, returning one Result per input in the same order as
// files once every worker has finished.
func Transform(ctx context.Context, files []model.File, cfg *config.Config, c *cache.Cache, workers int) []Result {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(files))

	jobs := make(chan int)

	var wg sync.WaitGroup

	var redactor *redact.Redactor
	if cfg.Redact {
		redactor = redact.New(nil)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				results[idx] = transformOne(idx, files[idx], cfg, redactor, c)
			}
		}()
	}

	for idx := range files {
		jobs <- idx
	}

	close(jobs)
	wg.Wait()

	return results
}

// transformOne runs the single-file pipeline described in the
// Transformer component design.
func transformOne(idx int, f model.File, cfg *config.Config, redactor *redact.Redactor, c *cache.Cache) Result {
	if f.Binary {
		return Result{Index: idx, File: f}
	}

	content := f.Content

	if redactor != nil {
		content = redactor.Redact(content)
	}

	summary := Summarize(content, f.Language)

	concepts := ExtractConcepts(content, f.Language)

	content = Compress(content, cfg.Level(), f.Language)

	if comment := ConceptComment(concepts, f.Language); comment != "" {
		content = comment + content
	}

	f.Content = content

	if !cfg.NoTokens {
		f.Tokens = countTokensCached(f, content, cfg, c)
	}

	return Result{Index: idx, File: f, Summary: summary}
}

// countTokensCached consults the cache for a previously computed
// accurate token count before running the tokenizer, storing a fresh
// result back for the next run.
func countTokensCached(f model.File, content string, cfg *config.Config, c *cache.Cache) int {
	if c == nil {
		if n, ok := CountTokens(content); ok {
			return n
		}

		return f.Tokens
	}

	signature := cfg.Signature()
	hash := cache.Hash([]byte(content), signature)

	if n, ok := c.Lookup(f.Path, hash, f.ModifiedEpoch); ok {
		return n
	}

	n, ok := CountTokens(content)
	if !ok {
		return f.Tokens
	}

	c.Store(f.Path, cache.Entry{
		Hash:          hash,
		Tokens:        n,
		ModifiedEpoch: f.ModifiedEpoch,
	})

	return n
}
