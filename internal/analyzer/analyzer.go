// Package analyzer reads and inspects each discovered file in
// parallel, producing the derived fields (binary flag, entropy, token
// estimate, imports) the later pipeline stages rank and transform on.
package analyzer

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/kj114022/abyss/internal/model"
	"github.com/kj114022/abyss/internal/walker"
	"github.com/kj114022/abyss/pkg/textutil"
)

// Workers returns the default worker-pool size for the Analyzer stage:
// one goroutine per logical CPU, which keeps I/O and parsing
// overlapped without unbounded fan-out on large trees.
func Workers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}

	return n
}

// Analyze reads and inspects every file in found concurrently across
// workers goroutines, returning one model.File per input in the same
// order. Per-file read errors are dropped silently into onSkip (which
// may be nil); the Analyzer never fails the run for a single bad file.
func Analyze(ctx context.Context, found []walker.Found, workers int, onSkip func(path string, err error)) []model.File {
	if workers < 1 {
		workers = 1
	}

	results := make([]*model.File, len(found))

	jobs := make(chan int)

	var wg sync.WaitGroup

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

				f, err := analyzeOne(found[idx])
				if err != nil {
					if onSkip != nil {
						onSkip(found[idx].Path, err)
					}

					continue
				}

				results[idx] = f
			}
		}()
	}

	for idx := range found {
		jobs <- idx
	}

	close(jobs)
	wg.Wait()

	out := make([]model.File, 0, len(found))

	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}

	return out
}

// analyzeOne performs the per-file analysis described in the Analyzer
// component design: binary sniff, UTF-8 decode, entropy, token
// estimate, import extraction.
func analyzeOne(f walker.Found) (*model.File, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}

	rec := &model.File{
		Path:          f.Path,
		RepoRoot:      f.RepoRoot,
		Language:      languageOf(f.Path),
		Size:          info.Size(),
		ModifiedEpoch: info.ModTime().Unix(),
	}

	if textutil.IsBinary(data) {
		rec.Binary = true

		return rec, nil
	}

	content := string(data)

	rec.Content = content
	rec.Entropy = shannonEntropy(data)
	rec.Tokens = estimateTokens(content)
	rec.Imports = extractImports(data, rec.Language)

	return rec, nil
}
