// Package walker discovers candidate files under one or more
// repository roots, honoring layered ignore rules, size/depth cutoffs,
// include patterns, and an optional git diff-set restriction.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"github.com/kj114022/abyss/internal/config"
)

// Found is a single discovered file, not yet read or analyzed.
type Found struct {
	Path     string // absolute
	RepoRoot string // absolute
}

// ErrRootNotFound is returned when the scan root does not exist.
var ErrRootNotFound = errors.New("walker: root does not exist")

// DiffFilter restricts the walk to a set of paths, used when the
// --diff flag is set. Keys are absolute paths.
type DiffFilter map[string]struct{}

// Walk discovers files under root according to cfg. If root names a
// workspace descriptor, every listed repository is walked and the
// results concatenated. The returned slice is sorted lexicographically
// by path.
func Walk(root string, cfg *config.Config, diff DiffFilter) ([]Found, error) {
	if config.LooksLikeWorkspace(root) {
		ws, err := config.LoadWorkspace(root)
		if err != nil {
			return nil, err
		}

		var all []Found

		for _, repo := range ws.Repositories {
			found, err := walkRepo(repo.Path, cfg, diff)
			if err != nil {
				return nil, err
			}

			all = append(all, found...)
		}

		sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })

		return all, nil
	}

	found, err := walkRepo(root, cfg, diff)
	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })

	return found, nil
}

// walkRepo walks a single repository root.
func walkRepo(root string, cfg *config.Config, diff DiffFilter) ([]Found, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	if _, statErr := os.Stat(absRoot); statErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	ignore := newMatcher(absRoot, cfg.IgnorePatterns)

	var (
		mu     sync.Mutex
		result []Found
	)

	walkFn := func(path string, de fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if de != nil && de.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}

		if rel == "." {
			return nil
		}

		if de.IsDir() {
			if ignore.match(rel, true) {
				return fs.SkipDir
			}

			return nil
		}

		if !de.Type().IsRegular() {
			return nil
		}

		if ignore.match(rel, false) {
			return nil
		}

		if cfg.MaxDepth > 0 && depthOf(rel) > cfg.MaxDepth {
			return nil
		}

		if cfg.MaxFileSize > 0 {
			info, infoErr := de.Info()
			if infoErr == nil && info.Size() > cfg.MaxFileSize {
				return nil
			}
		}

		if len(cfg.IncludePatterns) > 0 && !matchesAny(cfg.IncludePatterns, rel) {
			return nil
		}

		if diff != nil {
			if _, ok := diff[path]; !ok {
				return nil
			}
		}

		mu.Lock()
		result = append(result, Found{Path: path, RepoRoot: absRoot})
		mu.Unlock()

		return nil
	}

	walkConf := fastwalk.Config{Follow: false}

	if err := fastwalk.Walk(&walkConf, absRoot, walkFn); err != nil {
		return nil, fmt.Errorf("walk %s: %w", absRoot, err)
	}

	return result, nil
}

// depthOf returns one more than the number of path separators in a
// slash-relative path, so a direct child of the root has depth 1.
func depthOf(rel string) int {
	rel = filepath.ToSlash(rel)

	depth := 1
	for _, r := range rel {
		if r == '/' {
			depth++
		}
	}

	return depth
}

// matchesAny reports whether rel matches at least one include glob.
func matchesAny(globs []string, rel string) bool {
	rel = filepath.ToSlash(rel)

	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}

	return false
}
