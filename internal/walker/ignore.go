package walker

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kj114022/abyss/internal/config"
)

// pattern is a single compiled gitignore-style rule.
type pattern struct {
	glob    string
	negated bool
	dirOnly bool
}

// matcher holds a layered set of ignore patterns evaluated in order, so
// later layers (user patterns, then .abyssignore) can override earlier
// ones with a negated "!" rule, exactly as git does.
type matcher struct {
	patterns []pattern
}

// newMatcher builds a matcher from the built-in defaults, the
// configured ignore_patterns, and the repository's .abyssignore file,
// in that order.
func newMatcher(repoRoot string, extra []string) *matcher {
	m := &matcher{}

	for _, p := range config.DefaultIgnorePatterns() {
		m.add(p)
	}

	for _, p := range extra {
		m.add(p)
	}

	m.loadFile(filepath.Join(repoRoot, ".abyssignore"))

	return m
}

// add compiles and appends a single gitignore-syntax line.
func (m *matcher) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	p := pattern{}

	if strings.HasPrefix(line, "!") {
		p.negated = true
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	anchored := strings.HasPrefix(line, "/")
	if anchored {
		line = line[1:]
	}

	if !anchored && !strings.Contains(line, "/") {
		line = "**/" + line
	}

	p.glob = line
	m.patterns = append(m.patterns, p)
}

// loadFile reads a gitignore-syntax file line by line; a missing file
// is not an error.
func (m *matcher) loadFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m.add(scanner.Text())
	}
}

// match reports whether relPath (slash-separated, relative to the repo
// root) should be excluded. isDir distinguishes directory-only rules.
func (m *matcher) match(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(strings.TrimPrefix(relPath, "./"))

	ignored := false

	for _, p := range m.patterns {
		if p.dirOnly && !isDir {
			if matchesAncestor(p.glob, relPath) {
				ignored = !p.negated
			}

			continue
		}

		if matchesGlob(p.glob, relPath) {
			ignored = !p.negated
		}
	}

	return ignored
}

// matchesGlob matches a path against a glob both literally and with a
// "/**" suffix, so a directory-shaped pattern also shadows its
// contents.
func matchesGlob(glob, path string) bool {
	if ok, _ := doublestar.Match(glob, path); ok {
		return true
	}

	if !strings.HasSuffix(glob, "/**") {
		if ok, _ := doublestar.Match(glob+"/**", path); ok {
			return true
		}
	}

	return false
}

// matchesAncestor reports whether any parent directory of path matches
// glob, for directory-only ("foo/") rules applied to a file beneath
// that directory.
func matchesAncestor(glob, path string) bool {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		if matchesGlob(glob, strings.Join(parts[:i], "/")) {
			return true
		}
	}

	return false
}
