package graph

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kj114022/abyss/internal/model"
)

// Build constructs a dependency graph from a set of analyzed files:
// every file becomes a node (so isolated files are still included),
// and each resolvable import becomes an edge back to the file it
// names, provided that file is itself part of the scanned set.
func Build(files []model.File) *Graph {
	g := New()

	byPath := make(map[string]struct{}, len(files))
	for _, f := range files {
		g.AddNode(f.Path)
		byPath[f.Path] = struct{}{}
	}

	for _, f := range files {
		for _, imp := range f.Imports {
			dep, ok := resolveImport(imp, f.Path, f.RepoRoot)
			if !ok {
				continue
			}

			if _, known := byPath[dep]; !known || dep == f.Path {
				continue
			}

			g.AddEdge(f.Path, dep)
		}
	}

	return g
}

// jsResolveExtensions are tried in order when resolving a relative
// JS/TS import that omits its extension.
var jsResolveExtensions = []string{"ts", "tsx", "js", "jsx", "d.ts"}

// resolveImport applies a per-language heuristic to turn a raw import
// string into a candidate absolute path, verifying the candidate
// exists on disk. Unresolvable imports (external packages, stdlib
// modules, syntax this heuristic doesn't cover) return ok=false.
func resolveImport(imp, currentFile, repoRoot string) (string, bool) {
	ext := strings.TrimPrefix(filepath.Ext(currentFile), ".")

	switch ext {
	case "rs":
		return resolveRustImport(imp, currentFile, repoRoot)
	case "js", "ts", "jsx", "tsx":
		return resolveJSImport(imp, currentFile)
	case "py":
		return resolvePythonImport(imp, repoRoot)
	default:
		return "", false
	}
}

func resolveRustImport(imp, currentFile, repoRoot string) (string, bool) {
	currentDir := filepath.Dir(currentFile)

	if strings.HasPrefix(imp, "crate::") {
		suffix := strings.ReplaceAll(strings.TrimPrefix(imp, "crate::"), "::", "/")

		candidate := filepath.Join(repoRoot, "src", suffix+".rs")
		if fileExists(candidate) {
			return candidate, true
		}

		candidateMod := filepath.Join(repoRoot, "src", suffix, "mod.rs")
		if fileExists(candidateMod) {
			return candidateMod, true
		}

		return "", false
	}

	if !strings.Contains(imp, "::") {
		candidate := filepath.Join(currentDir, imp+".rs")
		if fileExists(candidate) {
			return candidate, true
		}

		candidateMod := filepath.Join(currentDir, imp, "mod.rs")
		if fileExists(candidateMod) {
			return candidateMod, true
		}
	}

	return "", false
}

func resolveJSImport(imp, currentFile string) (string, bool) {
	if !strings.HasPrefix(imp, ".") {
		return "", false
	}

	currentDir := filepath.Dir(currentFile)
	base := filepath.Join(currentDir, imp)

	for _, ext := range jsResolveExtensions {
		candidate := base + "." + ext
		if fileExists(candidate) {
			return candidate, true
		}
	}

	for _, ext := range jsResolveExtensions {
		if ext == "d.ts" {
			continue
		}

		candidate := filepath.Join(base, "index."+ext)
		if fileExists(candidate) {
			return candidate, true
		}
	}

	return "", false
}

func resolvePythonImport(imp, repoRoot string) (string, bool) {
	if imp == "" {
		return "", false
	}

	relPath := strings.ReplaceAll(imp, ".", "/")

	candidate := filepath.Join(repoRoot, relPath+".py")
	if fileExists(candidate) {
		return candidate, true
	}

	candidateInit := filepath.Join(repoRoot, relPath, "__init__.py")
	if fileExists(candidateInit) {
		return candidateInit, true
	}

	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
