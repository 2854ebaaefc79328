package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Workspace describes a set of repositories to scan as one logical
// source, declared in a YAML file alongside the repositories it lists.
type Workspace struct {
	Repositories []WorkspaceRepo `yaml:"repositories"`
	Output       string          `yaml:"output,omitempty"`
}

// WorkspaceRepo is one entry in a workspace descriptor's repository
// list. Path is resolved relative to the descriptor's own directory
// when not absolute.
type WorkspaceRepo struct {
	Path   string  `yaml:"path"`
	Name   string  `yaml:"name,omitempty"`
	Weight float64 `yaml:"weight,omitempty"`
}

// LooksLikeWorkspace reports whether path names a file (not a
// directory) that parses as a workspace descriptor, used by the
// walker to decide between single-repo and multi-repo mode.
func LooksLikeWorkspace(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	_, loadErr := LoadWorkspace(path)

	return loadErr == nil
}

// LoadWorkspace reads and parses a workspace descriptor, resolving
// every repository path relative to the descriptor's directory.
func LoadWorkspace(path string) (*Workspace, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("read workspace descriptor: %w", readErr)
	}

	var ws Workspace

	if unmarshalErr := yaml.Unmarshal(data, &ws); unmarshalErr != nil {
		return nil, fmt.Errorf("parse workspace descriptor: %w", unmarshalErr)
	}

	if len(ws.Repositories) == 0 {
		return nil, fmt.Errorf("workspace descriptor %s: repositories list is empty", path)
	}

	base := filepath.Dir(path)

	for i, repo := range ws.Repositories {
		if repo.Path == "" {
			return nil, fmt.Errorf("workspace descriptor %s: repository %d has no path", path, i)
		}

		if !filepath.IsAbs(repo.Path) {
			ws.Repositories[i].Path = filepath.Join(base, repo.Path)
		}
	}

	return &ws, nil
}
