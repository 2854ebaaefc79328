// Package gitstats is the Git interface component: churn statistics
// and a changed-file set relative to a reference, backed by the
// pure-Go go-git library so the module never needs a C toolchain for
// libgit2. Absence of a git repository is never an error; both queries
// simply return empty results.
package gitstats

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/kj114022/abyss/internal/model"
)

// commitLimit caps how many most-recent commits churn walks, matching
// the spec's "up to 1000 most-recent commits" performance bound.
const commitLimit = 1000

// Churn walks up to commitLimit most-recent commits on HEAD, diffing
// each against its first parent, and returns a per-absolute-path map
// of how many commits touched the path and the newest commit that did
// so. A repoRoot that is not a git repository (or has no commits)
// returns an empty map and a nil error.
func Churn(repoRoot string) (map[string]model.ChurnStat, error) {
	stats := make(map[string]model.ChurnStat)

	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return stats, nil //nolint:nilerr // absence of a repo is not a failure
	}

	head, err := repo.Head()
	if err != nil {
		return stats, nil //nolint:nilerr // unborn HEAD, treat as no history
	}

	commitIter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return stats, nil //nolint:nilerr
	}

	count := 0

	walkErr := commitIter.ForEach(func(commit *object.Commit) error {
		if count >= commitLimit {
			return storer.ErrStop
		}

		count++

		tree, treeErr := commit.Tree()
		if treeErr != nil {
			return nil
		}

		var parentTree *object.Tree

		if parent, parentErr := commit.Parent(0); parentErr == nil {
			parentTree, _ = parent.Tree()
		}

		// object.DiffTree treats a nil tree side as empty, so root
		// commits (no parent) report every entry as added.
		changes, diffErr := object.DiffTree(parentTree, tree)
		if diffErr != nil {
			return nil
		}

		commitTime := commit.Author.When.Unix()
		author := commit.Author.Name

		for _, change := range changes {
			name := change.To.Name
			if name == "" {
				name = change.From.Name
			}

			if name == "" {
				continue
			}

			full := filepath.Join(repoRoot, filepath.FromSlash(name))

			entry := stats[full]
			if entry.LastModified == 0 {
				entry.LastModified = commitTime
				entry.LastAuthor = author
			}

			entry.Commits++
			stats[full] = entry
		}

		return nil
	})
	if walkErr != nil && walkErr != storer.ErrStop {
		return stats, nil //nolint:nilerr // best-effort; partial stats still usable
	}

	return stats, nil
}

// DiffFiles resolves HEAD and targetRef and returns the set of
// absolute paths present on the HEAD side of their tree diff
// (additions and modifications; deletions are excluded since they no
// longer exist to scan). Returns an empty set, nil error if repoRoot
// is not a repository or targetRef does not resolve.
func DiffFiles(repoRoot, targetRef string) (map[string]struct{}, error) {
	files := make(map[string]struct{})

	_, headTree, targetTree, ok := resolveTrees(repoRoot, targetRef)
	if !ok {
		return files, nil
	}

	changes, err := object.DiffTree(targetTree, headTree)
	if err != nil {
		return files, nil //nolint:nilerr
	}

	for _, change := range changes {
		if change.To.Name == "" {
			continue
		}

		files[filepath.Join(repoRoot, filepath.FromSlash(change.To.Name))] = struct{}{}
	}

	return files, nil
}

// DiffContext is the richer form of DiffFiles: the changed paths plus
// the one-line summary of every commit between targetRef and HEAD, for
// inclusion in a writer header overview.
type DiffContext struct {
	Files   []string
	Commits []string
}

// Context resolves the same diff as DiffFiles plus the commit
// summaries reachable from HEAD but not from targetRef.
func Context(repoRoot, targetRef string) (*DiffContext, error) {
	repo, headTree, targetTree, ok := resolveTrees(repoRoot, targetRef)
	if !ok {
		return &DiffContext{}, nil
	}

	changes, err := object.DiffTree(targetTree, headTree)
	if err != nil {
		return &DiffContext{}, nil //nolint:nilerr
	}

	ctx := &DiffContext{}

	for _, change := range changes {
		if change.To.Name == "" {
			continue
		}

		ctx.Files = append(ctx.Files, change.To.Name)
	}

	head, err := repo.Head()
	if err != nil {
		return ctx, nil //nolint:nilerr
	}

	targetHash, err := repo.ResolveRevision(plumbing.Revision(targetRef))
	if err != nil {
		return ctx, nil //nolint:nilerr
	}

	commitIter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return ctx, nil //nolint:nilerr
	}

	_ = commitIter.ForEach(func(commit *object.Commit) error {
		if commit.Hash == *targetHash {
			return storer.ErrStop
		}

		summary := strings.TrimSpace(commit.Message)
		if i := strings.IndexByte(summary, '\n'); i >= 0 {
			summary = strings.TrimSpace(summary[:i])
		}

		ctx.Commits = append(ctx.Commits, summary)

		return nil
	})

	return ctx, nil
}

// HeadInfo is the current commit hash and branch name, used for the
// bundle archive's metadata.json provenance fields.
type HeadInfo struct {
	Commit string
	Branch string
}

// Head resolves repoRoot's current HEAD commit and branch name.
// Returns a zero HeadInfo, nil error if repoRoot is not a repository
// or HEAD is unborn.
func Head(repoRoot string) (HeadInfo, error) {
	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return HeadInfo{}, nil //nolint:nilerr // absence of a repo is not a failure
	}

	head, err := repo.Head()
	if err != nil {
		return HeadInfo{}, nil //nolint:nilerr // unborn HEAD, treat as no history
	}

	info := HeadInfo{Commit: head.Hash().String()}

	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	return info, nil
}

// resolveTrees opens repoRoot, resolves HEAD and targetRef, and
// returns their trees. ok is false if any step fails, meaning the
// caller should treat the query as "no repository, no diff".
func resolveTrees(repoRoot, targetRef string) (repo *git.Repository, headTree, targetTree *object.Tree, ok bool) {
	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return nil, nil, nil, false
	}

	head, err := repo.Head()
	if err != nil {
		return nil, nil, nil, false
	}

	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, nil, nil, false
	}

	headTree, err = headCommit.Tree()
	if err != nil {
		return nil, nil, nil, false
	}

	targetHash, err := repo.ResolveRevision(plumbing.Revision(targetRef))
	if err != nil {
		return nil, nil, nil, false
	}

	targetCommit, err := repo.CommitObject(*targetHash)
	if err != nil {
		return nil, nil, nil, false
	}

	targetTree, err = targetCommit.Tree()
	if err != nil {
		return nil, nil, nil, false
	}

	return repo, headTree, targetTree, true
}
