// Package bundle writes the portable bundle archive: a metadata.json
// sidecar, a files/ tree mirroring the admitted paths, and optional
// graph.mermaid / summary.md side-channel files, serialized either as
// one pretty-printed JSON document or a gzipped tarball depending on
// the output extension.
package bundle

import (
	"archive/tar"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/kj114022/abyss/internal/model"
)

// FormatVersion is the bundle container's schema version, bumped
// whenever metadata.json's shape changes incompatibly.
const FormatVersion = 1

// Metadata is the bundle's metadata.json payload.
type Metadata struct {
	FormatVersion int       `json:"format_version"`
	Timestamp     time.Time `json:"timestamp"`
	GitCommit     string    `json:"git_commit,omitempty"`
	GitBranch     string    `json:"git_branch,omitempty"`
	FileCount     int       `json:"file_count"`
	TokenEstimate int       `json:"token_estimate"`
	Compression   string    `json:"compression"`
	Query         string    `json:"query,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// Input is everything Write needs beyond the destination path: the
// admitted, transformed files and the optional side-channel content.
type Input struct {
	Meta    Metadata
	Files   []model.File
	Root    string
	Graph   string
	Summary string
}

// jsonDoc is the single-file serialization of a bundle: metadata plus
// a files array plus the optional side channels, inlined rather than
// split across a files/ tree.
type jsonDoc struct {
	Metadata Metadata      `json:"metadata"`
	Files    []jsonDocFile `json:"files"`
	Graph    string        `json:"graph,omitempty"`
	Summary  string        `json:"summary,omitempty"`
}

type jsonDocFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Write serializes in to outputPath: a gzipped tarball if the path
// ends in .tar.gz or .tgz, otherwise a pretty-printed JSON document.
func Write(outputPath string, in Input) error {
	if strings.HasSuffix(outputPath, ".tar.gz") || strings.HasSuffix(outputPath, ".tgz") {
		return writeTarball(outputPath, in)
	}

	return writeJSON(outputPath, in)
}

func writeJSON(outputPath string, in Input) error {
	doc := jsonDoc{
		Metadata: in.Meta,
		Graph:    in.Graph,
		Summary:  in.Summary,
	}

	for _, f := range in.Files {
		doc.Files = append(doc.Files, jsonDocFile{
			Path:    relativePath(f.Path, in.Root),
			Content: f.Content,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil { //nolint:gosec // output path is operator-supplied
		return fmt.Errorf("write bundle: %w", err)
	}

	return nil
}

func writeTarball(outputPath string, in Input) error {
	f, err := os.Create(outputPath) //nolint:gosec // output path is operator-supplied
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	metaBytes, err := json.MarshalIndent(in.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle metadata: %w", err)
	}

	if err := addTarEntry(tw, "metadata.json", metaBytes); err != nil {
		return err
	}

	for _, file := range in.Files {
		name := path.Join("files", filepathToSlash(relativePath(file.Path, in.Root)))

		if err := addTarEntry(tw, name, []byte(file.Content)); err != nil {
			return err
		}
	}

	if in.Graph != "" {
		if err := addTarEntry(tw, "graph.mermaid", []byte(in.Graph)); err != nil {
			return err
		}
	}

	if in.Summary != "" {
		if err := addTarEntry(tw, "summary.md", []byte(in.Summary)); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close bundle tar: %w", err)
	}

	if err := gz.Close(); err != nil {
		return fmt.Errorf("close bundle gzip: %w", err)
	}

	return nil
}

func addTarEntry(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name: name,
		Mode: 0o644,
		Size: int64(len(content)),
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write bundle entry %s: %w", name, err)
	}

	if _, err := tw.Write(content); err != nil {
		return fmt.Errorf("write bundle entry %s: %w", name, err)
	}

	return nil
}

// relativePath strips root as a path prefix; callers rely on this to
// build the files/ tree with repo-relative names instead of absolute
// host paths.
func relativePath(p, root string) string {
	trimmed := strings.TrimPrefix(p, root)
	trimmed = strings.TrimPrefix(trimmed, string(os.PathSeparator))

	if trimmed == "" {
		return p
	}

	return trimmed
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, string(os.PathSeparator), "/")
}
