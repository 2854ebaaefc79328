package bundle_test

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kj114022/abyss/internal/bundle"
	"github.com/kj114022/abyss/internal/model"
)

func sampleInput(root string) bundle.Input {
	return bundle.Input{
		Meta: bundle.Metadata{
			FormatVersion: bundle.FormatVersion,
			FileCount:     1,
			Compression:   "standard",
		},
		Files: []model.File{
			{Path: filepath.Join(root, "main.go"), Content: "package main"},
		},
		Root:    root,
		Graph:   "flowchart TD\n  a --> b",
		Summary: "# Summary",
	}
}

func TestWrite_JSONDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := filepath.Join(dir, "repo")
	out := filepath.Join(dir, "bundle.json")

	require.NoError(t, bundle.Write(out, sampleInput(root)))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc struct {
		Metadata bundle.Metadata `json:"metadata"`
		Files    []struct {
			Path    string `json:"path"`
			Content string `json:"content"`
		} `json:"files"`
		Graph   string `json:"graph"`
		Summary string `json:"summary"`
	}

	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Files, 1)

	require.Equal(t, "main.go", doc.Files[0].Path)
	require.Equal(t, "package main", doc.Files[0].Content)
	require.Equal(t, "flowchart TD\n  a --> b", doc.Graph)
}

func TestWrite_Tarball(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := filepath.Join(dir, "repo")
	out := filepath.Join(dir, "bundle.tar.gz")

	require.NoError(t, bundle.Write(out, sampleInput(root)))

	f, err := os.Open(out)
	require.NoError(t, err)

	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	tr := tar.NewReader(gz)

	names := make(map[string]string)

	for {
		hdr, readErr := tr.Next()
		if readErr == io.EOF {
			break
		}

		require.NoError(t, readErr)

		content, copyErr := io.ReadAll(tr)
		require.NoError(t, copyErr)

		names[hdr.Name] = string(content)
	}

	require.Contains(t, names, "metadata.json")
	require.Contains(t, names, "files/main.go")
	require.Equal(t, "package main", names["files/main.go"])
	require.Contains(t, names, "graph.mermaid")
	require.Contains(t, names, "summary.md")
}
