package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kj114022/abyss/internal/model"
)

// Record is one transformed file ready for emission: its selection
// index (for reordering out-of-order completions), repo-relative
// identity, final content, optional summary, and token count (for
// rotation accounting).
type Record struct {
	Index   int
	Path    string
	Content string
	Summary string
	Tokens  int
}

// Options configures a Writer run.
type Options struct {
	Format      model.OutputFormat
	OutputPath  string
	SplitTokens int
	Root        string
	Header      Context
}

// Writer drives one output artifact (and its rotated parts) to disk:
// a directory structure listing, then one WriteFile call per Record in
// strict index order, then a footer. It owns the reorder buffer that
// lets Records complete out of order across the Transformer's worker
// pool while still emitting in the order the Selector chose.
type Writer struct {
	opts Options

	file         *os.File
	formatter    Formatter
	part         int
	partTokens   int
	createdFiles []string

	buffer    map[int]Record
	nextIndex int
}

// Open creates the first output part and writes its header.
func Open(opts Options) (*Writer, error) {
	f, err := os.Create(opts.OutputPath) //nolint:gosec // output path is operator-supplied, not attacker-controlled
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	formatter := New(opts.Format)

	if err := formatter.WriteHeader(f, opts.Header); err != nil {
		f.Close()

		return nil, fmt.Errorf("write header: %w", err)
	}

	return &Writer{
		opts:         opts,
		file:         f,
		formatter:    formatter,
		createdFiles: []string{opts.OutputPath},
	}, nil
}

// WriteDirectoryStructure renders the admitted path listing ahead of
// any file content.
func (w *Writer) WriteDirectoryStructure(paths []string) error {
	return w.formatter.WriteDirectoryStructure(w.file, paths, w.opts.Root)
}

// Accept buffers rec and flushes every record the reorder buffer can
// now emit in index order. Transformer workers may call this with
// records completing in any order; output is always written in the
// order the Selector chose.
func (w *Writer) Accept(rec Record) error {
	if w.buffer == nil {
		w.buffer = make(map[int]Record)
	}

	w.buffer[rec.Index] = rec

	for {
		next, ok := w.buffer[w.nextIndex]
		if !ok {
			return nil
		}

		if err := w.emit(next); err != nil {
			return err
		}

		delete(w.buffer, w.nextIndex)

		w.nextIndex++
	}
}

// emit rotates the part if necessary, then writes one file.
func (w *Writer) emit(rec Record) error {
	if err := w.checkRotate(rec.Tokens); err != nil {
		return err
	}

	if err := w.formatter.WriteFile(w.file, rec.Path, rec.Content, rec.Summary, w.opts.Root); err != nil {
		return err
	}

	w.partTokens += rec.Tokens

	return nil
}

// checkRotate closes the current part and opens the next one if
// split_tokens is set, the part is non-empty, and admitting nextTokens
// more would exceed the limit.
func (w *Writer) checkRotate(nextTokens int) error {
	if w.opts.SplitTokens <= 0 {
		return nil
	}

	if w.partTokens == 0 || w.partTokens+nextTokens <= w.opts.SplitTokens {
		return nil
	}

	if err := w.formatter.WriteFooter(w.file, nil); err != nil {
		return err
	}

	if err := w.file.Close(); err != nil {
		return err
	}

	w.part++

	partPath := rotatedPath(w.opts.OutputPath, w.part)

	f, err := os.Create(partPath) //nolint:gosec
	if err != nil {
		return fmt.Errorf("create rotated part: %w", err)
	}

	w.formatter = New(w.opts.Format)

	if err := w.formatter.WriteHeader(f, Context{Prompt: w.opts.Header.Prompt, HasPrompt: w.opts.Header.HasPrompt}); err != nil {
		f.Close()

		return fmt.Errorf("write rotated header: %w", err)
	}

	w.file = f
	w.partTokens = 0
	w.createdFiles = append(w.createdFiles, partPath)

	return nil
}

// Close writes the footer (with dropped files on the final part) and
// closes the underlying file.
func (w *Writer) Close(dropped []string) error {
	if err := w.formatter.WriteFooter(w.file, dropped); err != nil {
		return err
	}

	return w.file.Close()
}

// CreatedFiles returns every part path written, in creation order.
func (w *Writer) CreatedFiles() []string {
	return w.createdFiles
}

// rotatedPath computes "<stem>-part-<n+1><ext>" alongside base.
func rotatedPath(base string, part int) string {
	dir := filepath.Dir(base)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(filepath.Base(base), ext)

	return filepath.Join(dir, fmt.Sprintf("%s-part-%d%s", stem, part+1, ext))
}
