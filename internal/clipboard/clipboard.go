// Package clipboard is the thin boundary around the system clipboard.
// It is an external collaborator per the specification: the core
// pipeline never imports it, only the CLI layer, after a run has
// already produced its output content.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Write copies content to the system clipboard. Failures (headless
// environment, no clipboard utility installed) are returned rather
// than logged, since only the CLI caller knows whether clipboard
// output was requested and how to report the failure.
func Write(content string) error {
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}

	return nil
}
