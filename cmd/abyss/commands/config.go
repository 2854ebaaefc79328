package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kj114022/abyss/internal/config"
)

// NewConfigCommand builds the `abyss config` command: show the
// resolved configuration (defaults, abyss.toml, env vars merged) that
// a plain `abyss scan` would run with, for debugging a confusing
// ignore/include/budget interaction without running a full scan.
func NewConfigCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return usageError("load config: %w", err)
			}

			data, marshalErr := json.MarshalIndent(cfg, "", "  ")
			if marshalErr != nil {
				return ioError(marshalErr)
			}

			fmt.Println(string(data))

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "explicit abyss.toml path")

	return cmd
}
