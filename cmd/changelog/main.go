// Command changelog computes the structural changelog between two snapshot
// directories and stores it under a version label.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qri-io/changelog"
	"github.com/qri-io/changelog/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "changelog",
		Short:        "Structural changelogs between game data snapshots",
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd(), newCheckVersionCmd())
	return root
}

func newCheckVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-version LABEL",
		Short: "Validate a version label, printing its normalized form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := changelog.ParseVersion(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

// newLogger builds a JSON (production) or console (development) logger
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zcfg.Level = level
	return zcfg.Build()
}
