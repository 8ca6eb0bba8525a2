package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"mdceval/internal/config"
	"mdceval/internal/logging"
	"mdceval/internal/whiten"
)

var (
	whitenConfigPath string
	whitenOutDir     string
)

var whitenCmd = &cobra.Command{
	Use:   "whiten [strain files]",
	Short: "Whiten strain files with a truncated inverse-spectrum filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no strain files given")
		}
		cfg, err := config.Load(config.ResolvePath(whitenConfigPath))
		if err != nil {
			return err
		}
		logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

		opts := whiten.Options{
			SegmentDuration:    cfg.Whiten.SegmentDuration,
			MaxFilterDuration:  cfg.Whiten.MaxFilterDuration,
			LowFrequencyCutoff: cfg.Whiten.LowFrequencyCutoff,
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		logger.Info("whitening", "files", len(args), "workers", cfg.Whiten.Workers)
		return whiten.ProcessFiles(ctx, args, whitenOutDir, opts, cfg.Whiten.Workers, logger)
	},
}

func init() {
	whitenCmd.Flags().StringVarP(&whitenConfigPath, "config", "c", "mdceval.yaml", "path to the configuration file")
	whitenCmd.Flags().StringVarP(&whitenOutDir, "out-dir", "d", ".", "directory for the whitened files")
}
