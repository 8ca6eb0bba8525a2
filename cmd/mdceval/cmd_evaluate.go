package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"mdceval/internal/config"
	"mdceval/internal/ingest"
	"mdceval/internal/logging"
	"mdceval/internal/results"
	"mdceval/internal/storage"
)

var (
	evaluateConfigPath string
	evaluateOutput     string
	evaluateForce      bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run one evaluation and write the result bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.ResolvePath(evaluateConfigPath))
		if err != nil {
			return err
		}
		if evaluateOutput != "" {
			cfg.Output.File = evaluateOutput
		}
		if evaluateForce {
			cfg.Output.Force = true
		}
		logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		res, err := runEvaluation(ctx, cfg, logger)
		if err != nil {
			return err
		}

		if store, err := storage.NewStore(cfg.Storage); err != nil {
			return err
		} else if store != nil {
			defer store.Close()
			if err := store.Init(ctx); err != nil {
				return err
			}
			run := results.Run{CreatedAt: time.Now().UTC(), Results: res}
			if err := store.SaveRun(ctx, run); err != nil {
				return err
			}
			logger.Info("run persisted", "driver", cfg.Storage.Driver)
		}

		logger.Info("writing results", "file", cfg.Output.File)
		return ingest.WriteResults(cfg.Output.File, res, cfg.Output.Force)
	},
}

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateConfigPath, "config", "c", "mdceval.yaml", "path to the configuration file")
	evaluateCmd.Flags().StringVarP(&evaluateOutput, "output", "o", "", "override the output file path")
	evaluateCmd.Flags().BoolVar(&evaluateForce, "force", false, "overwrite an existing output file")
}
