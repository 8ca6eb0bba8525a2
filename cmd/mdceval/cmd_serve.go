package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mdceval/internal/api"
	"mdceval/internal/config"
	"mdceval/internal/logging"
	"mdceval/internal/results"
	"mdceval/internal/storage"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Evaluate, expose the results over HTTP and re-evaluate on config changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := config.NewManager(config.ResolvePath(serveConfigPath))
		if err != nil {
			return err
		}
		cfg := manager.Get()
		logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store := results.NewStore(cfg.Results.StoreLimit)
		db, err := storage.NewStore(cfg.Storage)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
			if err := db.Init(ctx); err != nil {
				return err
			}
		}

		evaluate := func(c *config.Config) {
			res, err := runEvaluation(ctx, c, logger)
			if err != nil {
				logger.Error("evaluation failed", "err", err)
				return
			}
			run := store.Add(res)
			if db != nil {
				if err := db.SaveRun(ctx, run); err != nil {
					logger.Error("persisting run failed", "err", err)
				}
			}
		}
		evaluate(cfg)

		api.Start(ctx, manager, store, logger, version)

		go manager.Watch(3*time.Second,
			func(c *config.Config) {
				logger.Info("config reloaded, re-evaluating")
				evaluate(c)
			},
			func(err error) {
				logger.Warn("config reload failed", "err", err)
			},
			ctx.Done(),
		)

		<-ctx.Done()
		logger.Info("shutting down")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "mdceval.yaml", "path to the configuration file")
}
