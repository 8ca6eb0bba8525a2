package main

import (
	"context"
	"fmt"
	"log/slog"

	"mdceval/internal/config"
	"mdceval/internal/eval"
	"mdceval/internal/ingest"
	"mdceval/internal/model"
)

// runEvaluation executes the full pipeline for one configuration: load the
// inputs, filter the injections against the analyzed windows and score the
// event pools.
func runEvaluation(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*model.Results, error) {
	if err := config.ValidateInputs(cfg); err != nil {
		return nil, err
	}
	logger.Info("loading analyzed segments", "files", len(cfg.Input.ForegroundDataFiles))
	segments, err := ingest.LoadSegments(cfg.Input.ForegroundDataFiles)
	if err != nil {
		return nil, err
	}

	logger.Info("loading injections", "file", cfg.Input.InjectionFile)
	injections, err := ingest.LoadInjections(cfg.Input.InjectionFile)
	if err != nil {
		return nil, err
	}

	pad := eval.Padding{Start: cfg.Evaluation.PaddingStart, End: cfg.Evaluation.PaddingEnd}
	duration, mask, err := eval.FilterInjections(segments, injections.Tc, pad)
	if err != nil {
		return nil, err
	}
	contained, err := eval.SelectContained(injections, mask)
	if err != nil {
		return nil, err
	}
	logger.Info("filtered injections",
		"duration", duration,
		"contained", contained.Len(),
		"total", injections.Len(),
	)

	var fg, bg model.EventSet
	if cfg.Input.Kafka.Enabled {
		logger.Info("draining event topics",
			"brokers", cfg.Input.Kafka.Brokers,
			"foreground", cfg.Input.Kafka.ForegroundTopic,
			"background", cfg.Input.Kafka.BackgroundTopic,
		)
		fg, err = ingest.DrainEvents(ctx, cfg.Input.Kafka, cfg.Input.Kafka.ForegroundTopic, logger)
		if err != nil {
			return nil, fmt.Errorf("drain foreground events: %w", err)
		}
		bg, err = ingest.DrainEvents(ctx, cfg.Input.Kafka, cfg.Input.Kafka.BackgroundTopic, logger)
		if err != nil {
			return nil, fmt.Errorf("drain background events: %w", err)
		}
	} else {
		fg, err = ingest.LoadEvents(cfg.Input.ForegroundEventFiles)
		if err != nil {
			return nil, err
		}
		bg, err = ingest.LoadEvents(cfg.Input.BackgroundEventFiles)
		if err != nil {
			return nil, err
		}
	}
	logger.Info("loaded events", "foreground", fg.Len(), "background", bg.Len())

	chirp := injections.ChirpWeighted()
	res, err := eval.Evaluate(fg, bg, contained, duration, chirp)
	if err != nil {
		return nil, err
	}
	logger.Info("evaluation finished",
		"found", res.NFound,
		"injections", res.NInjections,
		"chirp_mode", chirp,
	)
	return res, nil
}
