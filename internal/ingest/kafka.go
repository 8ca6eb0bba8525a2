package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"mdceval/internal/config"
	"mdceval/internal/model"
)

type kafkaEvent struct {
	Time      float64 `json:"time"`
	Stat      float64 `json:"stat"`
	Tolerance float64 `json:"var"`
}

// DrainEvents consumes candidate-event messages from one topic until no
// message arrives within the configured idle timeout, and returns the
// collected pool. Search codes publish foreground and background events to
// separate topics; callers drain each in turn.
func DrainEvents(ctx context.Context, cfg config.KafkaConfig, topic string, logger *slog.Logger) (model.EventSet, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	out := model.EventSet{}
	for {
		msgCtx, cancel := context.WithTimeout(ctx, cfg.IdleTimeout)
		m, err := reader.ReadMessage(msgCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return model.EventSet{}, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				if logger != nil {
					logger.Info("topic drained", "topic", topic, "events", out.Len())
				}
				return out, nil
			}
			return model.EventSet{}, err
		}
		var ev kafkaEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			if logger != nil {
				logger.Warn("skipping malformed event message", "topic", topic, "err", err)
			}
			continue
		}
		out.Time = append(out.Time, ev.Time)
		out.Stat = append(out.Stat, ev.Stat)
		out.Tolerance = append(out.Tolerance, ev.Tolerance)
	}
}
