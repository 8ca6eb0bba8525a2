package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mdceval/internal/config"
	"mdceval/internal/results"
)

type Server struct {
	cfg     *config.Manager
	store   *results.Store
	logger  *slog.Logger
	version string
}

type statusResponse struct {
	Status     string `json:"status"`
	Time       string `json:"time"`
	Version    string `json:"version"`
	ConfigPath string `json:"config_path"`
	Runs       int    `json:"runs"`
	ChirpMode  bool   `json:"chirp_mode"`
	Kafka      bool   `json:"kafka"`
	Storage    bool   `json:"storage"`
}

type runSummary struct {
	ID          int     `json:"id"`
	CreatedAt   string  `json:"created_at"`
	Duration    float64 `json:"duration"`
	NInjections int     `json:"n_injections"`
	NFound      int     `json:"n_found"`
	ChirpMode   bool    `json:"chirp_mode"`
}

func Start(ctx context.Context, cfg *config.Manager, store *results.Store, logger *slog.Logger, version string) *http.Server {
	if cfg == nil {
		return nil
	}
	current := cfg.Get().API
	if !current.Enabled {
		if logger != nil {
			logger.Info("api disabled")
		}
		return nil
	}
	if logger != nil {
		logger.Info("api enabled", "addr", current.Addr)
	}
	server := &Server{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		version: version,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/status", server.handleStatus)
	mux.HandleFunc("/runs", server.handleRuns)
	mux.HandleFunc("/runs/", server.handleRun)
	mux.HandleFunc("/admin/clear", server.handleClear)

	httpServer := &http.Server{Addr: current.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctxShutdown)
	}()
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Error("api server error", "err", err)
			}
		}
	}()
	return httpServer
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cfg := s.cfg.Get()
	chirp := false
	if latest, ok := s.store.Latest(); ok {
		chirp = latest.Results.ChirpMode
	}
	resp := statusResponse{
		Status:     "ok",
		Time:       time.Now().UTC().Format(time.RFC3339Nano),
		Version:    s.version,
		ConfigPath: s.cfg.Path(),
		Runs:       len(s.store.List(0)),
		ChirpMode:  chirp,
		Kafka:      cfg.Input.Kafka.Enabled,
		Storage:    cfg.Storage.Enabled,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	runs := s.store.List(limit)
	summaries := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, runSummary{
			ID:          run.ID,
			CreatedAt:   run.CreatedAt.Format(time.RFC3339Nano),
			Duration:    run.Results.Duration,
			NInjections: run.Results.NInjections,
			NFound:      run.Results.NFound,
			ChirpMode:   run.Results.ChirpMode,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  summaries,
		"count": len(summaries),
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/runs/")
	var run results.Run
	var ok bool
	if path == "latest" {
		run, ok = s.store.Latest()
	} else if id, err := strconv.Atoi(path); err == nil {
		run, ok = s.store.Get(id)
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.store != nil {
		s.store.Clear()
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
