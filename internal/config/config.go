package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel   string           `json:"log_level" yaml:"log_level"`
	LogFormat  string           `json:"log_format" yaml:"log_format"`
	Input      InputConfig      `json:"input" yaml:"input"`
	Evaluation EvaluationConfig `json:"evaluation" yaml:"evaluation"`
	Whiten     WhitenConfig     `json:"whiten" yaml:"whiten"`
	Output     OutputConfig     `json:"output" yaml:"output"`
	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	API        APIConfig        `json:"api" yaml:"api"`
	Results    ResultsConfig    `json:"results" yaml:"results"`
}

type InputConfig struct {
	InjectionFile        string      `json:"injection_file" yaml:"injection_file"`
	ForegroundEventFiles []string    `json:"foreground_event_files" yaml:"foreground_event_files"`
	BackgroundEventFiles []string    `json:"background_event_files" yaml:"background_event_files"`
	ForegroundDataFiles  []string    `json:"foreground_data_files" yaml:"foreground_data_files"`
	Kafka                KafkaConfig `json:"kafka" yaml:"kafka"`
}

type KafkaConfig struct {
	Enabled         bool          `json:"enabled" yaml:"enabled"`
	Brokers         []string      `json:"brokers" yaml:"brokers"`
	ForegroundTopic string        `json:"foreground_topic" yaml:"foreground_topic"`
	BackgroundTopic string        `json:"background_topic" yaml:"background_topic"`
	GroupID         string        `json:"group_id" yaml:"group_id"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
}

type EvaluationConfig struct {
	PaddingStart float64 `json:"padding_start" yaml:"padding_start"`
	PaddingEnd   float64 `json:"padding_end" yaml:"padding_end"`
}

type WhitenConfig struct {
	SegmentDuration    float64 `json:"segment_duration" yaml:"segment_duration"`
	MaxFilterDuration  float64 `json:"max_filter_duration" yaml:"max_filter_duration"`
	LowFrequencyCutoff float64 `json:"low_frequency_cutoff" yaml:"low_frequency_cutoff"`
	Workers            int     `json:"workers" yaml:"workers"`
}

type OutputConfig struct {
	File  string `json:"file" yaml:"file"`
	Force bool   `json:"force" yaml:"force"`
}

type StorageConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Driver  string `json:"driver" yaml:"driver"`
	DSN     string `json:"dsn" yaml:"dsn"`
}

type APIConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"`
}

type ResultsConfig struct {
	StoreLimit int `json:"store_limit" yaml:"store_limit"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Input: InputConfig{
			Kafka: KafkaConfig{Enabled: false, IdleTimeout: 5 * time.Second},
		},
		Evaluation: EvaluationConfig{
			PaddingStart: 30,
			PaddingEnd:   30,
		},
		Whiten: WhitenConfig{
			SegmentDuration:   0.5,
			MaxFilterDuration: 0.25,
			Workers:           4,
		},
		Output:  OutputConfig{File: "results.json"},
		Storage: StorageConfig{Enabled: false, Driver: "sqlite", DSN: "file:mdceval.db?_pragma=busy_timeout(5000)"},
		API:     APIConfig{Enabled: false, Addr: ":8080"},
		Results: ResultsConfig{StoreLimit: 100},
	}
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()

	trimmed := strings.TrimSpace(string(content))
	if len(trimmed) == 0 {
		return nil, errors.New("config file is empty")
	}
	var decodeErr error
	if looksLikeJSON(trimmed) {
		decodeErr = json.Unmarshal([]byte(trimmed), cfg)
	} else {
		decodeErr = yaml.Unmarshal([]byte(trimmed), cfg)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if path == "" || cfg == nil {
		return errors.New("config path or config is empty")
	}
	var data []byte
	var err error
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func looksLikeJSON(s string) bool {
	for _, ch := range s {
		if ch == '{' || ch == '[' {
			return true
		}
		if ch > ' ' {
			return false
		}
	}
	return false
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.Input.Kafka.IdleTimeout <= 0 {
		cfg.Input.Kafka.IdleTimeout = 5 * time.Second
	}
	if cfg.Whiten.SegmentDuration <= 0 {
		cfg.Whiten.SegmentDuration = 0.5
	}
	if cfg.Whiten.MaxFilterDuration <= 0 {
		cfg.Whiten.MaxFilterDuration = 0.25
	}
	if cfg.Whiten.Workers <= 0 {
		cfg.Whiten.Workers = 4
	}
	if cfg.Output.File == "" {
		cfg.Output.File = "results.json"
	}
	if cfg.Results.StoreLimit <= 0 {
		cfg.Results.StoreLimit = 100
	}
}

func Validate(cfg *Config) error {
	if cfg.Evaluation.PaddingStart < 0 || cfg.Evaluation.PaddingEnd < 0 {
		return errors.New("evaluation padding must not be negative")
	}
	kafka := cfg.Input.Kafka
	if kafka.Enabled {
		if len(kafka.Brokers) == 0 || kafka.ForegroundTopic == "" || kafka.BackgroundTopic == "" || kafka.GroupID == "" {
			return errors.New("input.kafka requires brokers, foreground_topic, background_topic, group_id")
		}
	}
	if cfg.API.Enabled && cfg.API.Addr == "" {
		return errors.New("api.addr required when api.enabled is true")
	}
	if cfg.Storage.Enabled {
		switch strings.ToLower(cfg.Storage.Driver) {
		case "sqlite", "postgres", "postgresql":
		default:
			return fmt.Errorf("storage.driver %q is not supported", cfg.Storage.Driver)
		}
	}
	return nil
}

// ValidateInputs checks the fields an evaluation run depends on; the
// whiten utility shares the config file but none of these inputs.
func ValidateInputs(cfg *Config) error {
	if cfg.Input.InjectionFile == "" {
		return errors.New("input.injection_file is required")
	}
	if len(cfg.Input.ForegroundDataFiles) == 0 {
		return errors.New("input.foreground_data_files is required")
	}
	if !cfg.Input.Kafka.Enabled {
		if len(cfg.Input.ForegroundEventFiles) == 0 {
			return errors.New("input.foreground_event_files required when kafka is disabled")
		}
		if len(cfg.Input.BackgroundEventFiles) == 0 {
			return errors.New("input.background_event_files required when kafka is disabled")
		}
	}
	return nil
}

type Manager struct {
	path    string
	cfg     atomic.Value
	modTime time.Time
}

func NewManager(path string) (*Manager, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	m := &Manager{path: path}
	m.cfg.Store(cfg)
	info, err := os.Stat(path)
	if err == nil {
		m.modTime = info.ModTime()
	}
	return m, nil
}

func (m *Manager) Get() *Config {
	if v := m.cfg.Load(); v != nil {
		return v.(*Config)
	}
	return DefaultConfig()
}

func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) Reload() (*Config, error) {
	cfg, err := Load(m.path)
	if err != nil {
		return nil, err
	}
	m.cfg.Store(cfg)
	if info, err := os.Stat(m.path); err == nil {
		m.modTime = info.ModTime()
	}
	return cfg, nil
}

func (m *Manager) NeedsReload() (bool, error) {
	info, err := os.Stat(m.path)
	if err != nil {
		return false, err
	}
	return info.ModTime().After(m.modTime), nil
}

func (m *Manager) Watch(interval time.Duration, onReload func(*Config), onError func(error), stop <-chan struct{}) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			needs, err := m.NeedsReload()
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			if !needs {
				continue
			}
			cfg, err := m.Reload()
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			if onReload != nil {
				onReload(cfg)
			}
		case <-stop:
			return
		}
	}
}

func ResolvePath(path string) string {
	if path == "" {
		return path
	}
	if filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(cwd, path)
}
