package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nbterm/internal/features"
	"nbterm/internal/notebook"

	"github.com/pelletier/go-toml/v2"
)

// Config is the only persisted config file schema.
type Config struct {
	// Gateway is the host channel address: "stdio" or a unix socket path.
	Gateway string `toml:"gateway"`
	// LogPath overrides the default UI log location.
	LogPath string `toml:"log_path"`
	// HistoryPath overrides where the edit-cell input history persists.
	HistoryPath string `toml:"history_path"`
	// ScrollDebounceMS overrides the visibility-scan debounce interval.
	ScrollDebounceMS int `toml:"scroll_debounce_ms"`
	// TestMode suppresses the progress indicator and tokenizer gating.
	TestMode bool `toml:"test_mode"`

	Theme notebook.Theme `toml:"theme"`
	Font  notebook.Font  `toml:"font"`

	// Features holds per-flag enable overrides; unlisted flags keep their
	// stage default.
	Features map[string]bool `toml:"features"`

	Source string `toml:"-"`
}

// FeatureEnabled resolves a feature flag against overrides and defaults.
func (c Config) FeatureEnabled(key string) bool {
	if v, ok := c.Features[key]; ok {
		return v
	}
	return features.DefaultEnabled(key)
}

func Default() Config {
	return Config{
		Gateway:          "stdio",
		ScrollDebounceMS: 100,
		Theme:            notebook.DefaultTheme(),
		Font:             notebook.DefaultFont(),
		Features:         features.Defaults(),
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nbterm", "config.toml")
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv("NBTERM_GATEWAY")); env != "" {
		cfg.Gateway = env
	}
	if env := strings.TrimSpace(os.Getenv("NBTERM_LOG_PATH")); env != "" {
		cfg.LogPath = env
	}
	if env := strings.TrimSpace(os.Getenv("NBTERM_TEST_MODE")); env != "" {
		if v, err := strconv.ParseBool(env); err == nil {
			cfg.TestMode = v
		}
	}
	return cfg
}
