package config

import (
	"strconv"
	"strings"

	"nbterm/internal/features"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "gateway":
			cfg.Gateway = val
		case "log_path":
			cfg.LogPath = val
		case "history_path":
			cfg.HistoryPath = val
		case "scroll_debounce_ms":
			if v, err := strconv.Atoi(val); err == nil && v > 0 {
				cfg.ScrollDebounceMS = v
			}
		case "test_mode":
			if v, err := strconv.ParseBool(val); err == nil {
				cfg.TestMode = v
			}
		case "theme.accent":
			cfg.Theme.Accent = val
		case "theme.highlight":
			cfg.Theme.Highlight = val
		default:
			if name, ok := strings.CutPrefix(key, "features."); ok && features.IsKnown(name) {
				// Removed flags stay off no matter what the override says.
				if features.StageFor(name) == features.StageRemoved {
					continue
				}
				if v, err := strconv.ParseBool(val); err == nil {
					if cfg.Features == nil {
						cfg.Features = map[string]bool{}
					}
					cfg.Features[name] = v
				}
			}
		}
	}
	return cfg
}
