package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Weights mirrors scheduler scoring weights for file-based overrides.
// Zero values mean "unspecified" and keep the built-in default.
type Weights struct {
	ReasoningBonus      int     `json:"reasoning_bonus" yaml:"reasoning_bonus" toml:"reasoning_bonus"`
	CodingBonus         int     `json:"coding_bonus" yaml:"coding_bonus" toml:"coding_bonus"`
	QuickTaskBonus      int     `json:"quick_task_bonus" yaml:"quick_task_bonus" toml:"quick_task_bonus"`
	HeavyTaskPenalty    int     `json:"heavy_task_penalty" yaml:"heavy_task_penalty" toml:"heavy_task_penalty"`
	UsageBonusPerUse    int     `json:"usage_bonus_per_use" yaml:"usage_bonus_per_use" toml:"usage_bonus_per_use"`
	UsageBonusCap       int     `json:"usage_bonus_cap" yaml:"usage_bonus_cap" toml:"usage_bonus_cap"`
	LoadedBonus         int     `json:"loaded_bonus" yaml:"loaded_bonus" toml:"loaded_bonus"`
	SuitablePromptChars int     `json:"suitable_prompt_chars" yaml:"suitable_prompt_chars" toml:"suitable_prompt_chars"`
	QuickPromptChars    int     `json:"quick_prompt_chars" yaml:"quick_prompt_chars" toml:"quick_prompt_chars"`
	QuickFootprintGB    float64 `json:"quick_footprint_gb" yaml:"quick_footprint_gb" toml:"quick_footprint_gb"`
	HeavyFootprintGB    float64 `json:"heavy_footprint_gb" yaml:"heavy_footprint_gb" toml:"heavy_footprint_gb"`
	MaxCPUPercent       float64 `json:"max_cpu_percent" yaml:"max_cpu_percent" toml:"max_cpu_percent"`
}

// Limits mirrors tier-derived thresholds for file-based overrides.
type Limits struct {
	MinFreeRAMGB    float64 `json:"min_free_ram_gb" yaml:"min_free_ram_gb" toml:"min_free_ram_gb"`
	MinFreeVRAMGB   float64 `json:"min_free_vram_gb" yaml:"min_free_vram_gb" toml:"min_free_vram_gb"`
	MaxModelsLoaded int     `json:"max_models_loaded" yaml:"max_models_loaded" toml:"max_models_loaded"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr                 string  `json:"addr" yaml:"addr" toml:"addr"`
	RuntimeURL           string  `json:"runtime_url" yaml:"runtime_url" toml:"runtime_url"`
	LoadTimeoutSec       int     `json:"load_timeout_sec" yaml:"load_timeout_sec" toml:"load_timeout_sec"`
	UnloadTimeoutSec     int     `json:"unload_timeout_sec" yaml:"unload_timeout_sec" toml:"unload_timeout_sec"`
	CatalogPath          string  `json:"catalog_path" yaml:"catalog_path" toml:"catalog_path"`
	WatchCatalog         bool    `json:"watch_catalog" yaml:"watch_catalog" toml:"watch_catalog"`
	HistorySize          int     `json:"history_size" yaml:"history_size" toml:"history_size"`
	IdleSweepMinutes     int     `json:"idle_sweep_minutes" yaml:"idle_sweep_minutes" toml:"idle_sweep_minutes"`
	MaxIdleMinutes       int     `json:"max_idle_minutes" yaml:"max_idle_minutes" toml:"max_idle_minutes"`
	AuditDBPath          string  `json:"audit_db_path" yaml:"audit_db_path" toml:"audit_db_path"`
	HardwareSnapshotPath string  `json:"hardware_snapshot_path" yaml:"hardware_snapshot_path" toml:"hardware_snapshot_path"`
	LogLevel             string  `json:"log_level" yaml:"log_level" toml:"log_level"`
	Weights              Weights `json:"weights" yaml:"weights" toml:"weights"`
	Limits               Limits  `json:"limits" yaml:"limits" toml:"limits"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
