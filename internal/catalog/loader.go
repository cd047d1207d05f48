package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"fleetd/pkg/types"
)

// extensionFile is the on-disk shape of a catalog extension.
type extensionFile struct {
	Models []types.ModelSpec `json:"models" yaml:"models" toml:"models"`
}

// LoadFile reads model specs from a yaml/json/toml file. Specs with negative
// resource fields or an empty id are rejected.
func LoadFile(path string) ([]types.ModelSpec, error) {
	base, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(base)
	if err != nil {
		return nil, err
	}
	var ext extensionFile
	switch e := strings.ToLower(filepath.Ext(base)); e {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &ext); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(b, &ext); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &ext); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported catalog extension: %s", e)
	}
	for _, s := range ext.Models {
		if err := validate(s); err != nil {
			return nil, err
		}
	}
	return ext.Models, nil
}

func validate(s types.ModelSpec) error {
	if s.ID == "" {
		return fmt.Errorf("model spec missing id")
	}
	if s.FootprintGB < 0 || s.RequiredRAMGB < 0 || s.RequiredVRAMGB < 0 {
		return fmt.Errorf("model %s: negative resource requirement", s.ID)
	}
	return nil
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
