package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
)

// profileFile is the optional per-user config at
// ~/.config/wanderlust/config.yaml. Environment variables win over it.
type profileFile struct {
	BaseURL string `yaml:"base_url"`
}

func applyProfileOverrides(cfg *api.Config, log *slog.Logger) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return
	}
	path := filepath.Join(dir, "wanderlust", "config.yaml")

	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var pf profileFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		log.Warn("ignoring malformed profile file", "path", path, "error", err)
		return
	}

	if pf.BaseURL != "" && os.Getenv("WANDERLUST_API_URL") == "" {
		cfg.BaseURL = pf.BaseURL
	}
}
