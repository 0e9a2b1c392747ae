package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dashboard-system/dashboard-root/internal/config"
)

// setupctl bootstrap.toml key mapping to setup runtime settings.
type fileConfig struct {
	ComposeFile string           `toml:"compose_file"`
	Project     string           `toml:"project"`
	LogFile     string           `toml:"log_file"`
	SettleSecs  int              `toml:"settle_seconds"`
	HealthURLs  []string         `toml:"health_urls"`
	Repos       []fileRepoConfig `toml:"repositories"`
}

// fileRepoConfig overrides one repository descriptor by name. Unknown names
// are rejected: the managed set is fixed, only its details are tunable.
type fileRepoConfig struct {
	Name    string   `toml:"name"`
	Branch  string   `toml:"branch"`
	Markers []string `toml:"markers"`
}

// setupctl loader for TOML config with default overlay.
func loadSetupConfig(root, path string) (config.Setup, error) {
	cfg := config.Default(root)
	if path == "" {
		return cfg, cfg.Validate()
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.Setup{}, fmt.Errorf("load setup config: %w", err)
	}

	if meta.IsDefined("compose_file") {
		cfg.ComposeFile = strings.TrimSpace(raw.ComposeFile)
	}
	if meta.IsDefined("project") {
		cfg.Project = strings.TrimSpace(raw.Project)
	}
	if meta.IsDefined("log_file") {
		cfg.LogFile = strings.TrimSpace(raw.LogFile)
	}
	if meta.IsDefined("settle_seconds") {
		cfg.SettleDelay = time.Duration(raw.SettleSecs) * time.Second
	}
	if meta.IsDefined("health_urls") {
		cfg.HealthURLs = raw.HealthURLs
	}
	for _, override := range raw.Repos {
		if err := applyRepoOverride(&cfg, override); err != nil {
			return config.Setup{}, err
		}
	}
	return cfg, cfg.Validate()
}

func applyRepoOverride(cfg *config.Setup, override fileRepoConfig) error {
	name := strings.TrimSpace(override.Name)
	for i := range cfg.Repositories {
		if repo := findRepo(&cfg.Repositories[i], name); repo != nil {
			if strings.TrimSpace(override.Branch) != "" {
				repo.Branch = strings.TrimSpace(override.Branch)
			}
			if len(override.Markers) > 0 {
				repo.Markers = override.Markers
			}
			return nil
		}
	}
	return fmt.Errorf("setup config: unknown repository %q", name)
}

func findRepo(repo *config.Repository, name string) *config.Repository {
	if repo.Name == name {
		return repo
	}
	if repo.Child != nil && repo.Child.Name == name {
		return repo.Child
	}
	return nil
}
