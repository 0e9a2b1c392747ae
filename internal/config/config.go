// Package config defines the managed repository descriptors and runtime
// settings for the setup pipeline.
//
// The descriptor set is fixed at process start. Repository *state* is never
// stored here: completeness is recomputed by the probe on every pass.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Repository describes one managed nested checkout.
type Repository struct {
	// Name is the stable role identifier, also used to key backup artifacts.
	Name string
	// Path is relative to the project root.
	Path string
	// Branch is the tracked remote branch.
	Branch string
	// Markers are filenames whose presence marks a complete checkout.
	Markers []string
	// Child is the doubly-nested checkout owned by this repository, if any.
	Child *Repository
}

// HasChild reports whether completeness must be checked one level deeper.
func (r Repository) HasChild() bool {
	return r.Child != nil
}

// Setup is the resolved configuration for one pipeline run.
type Setup struct {
	Root         string
	ComposeFile  string
	Project      string
	LogFile      string
	SettleDelay  time.Duration
	HealthURLs   []string
	Repositories []Repository
	// EnvDefaults seeds a repository's .env when none exists after
	// reconciliation, keyed by repository name.
	EnvDefaults map[string]map[string]string
}

const (
	DefaultComposeFile = "docker-compose.yml"
	DefaultProject     = "dashboard"
	DefaultLogFile     = "setup.log"
	DefaultBranch      = "main"
	DefaultSettleDelay = 15 * time.Second
)

// Default returns the dashboard project layout: the MQTT broker service, the
// webserver, and the webserver's nested UI checkout.
func Default(root string) Setup {
	return Setup{
		Root:        root,
		ComposeFile: DefaultComposeFile,
		Project:     DefaultProject,
		LogFile:     filepath.Join(root, DefaultLogFile),
		SettleDelay: DefaultSettleDelay,
		HealthURLs: []string{
			"http://localhost:8080/",
			"http://localhost:3000/",
		},
		Repositories: []Repository{
			{
				Name:    "mqtt_server",
				Path:    "mqtt_server",
				Branch:  DefaultBranch,
				Markers: []string{"package.json", "Dockerfile"},
			},
			{
				Name:    "dashboard-webserver",
				Path:    "dashboard-webserver",
				Branch:  DefaultBranch,
				Markers: []string{"package.json", "Dockerfile"},
				Child: &Repository{
					Name:    "dashboard-webserver-ui",
					Path:    filepath.Join("dashboard-webserver", "ui"),
					Branch:  DefaultBranch,
					Markers: []string{"package.json"},
				},
			},
		},
		EnvDefaults: map[string]map[string]string{
			"mqtt_server": {
				"MQTT_PORT": "1883",
				"NODE_ENV":  "production",
			},
			"dashboard-webserver": {
				"PORT":     "8080",
				"NODE_ENV": "production",
			},
		},
	}
}

// Flatten returns the managed repositories in pipeline order, children
// immediately after their parent. Loops over repositories that must include
// the nested UI checkout (sync, install, snapshot) iterate this slice.
func (s Setup) Flatten() []Repository {
	out := make([]Repository, 0, len(s.Repositories)+1)
	for _, repo := range s.Repositories {
		out = append(out, repo)
		if repo.Child != nil {
			out = append(out, *repo.Child)
		}
	}
	return out
}

// Validate rejects descriptor sets the pipeline cannot operate on.
func (s Setup) Validate() error {
	if strings.TrimSpace(s.Root) == "" {
		return fmt.Errorf("setup config missing root")
	}
	if strings.TrimSpace(s.ComposeFile) == "" {
		return fmt.Errorf("setup config missing compose file")
	}
	seen := make(map[string]struct{}, len(s.Repositories))
	for i, repo := range s.Flatten() {
		if strings.TrimSpace(repo.Name) == "" {
			return fmt.Errorf("repository[%d] missing name", i)
		}
		if strings.TrimSpace(repo.Path) == "" {
			return fmt.Errorf("repository %q missing path", repo.Name)
		}
		if len(repo.Markers) == 0 {
			return fmt.Errorf("repository %q missing marker files", repo.Name)
		}
		if _, dup := seen[repo.Name]; dup {
			return fmt.Errorf("repository name %q duplicated", repo.Name)
		}
		seen[repo.Name] = struct{}{}
	}
	return nil
}
