// Package envfile generates default .env files for repositories that end a
// reconciliation pass without one. User-edited env files are never touched:
// generation runs only when the file is absent, after any backup restore has
// had its chance.
package envfile

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/dashboard-system/dashboard-root/internal/config"
	"github.com/dashboard-system/dashboard-root/internal/logging"
)

// SecretKey is filled with a generated value when a default set leaves it
// empty, so a fresh checkout gets a usable signing secret without shipping
// one in configuration.
const SecretKey = "JWT_SECRET"

// Exists reports whether a repository directory already carries a .env.
func Exists(root string, repo config.Repository) bool {
	_, err := os.Stat(filepath.Join(root, repo.Path, ".env"))
	return err == nil
}

// WriteDefaults creates a .env for every managed repository that has a
// directory on disk, defaults configured, and no .env yet. Best-effort:
// failures are logged and do not stop the loop.
func WriteDefaults(cfg config.Setup) {
	logger := logging.New("envfile")
	for _, repo := range cfg.Flatten() {
		defaults, ok := cfg.EnvDefaults[repo.Name]
		if !ok || len(defaults) == 0 {
			continue
		}
		dir := filepath.Join(cfg.Root, repo.Path)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if Exists(cfg.Root, repo) {
			continue
		}
		if err := write(filepath.Join(dir, ".env"), defaults); err != nil {
			logger.Warn().Str("repo", repo.Name).Err(err).Msg("default env generation failed")
			continue
		}
		logger.Info().Str("repo", repo.Name).Msg("default env generated")
	}
}

func write(path string, defaults map[string]string) error {
	env := make(map[string]string, len(defaults)+1)
	for k, v := range defaults {
		env[k] = v
	}
	if env[SecretKey] == "" {
		secret, err := newSecret()
		if err != nil {
			return err
		}
		env[SecretKey] = secret
	}
	return godotenv.Write(env, path)
}

func newSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
