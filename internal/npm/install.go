// Package npm runs dependency installation for the managed Node checkouts.
package npm

import (
	"os"
	"path/filepath"

	"github.com/dashboard-system/dashboard-root/internal/config"
	"github.com/dashboard-system/dashboard-root/internal/logging"
	"github.com/dashboard-system/dashboard-root/internal/tools"
)

const manifestFile = "package.json"

// Installer installs packages for each repository carrying a manifest.
type Installer struct {
	root   string
	runner tools.CommandRunner
}

func NewInstaller(root string) Installer {
	return NewInstallerWithRunner(root, tools.ExecRunner{})
}

func NewInstallerWithRunner(root string, runner tools.CommandRunner) Installer {
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	return Installer{root: filepath.Clean(root), runner: runner}
}

// InstallAll runs `npm install` in every managed checkout, the nested UI
// checkout included, that has a package manifest on disk. Each install is
// independent and best-effort: a failure is logged and the loop moves on.
// There is no contract beyond "attempted all"; nothing is reported back.
func (i Installer) InstallAll(repos []config.Repository) {
	logger := logging.New("npm")
	for _, repo := range repos {
		dir := filepath.Join(i.root, repo.Path)
		if _, err := os.Stat(filepath.Join(dir, manifestFile)); err != nil {
			logger.Debug().Str("repo", repo.Name).Msg("no manifest, install skipped")
			continue
		}
		logger.Info().Str("repo", repo.Name).Msg("installing dependencies")
		_, stderr, exitCode, err := i.runner.Run(dir, "npm", "install")
		if err != nil {
			logger.Warn().
				Str("repo", repo.Name).
				Int32("exit", exitCode).
				Str("stderr", string(stderr)).
				Msg("npm install failed, continuing")
			continue
		}
		logger.Info().Str("repo", repo.Name).Msg("dependencies installed")
	}
}
