// Package bootstrap sequences the setup pipeline: prerequisite checks,
// submodule reconciliation, revision synchronization, dependency install,
// env defaults, then the container backend and its health probes.
//
// Only a missing prerequisite stops the run. Every other failure degrades:
// the pipeline prefers a partially-updated but runnable deployment over no
// deployment, logs the warning, and keeps going.
package bootstrap

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dashboard-system/dashboard-root/internal/compose"
	"github.com/dashboard-system/dashboard-root/internal/config"
	"github.com/dashboard-system/dashboard-root/internal/envfile"
	"github.com/dashboard-system/dashboard-root/internal/git"
	"github.com/dashboard-system/dashboard-root/internal/health"
	"github.com/dashboard-system/dashboard-root/internal/logging"
	"github.com/dashboard-system/dashboard-root/internal/npm"
	"github.com/dashboard-system/dashboard-root/internal/submodules"
	"github.com/dashboard-system/dashboard-root/internal/tools"
)

// Options control which pipeline stages run.
type Options struct {
	// SkipDocker ends the run after the repository stages.
	SkipDocker bool
}

// Pipeline wires the setup components against one project checkout.
type Pipeline struct {
	cfg        config.Setup
	opts       Options
	git        git.Client
	reconciler *submodules.Reconciler
	syncer     *submodules.Synchronizer
	installer  npm.Installer
	compose    compose.Client
	checker    health.Checker

	mu       sync.Mutex
	cleanups []func()
}

func New(cfg config.Setup, opts Options) *Pipeline {
	gitClient := git.NewClient(cfg.Root)
	return &Pipeline{
		cfg:        cfg,
		opts:       opts,
		git:        gitClient,
		reconciler: submodules.NewReconciler(cfg, gitClient),
		syncer:     submodules.NewSynchronizer(cfg, gitClient),
		installer:  npm.NewInstaller(cfg.Root),
		compose:    compose.NewClient(cfg.Root, cfg.ComposeFile, cfg.Project),
		checker:    health.NewChecker(cfg.HealthURLs, cfg.SettleDelay),
	}
}

// Compose exposes the container backend for the standalone maintenance
// commands (down, restart, logs, status, prune).
func (p *Pipeline) Compose() compose.Client {
	return p.compose
}

// RegisterCleanup adds a callback the interrupt handler runs before exit.
func (p *Pipeline) RegisterCleanup(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleanups = append(p.cleanups, fn)
}

// HandleInterrupt installs the signal handler. Its only guarantee is that
// registered cleanups run, in reverse registration order, before the process
// exits 130. A destructive step already underway is never cancelled.
func (p *Pipeline) HandleInterrupt() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		logger := logging.New("bootstrap")
		logger.Warn().Msg("interrupted, running cleanup")
		p.runCleanups()
		os.Exit(tools.ExitFatal)
	}()
}

func (p *Pipeline) runCleanups() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.cleanups) - 1; i >= 0; i-- {
		p.cleanups[i]()
	}
}

// Run executes the full pipeline and returns the process exit code.
func (p *Pipeline) Run() int {
	logger := logging.New("bootstrap")

	if code := p.checkPrerequisites(); code != tools.ExitOK {
		return code
	}

	state, err := p.reconciler.Reconcile()
	switch state {
	case submodules.ReconcileDegraded:
		logger.Warn().Err(err).Msg("submodule reconciliation degraded, continuing")
	case submodules.ReconcileSkipped:
		logger.Info().Msg("submodule reconciliation skipped")
	}

	if state != submodules.ReconcileSkipped {
		if outcome := p.syncer.Sync(); !outcome.OK {
			logger.Warn().Msg("revision sync reported failures, continuing")
		}
	}

	p.installer.InstallAll(p.cfg.Flatten())

	// Second restore chance: the decision is probed fresh, not carried over
	// from the reconcile pass.
	if err := p.reconciler.MaybeRestore(); err != nil {
		logger.Warn().Err(err).Msg("env restore failed, continuing")
	}

	envfile.WriteDefaults(p.cfg)

	if p.opts.SkipDocker {
		logger.Info().Msg("docker stage skipped")
		return tools.ExitOK
	}
	return p.runDocker()
}

// checkPrerequisites verifies the external tools before any core logic runs.
// This is the only fatal error category in the pipeline.
func (p *Pipeline) checkPrerequisites() int {
	logger := logging.New("bootstrap")
	required := []string{"git", "npm"}
	if !p.opts.SkipDocker {
		required = append(required, "docker")
	}
	for _, tool := range required {
		if !tools.Installed(tool) {
			logger.Error().Str("tool", tool).Msg("required tool not found")
			return tools.ExitNotFound
		}
	}
	return tools.ExitOK
}

func (p *Pipeline) runDocker() int {
	logger := logging.New("bootstrap")

	if names, err := p.compose.ServiceNames(); err == nil {
		for _, name := range names {
			exists, err := p.compose.ImageExists(name)
			if err != nil {
				logger.Warn().Err(err).Msg("image listing failed")
				break
			}
			if !exists {
				logger.Info().Str("service", name).Msg("image missing, build required")
			}
		}
	} else {
		logger.Warn().Err(err).Msg("compose file unreadable, building anyway")
	}

	if err := p.compose.Build(); err != nil {
		logger.Error().Err(err).Msg("compose build failed")
		return tools.ExitGeneralError
	}
	if err := p.compose.Up(); err != nil {
		logger.Error().Err(err).Msg("compose up failed")
		return tools.ExitGeneralError
	}

	p.checker.Settle()
	healthy := true
	for _, result := range p.checker.Check() {
		if !result.Healthy {
			healthy = false
		}
	}
	if !healthy {
		logger.Warn().Msg("some services are unhealthy")
	} else {
		logger.Info().Msg("all services healthy")
	}
	return tools.ExitOK
}
