// setupctl brings the dashboard project into a runnable state: it
// reconciles the nested service repositories, installs their dependencies,
// and drives the Docker Compose backend. Maintenance flags expose the
// backend's teardown and inspection commands directly.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dashboard-system/dashboard-root/internal/bootstrap"
	"github.com/dashboard-system/dashboard-root/internal/config"
	"github.com/dashboard-system/dashboard-root/internal/logging"
	"github.com/dashboard-system/dashboard-root/internal/tools"
)

func main() {
	var (
		root       = pflag.String("root", ".", "project root containing the managed repositories")
		configPath = pflag.String("config", "", "optional bootstrap.toml overriding defaults")
		skipDocker = pflag.Bool("skip-docker", false, "stop after repository setup, do not touch docker")
		down       = pflag.Bool("down", false, "stop the running services and exit")
		restart    = pflag.Bool("restart", false, "restart the running services and exit")
		logs       = pflag.Bool("logs", false, "print recent service logs and exit")
		status     = pflag.Bool("status", false, "print service status and exit")
		prune      = pflag.Bool("prune", false, "stop services and reclaim docker resources, then exit")
		initConfig = pflag.String("init-config", "", "write a sample bootstrap.toml to the given path and exit")
	)
	pflag.Parse()
	if pflag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "setupctl: unexpected argument: %s\n", pflag.Arg(0))
		os.Exit(tools.ExitMisuse)
	}

	if *initConfig != "" {
		if err := config.WriteTemplate(*initConfig, "bootstrap", false); err != nil {
			fmt.Fprintf(os.Stderr, "setupctl: %v\n", err)
			os.Exit(tools.ExitGeneralError)
		}
		os.Exit(tools.ExitOK)
	}

	cfg, err := loadSetupConfig(*root, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setupctl: %v\n", err)
		os.Exit(tools.ExitInvalidArgument)
	}
	logging.ConfigureRuntime(cfg.LogFile)

	pipeline := bootstrap.New(cfg, bootstrap.Options{SkipDocker: *skipDocker})
	pipeline.HandleInterrupt()

	if *down || *restart || *logs || *status || *prune {
		os.Exit(runMaintenance(pipeline, *down, *restart, *logs, *status, *prune))
	}
	os.Exit(pipeline.Run())
}

func runMaintenance(pipeline *bootstrap.Pipeline, down, restart, logs, status, prune bool) int {
	backend := pipeline.Compose()
	logger := logging.New("setupctl")
	switch {
	case prune:
		if err := backend.Down(); err != nil {
			logger.Error().Err(err).Msg("compose down failed")
			return tools.ExitGeneralError
		}
		if err := backend.Prune(); err != nil {
			logger.Error().Err(err).Msg("docker prune failed")
			return tools.ExitGeneralError
		}
	case down:
		if err := backend.Down(); err != nil {
			logger.Error().Err(err).Msg("compose down failed")
			return tools.ExitGeneralError
		}
	case restart:
		if err := backend.Restart(); err != nil {
			logger.Error().Err(err).Msg("compose restart failed")
			return tools.ExitGeneralError
		}
	case logs:
		out, err := backend.Logs()
		if err != nil {
			logger.Error().Err(err).Msg("compose logs failed")
			return tools.ExitGeneralError
		}
		fmt.Print(out)
	case status:
		out, err := backend.Ps()
		if err != nil {
			logger.Error().Err(err).Msg("compose ps failed")
			return tools.ExitGeneralError
		}
		fmt.Print(out)
	}
	return tools.ExitOK
}
