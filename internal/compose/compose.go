// Package compose drives the Docker Compose backend for the dashboard
// services. The coupling is thin on purpose: subcommands are invoked through
// the command runner and the exit code is the only signal consumed, except
// for image listing, which is text-matched by name.
package compose

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dashboard-system/dashboard-root/internal/tools"
)

var ErrCommandFailed = errors.New("compose: command failed")

// Client runs docker compose against one project checkout.
type Client struct {
	root    string
	file    string
	project string
	runner  tools.CommandRunner
}

func NewClient(root, file, project string) Client {
	return NewClientWithRunner(root, file, project, tools.ExecRunner{})
}

func NewClientWithRunner(root, file, project string, runner tools.CommandRunner) Client {
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	return Client{root: filepath.Clean(root), file: file, project: project, runner: runner}
}

func (c Client) Build() error   { return c.compose("build") }
func (c Client) Up() error      { return c.compose("up", "-d") }
func (c Client) Down() error    { return c.compose("down") }
func (c Client) Restart() error { return c.compose("restart") }

// Ps returns the compose service table for human display.
func (c Client) Ps() (string, error) {
	stdout, _, _, err := c.run("compose", "-f", c.file, "-p", c.project, "ps")
	if err != nil {
		return "", err
	}
	return string(stdout), nil
}

// Logs returns the recent service logs for human display.
func (c Client) Logs() (string, error) {
	stdout, _, _, err := c.run("compose", "-f", c.file, "-p", c.project, "logs", "--tail", "100")
	if err != nil {
		return "", err
	}
	return string(stdout), nil
}

// Prune reclaims dangling images and build cache after teardown.
func (c Client) Prune() error {
	_, _, _, err := c.run("system", "prune", "-f")
	return err
}

// ImageExists lists local images and matches name against each line. Tags
// count: "dashboard-webserver" matches "dashboard-webserver:latest".
func (c Client) ImageExists(name string) (bool, error) {
	stdout, _, _, err := c.run("images", "--format", "{{.Repository}}:{{.Tag}}")
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(string(stdout), "\n") {
		if strings.Contains(strings.TrimSpace(line), name) {
			return true, nil
		}
	}
	return false, nil
}

type composeFile struct {
	Services map[string]struct {
		Image string `yaml:"image"`
	} `yaml:"services"`
}

// ServiceNames parses the compose file and returns its service names in
// stable order, so the orchestrator knows which images to look for before
// deciding whether a build is needed.
func (c Client) ServiceNames() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(c.root, c.file))
	if err != nil {
		return nil, err
	}
	var parsed composeFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("compose: parse %s: %w", c.file, err)
	}
	names := make([]string, 0, len(parsed.Services))
	for name := range parsed.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (c Client) compose(args ...string) error {
	full := append([]string{"compose", "-f", c.file, "-p", c.project}, args...)
	_, _, _, err := c.run(full...)
	return err
}

func (c Client) run(args ...string) ([]byte, []byte, int32, error) {
	stdout, stderr, exitCode, err := c.runner.Run(c.root, "docker", args...)
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = err.Error()
		}
		return stdout, stderr, exitCode, fmt.Errorf("%w: docker %s (exit %d): %s",
			ErrCommandFailed, strings.Join(args, " "), exitCode, detail)
	}
	return stdout, stderr, exitCode, nil
}
