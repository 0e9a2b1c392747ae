// Package git shells out to the git binary for repository detection, branch
// synchronization, and submodule lifecycle operations. The exit code is the
// only success signal consumed; output is carried into errors for logging.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dashboard-system/dashboard-root/internal/tools"
)

var ErrCommandFailed = errors.New("git: command failed")

// Client runs git commands rooted at a project checkout.
type Client struct {
	root   string
	runner tools.CommandRunner
}

func NewClient(root string) Client {
	return NewClientWithRunner(root, tools.ExecRunner{})
}

func NewClientWithRunner(root string, runner tools.CommandRunner) Client {
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	return Client{root: filepath.Clean(root), runner: runner}
}

// Root returns the project checkout the client operates on.
func (c Client) Root() string {
	return c.root
}

// IsRepository reports whether dir carries git metadata. Submodule checkouts
// keep a .git file rather than a directory, so only existence is checked.
func (c Client) IsRepository(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// HasGitmodules reports whether the root checkout declares any submodules.
func (c Client) HasGitmodules() bool {
	_, err := os.Stat(filepath.Join(c.root, ".gitmodules"))
	return err == nil
}

// Fetch updates the remote tracking ref for branch in dir.
func (c Client) Fetch(dir, branch string) error {
	return c.exec(dir, "fetch", "origin", branch)
}

// Checkout switches dir to branch.
func (c Client) Checkout(dir, branch string) error {
	return c.exec(dir, "checkout", branch)
}

// Pull fast-forwards branch in dir from its remote.
func (c Client) Pull(dir, branch string) error {
	return c.exec(dir, "pull", "origin", branch)
}

// SubmoduleDeinitAll unregisters every submodule binding at the root.
func (c Client) SubmoduleDeinitAll() error {
	return c.exec(c.root, "submodule", "deinit", "--all", "-f")
}

// SubmoduleUpdateRecursive materializes every registered binding, including
// nested ones.
func (c Client) SubmoduleUpdateRecursive() error {
	return c.exec(c.root, "submodule", "update", "--init", "--recursive")
}

// SubmoduleUpdateRemote advances every binding to the tip of its tracked
// remote branch, recursively.
func (c Client) SubmoduleUpdateRemote() error {
	return c.exec(c.root, "submodule", "update", "--remote", "--recursive")
}

func (c Client) exec(dir string, args ...string) error {
	_, stderr, exitCode, err := c.runner.Run(dir, "git", args...)
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%w: git %s (exit %d): %s",
			ErrCommandFailed, strings.Join(args, " "), exitCode, detail)
	}
	return nil
}
