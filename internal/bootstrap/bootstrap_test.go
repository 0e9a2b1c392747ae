package bootstrap

import (
	"testing"

	"github.com/dashboard-system/dashboard-root/internal/config"
	"github.com/dashboard-system/dashboard-root/internal/testutil/testlog"
)

func TestCleanupsRunInReverseOrder(t *testing.T) {
	testlog.Start(t)
	p := New(config.Default(t.TempDir()), Options{SkipDocker: true})

	var order []int
	p.RegisterCleanup(func() { order = append(order, 1) })
	p.RegisterCleanup(func() { order = append(order, 2) })
	p.RegisterCleanup(func() { order = append(order, 3) })
	p.runCleanups()

	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Fatalf("cleanups must run in reverse registration order, got %v", order)
	}
}

func TestComposeClientCarriesProjectSettings(t *testing.T) {
	testlog.Start(t)
	cfg := config.Default(t.TempDir())
	cfg.Project = "custom"
	p := New(cfg, Options{})
	// The maintenance commands reuse the same backend the pipeline drives.
	if p.Compose() != p.compose {
		t.Fatal("Compose() must expose the pipeline backend")
	}
}
