package infrastructure_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/leafscan/internal/config"
	"github.com/JaimeStill/leafscan/internal/infrastructure"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("LEAFSCAN_STORAGE_ROOT", filepath.Join(t.TempDir(), "artifacts"))
	t.Setenv("LEAFSCAN_LOG_FILE", filepath.Join(t.TempDir(), "leafscan.log"))

	cfg, err := config.LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	return cfg
}

func TestNewWithoutDatabase(t *testing.T) {
	cfg := loadConfig(t)

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer infra.Close()

	if infra.Database != nil {
		t.Error("database should be nil when disabled")
	}
	if infra.Artifacts == nil || infra.Storage == nil || infra.Logger == nil {
		t.Fatal("expected storage, artifacts and logger to be set")
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup() error = %v", err)
	}
	if !infra.Lifecycle.Ready() {
		t.Error("lifecycle should be ready")
	}
	if _, err := os.Stat(cfg.Storage.Root); err != nil {
		t.Errorf("storage root not created: %v", err)
	}

	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewWithDatabase(t *testing.T) {
	t.Setenv("LEAFSCAN_DB_ENABLED", "true")
	t.Setenv("LEAFSCAN_DB_USER", "leaf")
	cfg := loadConfig(t)

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer infra.Close()

	if infra.Database == nil {
		t.Fatal("database should be created when enabled")
	}
}

func TestCloseTwice(t *testing.T) {
	infra, err := infrastructure.New(loadConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := infra.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := infra.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
