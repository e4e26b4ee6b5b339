// Package infrastructure assembles the dependencies shared by the server
// and the CLIs: logging, lifecycle, artifact storage and the optional
// training-run database.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/leafscan/internal/config"
	"github.com/JaimeStill/leafscan/pkg/artifact"
	"github.com/JaimeStill/leafscan/pkg/database"
	"github.com/JaimeStill/leafscan/pkg/lifecycle"
	"github.com/JaimeStill/leafscan/pkg/logging"
	"github.com/JaimeStill/leafscan/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil when the run registry is disabled.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Artifacts *artifact.Store

	logCloser io.Closer
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger, closer := logging.New(&cfg.Logging, os.Stderr)

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	var db database.System
	if cfg.Database.Enabled {
		db, err = database.New(&cfg.Database, logger)
		if err != nil {
			closer.Close()
			return nil, fmt.Errorf("database init failed: %w", err)
		}
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Artifacts: artifact.NewStore(store, logger),
		logCloser: closer,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	return nil
}

// Close releases resources that outlive the lifecycle, such as a rotating
// log file. The database pool is closed by its shutdown hook.
func (i *Infrastructure) Close() error {
	if i.logCloser == nil {
		return nil
	}
	err := i.logCloser.Close()
	i.logCloser = nil
	return err
}
