// Package internal provides the App struct that wires the components of
// wires together and initializes the CLI layer.
package internal

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/barooo/wires/internal/cli"
	"github.com/barooo/wires/internal/core"
	"github.com/barooo/wires/internal/storage"
	"github.com/barooo/wires/pkg/models"
)

// App holds the service dependencies for a wires repository.
type App struct {
	WorkDir string

	// Configuration
	ConfigMgr core.ConfigManager
	Config    *core.Config

	// Storage layer
	Store *storage.Store

	// Core services
	IDGen  core.IDGenerator
	Engine core.Engine
}

// NewApp locates the wires repository containing workDir and wires up the
// engine. A missing repository is not fatal: "wires init" must still run,
// so the failure is recorded and surfaced by the commands that need the
// engine.
func NewApp(workDir string) *App {
	app := &App{WorkDir: workDir}
	cli.WorkDir = workDir
	cli.Cfg = &core.Config{Format: core.FormatAuto}

	dbPath, err := storage.Discover(workDir)
	if err != nil {
		if !errors.Is(err, models.ErrNotRepository) {
			err = fmt.Errorf("locating repository: %w", err)
		}
		cli.EngineErr = err
		return app
	}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigManager(filepath.Dir(dbPath))
	cfg, err := app.ConfigMgr.Load()
	if err != nil {
		// Use defaults if the config file is unreadable.
		cfg = &core.Config{Format: core.FormatAuto}
	}
	app.Config = cfg

	// --- Storage layer ---
	app.Store, err = storage.Open(dbPath)
	if err != nil {
		cli.EngineErr = fmt.Errorf("opening database: %w", err)
		return app
	}

	// --- Core services ---
	app.IDGen, err = core.NewIDGenerator()
	if err != nil {
		cli.EngineErr = fmt.Errorf("building id generator: %w", err)
		return app
	}
	app.Engine = core.NewEngine(app.Store, app.IDGen)

	// --- Wire CLI package-level variables ---
	cli.Engine = app.Engine
	cli.Cfg = app.Config

	return app
}

// Close releases the database handle. Safe to call when no repository was
// opened.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
