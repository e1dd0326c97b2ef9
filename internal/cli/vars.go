package cli

import (
	"github.com/barooo/wires/internal/core"
	"github.com/barooo/wires/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	// Engine is the dependency graph engine. It is nil when the working
	// directory is not inside a wires repository.
	Engine core.Engine

	// EngineErr records why Engine is unavailable.
	EngineErr error

	// Cfg holds the repository configuration, falling back to defaults
	// when no config file exists.
	Cfg *core.Config

	// WorkDir is the directory wires was invoked from.
	WorkDir string
)

// requireEngine returns the wired engine, or the error explaining why no
// repository is available.
func requireEngine() (core.Engine, error) {
	if Engine != nil {
		return Engine, nil
	}
	if EngineErr != nil {
		return nil, EngineErr
	}
	return nil, models.ErrNotRepository
}
