package engine

import (
	"github.com/spaghettifunk/ossa/engine/assets"
)

// Game is the application half of the engine contract. The engine
// drives the lifecycle hooks; the game owns its animators and state.
type Game struct {
	ApplicationConfig *ApplicationConfig
	// AssetManager is set by engine.New before FnInitialize runs.
	AssetManager *assets.AssetManager
	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnShutdown   Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Shutdown func() error
