package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/ossa/engine/assets"
	"github.com/spaghettifunk/ossa/engine/core"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Engine owns the frame loop: it stamps out fixed-rate updates, drives
// the game's hooks, drains the event queue once per frame and keeps
// the frame metrics. It renders nothing; published poses go to
// whatever consumer the game wired up.
type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    atomic.Bool
	assetManager *assets.AssetManager
	clock        *core.Clock
	lastTime     float64
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("engine needs a game with a configuration")
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	g.AssetManager = am

	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		assetManager: am,
		lastTime:     0,
	}
	e.isRunning.Store(true)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	level, err := e.gameInstance.ApplicationConfig.Level()
	if err != nil {
		return err
	}
	core.LogSetLevel(level)

	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onQuit)

	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	if err := e.assetManager.Initialize(e.gameInstance.ApplicationConfig.AssetsDir); err != nil {
		return err
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) onQuit(context core.EventContext) {
	core.LogInfo("quit requested, stopping after this frame")
	e.isRunning.Store(false)
}

// Run drives the frame loop until a quit event or Shutdown stops it.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	targetFrameSeconds := e.gameInstance.ApplicationConfig.TargetFrameSeconds

	for e.isRunning.Load() {
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		e.lastTime = currentTime

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err.Error())
			e.isRunning.Store(false)
			break
		}

		// Deliver everything Update fired before the next frame starts.
		core.ProcessEvents()

		e.clock.Update()
		frameElapsed := e.clock.Elapsed() - currentTime
		core.MetricsUpdate(frameElapsed)

		if remaining := targetFrameSeconds - frameElapsed; remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}
	}

	return e.Shutdown()
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	core.LogInfo("shutting down")

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown failed: %s", err.Error())
		}
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	e.clock.Stop()
	return core.EventSystemShutdown()
}
