package engine

import (
	"errors"

	"github.com/osfabias/moss/engine/assets"
	"github.com/osfabias/moss/engine/config"
	"github.com/osfabias/moss/engine/core"
	"github.com/osfabias/moss/engine/platform"
	"github.com/osfabias/moss/engine/renderer/metadata"
	"github.com/osfabias/moss/engine/renderer/vulkan"
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

// Batch is the sprite batch handed to the game's render callback every
// frame.
type Batch = vulkan.VulkanSpriteBatch

// DefaultBatchCapacity is the sprite capacity of the frame batch.
const DefaultBatchCapacity uint32 = 4096

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool
	isSuspended  bool
	platform     *platform.Platform
	renderer     *vulkan.VulkanRenderer
	assetManager *assets.AssetManager
	camera       *metadata.Camera
	batch        *Batch
	width        uint32
	height       uint32
	clock        *core.Clock
	lastTime     float64
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = config.Default()
	}

	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     p,
		assetManager: am,
		isRunning:    true,
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.gameInstance.ApplicationConfig

	if err := e.platform.Startup(cfg.Name,
		cfg.StartPosX,
		cfg.StartPosY,
		cfg.StartWidth,
		cfg.StartHeight); err != nil {
		return err
	}

	e.renderer = vulkan.New(e.platform, cfg.ClearColor, cfg.VSync)
	e.platform.OnResize = e.onResized

	if err := e.assetManager.Initialize(cfg.AssetsDir); err != nil {
		return err
	}

	vertexShaderCode, err := e.assetManager.LoadShaderCode("sprite.vert")
	if err != nil {
		return err
	}
	fragmentShaderCode, err := e.assetManager.LoadShaderCode("sprite.frag")
	if err != nil {
		return err
	}

	if err := e.renderer.Initialize(cfg.Name, cfg.StartWidth, cfg.StartHeight, vertexShaderCode, fragmentShaderCode); err != nil {
		return err
	}

	e.camera = metadata.NewCamera(cfg.CameraWidth, cfg.CameraHeight)
	e.renderer.SetCamera(e.camera)

	batch, err := e.renderer.CreateSpriteBatch(DefaultBatchCapacity)
	if err != nil {
		return err
	}
	e.batch = batch

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}

	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Camera returns the world camera uploaded to the renderer each frame.
func (e *Engine) Camera() *metadata.Camera {
	return e.camera
}

// Assets exposes the asset manager, mainly for loading fonts and extra
// textures during game initialization.
func (e *Engine) Assets() *assets.AssetManager {
	return e.assetManager
}

// SetTexture loads the named texture from the assets directory and
// binds it as the sprite atlas.
func (e *Engine) SetTexture(name string) error {
	texture, err := e.assetManager.LoadTexture(name)
	if err != nil {
		return err
	}
	if err := e.renderer.UploadTexture(texture); err != nil {
		return err
	}
	return e.renderer.BindTexture(texture)
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
		}

		if e.isSuspended {
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogFatal("Game update failed, shutting down.")
				e.isRunning = false
				break
			}
		}

		if err := e.renderer.BeginFrame(delta); err != nil {
			if errors.Is(err, core.ErrSwapchainBooting) {
				// The swapchain is being rebuilt; skip this frame and
				// try again on the next tick.
				e.lastTime = currentTime
				continue
			}
			core.LogError(err.Error())
			e.isRunning = false
			break
		}

		if err := e.batch.Begin(); err != nil {
			core.LogError(err.Error())
			e.isRunning = false
			break
		}

		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(e.batch, delta); err != nil {
				core.LogFatal("Game render failed, shutting down.")
				e.isRunning = false
				break
			}
		}

		if err := e.renderer.FlushBatch(e.batch); err != nil {
			core.LogError(err.Error())
			e.isRunning = false
			break
		}

		if err := e.renderer.DrawBatch(e.batch); err != nil {
			core.LogError(err.Error())
			e.isRunning = false
			break
		}

		if err := e.renderer.EndFrame(delta); err != nil {
			core.LogError(err.Error())
			e.isRunning = false
			break
		}

		e.lastTime = currentTime
	}

	return nil
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown

	if e.batch != nil {
		e.renderer.DestroyBatch(e.batch)
		e.batch = nil
	}
	if e.renderer != nil {
		if err := e.renderer.Shutdown(); err != nil {
			return err
		}
	}
	e.assetManager.Shutdown()
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	return nil
}

func (e *Engine) onResized(width, height uint32) {
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}

	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}

	if e.gameInstance.FnOnResize != nil {
		e.gameInstance.FnOnResize(width, height)
	}
	if err := e.renderer.Resized(width, height); err != nil {
		core.LogError(err.Error())
	}
}

// FramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) FramebufferSize() (uint32, uint32) {
	return e.width, e.height
}
