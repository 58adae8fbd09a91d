package engine

import (
	"github.com/osfabias/moss/engine/config"
)

type Game struct {
	ApplicationConfig *config.ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
}

type Initialize func(e *Engine) error
type Update func(deltaTime float64) error
type Render func(batch *Batch, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
