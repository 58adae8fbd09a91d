package testbed

import (
	"github.com/osfabias/moss/engine"
	"github.com/osfabias/moss/engine/config"
	"github.com/osfabias/moss/engine/core"
	"github.com/osfabias/moss/engine/math"
	"github.com/osfabias/moss/engine/renderer/metadata"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	sprites []metadata.Sprite
}

func NewTestGame() *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &config.ApplicationConfig{
				Name:         "Moss Testbed",
				StartPosX:    100,
				StartPosY:    100,
				StartWidth:   640,
				StartHeight:  360,
				CameraWidth:  960,
				CameraHeight: 540,
				AssetsDir:    "assets",
				ClearColor:   [4]float32{0.01, 0.01, 0.01, 1.0},
				VSync:        true,
			},
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize

	return tg
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogDebug("TestGame Initialize fn....")

	state := g.State.(*gameState)

	// Three overlapping quads at different depths. The depth test keeps
	// their draw order stable no matter how they land in the batch.
	state.sprites = []metadata.Sprite{
		{
			Position: math.Vec2{X: 0, Y: 0},
			Size:     math.Vec2{X: 200, Y: 200},
			Depth:    0.25,
			UV:       metadata.FullTexture,
		},
		{
			Position: math.Vec2{X: 50, Y: 50},
			Size:     math.Vec2{X: 200, Y: 200},
			Depth:    0.5,
			UV:       metadata.FullTexture,
		},
		{
			Position: math.Vec2{X: 100, Y: 100},
			Size:     math.Vec2{X: 200, Y: 200},
			Depth:    0.75,
			UV:       metadata.FullTexture,
		},
	}

	e.Camera().SetPosition(math.Vec2{X: 0, Y: 0})

	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	return nil
}

func (g *TestGame) Render(batch *engine.Batch, deltaTime float64) error {
	state := g.State.(*gameState)
	for _, sprite := range state.sprites {
		if err := batch.Add(sprite); err != nil {
			return err
		}
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	core.LogDebug("TestGame OnResize: %d x %d", width, height)
	return nil
}
