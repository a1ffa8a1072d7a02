// Package renderer drives per-frame drawing. It owns the camera and the
// block renderable; all methods run on the GL thread.
package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/graphics"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/graphics/renderables/blocks"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/player"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/world"
)

type Renderer struct {
	camera *graphics.Camera
	blocks *blocks.Blocks
}

// NewRenderer configures global GL state and initializes renderables.
func NewRenderer(width, height int, blocksRenderer *blocks.Blocks) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	if err := blocksRenderer.Init(); err != nil {
		return nil, err
	}

	return &Renderer{
		camera: graphics.NewCamera(width, height),
		blocks: blocksRenderer,
	}, nil
}

// Render clears the frame and draws all active chunks from the player's
// point of view.
func (r *Renderer) Render(w *world.World, p *player.Player) {
	gl.ClearColor(0.53, 0.81, 0.92, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := graphics.ViewMatrix(p.EyePosition(), p.Yaw, p.Pitch)
	proj := r.camera.ProjectionMatrix()
	r.blocks.Render(w, view, proj)
}

// UpdateViewport resizes the GL viewport and camera aspect.
func (r *Renderer) UpdateViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
}

func (r *Renderer) Dispose() {
	r.blocks.Dispose()
}
