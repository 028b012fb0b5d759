package main

import (
	"github.com/go-gl/gl/v2.1/gl"

	"github.com/e7canasta/chaser-game/game"
)

// glRenderer implements game.Renderer with fixed-function GL 2.1 in a
// bottom-left-origin orthographic projection, the same space the
// capture readback sees.
type glRenderer struct{}

// begin sets up the projection for one frame at the current framebuffer
// size.
func (r *glRenderer) begin(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, float64(width), 0, float64(height), -1, 1)
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()
}

func (r *glRenderer) Clear(c game.Color) {
	gl.ClearColor(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (r *glRenderer) Rect(x, y, w, h float64, c game.Color) {
	gl.Color3ub(c.R, c.G, c.B)
	gl.Begin(gl.QUADS)
	gl.Vertex2d(x, y)
	gl.Vertex2d(x+w, y)
	gl.Vertex2d(x+w, y+h)
	gl.Vertex2d(x, y+h)
	gl.End()
}
