package render

import (
	"math"

	"github.com/lumenfold/lumenfold/internal/geom"
	"github.com/lumenfold/lumenfold/internal/scene"
)

// camera is the resolved per-frame projection.
type camera struct {
	pos      geom.Vec3
	orbit    geom.Quat
	focal    float64 // pixels
	cx, cy   float64
	nearClip float64
}

// newCamera composes the derived camera with the frame's zoom and orbit.
// Zoom composes multiplicatively onto the distance; orbit rotates the
// whole scene about Y.
func newCamera(u scene.Uniforms, zoom, orbitYDeg float64, w, h int) camera {
	if zoom <= 0 {
		zoom = 1
	}
	dist := u.CameraZ / zoom
	fovRad := u.CameraFov * math.Pi / 180
	focal := float64(h) / (2 * math.Tan(fovRad/2))
	return camera{
		pos:      geom.Vec3{X: u.CameraOffsetX, Y: u.CameraOffsetY, Z: dist},
		orbit:    geom.QuatFromAxisAngle(geom.Vec3{Y: 1}, orbitYDeg*math.Pi/180),
		focal:    focal,
		cx:       float64(w) / 2,
		cy:       float64(h) / 2,
		nearClip: 0.05,
	}
}

// project maps a world point to screen space. ok is false behind the near
// plane. The returned scale converts world units to pixels at that depth.
func (c camera) project(p geom.Vec3) (x, y, scale float64, ok bool) {
	q := c.orbit.Rotate(p)
	view := geom.Vec3{
		X: q.X - c.pos.X,
		Y: q.Y - c.pos.Y,
		Z: c.pos.Z - q.Z, // camera looks down -Z toward the origin
	}
	if view.Z < c.nearClip {
		return 0, 0, 0, false
	}
	s := c.focal / view.Z
	return c.cx + view.X*s, c.cy - view.Y*s, s, true
}
