// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "math"

// Camera defaults used by the viewport controller.
const (
	// DefaultFOV is the vertical field of view in degrees.
	DefaultFOV = 75.0

	// DefaultNear is the near clip plane distance.
	DefaultNear = 0.1

	// DefaultFar is the far clip plane distance.
	DefaultFar = 1000.0
)

// PerspectiveCamera projects world-space points onto a render target.
//
// The camera always aims at the world origin: repositioning it re-derives
// the view matrix from the new eye position. It is not safe for concurrent
// use; the viewport serializes access on the render loop.
type PerspectiveCamera struct {
	fov    float64 // vertical field of view, degrees
	aspect float64
	near   float64
	far    float64

	position Vec3

	view     mat4
	proj     mat4
	viewProj mat4
}

// NewPerspectiveCamera creates a camera with the given vertical field of
// view in degrees. Non-positive aspect ratios are clamped to 1.
func NewPerspectiveCamera(fovDegrees, aspect, near, far float64) *PerspectiveCamera {
	if aspect <= 0 {
		aspect = 1
	}
	c := &PerspectiveCamera{
		fov:      fovDegrees,
		aspect:   aspect,
		near:     near,
		far:      far,
		position: V3(0, 0, 10),
	}
	c.rebuild()
	return c
}

// SetPosition moves the camera and re-aims it at the origin.
func (c *PerspectiveCamera) SetPosition(x, y, z float64) {
	c.position = V3(x, y, z)
	c.rebuild()
}

// Position returns the camera eye position.
func (c *PerspectiveCamera) Position() Vec3 {
	return c.position
}

// SetAspect updates the aspect ratio and reapplies the projection.
// Non-positive values are ignored.
func (c *PerspectiveCamera) SetAspect(aspect float64) {
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.rebuild()
}

// Aspect returns the current aspect ratio.
func (c *PerspectiveCamera) Aspect() float64 { return c.aspect }

// FOV returns the vertical field of view in degrees.
func (c *PerspectiveCamera) FOV() float64 { return c.fov }

// rebuild recomputes the view, projection, and combined matrices.
func (c *PerspectiveCamera) rebuild() {
	up := V3(0, 1, 0)
	// Degenerate case: eye on the Y axis looking straight down or up.
	if c.position.X == 0 && c.position.Z == 0 {
		up = V3(0, 0, -1)
	}
	c.view = lookAt(c.position, V3(0, 0, 0), up)
	c.proj = perspective(c.fov*math.Pi/180, c.aspect, c.near, c.far)
	c.viewProj = c.proj.mul(c.view)
}

// Project maps a world-space point to pixel coordinates on a target of the
// given size. ok is false when the point is behind the camera or outside
// the clip volume. depth is the normalized device depth, useful for
// painter-order decisions.
func (c *PerspectiveCamera) Project(x, y, z float64, width, height int) (sx, sy int, depth float64, ok bool) {
	tx, ty, tz, tw := c.viewProj.transform(x, y, z)
	if tw <= 0 {
		return 0, 0, 0, false
	}

	ndcX := tx / tw
	ndcY := ty / tw
	ndcZ := tz / tw
	if ndcX < -1 || ndcX > 1 || ndcY < -1 || ndcY > 1 || ndcZ < -1 || ndcZ > 1 {
		return 0, 0, 0, false
	}

	sx = int((ndcX*0.5 + 0.5) * float64(width))
	sy = int((1 - (ndcY*0.5 + 0.5)) * float64(height))
	return sx, sy, ndcZ, true
}

// ViewProjection returns the combined view-projection matrix as 16 floats
// in column-major order, ready for GPU upload.
func (c *PerspectiveCamera) ViewProjection() [16]float32 {
	var out [16]float32
	for i, v := range c.viewProj {
		out[i] = float32(v)
	}
	return out
}
