// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "errors"

// Renderer errors shared by the backends.
var (
	// ErrNilTarget is returned when Render is called without a target.
	ErrNilTarget = errors.New("render: nil target")

	// ErrCPUTargetRequired is returned when a target offers no CPU pixel
	// access and the renderer has no GPU path for it.
	ErrCPUTargetRequired = errors.New("render: target does not support CPU rendering")
)

// Renderer draws a scene to a render target through a camera.
//
// Implementations:
//
//   - SoftwarePointRenderer: CPU projection and splatting, no GPU deps
//   - GPUPointRenderer: device-handle based, falls back to software for
//     CPU targets
//
// Renderers are NOT thread-safe. Each renderer should be used from a
// single goroutine; the viewport drives them from its render loop.
type Renderer interface {
	// Render draws the scene to the target. The scene is not modified and
	// can be rendered again to a different target.
	Render(target RenderTarget, scene *Scene, camera *PerspectiveCamera) error

	// Flush ensures all pending rendering operations are complete.
	// A no-op for CPU renderers.
	Flush() error
}

// RendererCapabilities describes the features supported by a renderer.
type RendererCapabilities struct {
	// IsGPU indicates if this is a GPU-accelerated renderer.
	IsGPU bool

	// SupportsAlphaBlend indicates if per-point alpha blending is supported.
	SupportsAlphaBlend bool

	// MaxPointsPerDraw is the maximum point count per draw (0 = unlimited).
	MaxPointsPerDraw int
}

// CapableRenderer is an optional interface for renderers that can report
// their capabilities.
type CapableRenderer interface {
	Renderer

	// Capabilities returns the renderer's capabilities.
	Capabilities() RendererCapabilities
}
