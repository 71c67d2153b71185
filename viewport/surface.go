// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package viewport binds the point-cloud scene to a host surface: it owns
// the camera, render target, ingestion pipeline and the render-loop
// goroutine, and exposes the lifecycle (Init, Start, Stop, Dispose) the
// host drives.
package viewport

import "github.com/gogpu/pointview/render"

// Surface describes the host drawing area the viewport renders into. The
// host (an ebiten window, an offscreen harness) implements it; the
// viewport polls Size and DevicePixelRatio at the top of each frame and
// never retains anything beyond the interface.
type Surface interface {
	// Size returns the current content-box size in logical pixels.
	Size() (width, height int)

	// DevicePixelRatio returns the backing-store scale factor.
	DevicePixelRatio() float64
}

// DeviceSurface is an optional extension for hosts that also carry a GPU
// device. When the surface implements it and the handle is non-nil, the
// viewport builds a GPU renderer instead of the software one.
type DeviceSurface interface {
	Surface
	DeviceHandle() render.DeviceHandle
}
