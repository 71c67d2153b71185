// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pointview"
)

// GPUPointRenderer is a GPU-backed point renderer using WebGPU.
//
// The renderer receives its GPU device from the host application through a
// DeviceHandle; it never creates one. At construction it compiles the
// point shader to SPIR-V and, when the handle exposes a HAL device,
// creates the shader module so the render pipeline can be assembled.
//
// The draw path itself currently falls back to software rendering for CPU
// targets; GPU render-pass submission lands with surface-target support.
//
// Example:
//
//	renderer, err := render.NewGPUPointRenderer(app.GPUContextProvider())
//	if err != nil {
//	    renderer = nil // use render.NewSoftwarePointRenderer() instead
//	}
type GPUPointRenderer struct {
	handle DeviceHandle

	// fallback serves CPU targets.
	fallback *SoftwarePointRenderer

	// spirv is the compiled point shader, kept for pipeline assembly.
	spirv []uint32

	// device and module are set only when the handle exposes HAL access.
	device hal.Device
	module hal.ShaderModule
}

// NewGPUPointRenderer creates a point renderer bound to the host's GPU
// device. Returns an error if handle is nil.
//
// A handle whose Device() is nil (e.g. NullDeviceHandle) yields a renderer
// that permanently uses the software fallback; shader compilation is
// skipped. Shader compile or module creation failures also degrade to the
// fallback, with a warning log, rather than failing construction.
func NewGPUPointRenderer(handle DeviceHandle) (*GPUPointRenderer, error) {
	if handle == nil {
		return nil, errors.New("render: nil device handle")
	}

	r := &GPUPointRenderer{
		handle:   handle,
		fallback: NewSoftwarePointRenderer(),
	}
	if handle.Device() == nil {
		return r, nil
	}

	spirv, err := compileShaderToSPIRV(pointShaderWGSL)
	if err != nil {
		pointview.Logger().Warn("point shader compilation failed, using CPU fallback", "err", err)
		return r, nil
	}
	r.spirv = spirv

	hp, ok := handle.(halDeviceProvider)
	if !ok {
		return r, nil
	}
	dev, ok := hp.HalDevice().(hal.Device)
	if !ok || dev == nil {
		return r, nil
	}

	module, err := createShaderModule(dev, "point_shader", spirv)
	if err != nil {
		pointview.Logger().Warn("point shader module creation failed, using CPU fallback", "err", err)
		return r, nil
	}
	r.device = dev
	r.module = module
	pointview.Logger().Info("GPU point renderer initialized")
	return r, nil
}

// Render draws the scene to the target.
//
// CPU targets (Pixels() != nil) are rendered through the software
// fallback. GPU-only targets require the render-pass path, which is not
// wired yet.
func (r *GPUPointRenderer) Render(target RenderTarget, scene *Scene, camera *PerspectiveCamera) error {
	if target == nil {
		return ErrNilTarget
	}
	r.stageUploads(scene)
	if target.Pixels() != nil {
		return r.fallback.Render(target, scene, camera)
	}
	return errors.New("render: GPU surface targets not yet supported")
}

// stageUploads claims the dirty flags of every point buffer in the
// scene. Device-buffer writes gated on these flags belong to the
// render-pass path; until that lands the flags are still consumed here
// so a buffer never accumulates stale re-upload state.
func (r *GPUPointRenderer) stageUploads(scene *Scene) {
	if scene == nil {
		return
	}
	scene.Walk(func(d Drawable) bool {
		if pd, ok := d.(*PointsDrawable); ok {
			if buf := pd.Buffer(); buf != nil {
				buf.ConsumeDirty()
			}
		}
		return true
	})
}

// Flush ensures all GPU commands are submitted and complete.
// A no-op while the draw path uses the CPU fallback.
func (r *GPUPointRenderer) Flush() error { return nil }

// Capabilities returns the renderer's capabilities.
func (r *GPUPointRenderer) Capabilities() RendererCapabilities {
	return RendererCapabilities{
		IsGPU:              r.module != nil,
		SupportsAlphaBlend: true,
		MaxPointsPerDraw:   0,
	}
}

// DeviceHandle returns the underlying device handle.
func (r *GPUPointRenderer) DeviceHandle() DeviceHandle {
	return r.handle
}

// Destroy releases the shader module. Safe to call more than once.
func (r *GPUPointRenderer) Destroy() {
	if r.device != nil && r.module != nil {
		r.device.DestroyShaderModule(r.module)
		r.module = nil
	}
}

// Ensure GPUPointRenderer implements Renderer and CapableRenderer.
var (
	_ Renderer        = (*GPUPointRenderer)(nil)
	_ CapableRenderer = (*GPUPointRenderer)(nil)
)
