// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/pointview"
)

// SoftwarePointRenderer is a CPU-based point renderer.
//
// Points are projected through the camera and splatted into the target as
// small squares. Buffers with an alpha channel are blended source-over;
// without alpha the splat overwrites the pixel. Line drawables (axes,
// grid) are projected per endpoint and rasterized with an integer DDA.
//
// Performance characteristics:
//   - O(n) in the number of active points per frame
//   - No allocation in the render path
//
// Example:
//
//	renderer := render.NewSoftwarePointRenderer()
//	target := render.NewPixmapTarget(800, 600)
//	renderer.Render(target, scene, camera)
type SoftwarePointRenderer struct{}

// NewSoftwarePointRenderer creates a new CPU-based point renderer.
func NewSoftwarePointRenderer() *SoftwarePointRenderer {
	return &SoftwarePointRenderer{}
}

// Render draws the scene to the target.
//
// Returns ErrCPUTargetRequired if the target has no CPU pixel access.
// Unknown drawable kinds are skipped with a debug log so mixed scenes
// degrade instead of failing the frame.
func (r *SoftwarePointRenderer) Render(target RenderTarget, scene *Scene, camera *PerspectiveCamera) error {
	if target == nil {
		return ErrNilTarget
	}
	pixels := target.Pixels()
	if pixels == nil {
		return ErrCPUTargetRequired
	}
	if scene == nil || camera == nil {
		return nil
	}

	width := target.Width()
	height := target.Height()
	stride := target.Stride()

	scene.Walk(func(d Drawable) bool {
		switch dd := d.(type) {
		case *PointsDrawable:
			r.renderPoints(pixels, width, height, stride, dd, camera)
		case *LinesDrawable:
			r.renderLines(pixels, width, height, stride, dd, camera)
		default:
			pointview.Logger().Debug("software renderer skipping unknown drawable",
				"type", typeName(d))
		}
		return true
	})
	return nil
}

// Flush is a no-op: software rendering is synchronous.
func (r *SoftwarePointRenderer) Flush() error { return nil }

// Capabilities returns the renderer's capabilities.
func (r *SoftwarePointRenderer) Capabilities() RendererCapabilities {
	return RendererCapabilities{
		IsGPU:              false,
		SupportsAlphaBlend: true,
		MaxPointsPerDraw:   0,
	}
}

func (r *SoftwarePointRenderer) renderPoints(pixels []byte, width, height, stride int, d *PointsDrawable, camera *PerspectiveCamera) {
	buf := d.Buffer()
	if buf == nil || buf.Disposed() {
		return
	}

	size := d.PointSize()
	alpha := buf.Alpha()
	count := buf.DrawCount()

	for i := 0; i < count; i++ {
		x, y, z := buf.Position(i)
		cr, cg, cb, ca := buf.Color(i)
		if alpha && ca <= 0 {
			continue // fully decayed
		}

		sx, sy, _, ok := camera.Project(float64(x), float64(y), float64(z), width, height)
		if !ok {
			continue
		}

		for dy := 0; dy < size; dy++ {
			for dx := 0; dx < size; dx++ {
				px := sx + dx - size/2
				py := sy + dy - size/2
				if px < 0 || px >= width || py < 0 || py >= height {
					continue
				}
				if alpha {
					blendPixel(pixels, py*stride+px*4, cr, cg, cb, ca)
				} else {
					writePixel(pixels, py*stride+px*4, cr, cg, cb)
				}
			}
		}
	}
}

func (r *SoftwarePointRenderer) renderLines(pixels []byte, width, height, stride int, d *LinesDrawable, camera *PerspectiveCamera) {
	for i := 0; i < d.SegmentCount(); i++ {
		x1, y1, z1, x2, y2, z2 := d.Segment(i)
		cr, cg, cb := d.Color(i)

		ax, ay, _, ok1 := camera.Project(float64(x1), float64(y1), float64(z1), width, height)
		bx, by, _, ok2 := camera.Project(float64(x2), float64(y2), float64(z2), width, height)
		// Segments with an endpoint outside the clip volume are dropped
		// whole; overlay geometry is small enough that true clipping is
		// not worth the cost.
		if !ok1 || !ok2 {
			continue
		}

		drawLine(pixels, width, height, stride, ax, ay, bx, by, cr, cg, cb)
	}
}

// drawLine rasterizes a 2D segment with an integer DDA.
func drawLine(pixels []byte, width, height, stride, x1, y1, x2, y2 int, r, g, b float32) {
	dx := x2 - x1
	dy := y2 - y1
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		if x1 >= 0 && x1 < width && y1 >= 0 && y1 < height {
			writePixel(pixels, y1*stride+x1*4, r, g, b)
		}
		return
	}

	fx := float64(x1)
	fy := float64(y1)
	sx := float64(dx) / float64(steps)
	sy := float64(dy) / float64(steps)
	for s := 0; s <= steps; s++ {
		px := int(fx)
		py := int(fy)
		if px >= 0 && px < width && py >= 0 && py < height {
			writePixel(pixels, py*stride+px*4, r, g, b)
		}
		fx += sx
		fy += sy
	}
}

// writePixel stores an opaque RGB color at byte offset off.
func writePixel(pixels []byte, off int, r, g, b float32) {
	pixels[off] = channelByte(r)
	pixels[off+1] = channelByte(g)
	pixels[off+2] = channelByte(b)
	pixels[off+3] = 0xFF
}

// blendPixel composites the color source-over onto the pixel at off.
func blendPixel(pixels []byte, off int, r, g, b, a float32) {
	if a >= 1 {
		writePixel(pixels, off, r, g, b)
		return
	}
	inv := 1 - a
	pixels[off] = channelByte(r*a + float32(pixels[off])/255*inv)
	pixels[off+1] = channelByte(g*a + float32(pixels[off+1])/255*inv)
	pixels[off+2] = channelByte(b*a + float32(pixels[off+2])/255*inv)
	pixels[off+3] = 0xFF
}

// channelByte converts a [0,1] channel to a clamped byte.
func channelByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xFF
	}
	return byte(v*255 + 0.5)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// typeName reports a drawable's dynamic type for debug logs.
func typeName(d Drawable) string {
	if d == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", d)
}

// Ensure SoftwarePointRenderer implements Renderer and CapableRenderer.
var (
	_ Renderer        = (*SoftwarePointRenderer)(nil)
	_ CapableRenderer = (*SoftwarePointRenderer)(nil)
)
