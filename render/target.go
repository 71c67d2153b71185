// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

// RenderTarget defines where rendering output goes.
//
// Targets may support CPU access (Pixels), GPU access, or both. The
// renderer implementation chooses the appropriate access method.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to pixel data.
	// Returns nil for GPU-only targets.
	// For RGBA format, each pixel is 4 bytes: R, G, B, A.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// This is the target the software point renderer draws into and the
// viewport presents to the host surface. Resize preserves the previous
// contents by rescaling them into the new allocation, so a frame that
// lands between a resize and the next render does not flash empty.
type PixmapTarget struct {
	img *image.RGBA

	// pixelDensity is the device-pixel ratio applied by the viewport on
	// resize. Stored so hosts can map framebuffer pixels back to layout
	// coordinates.
	pixelDensity float64
}

// NewPixmapTarget creates a new CPU-backed render target.
// Dimensions below 1 are clamped to 1.
func NewPixmapTarget(width, height int) *PixmapTarget {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &PixmapTarget{
		img:          image.NewRGBA(image.Rect(0, 0, width, height)),
		pixelDensity: 1,
	}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Snapshot returns a copy of the current contents.
func (t *PixmapTarget) Snapshot() *image.RGBA {
	cp := image.NewRGBA(t.img.Bounds())
	copy(cp.Pix, t.img.Pix)
	return cp
}

// SetPixelDensity records the device-pixel ratio for this target.
// Values at or below 0 are ignored.
func (t *PixmapTarget) SetPixelDensity(d float64) {
	if d > 0 {
		t.pixelDensity = d
	}
}

// PixelDensity returns the recorded device-pixel ratio.
func (t *PixmapTarget) PixelDensity() float64 {
	return t.pixelDensity
}

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c color.Color) {
	r, g, b, a := c.RGBA()
	px := [4]byte{byte(r >> 8), byte(g >> 8), byte(b >> 8), byte(a >> 8)}

	pix := t.img.Pix
	// Fill the first row, then replicate it with copy.
	rowBytes := t.Width() * 4
	for x := 0; x < rowBytes; x += 4 {
		pix[x] = px[0]
		pix[x+1] = px[1]
		pix[x+2] = px[2]
		pix[x+3] = px[3]
	}
	for y := 1; y < t.Height(); y++ {
		copy(pix[y*t.img.Stride:y*t.img.Stride+rowBytes], pix[:rowBytes])
	}
}

// SetPixel sets a single pixel at the given coordinates.
func (t *PixmapTarget) SetPixel(x, y int, c color.Color) {
	t.img.Set(x, y, c)
}

// GetPixel returns the color at the given coordinates.
func (t *PixmapTarget) GetPixel(x, y int) color.Color {
	return t.img.At(x, y)
}

// Resize reallocates the target at the given dimensions, rescaling the
// previous contents into the new allocation. Dimensions below 1 are
// clamped to 1. A no-op when the size is unchanged.
func (t *PixmapTarget) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width == t.Width() && height == t.Height() {
		return
	}

	next := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(next, next.Bounds(), t.img, t.img.Bounds(), xdraw.Src, nil)
	t.img = next
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)
