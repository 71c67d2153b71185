// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNewPixmapTarget(t *testing.T) {
	target := NewPixmapTarget(800, 600)

	if target.Width() != 800 || target.Height() != 600 {
		t.Errorf("size = %dx%d, want 800x600", target.Width(), target.Height())
	}
	if target.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", target.Format())
	}
	if target.Pixels() == nil {
		t.Error("Pixels() = nil for CPU target")
	}
	if target.PixelDensity() != 1 {
		t.Errorf("PixelDensity() = %v, want 1", target.PixelDensity())
	}
}

func TestPixmapTargetClampsDimensions(t *testing.T) {
	target := NewPixmapTarget(0, -5)
	if target.Width() != 1 || target.Height() != 1 {
		t.Errorf("size = %dx%d, want 1x1", target.Width(), target.Height())
	}
}

func TestPixmapTargetClear(t *testing.T) {
	target := NewPixmapTarget(16, 16)
	target.Clear(color.RGBA{R: 10, G: 20, B: 30, A: 255})

	for _, pt := range [][2]int{{0, 0}, {15, 0}, {7, 8}, {15, 15}} {
		r, g, b, _ := target.GetPixel(pt[0], pt[1]).RGBA()
		if byte(r>>8) != 10 || byte(g>>8) != 20 || byte(b>>8) != 30 {
			t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want (10,20,30)", pt[0], pt[1], r>>8, g>>8, b>>8)
		}
	}
}

func TestPixmapTargetResizePreservesContent(t *testing.T) {
	target := NewPixmapTarget(8, 8)
	target.Clear(color.RGBA{R: 200, G: 100, B: 50, A: 255})

	target.Resize(16, 16)

	if target.Width() != 16 || target.Height() != 16 {
		t.Fatalf("size = %dx%d after Resize, want 16x16", target.Width(), target.Height())
	}
	// Uniform content survives the rescale.
	r, g, b, _ := target.GetPixel(8, 8).RGBA()
	if byte(r>>8) != 200 || byte(g>>8) != 100 || byte(b>>8) != 50 {
		t.Errorf("center pixel = (%d,%d,%d) after resize, want (200,100,50)", r>>8, g>>8, b>>8)
	}
}

func TestPixmapTargetResizeSameSizeNoop(t *testing.T) {
	target := NewPixmapTarget(8, 8)
	img := target.Image()
	target.Resize(8, 8)
	if target.Image() != img {
		t.Error("Resize to the same dimensions should not reallocate")
	}
}

func TestPixmapTargetSnapshotIsCopy(t *testing.T) {
	target := NewPixmapTarget(4, 4)
	target.Clear(color.RGBA{R: 1, G: 2, B: 3, A: 255})

	snap := target.Snapshot()
	target.Clear(color.RGBA{R: 9, G: 9, B: 9, A: 255})

	r, _, _, _ := snap.At(0, 0).RGBA()
	if byte(r>>8) != 1 {
		t.Error("snapshot should not share memory with the target")
	}
}

func TestPixmapTargetPixelDensity(t *testing.T) {
	target := NewPixmapTarget(4, 4)
	target.SetPixelDensity(2)
	if target.PixelDensity() != 2 {
		t.Errorf("PixelDensity() = %v, want 2", target.PixelDensity())
	}
	target.SetPixelDensity(0) // ignored
	if target.PixelDensity() != 2 {
		t.Errorf("PixelDensity() = %v after SetPixelDensity(0), want 2", target.PixelDensity())
	}
}
