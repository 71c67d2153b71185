// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package viewport

import (
	"fmt"
	"image"
	"io"

	"github.com/HugoSmits86/nativewebp"
)

// Snapshot returns a copy of the current framebuffer, or nil before Init
// and after Dispose. Safe to call from any goroutine; the copy never
// straddles a frame.
func (v *Viewport) Snapshot() *image.RGBA {
	v.mu.Lock()
	target := v.target
	v.mu.Unlock()
	if target == nil {
		return nil
	}
	v.frameMu.Lock()
	defer v.frameMu.Unlock()
	return target.Snapshot()
}

// SaveWebP encodes the current framebuffer as lossless WebP to w. Before
// Init and after Dispose it returns an error instead of writing.
func (v *Viewport) SaveWebP(w io.Writer) error {
	img := v.Snapshot()
	if img == nil {
		return fmt.Errorf("viewport: no framebuffer to snapshot")
	}
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("viewport: encode snapshot: %w", err)
	}
	return nil
}
