// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package viewport

import (
	"image/color"

	"github.com/gogpu/pointview/render"
)

// newAxesDrawable builds the RGB world-axes overlay: X red, Y green,
// Z blue, each a unit segment from the origin scaled to extent.
func newAxesDrawable(extent float32) *render.LinesDrawable {
	d := render.NewLinesDrawable()
	d.AddSegment(0, 0, 0, extent, 0, 0, 1, 0, 0)
	d.AddSegment(0, 0, 0, 0, extent, 0, 0, 1, 0)
	d.AddSegment(0, 0, 0, 0, 0, extent, 0, 0, 1)
	return d
}

// newGridDrawable builds the XZ ground-plane grid overlay: lines parallel
// to both horizontal axes, spaced step units apart over [-half, half].
func newGridDrawable(half, step float32) *render.LinesDrawable {
	d := render.NewLinesDrawable()
	if step <= 0 || half <= 0 {
		return d
	}
	const gr, gg, gb = 0.25, 0.25, 0.25
	for v := -half; v <= half; v += step {
		d.AddSegment(v, 0, -half, v, 0, half, gr, gg, gb)
		d.AddSegment(-half, 0, v, half, 0, v, gr, gg, gb)
	}
	return d
}

// statsRingSize is how many frame samples the stats overlay retains.
const statsRingSize = 120

// statsOverlay keeps a ring of recent frame times and paints them as a
// bar strip in the top-left corner of the target, one column per sample.
// No text rendering; the strip height encodes the frame cost.
type statsOverlay struct {
	samples [statsRingSize]float64 // frame time, milliseconds
	next    int
	count   int
}

func newStatsOverlay() *statsOverlay {
	return &statsOverlay{}
}

// Record appends a frame-time sample in milliseconds.
func (s *statsOverlay) Record(frameMillis float64) {
	s.samples[s.next] = frameMillis
	s.next = (s.next + 1) % statsRingSize
	if s.count < statsRingSize {
		s.count++
	}
}

// Len returns how many samples the ring currently holds.
func (s *statsOverlay) Len() int { return s.count }

// Sample returns the i-th oldest retained sample.
func (s *statsOverlay) Sample(i int) float64 {
	if i < 0 || i >= s.count {
		return 0
	}
	start := s.next - s.count
	if start < 0 {
		start += statsRingSize
	}
	return s.samples[(start+i)%statsRingSize]
}

// stripHeight is the tallest bar in pixels; a 33ms frame fills it.
const stripHeight = 24

// Draw paints the sample strip onto the target, oldest sample leftmost.
func (s *statsOverlay) Draw(target *render.PixmapTarget) {
	if target == nil || s.count == 0 {
		return
	}
	const margin = 4
	for i := 0; i < s.count; i++ {
		ms := s.Sample(i)
		h := int(ms / 33.0 * stripHeight)
		if h < 1 {
			h = 1
		}
		if h > stripHeight {
			h = stripHeight
		}
		// Green under 17ms, yellow under 33ms, red beyond.
		var c color.RGBA
		switch {
		case ms < 17:
			c = color.RGBA{G: 0xff, A: 0xff}
		case ms < 33:
			c = color.RGBA{R: 0xff, G: 0xff, A: 0xff}
		default:
			c = color.RGBA{R: 0xff, A: 0xff}
		}
		x := margin + i
		for y := 0; y < h; y++ {
			target.SetPixel(x, margin+stripHeight-1-y, c)
		}
	}
}
