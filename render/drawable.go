// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/pointview/pointbuf"
)

// PointsDrawable binds a point buffer to the scene.
//
// The drawable does not copy the buffer: renderers read positions, colors,
// and the draw count straight from it each frame, so decay updates applied
// to the buffer are visible immediately. Releasing the drawable disposes
// the underlying buffer.
type PointsDrawable struct {
	buf       *pointbuf.Buffer
	pointSize int
	released  bool
}

// NewPointsDrawable wraps buf for scene composition with a 1px point size.
func NewPointsDrawable(buf *pointbuf.Buffer) *PointsDrawable {
	return &PointsDrawable{
		buf:       buf,
		pointSize: 1,
	}
}

// Buffer returns the underlying point buffer, or nil after Release.
func (d *PointsDrawable) Buffer() *pointbuf.Buffer {
	if d.released {
		return nil
	}
	return d.buf
}

// SetPointSize sets the splat size in pixels. Values below 1 are ignored.
func (d *PointsDrawable) SetPointSize(px int) {
	if px >= 1 {
		d.pointSize = px
	}
}

// PointSize returns the splat size in pixels.
func (d *PointsDrawable) PointSize() int {
	return d.pointSize
}

// Release disposes the underlying buffer exactly once.
func (d *PointsDrawable) Release() {
	if d.released {
		return
	}
	d.released = true
	if d.buf != nil {
		d.buf.Dispose()
		d.buf = nil
	}
}

// LinesDrawable is a set of colored world-space line segments, used by the
// axes and grid debug overlays.
type LinesDrawable struct {
	// segments holds x1,y1,z1,x2,y2,z2 per segment.
	segments []float32
	// colors holds r,g,b per segment.
	colors   []float32
	released bool
}

// NewLinesDrawable creates an empty line set.
func NewLinesDrawable() *LinesDrawable {
	return &LinesDrawable{}
}

// AddSegment appends a line segment with the given endpoints and color.
func (d *LinesDrawable) AddSegment(x1, y1, z1, x2, y2, z2, r, g, b float32) {
	if d.released {
		return
	}
	d.segments = append(d.segments, x1, y1, z1, x2, y2, z2)
	d.colors = append(d.colors, r, g, b)
}

// SegmentCount returns the number of stored segments.
func (d *LinesDrawable) SegmentCount() int {
	return len(d.segments) / 6
}

// Segment returns the endpoints of segment i.
func (d *LinesDrawable) Segment(i int) (x1, y1, z1, x2, y2, z2 float32) {
	s := d.segments[i*6 : i*6+6]
	return s[0], s[1], s[2], s[3], s[4], s[5]
}

// Color returns the color of segment i.
func (d *LinesDrawable) Color(i int) (r, g, b float32) {
	c := d.colors[i*3 : i*3+3]
	return c[0], c[1], c[2]
}

// Release drops the segment storage. Idempotent.
func (d *LinesDrawable) Release() {
	if d.released {
		return
	}
	d.released = true
	d.segments = nil
	d.colors = nil
}

// Ensure both drawables implement the scene and instance interfaces.
var (
	_ Drawable            = (*PointsDrawable)(nil)
	_ Drawable            = (*LinesDrawable)(nil)
	_ pointbuf.Releasable = (*PointsDrawable)(nil)
)
