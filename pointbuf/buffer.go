// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pointbuf provides fixed-capacity ring buffers for streaming point
// data and the buffer instances the ingestion pipeline rotates through.
package pointbuf

import (
	"time"

	"github.com/gogpu/pointview"
)

// Color channel strides. A buffer allocated without alpha stores RGB
// triplets; with alpha it stores RGBA quads. The channel count is fixed at
// construction and never changes.
const (
	rgbStride  = 3
	rgbaStride = 4
)

// Buffer is a fixed-capacity ring store of point positions, colors, and
// insertion timestamps.
//
// Points are stored in parallel slices sized at construction and never
// reallocated: writing past capacity wraps around and overwrites the oldest
// slot. The number of valid entries (DrawCount) grows monotonically to
// capacity and then stays fixed.
//
// Buffer is not safe for concurrent use. All mutation is expected to happen
// on the render-loop goroutine.
//
// Example:
//
//	buf := pointbuf.New(1000, pointbuf.WithAlpha(true))
//	buf.AddPoint(1, 2, 3, 1, 0, 0)
//	buf.Update(now) // fades points by age
type Buffer struct {
	capacity    int
	alpha       bool
	decayMillis int64
	clock       func() int64

	// Parallel storage: capacity*3 position floats, capacity*stride color
	// floats, capacity insertion timestamps in milliseconds.
	positions  []float32
	colors     []float32
	timestamps []int64

	// written counts every AddPoint ever made; the write index is
	// written % capacity.
	written   int
	drawCount int

	// Dirty flags mark position/color data for renderer-side re-upload.
	posDirty   bool
	colorDirty bool

	disposed bool
}

// Option configures a Buffer during creation.
type Option func(*Buffer)

// WithAlpha enables the per-point alpha channel. Alpha-mode buffers fade
// points continuously with age; without alpha, decayed points are cut hard
// to black.
func WithAlpha(enabled bool) Option {
	return func(b *Buffer) {
		b.alpha = enabled
	}
}

// WithDecayTime sets the per-point decay window used by Update.
// Non-positive durations are ignored.
func WithDecayTime(d time.Duration) Option {
	return func(b *Buffer) {
		if d > 0 {
			b.decayMillis = d.Milliseconds()
		}
	}
}

// WithClock sets the millisecond clock used to timestamp inserted points.
// Tests inject a manual clock here; the default is wall time.
func WithClock(clock func() int64) Option {
	return func(b *Buffer) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// New creates a Buffer holding up to capacity points.
// Capacities below 1 are clamped to the package default.
func New(capacity int, opts ...Option) *Buffer {
	if capacity < 1 {
		capacity = pointview.DefaultCapacity
	}
	b := &Buffer{
		capacity:    capacity,
		decayMillis: pointview.DefaultFadeDecay.Milliseconds(),
		clock:       func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(b)
	}

	stride := rgbStride
	if b.alpha {
		stride = rgbaStride
	}
	b.positions = make([]float32, capacity*3)
	b.colors = make([]float32, capacity*stride)
	b.timestamps = make([]int64, capacity)
	return b
}

// Capacity returns the fixed point capacity.
func (b *Buffer) Capacity() int { return b.capacity }

// Alpha reports whether the buffer carries a per-point alpha channel.
func (b *Buffer) Alpha() bool { return b.alpha }

// Written returns the total number of AddPoint calls ever made.
func (b *Buffer) Written() int { return b.written }

// DrawCount returns the number of currently valid entries. It grows
// monotonically to capacity and never decreases afterwards.
func (b *Buffer) DrawCount() int { return b.drawCount }

// Disposed reports whether Dispose has been called.
func (b *Buffer) Disposed() bool { return b.disposed }

// stride returns the color channel count per point.
func (b *Buffer) stride() int {
	if b.alpha {
		return rgbaStride
	}
	return rgbStride
}

// AddPoint writes a point into the next ring slot, stamping it with the
// buffer clock. Writing past capacity overwrites the oldest slot; this is
// by design and never errors. O(1), never blocks.
func (b *Buffer) AddPoint(x, y, z, r, g, bl float32) {
	if b.disposed {
		return
	}

	slot := b.written % b.capacity
	pi := slot * 3
	b.positions[pi] = x
	b.positions[pi+1] = y
	b.positions[pi+2] = z

	ci := slot * b.stride()
	b.colors[ci] = r
	b.colors[ci+1] = g
	b.colors[ci+2] = bl
	if b.alpha {
		b.colors[ci+3] = 1
	}

	b.timestamps[slot] = b.clock()

	b.written++
	if b.drawCount < b.capacity {
		b.drawCount = b.written
		if b.drawCount > b.capacity {
			b.drawCount = b.capacity
		}
	}

	b.posDirty = true
	b.colorDirty = true
}

// Update applies per-point decay to every active slot, where now is a
// millisecond timestamp from the same clock that stamped the points.
//
// In alpha mode each point's alpha channel becomes
// clamp(1-(now-inserted)/decayTime, 0, 1): monotonically non-increasing
// with age and exactly 0 at or beyond the decay window.
//
// Without alpha the decay is binary: once a point's age exceeds the decay
// window its color is set to black, otherwise it is left untouched. The
// hard cut is deliberate; there is no gradual blend in this mode.
func (b *Buffer) Update(now int64) {
	if b.disposed || b.drawCount == 0 {
		return
	}

	if b.alpha {
		for i := 0; i < b.drawCount; i++ {
			age := now - b.timestamps[i]
			a := 1 - float64(age)/float64(b.decayMillis)
			if a < 0 {
				a = 0
			} else if a > 1 {
				a = 1
			}
			b.colors[i*rgbaStride+3] = float32(a)
		}
	} else {
		for i := 0; i < b.drawCount; i++ {
			if now-b.timestamps[i] > b.decayMillis {
				ci := i * rgbStride
				b.colors[ci] = 0
				b.colors[ci+1] = 0
				b.colors[ci+2] = 0
			}
		}
	}
	b.colorDirty = true
}

// Position returns the stored position at slot i.
func (b *Buffer) Position(i int) (x, y, z float32) {
	pi := i * 3
	return b.positions[pi], b.positions[pi+1], b.positions[pi+2]
}

// Color returns the stored color at slot i. For buffers without an alpha
// channel the returned alpha is always 1.
func (b *Buffer) Color(i int) (r, g, bl, a float32) {
	ci := i * b.stride()
	if b.alpha {
		return b.colors[ci], b.colors[ci+1], b.colors[ci+2], b.colors[ci+3]
	}
	return b.colors[ci], b.colors[ci+1], b.colors[ci+2], 1
}

// Timestamp returns the insertion timestamp at slot i in milliseconds.
func (b *Buffer) Timestamp(i int) int64 {
	return b.timestamps[i]
}

// ConsumeDirty returns and clears the re-upload flags for position and
// color data. Renderers that keep device-side copies call this once per
// frame to decide what to upload.
func (b *Buffer) ConsumeDirty() (positions, colors bool) {
	positions, colors = b.posDirty, b.colorDirty
	b.posDirty = false
	b.colorDirty = false
	return positions, colors
}

// Dispose releases the buffer storage. After Dispose the buffer ignores
// further writes and updates. Dispose is idempotent.
func (b *Buffer) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.positions = nil
	b.colors = nil
	b.timestamps = nil
}
