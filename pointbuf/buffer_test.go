// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pointbuf

import (
	"testing"
	"time"
)

// manualClock returns a clock function backed by a settable millisecond value.
func manualClock(now *int64) func() int64 {
	return func() int64 { return *now }
}

func TestDrawCountBelowCapacity(t *testing.T) {
	buf := New(10)

	for n := 1; n <= 10; n++ {
		buf.AddPoint(float32(n), 0, 0, 1, 1, 1)
		if buf.DrawCount() != n {
			t.Fatalf("after %d inserts: DrawCount() = %d, want %d", n, buf.DrawCount(), n)
		}
	}
}

func TestDrawCountSaturatesAtCapacity(t *testing.T) {
	buf := New(8)

	for n := 0; n < 25; n++ {
		buf.AddPoint(float32(n), 0, 0, 1, 1, 1)
	}

	if buf.DrawCount() != 8 {
		t.Errorf("DrawCount() = %d, want 8", buf.DrawCount())
	}
	if buf.Written() != 25 {
		t.Errorf("Written() = %d, want 25", buf.Written())
	}

	// The most recent insert (value 24) lives at slot (25-1) mod 8 = 0.
	x, _, _ := buf.Position(0)
	if x != 24 {
		t.Errorf("Position(0).x = %v, want 24 (most recent insert)", x)
	}
}

func TestRingOverwritesOldest(t *testing.T) {
	buf := New(3)

	for n := 0; n < 5; n++ {
		buf.AddPoint(float32(n), 0, 0, 1, 1, 1)
	}

	// Values 3, 4 overwrote slots 0, 1; slot 2 still holds value 2.
	want := []float32{3, 4, 2}
	for slot, w := range want {
		x, _, _ := buf.Position(slot)
		if x != w {
			t.Errorf("Position(%d).x = %v, want %v", slot, x, w)
		}
	}
}

func TestAlphaDecay(t *testing.T) {
	var now int64
	buf := New(4,
		WithAlpha(true),
		WithDecayTime(1000*time.Millisecond),
		WithClock(manualClock(&now)),
	)

	now = 1000
	buf.AddPoint(0, 0, 0, 1, 0, 0)

	tests := []struct {
		now  int64
		want float32
	}{
		{1000, 1},    // freshly inserted
		{1250, 0.75}, // quarter through the window
		{1500, 0.5},
		{1900, 0.1},
		{2000, 0}, // exactly at decayTime
		{5000, 0}, // far beyond: clamped, never negative
	}

	prev := float32(2)
	for _, tt := range tests {
		buf.Update(tt.now)
		_, _, _, a := buf.Color(0)
		if diff := a - tt.want; diff > 1e-5 || diff < -1e-5 {
			t.Errorf("Update(%d): alpha = %v, want %v", tt.now, a, tt.want)
		}
		if a > prev {
			t.Errorf("Update(%d): alpha %v increased from %v", tt.now, a, prev)
		}
		prev = a
	}
}

func TestBinaryDecay(t *testing.T) {
	var now int64
	buf := New(4,
		WithDecayTime(1000*time.Millisecond),
		WithClock(manualClock(&now)),
	)

	now = 1000
	buf.AddPoint(0, 0, 0, 0.5, 0.6, 0.7)

	// Within the window the color is untouched.
	buf.Update(1999)
	r, g, b, a := buf.Color(0)
	if r != 0.5 || g != 0.6 || b != 0.7 {
		t.Errorf("color before threshold = (%v,%v,%v), want unchanged", r, g, b)
	}
	if a != 1 {
		t.Errorf("alpha = %v, want 1 for non-alpha buffer", a)
	}

	// At exactly the window the point survives: blackout requires the age
	// to strictly exceed the decay time.
	buf.Update(2000)
	r, g, b, _ = buf.Color(0)
	if r != 0.5 || g != 0.6 || b != 0.7 {
		t.Errorf("color at threshold = (%v,%v,%v), want unchanged", r, g, b)
	}

	// Past the window the color is cut hard to black.
	buf.Update(2001)
	r, g, b, _ = buf.Color(0)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("color past threshold = (%v,%v,%v), want (0,0,0)", r, g, b)
	}
}

// TestDecayScenario is the end-to-end ring scenario: capacity 1000, binary
// decay over 1000ms, 1500 inserts 1ms apart.
func TestDecayScenario(t *testing.T) {
	const t0 = 100_000
	now := int64(t0)
	buf := New(1000,
		WithDecayTime(1000*time.Millisecond),
		WithClock(manualClock(&now)),
	)

	for i := 0; i < 1500; i++ {
		now = t0 + int64(i)
		buf.AddPoint(float32(i), 0, 0, 1, 1, 1)
	}

	if buf.DrawCount() != 1000 {
		t.Fatalf("DrawCount() = %d, want 1000", buf.DrawCount())
	}

	// Slot 0 holds data from the 1001st call (value 1000).
	x, _, _ := buf.Position(0)
	if x != 1000 {
		t.Errorf("Position(0).x = %v, want 1000", x)
	}

	// At t0+1001 every surviving point (inserted t0+500 onwards) is still
	// inside the window: nothing blacks out.
	buf.Update(t0 + 1001)
	for i := 0; i < 1000; i++ {
		if r, g, b, _ := buf.Color(i); r == 0 && g == 0 && b == 0 {
			t.Fatalf("slot %d (inserted %d) blacked out too early", i, buf.Timestamp(i))
		}
	}

	// At t0+1800 exactly the points older than the window (inserted before
	// t0+800) are black, the rest untouched.
	buf.Update(t0 + 1800)
	for i := 0; i < 1000; i++ {
		ts := buf.Timestamp(i)
		r, g, b, _ := buf.Color(i)
		aged := t0+1800-ts > 1000
		black := r == 0 && g == 0 && b == 0
		if aged && !black {
			t.Fatalf("slot %d (inserted %d) should be black", i, ts)
		}
		if !aged && black {
			t.Fatalf("slot %d (inserted %d) should be unchanged", i, ts)
		}
	}
}

func TestDirtyFlags(t *testing.T) {
	buf := New(4)

	if p, c := buf.ConsumeDirty(); p || c {
		t.Error("fresh buffer should not be dirty")
	}

	buf.AddPoint(1, 2, 3, 1, 1, 1)
	p, c := buf.ConsumeDirty()
	if !p || !c {
		t.Errorf("after AddPoint: dirty = (%v,%v), want (true,true)", p, c)
	}

	// Flags are cleared by consumption.
	if p, c := buf.ConsumeDirty(); p || c {
		t.Error("dirty flags should clear after ConsumeDirty")
	}

	// Update touches colors only.
	buf.Update(1)
	p, c = buf.ConsumeDirty()
	if p {
		t.Error("Update should not mark positions dirty")
	}
	if !c {
		t.Error("Update should mark colors dirty")
	}
}

func TestDisposeIdempotent(t *testing.T) {
	buf := New(4)
	buf.AddPoint(1, 2, 3, 1, 1, 1)

	buf.Dispose()
	if !buf.Disposed() {
		t.Fatal("Disposed() = false after Dispose")
	}

	// Second dispose and post-dispose operations are safe no-ops.
	buf.Dispose()
	buf.AddPoint(4, 5, 6, 1, 1, 1)
	buf.Update(100)

	if buf.Written() != 1 {
		t.Errorf("Written() = %d after disposed AddPoint, want 1", buf.Written())
	}
}

func TestCapacityClamped(t *testing.T) {
	buf := New(0)
	if buf.Capacity() < 1 {
		t.Errorf("Capacity() = %d, want at least 1", buf.Capacity())
	}
}

func TestColorChannelCountFixed(t *testing.T) {
	rgb := New(2)
	rgba := New(2, WithAlpha(true))

	if rgb.Alpha() {
		t.Error("default buffer should not have alpha channel")
	}
	if !rgba.Alpha() {
		t.Error("WithAlpha(true) buffer should have alpha channel")
	}
	if got := len(rgb.colors); got != 2*rgbStride {
		t.Errorf("rgb color storage = %d floats, want %d", got, 2*rgbStride)
	}
	if got := len(rgba.colors); got != 2*rgbaStride {
		t.Errorf("rgba color storage = %d floats, want %d", got, 2*rgbaStride)
	}
}
