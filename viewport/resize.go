// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package viewport

// resizeQuiescenceMillis is how long the host size must hold still before
// a pending resize is applied. Intermediate sizes seen during a drag are
// coalesced away; only the final dimensions reach the camera and target.
const resizeQuiescenceMillis = 200

// resizeDebouncer coalesces a burst of size observations into a single
// apply. Observe is fed the current surface size every frame; Poll hands
// out the settled size once nothing has changed for the quiescence window.
// All methods run on the render-loop goroutine.
type resizeDebouncer struct {
	width, height int
	density       float64

	pendingW, pendingH int
	pendingDensity     float64
	lastChange         int64
	dirty              bool
}

func newResizeDebouncer(width, height int, density float64) *resizeDebouncer {
	return &resizeDebouncer{width: width, height: height, density: density}
}

// Observe records the surface size seen at now. A size equal to the last
// applied one cancels any pending resize.
func (d *resizeDebouncer) Observe(now int64, width, height int, density float64) {
	if width == d.width && height == d.height && density == d.density {
		d.dirty = false
		return
	}
	if d.dirty && width == d.pendingW && height == d.pendingH && density == d.pendingDensity {
		return // same pending size, quiescence clock keeps running
	}
	d.pendingW, d.pendingH, d.pendingDensity = width, height, density
	d.lastChange = now
	d.dirty = true
}

// Poll returns the settled size once the pending observation has been
// stable for the quiescence window, marking it applied. ok is false while
// nothing is pending or the window has not elapsed.
func (d *resizeDebouncer) Poll(now int64) (width, height int, density float64, ok bool) {
	if !d.dirty || now-d.lastChange < resizeQuiescenceMillis {
		return 0, 0, 0, false
	}
	d.width, d.height, d.density = d.pendingW, d.pendingH, d.pendingDensity
	d.dirty = false
	return d.width, d.height, d.density, true
}

// Pending reports whether a resize is waiting out its quiescence window.
func (d *resizeDebouncer) Pending() bool { return d.dirty }
