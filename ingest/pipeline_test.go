// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/pointview"
	"github.com/gogpu/pointview/pointbuf"
)

// recordingSink records attach/detach calls for pipeline tests.
type recordingSink struct {
	attached []*pointbuf.Instance
	detached []*pointbuf.Instance
}

func (s *recordingSink) Attach(in *pointbuf.Instance) { s.attached = append(s.attached, in) }
func (s *recordingSink) Detach(in *pointbuf.Instance) { s.detached = append(s.detached, in) }

func batchOf(n int) pointview.Batch {
	pts := make([]pointview.Point, n)
	for i := range pts {
		pts[i] = pointview.Point{X: float32(i), R: 1}
	}
	return pointview.NewBatch(pts)
}

func evictionConfig(opts ...pointview.Option) pointview.Config {
	base := []pointview.Option{
		pointview.WithCapacity(100),
		pointview.WithDecayTime(time.Second),
		pointview.WithThrottleInterval(100 * time.Millisecond),
		pointview.WithMaxTotalPoints(1000),
	}
	return pointview.NewConfig(pointview.PolicyInstanceEviction, append(base, opts...)...)
}

func TestConsumeCreatesInstance(t *testing.T) {
	sink := &recordingSink{}
	p := New(evictionConfig(), sink)

	if err := p.EnqueueBatch(batchOf(5)); err != nil {
		t.Fatalf("EnqueueBatch() error: %v", err)
	}

	idle := p.Tick(0)
	if idle {
		t.Error("Tick() reported idle with an active instance")
	}
	if len(sink.attached) != 1 {
		t.Fatalf("attached %d instances, want 1", len(sink.attached))
	}
	inst := sink.attached[0]
	if inst.Buffer().DrawCount() != 5 {
		t.Errorf("DrawCount() = %d, want 5", inst.Buffer().DrawCount())
	}
	if p.QueueLen() != 0 {
		t.Errorf("QueueLen() = %d, want 0", p.QueueLen())
	}
}

func TestThrottleDefersConsumption(t *testing.T) {
	p := New(evictionConfig(), &recordingSink{})

	p.EnqueueBatch(batchOf(1))
	p.EnqueueBatch(batchOf(1))

	p.Tick(0) // first batch consumed at t=0
	if got := len(p.Active()); got != 1 {
		t.Fatalf("active = %d after first tick, want 1", got)
	}

	// Inside the throttle window the second batch stays queued, undropped.
	p.Tick(50)
	if got := len(p.Active()); got != 1 {
		t.Errorf("active = %d inside throttle window, want 1", got)
	}
	if p.QueueLen() != 1 {
		t.Errorf("QueueLen() = %d, want 1 (throttle must not drop)", p.QueueLen())
	}

	p.Tick(100)
	if got := len(p.Active()); got != 2 {
		t.Errorf("active = %d after throttle window, want 2", got)
	}
}

func TestEvictionOldestOnly(t *testing.T) {
	sink := &recordingSink{}
	p := New(evictionConfig(), sink)

	p.EnqueueBatch(batchOf(1))
	p.EnqueueBatch(batchOf(1))
	p.Tick(0)   // instance A created at 0
	p.Tick(100) // instance B created at 100

	if len(p.Active()) != 2 {
		t.Fatalf("active = %d, want 2", len(p.Active()))
	}
	a := p.Active()[0]

	// Both instances are past their windows at t=2000, but only the single
	// oldest is checked per tick: one eviction per tick.
	p.Tick(2000)
	if len(p.Active()) != 1 {
		t.Fatalf("active = %d after first eviction tick, want 1", len(p.Active()))
	}
	if len(sink.detached) != 1 || sink.detached[0] != a {
		t.Error("the oldest instance should be detached first")
	}
	if !a.Disposed() {
		t.Error("evicted instance should be disposed")
	}

	p.Tick(2001)
	if len(p.Active()) != 0 {
		t.Errorf("active = %d after second eviction tick, want 0", len(p.Active()))
	}
}

func TestEvictionExactlyOnce(t *testing.T) {
	sink := &recordingSink{}
	p := New(evictionConfig(), sink)

	p.EnqueueBatch(batchOf(1))
	p.Tick(0)
	inst := p.Active()[0]

	// Not evicted at exactly decayTime: the window must be exceeded.
	p.Tick(1000)
	if inst.Disposed() {
		t.Error("instance evicted at now-createdAt == decayTime, want strictly greater")
	}

	p.Tick(1001)
	if !inst.Disposed() {
		t.Fatal("instance not evicted past its window")
	}

	// Further ticks never dispose it again.
	p.Tick(5000)
	if len(sink.detached) != 1 {
		t.Errorf("detached %d times, want exactly 1", len(sink.detached))
	}
}

func TestAdmissionCap(t *testing.T) {
	cfg := evictionConfig(pointview.WithMaxTotalPoints(10))
	p := New(cfg, &recordingSink{})

	if err := p.EnqueueBatch(batchOf(10)); err != nil {
		t.Fatalf("first batch refused: %v", err)
	}
	err := p.EnqueueBatch(batchOf(1))
	if !errors.Is(err, ErrAdmissionCapReached) {
		t.Fatalf("EnqueueBatch() = %v, want ErrAdmissionCapReached", err)
	}

	// Queued batches are not dropped by the cap.
	if p.QueueLen() != 1 {
		t.Errorf("QueueLen() = %d, want 1", p.QueueLen())
	}
	if p.EnqueuedPoints() != 10 {
		t.Errorf("EnqueuedPoints() = %d, want 10", p.EnqueuedPoints())
	}
}

func TestIdleReportedWhenDrained(t *testing.T) {
	p := New(evictionConfig(), &recordingSink{})

	if !p.Tick(0) {
		t.Error("empty pipeline should report idle")
	}

	p.EnqueueBatch(batchOf(1))
	if p.Tick(100) {
		t.Error("pipeline with an active instance is not idle")
	}

	// Evict the only instance; the pipeline drains back to idle.
	if !p.Tick(5000) {
		t.Error("drained pipeline should report idle")
	}
}

func TestWakeOnEnqueue(t *testing.T) {
	woke := 0
	p := New(evictionConfig(), &recordingSink{}, WithWakeFunc(func() { woke++ }))

	p.EnqueueBatch(batchOf(1))
	if woke != 1 {
		t.Errorf("wake called %d times, want 1", woke)
	}

	// A refused batch does not wake the scheduler.
	cfg := evictionConfig(pointview.WithMaxTotalPoints(1))
	woke = 0
	p = New(cfg, &recordingSink{}, WithWakeFunc(func() { woke++ }))
	p.EnqueueBatch(batchOf(1))
	p.EnqueueBatch(batchOf(1))
	if woke != 1 {
		t.Errorf("wake called %d times, want 1", woke)
	}
}

func TestIntraBufferFadeUsesPersistentInstance(t *testing.T) {
	cfg := pointview.NewConfig(pointview.PolicyIntraBufferFade,
		pointview.WithCapacity(100),
		pointview.WithThrottleInterval(0),
	)
	sink := &recordingSink{}
	p := New(cfg, sink)

	p.EnqueueBatch(batchOf(3))
	p.Tick(0)
	p.EnqueueBatch(batchOf(4))
	p.Tick(10)

	// Both batches land in one long-lived instance.
	if len(sink.attached) != 1 {
		t.Fatalf("attached %d instances, want 1", len(sink.attached))
	}
	if len(p.Active()) != 1 {
		t.Fatalf("active = %d, want 1", len(p.Active()))
	}
	if got := p.Active()[0].Buffer().DrawCount(); got != 7 {
		t.Errorf("DrawCount() = %d, want 7", got)
	}

	// No instance eviction under the fade policy.
	p.Tick(1_000_000)
	if len(p.Active()) != 1 {
		t.Error("fade policy must not evict the persistent instance")
	}
}

func TestFadeTimestampsCarryTickTime(t *testing.T) {
	cfg := pointview.NewConfig(pointview.PolicyIntraBufferFade,
		pointview.WithCapacity(100),
		pointview.WithThrottleInterval(0),
	)
	p := New(cfg, &recordingSink{})

	p.EnqueueBatch(batchOf(1))
	p.Tick(0)
	p.EnqueueBatch(batchOf(1))
	p.Tick(500)

	buf := p.Active()[0].Buffer()
	if got := buf.Timestamp(0); got != 0 {
		t.Errorf("Timestamp(0) = %d, want 0", got)
	}
	if got := buf.Timestamp(1); got != 500 {
		t.Errorf("Timestamp(1) = %d, want 500", got)
	}

	// Decay evaluated against the same tick time base.
	buf.Update(1200)
	if r, _, _, _ := buf.Color(0); r != 0 {
		t.Errorf("point 0 red = %v after decay window, want 0", r)
	}
	if r, _, _, _ := buf.Color(1); r != 1 {
		t.Errorf("point 1 red = %v inside decay window, want 1", r)
	}
}

func TestDisposeDetachesAndRefuses(t *testing.T) {
	sink := &recordingSink{}
	p := New(evictionConfig(), sink)

	p.EnqueueBatch(batchOf(1))
	p.Tick(0)
	inst := p.Active()[0]

	p.Dispose()
	p.Dispose() // idempotent

	if !inst.Disposed() {
		t.Error("Dispose should dispose active instances")
	}
	if len(sink.detached) != 1 {
		t.Errorf("detached %d times, want 1", len(sink.detached))
	}
	if err := p.EnqueueBatch(batchOf(1)); !errors.Is(err, ErrDisposed) {
		t.Errorf("EnqueueBatch after Dispose = %v, want ErrDisposed", err)
	}
}
