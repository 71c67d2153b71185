// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ingest provides the producer/consumer pipeline that turns
// incoming point batches into buffer instances: a FIFO queue with a hard
// admission cap, a throttled consumer driven by the render loop, and
// instance eviction under the instance-eviction decay policy.
package ingest

import (
	"errors"
	"sync"

	"github.com/gogpu/pointview"
	"github.com/gogpu/pointview/pointbuf"
)

// Pipeline errors.
var (
	// ErrAdmissionCapReached is returned by EnqueueBatch once the
	// cumulative count of points ever enqueued has reached the configured
	// cap. Producers must stop generating batches on this error; batches
	// already queued are never dropped.
	ErrAdmissionCapReached = errors.New("ingest: admission cap reached")

	// ErrDisposed is returned by EnqueueBatch after the pipeline has been
	// disposed.
	ErrDisposed = errors.New("ingest: pipeline disposed")
)

// Sink connects the pipeline to the scene. The viewport implements it:
// Attach creates the scene drawable for a freshly filled instance, Detach
// unlinks it just before the instance is disposed.
//
// Both methods are invoked from Tick, i.e. on the render-loop goroutine.
type Sink interface {
	Attach(*pointbuf.Instance)
	Detach(*pointbuf.Instance)
}

// Pipeline is the ingestion pipeline: a FIFO queue of pending batches and
// a throttled consumer that materializes them into buffer instances.
//
// EnqueueBatch is the producer boundary and is safe to call from any
// goroutine; it only touches the queue, which is the one synchronized
// structure. Everything else — the active instance list, the buffers, the
// sink — is mutated exclusively by Tick on the render-loop goroutine.
type Pipeline struct {
	cfg  pointview.Config
	sink Sink

	// mu guards the producer boundary: queue and admission accounting.
	mu             sync.Mutex
	queue          []pointview.Batch
	enqueuedPoints int
	disposed       bool

	// Consumer state, owned by the render-loop goroutine. tickNow is the
	// timestamp of the tick in progress; the persistent buffer's clock
	// reads it so every AddPoint carries tick time, one time base for the
	// whole pipeline.
	tickNow     int64
	lastConsume int64
	active      []*pointbuf.Instance

	// persistent is the single long-lived instance used under
	// PolicyIntraBufferFade; nil until the first batch is consumed.
	persistent *pointbuf.Instance

	// wake restarts tick scheduling after an idle stop. Must be safe to
	// call from any goroutine. Optional.
	wake func()
}

// Option configures a Pipeline during creation.
type Option func(*Pipeline)

// WithWakeFunc registers the scheduler-restart hook invoked when a batch
// arrives while ticking is idle-stopped.
func WithWakeFunc(wake func()) Option {
	return func(p *Pipeline) {
		p.wake = wake
	}
}

// New creates a Pipeline for the given configuration and sink.
func New(cfg pointview.Config, sink Sink, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:  cfg,
		sink: sink,
		// A consume is allowed on the very first tick.
		lastConsume: -cfg.ThrottleInterval.Milliseconds(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnqueueBatch appends a batch to the queue unless the cumulative count of
// points ever enqueued has reached the admission cap. Admission control
// happens here, at the producer boundary: once the cap is hit the producer
// must stop generating batches, while batches already queued stay queued.
//
// Safe to call from any goroutine.
func (p *Pipeline) EnqueueBatch(b pointview.Batch) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrDisposed
	}
	if p.enqueuedPoints >= p.cfg.MaxTotalPoints {
		p.mu.Unlock()
		return ErrAdmissionCapReached
	}
	p.queue = append(p.queue, b)
	p.enqueuedPoints += b.Len()
	wake := p.wake
	p.mu.Unlock()

	if wake != nil {
		wake()
	}
	return nil
}

// Tick advances the pipeline one scheduler frame, where now is a
// millisecond timestamp. It runs, in order: the eviction step, the
// throttle check, the consume step, and the idle check. The returned idle
// flag is true when both the queue and the active list are empty, telling
// the scheduler it may stop ticking until the next EnqueueBatch.
//
// Must be called from the render-loop goroutine only.
func (p *Pipeline) Tick(now int64) (idle bool) {
	p.tickNow = now
	p.evict(now)

	if now-p.lastConsume >= p.cfg.ThrottleInterval.Milliseconds() {
		p.consume(now)
	}

	p.mu.Lock()
	queued := len(p.queue)
	p.mu.Unlock()
	return queued == 0 && len(p.active) == 0
}

// evict inspects only the oldest active instance and disposes it once its
// decay window has elapsed. Checking a single entry per tick means a newer
// instance whose window elapses before an older one is removed waits until
// it becomes the oldest; that lag is accepted behavior, not a bug.
// Eviction applies only under PolicyInstanceEviction.
func (p *Pipeline) evict(now int64) {
	if p.cfg.Policy != pointview.PolicyInstanceEviction || len(p.active) == 0 {
		return
	}

	oldest := p.active[0]
	if now-oldest.CreatedAt() <= p.cfg.DecayTime.Milliseconds() {
		return
	}

	p.active = p.active[1:]
	if p.sink != nil {
		p.sink.Detach(oldest)
	}
	oldest.Dispose()
	pointview.Logger().Debug("evicted buffer instance",
		"id", oldest.ID(), "age_ms", now-oldest.CreatedAt())
}

// consume pops the oldest queued batch and materializes it.
func (p *Pipeline) consume(now int64) {
	p.mu.Lock()
	if len(p.queue) == 0 {
		p.mu.Unlock()
		return
	}
	batch := p.queue[0]
	p.queue = p.queue[1:]
	p.mu.Unlock()

	switch p.cfg.Policy {
	case pointview.PolicyIntraBufferFade:
		p.fillPersistent(now, batch)
	default:
		p.materialize(now, batch)
	}
	p.lastConsume = now
}

// materialize builds a fresh instance for the batch and appends it to the
// active list (Policy A).
func (p *Pipeline) materialize(now int64, batch pointview.Batch) {
	buf := pointbuf.New(p.cfg.Capacity,
		pointbuf.WithAlpha(p.cfg.Alpha),
		pointbuf.WithDecayTime(p.cfg.DecayTime),
		pointbuf.WithClock(func() int64 { return now }),
	)
	for i := 0; i < batch.Len(); i++ {
		pt := batch.At(i)
		buf.AddPoint(pt.X, pt.Y, pt.Z, pt.R, pt.G, pt.B)
	}

	inst := pointbuf.NewInstance(buf, now)
	p.active = append(p.active, inst)
	if p.sink != nil {
		p.sink.Attach(inst)
	}
	pointview.Logger().Debug("materialized buffer instance",
		"id", inst.ID(), "points", batch.Len())
}

// fillPersistent routes the batch into the single long-lived instance,
// creating it on first use (Policy B).
func (p *Pipeline) fillPersistent(now int64, batch pointview.Batch) {
	if p.persistent == nil {
		buf := pointbuf.New(p.cfg.Capacity,
			pointbuf.WithAlpha(p.cfg.Alpha),
			pointbuf.WithDecayTime(p.cfg.DecayTime),
			pointbuf.WithClock(func() int64 { return p.tickNow }),
		)
		p.persistent = pointbuf.NewInstance(buf, now)
		p.active = append(p.active, p.persistent)
		if p.sink != nil {
			p.sink.Attach(p.persistent)
		}
	}

	buf := p.persistent.Buffer()
	for i := 0; i < batch.Len(); i++ {
		pt := batch.At(i)
		buf.AddPoint(pt.X, pt.Y, pt.Z, pt.R, pt.G, pt.B)
	}
}

// Active returns the active instances, oldest first. The slice is owned by
// the pipeline; callers on the render loop may iterate but not retain it.
func (p *Pipeline) Active() []*pointbuf.Instance {
	return p.active
}

// QueueLen returns the number of batches waiting to be consumed.
func (p *Pipeline) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// EnqueuedPoints returns the cumulative count of points ever enqueued.
func (p *Pipeline) EnqueuedPoints() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enqueuedPoints
}

// Dispose detaches and disposes every active instance, drops the queue,
// and refuses further batches. Idempotent.
func (p *Pipeline) Dispose() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	p.queue = nil
	p.mu.Unlock()

	for _, inst := range p.active {
		if p.sink != nil {
			p.sink.Detach(inst)
		}
		inst.Dispose()
	}
	p.active = nil
	p.persistent = nil
}
