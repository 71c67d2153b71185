// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ingest

import (
	"errors"
	"sync"
	"time"

	"github.com/gogpu/pointview"
)

// Producer emits point batches at a fixed wall-clock interval, fully
// decoupled from the render cadence.
//
// The repeating timer is explicit and owned by the producer, with its own
// cancellation channel: shutdown clears the timer exactly once, and no
// emission happens after Stop returns. The producer stops itself outright
// when the emit function reports the admission cap — production halts at
// the boundary rather than dropping queued work.
type Producer struct {
	interval time.Duration
	gen      func(seq int) pointview.Batch
	emit     func(pointview.Batch) error

	mu      sync.Mutex
	started bool

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewProducer creates a producer that every interval calls gen for the
// next batch and hands it to emit (typically Viewport.EnqueueBatch or
// Pipeline.EnqueueBatch).
func NewProducer(interval time.Duration, gen func(seq int) pointview.Batch, emit func(pointview.Batch) error) *Producer {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Producer{
		interval: interval,
		gen:      gen,
		emit:     emit,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the producer goroutine. Idempotent: a second Start is a
// no-op, as is Start after Stop.
func (p *Producer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	select {
	case <-p.stopCh:
		return // already stopped; a producer is not restartable
	default:
	}
	p.started = true
	go p.run()
}

// run is the producer loop. The stop channel is checked before every
// emission so cancellation is observed before the next batch, never
// raced against one.
func (p *Producer) run() {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for seq := 0; ; seq++ {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
		}

		batch := p.gen(seq)
		if err := p.emit(batch); err != nil {
			if errors.Is(err, ErrAdmissionCapReached) {
				pointview.Logger().Info("producer stopping: admission cap reached",
					"batches", seq+1)
			} else {
				pointview.Logger().Warn("producer stopping on emit error", "err", err)
			}
			return
		}
	}
}

// Stop cancels the producer timer and waits for the loop to exit. After
// Stop returns no further batch is emitted. Idempotent and safe to call
// without Start.
func (p *Producer) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })

	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if started {
		<-p.doneCh
	}
}
