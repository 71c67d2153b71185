// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pointbuf

import (
	"github.com/google/uuid"
)

// Releasable is the explicit dispose capability a drawable bound to an
// instance must implement. Traversal during teardown calls Release
// uniformly instead of probing arbitrary shapes at runtime.
type Releasable interface {
	// Release frees renderer-side resources exactly once.
	// Implementations must tolerate repeated calls.
	Release()
}

// Instance couples one Buffer with its creation timestamp and the drawable
// that presents it in the scene. It is the unit of eviction under the
// instance-eviction decay policy.
//
// Lifecycle: created by the ingestion pipeline when a batch is dequeued,
// filled once with that batch's points, kept in an oldest-first active
// list, and destroyed by eviction or viewport disposal.
type Instance struct {
	id        uuid.UUID
	createdAt int64
	buf       *Buffer
	drawable  Releasable
	disposed  bool
}

// NewInstance wraps buf in an Instance created at the given millisecond
// timestamp.
func NewInstance(buf *Buffer, createdAt int64) *Instance {
	return &Instance{
		id:        uuid.New(),
		createdAt: createdAt,
		buf:       buf,
	}
}

// ID returns the instance identity used for logging and scene bookkeeping.
func (in *Instance) ID() uuid.UUID { return in.id }

// CreatedAt returns the creation timestamp in milliseconds.
func (in *Instance) CreatedAt() int64 { return in.createdAt }

// Buffer returns the underlying point buffer, or nil after Dispose.
func (in *Instance) Buffer() *Buffer { return in.buf }

// Alpha reports whether the underlying buffer carries an alpha channel.
func (in *Instance) Alpha() bool {
	return in.buf != nil && in.buf.Alpha()
}

// BindDrawable attaches the scene drawable presenting this instance.
// The drawable is released exactly once when the instance is disposed.
func (in *Instance) BindDrawable(d Releasable) {
	if in.disposed {
		return
	}
	in.drawable = d
}

// Drawable returns the bound drawable, or nil if none is bound or the
// instance is disposed.
func (in *Instance) Drawable() Releasable {
	if in.disposed {
		return nil
	}
	return in.drawable
}

// Disposed reports whether Dispose has been called.
func (in *Instance) Disposed() bool { return in.disposed }

// Dispose releases the bound drawable and the underlying buffer exactly
// once. Dispose is idempotent; owned references are nilled on the first
// call so a second call is a safe no-op.
func (in *Instance) Dispose() {
	if in.disposed {
		return
	}
	in.disposed = true

	if in.drawable != nil {
		in.drawable.Release()
		in.drawable = nil
	}
	if in.buf != nil {
		in.buf.Dispose()
		in.buf = nil
	}
}
