// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pointview

// Point is a single point record awaiting ingestion: a position in world
// space and an RGB color with channels in [0, 1].
type Point struct {
	X, Y, Z float32
	R, G, B float32
}

// Batch is an ordered, immutable sequence of point records.
//
// A Batch is owned by the ingestion queue from the moment it is enqueued
// until it is dequeued and materialized into a buffer instance. NewBatch
// copies its input so later mutation of the source slice cannot reach a
// queued batch.
type Batch struct {
	points []Point
}

// NewBatch creates a Batch from the given points. The slice is copied.
func NewBatch(points []Point) Batch {
	cp := make([]Point, len(points))
	copy(cp, points)
	return Batch{points: cp}
}

// Len returns the number of points in the batch.
func (b Batch) Len() int {
	return len(b.points)
}

// At returns the point at index i.
func (b Batch) At(i int) Point {
	return b.points[i]
}
