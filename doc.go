// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pointview provides a live 3D viewport for high-volume streaming
// point data.
//
// # Overview
//
// pointview visualizes continuously arriving point batches under bounded
// memory and a steady frame rate. Incoming batches flow through a throttled
// ingestion pipeline into fixed-capacity ring buffers that age their points
// out over time. A single render-loop goroutine coordinates ingestion,
// decay, rendering, and resize handling, and tears everything down without
// leaks when the viewport is disposed.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/pointview"
//	    "github.com/gogpu/pointview/viewport"
//	)
//
//	cfg := pointview.NewConfig(pointview.PolicyInstanceEviction,
//	    pointview.WithCapacity(1000),
//	    pointview.WithThrottleInterval(100*time.Millisecond),
//	)
//
//	v := viewport.New(cfg)
//	v.Init(hostSurface)
//	v.Start()
//	defer v.Dispose()
//
//	v.EnqueueBatch(pointview.NewBatch(points))
//
// # Decay Policies
//
// Two mutually exclusive decay models are supported per deployment:
//
//   - PolicyInstanceEviction: each ingested batch lives in its own rotating
//     buffer instance that is discarded wholesale once its decay window
//     elapses. Suits bursty batch visualization.
//   - PolicyIntraBufferFade: a single long-lived buffer accumulates points
//     continuously and each point fades (or blacks out) based on its own
//     insertion timestamp. Suits a persistent point cloud.
//
// # Architecture
//
// The library is organized into:
//   - pointview (root): shared types, configuration, package logger
//   - pointbuf: fixed-capacity point ring buffers and buffer instances
//   - render: scene, camera, render targets, software and GPU point renderers
//   - ingest: batch queue, throttled consumer, eviction, timer-driven producer
//   - viewport: viewport controller, frame scheduler, resize debouncing
//
// The underlying scene graph and host window system are consumed as
// capabilities: the viewport needs only a surface that reports its size and
// a scene that holds releasable drawables.
package pointview

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
