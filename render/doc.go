// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render provides the drawing layer of pointview: a retained scene
// of releasable drawables, a perspective camera, render targets, and point
// renderers with CPU and GPU backends.
//
// # Scene and Drawables
//
// A Scene is an ordered list of drawables. Every drawable implements the
// Drawable interface whose single Release method frees renderer-side
// resources; teardown walks the scene and calls it uniformly instead of
// probing shapes at runtime.
//
// # Targets
//
// RenderTarget abstracts where output goes. PixmapTarget is the CPU-backed
// target used by the software renderer; GPU surface targets receive their
// texture format from the host.
//
// # Renderers
//
// SoftwarePointRenderer projects and splats points on the CPU.
// GPUPointRenderer receives a GPU device handle from the host application,
// compiles the point shader, and currently falls back to software rendering
// for CPU targets while the GPU pipeline is built out.
package render
