// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

// Drawable is an object a Scene can hold and a renderer can draw.
//
// Every drawable carries the explicit release capability: teardown walks
// the scene and calls Release uniformly, never probing for a dispose-like
// shape at runtime. Release must be idempotent.
type Drawable interface {
	// Release frees renderer-side resources bound to this drawable.
	// It must tolerate repeated calls.
	Release()
}

// Scene is a retained, ordered list of drawables.
//
// The scene does not own camera or target state; it is purely the
// composition the renderer iterates each frame. Scene is not safe for
// concurrent use; the viewport serializes access on the render loop.
type Scene struct {
	drawables []Drawable
	released  bool
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		drawables: make([]Drawable, 0, 8),
	}
}

// Add appends a drawable to the scene. Nil drawables and additions after
// ReleaseAll are ignored.
func (s *Scene) Add(d Drawable) {
	if d == nil || s.released {
		return
	}
	s.drawables = append(s.drawables, d)
}

// Remove unlinks the drawable from the scene without releasing it.
// Removing a drawable that is not present is a no-op.
func (s *Scene) Remove(d Drawable) {
	for i, have := range s.drawables {
		if have == d {
			s.drawables = append(s.drawables[:i], s.drawables[i+1:]...)
			return
		}
	}
}

// Len returns the number of drawables in the scene.
func (s *Scene) Len() int {
	return len(s.drawables)
}

// Walk calls fn for each drawable in draw order until fn returns false.
func (s *Scene) Walk(fn func(Drawable) bool) {
	for _, d := range s.drawables {
		if !fn(d) {
			return
		}
	}
}

// ReleaseAll releases every drawable exactly once and empties the scene.
// Subsequent Add calls are ignored; the scene is done once released.
func (s *Scene) ReleaseAll() {
	if s.released {
		return
	}
	s.released = true
	for _, d := range s.drawables {
		d.Release()
	}
	s.drawables = nil
}
