// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pointview

import "time"

// Policy selects the decay model applied to ingested points.
//
// The two policies are mutually exclusive per deployment and are never
// merged: a configuration picks exactly one.
type Policy uint8

const (
	// PolicyInstanceEviction discards an entire buffer instance once its
	// decay window elapses after creation, regardless of individual point
	// ages inside it. Suits bursty batch visualization with rotating buffers.
	PolicyInstanceEviction Policy = iota

	// PolicyIntraBufferFade accumulates points in a single long-lived buffer
	// and fades (alpha mode) or blacks out (binary mode) each point based on
	// its own insertion timestamp. Suits a persistent point cloud.
	PolicyIntraBufferFade
)

// String returns the policy name for logging.
func (p Policy) String() string {
	switch p {
	case PolicyInstanceEviction:
		return "instance-eviction"
	case PolicyIntraBufferFade:
		return "intra-buffer-fade"
	default:
		return "unknown"
	}
}

// Default configuration values.
const (
	// DefaultCapacity is the default number of points per buffer instance.
	DefaultCapacity = 1000

	// DefaultEvictionDecay is the default decay window under
	// PolicyInstanceEviction.
	DefaultEvictionDecay = 5000 * time.Millisecond

	// DefaultFadeDecay is the default decay window under
	// PolicyIntraBufferFade.
	DefaultFadeDecay = 1000 * time.Millisecond

	// DefaultThrottleInterval is the default minimum interval between
	// consumed batches.
	DefaultThrottleInterval = 100 * time.Millisecond

	// DefaultMaxTotalPoints is the default admission cap on total points a
	// producer may enqueue in a session.
	DefaultMaxTotalPoints = 100_000
)

// Config holds the recognized configuration for a viewport and its
// ingestion pipeline. Construct one with NewConfig; the zero value is not
// meaningful.
type Config struct {
	// Policy is the decay model (instance eviction or intra-buffer fade).
	Policy Policy

	// Capacity is the number of points each buffer instance holds.
	Capacity int

	// Alpha enables per-point transparency. When false, decayed points are
	// cut hard to black instead of fading.
	Alpha bool

	// DecayTime is the window before a point fades out or an instance is
	// evicted, depending on Policy.
	DecayTime time.Duration

	// ThrottleInterval is the minimum wall-clock interval between consumed
	// batches. Batches arriving faster accumulate in the queue.
	ThrottleInterval time.Duration

	// MaxTotalPoints is the hard admission cap on cumulative points ever
	// enqueued. Once reached, further batches are refused at the producer
	// boundary; queued batches are never dropped.
	MaxTotalPoints int

	// Axes, Grid and Stats enable the optional debug overlays.
	Axes  bool
	Grid  bool
	Stats bool
}

// Option configures a Config during creation.
// Use functional options to customize viewport behavior.
//
// Example:
//
//	cfg := pointview.NewConfig(pointview.PolicyIntraBufferFade,
//	    pointview.WithAlpha(true),
//	    pointview.WithDecayTime(2*time.Second),
//	)
type Option func(*Config)

// NewConfig returns a Config for the given policy with defaults applied,
// then customized by the supplied options. The default decay time depends
// on the policy: DefaultFadeDecay for intra-buffer fade, DefaultEvictionDecay
// for instance eviction.
func NewConfig(policy Policy, opts ...Option) Config {
	cfg := Config{
		Policy:           policy,
		Capacity:         DefaultCapacity,
		DecayTime:        DefaultEvictionDecay,
		ThrottleInterval: DefaultThrottleInterval,
		MaxTotalPoints:   DefaultMaxTotalPoints,
	}
	if policy == PolicyIntraBufferFade {
		cfg.DecayTime = DefaultFadeDecay
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithCapacity sets the number of points per buffer instance.
// Values below 1 are ignored.
func WithCapacity(capacity int) Option {
	return func(c *Config) {
		if capacity >= 1 {
			c.Capacity = capacity
		}
	}
}

// WithAlpha enables or disables per-point transparency.
func WithAlpha(enabled bool) Option {
	return func(c *Config) {
		c.Alpha = enabled
	}
}

// WithDecayTime sets the decay window before fade or eviction.
// Non-positive durations are ignored.
func WithDecayTime(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.DecayTime = d
		}
	}
}

// WithThrottleInterval sets the minimum interval between consumed batches.
// Negative durations are ignored; zero disables throttling.
func WithThrottleInterval(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.ThrottleInterval = d
		}
	}
}

// WithMaxTotalPoints sets the admission cap on cumulative enqueued points.
// Values below 1 are ignored.
func WithMaxTotalPoints(n int) Option {
	return func(c *Config) {
		if n >= 1 {
			c.MaxTotalPoints = n
		}
	}
}

// WithAxes enables the RGB unit-axes debug overlay.
func WithAxes(enabled bool) Option {
	return func(c *Config) {
		c.Axes = enabled
	}
}

// WithGrid enables the ground-plane grid debug overlay.
func WithGrid(enabled bool) Option {
	return func(c *Config) {
		c.Grid = enabled
	}
}

// WithStats enables the frame-time instrumentation overlay.
func WithStats(enabled bool) Option {
	return func(c *Config) {
		c.Stats = enabled
	}
}
