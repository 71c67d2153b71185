// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package viewport

import (
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/gogpu/pointview"
	"github.com/gogpu/pointview/ingest"
	"github.com/gogpu/pointview/pointbuf"
	"github.com/gogpu/pointview/render"
)

// DefaultFrameInterval is the render-loop cadence.
const DefaultFrameInterval = 16 * time.Millisecond

// orbitEasing is the per-frame fraction of the remaining orbit delta
// applied toward the queued target angles.
const orbitEasing = 0.2

// maxPitch keeps the orbit camera off the poles.
const maxPitch = 1.45

// Viewport owns the scene, camera, render target and ingestion pipeline
// for one host surface, and drives them from a single render-loop
// goroutine. Every public method is safe before Init and after Dispose:
// such calls are silent no-ops, never panics.
//
// The lifecycle is Init once, then Start/Stop any number of times, then
// Dispose once. Batches are accepted from any goroutine via EnqueueBatch.
type Viewport struct {
	cfg pointview.Config

	mu          sync.Mutex // guards lifecycle state below
	initialized bool
	disposed    bool
	running     bool
	stopCh      chan struct{}
	doneCh      chan struct{}

	surface  Surface
	scene    *render.Scene
	camera   *render.PerspectiveCamera
	target   *render.PixmapTarget
	renderer render.Renderer
	pipeline *ingest.Pipeline
	debounce *resizeDebouncer
	stats    *statsOverlay

	// orbit state, guarded by orbitMu; read each frame by the loop.
	orbitMu              sync.Mutex
	yaw, pitch, radius   float64
	targetYaw, targetPit float64

	// frameMu guards the target pixels between the render loop and
	// Snapshot, which hosts call from their own draw thread.
	frameMu sync.Mutex

	// pendingMu guards camera and scene mutations queued from other
	// goroutines; the loop drains them at the top of each frame, so the
	// loop goroutine stays the sole mutator of both.
	pendingMu sync.Mutex
	pending   []func()

	wakeCh chan struct{}

	clock         func() int64
	frameInterval time.Duration
}

// Option configures a Viewport.
type Option func(*Viewport)

// WithFrameInterval overrides the render-loop cadence. Values <= 0 are
// ignored.
func WithFrameInterval(d time.Duration) Option {
	return func(v *Viewport) {
		if d > 0 {
			v.frameInterval = d
		}
	}
}

// WithClock overrides the millisecond frame clock. Test hook.
func WithClock(clock func() int64) Option {
	return func(v *Viewport) {
		if clock != nil {
			v.clock = clock
		}
	}
}

// New creates a viewport for cfg. Nothing is allocated until Init.
func New(cfg pointview.Config, opts ...Option) *Viewport {
	v := &Viewport{
		cfg:           cfg,
		clock:         func() int64 { return time.Now().UnixMilli() },
		frameInterval: DefaultFrameInterval,
		wakeCh:        make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Init binds the viewport to its host surface: scene, perspective camera
// at (10, 10, 10) aimed at the origin, render target sized to the surface
// content box, renderer and pipeline. Init on a disposed or already
// initialized viewport is a no-op, as is a nil surface.
func (v *Viewport) Init(surface Surface) {
	if surface == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.initialized || v.disposed {
		return
	}

	width, height := surface.Size()
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	density := surface.DevicePixelRatio()
	if density <= 0 {
		density = 1
	}

	v.surface = surface
	v.scene = render.NewScene()
	v.camera = render.NewPerspectiveCamera(
		render.DefaultFOV, float64(width)/float64(height),
		render.DefaultNear, render.DefaultFar)
	v.camera.SetPosition(10, 10, 10)
	v.setOrbitFromPosition(10, 10, 10)

	v.target = render.NewPixmapTarget(width, height)
	v.target.SetPixelDensity(density)
	v.debounce = newResizeDebouncer(width, height, density)

	v.renderer = v.selectRenderer(surface)
	v.pipeline = ingest.New(v.cfg, v, ingest.WithWakeFunc(v.wake))

	if v.cfg.Axes {
		v.scene.Add(newAxesDrawable(5))
	}
	if v.cfg.Grid {
		v.scene.Add(newGridDrawable(10, 1))
	}
	if v.cfg.Stats {
		v.stats = newStatsOverlay()
	}

	v.initialized = true
	pointview.Logger().Info("viewport initialized",
		"width", width, "height", height, "policy", v.cfg.Policy.String())
}

// selectRenderer prefers the host GPU device when the surface provides
// one, falling back to the software renderer otherwise.
func (v *Viewport) selectRenderer(surface Surface) render.Renderer {
	if ds, ok := surface.(DeviceSurface); ok {
		if handle := ds.DeviceHandle(); handle != nil {
			r, err := render.NewGPUPointRenderer(handle)
			if err == nil {
				pointview.Logger().Info("viewport renderer selected", "gpu", true)
				return r
			}
			pointview.Logger().Warn("GPU renderer unavailable, using software", "err", err)
		}
	}
	pointview.Logger().Info("viewport renderer selected", "gpu", false)
	return render.NewSoftwarePointRenderer()
}

// Start launches the render loop. Idempotent: a second Start while
// running is a no-op. Start before Init or after Dispose is a no-op.
func (v *Viewport) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.initialized || v.disposed || v.running {
		return
	}
	v.running = true
	v.stopCh = make(chan struct{})
	v.doneCh = make(chan struct{})
	go v.loop(v.stopCh, v.doneCh)
}

// Stop halts the render loop and waits for the in-flight frame to finish,
// so no frame callback runs after Stop returns. Idempotent; the viewport
// can be started again until Dispose.
func (v *Viewport) Stop() {
	v.mu.Lock()
	if !v.running {
		v.mu.Unlock()
		return
	}
	v.running = false
	stopCh, doneCh := v.stopCh, v.doneCh
	v.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// loop is the render-loop goroutine: a plain for loop gated on the stop
// channel, one frame per tick. When the pipeline reports idle and nothing
// else needs a frame, the loop parks on the wake channel instead of
// burning ticks.
func (v *Viewport) loop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(v.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-v.wakeCh:
		case <-ticker.C:
		}

		if idle := v.frame(v.clock()); idle {
			select {
			case <-stopCh:
				return
			case <-v.wakeCh:
			}
		}
	}
}

// wake nudges a parked render loop. Safe from any goroutine.
func (v *Viewport) wake() {
	select {
	case v.wakeCh <- struct{}{}:
	default:
	}
}

// frame runs one scheduler step at the millisecond timestamp now: resize
// poll, orbit easing, pipeline tick, per-point fade update, render, stats.
// It returns true when the viewport has nothing left to animate and the
// loop may park until the next wake.
func (v *Viewport) frame(now int64) (idle bool) {
	started := time.Now()

	v.drainPending()

	w, h := v.surface.Size()
	v.debounce.Observe(now, w, h, v.surface.DevicePixelRatio())
	if rw, rh, density, ok := v.debounce.Poll(now); ok {
		v.applyResize(rw, rh, density)
	}

	orbitSettled := v.stepOrbit()

	pipelineIdle := v.pipeline.Tick(now)

	if v.cfg.Policy == pointview.PolicyIntraBufferFade {
		for _, inst := range v.pipeline.Active() {
			inst.Buffer().Update(now)
		}
		// Faded points keep changing until the buffer empties visually,
		// so the loop must not park while instances remain.
	}

	v.frameMu.Lock()
	v.target.Clear(color.Black)
	if err := v.renderer.Render(v.target, v.scene, v.camera); err != nil {
		pointview.Logger().Warn("frame render failed", "err", err)
	}
	if v.stats != nil {
		v.stats.Record(float64(time.Since(started).Microseconds()) / 1000.0)
		v.stats.Draw(v.target)
	}
	v.frameMu.Unlock()

	return pipelineIdle && orbitSettled && !v.debounce.Pending()
}

// applyResize commits settled dimensions in one update: target size with
// content preserved, pixel density, and camera aspect.
func (v *Viewport) applyResize(width, height int, density float64) {
	if width < 1 || height < 1 {
		return
	}
	v.frameMu.Lock()
	v.target.Resize(width, height)
	v.target.SetPixelDensity(density)
	v.frameMu.Unlock()
	v.camera.SetAspect(float64(width) / float64(height))
	pointview.Logger().Debug("viewport resized",
		"width", width, "height", height, "density", density)
}

// OrbitBy queues a relative orbit around the origin: dYaw and dPitch in
// radians, eased in over the following frames. Safe from any goroutine;
// a no-op before Init and after Dispose.
func (v *Viewport) OrbitBy(dYaw, dPitch float64) {
	v.mu.Lock()
	ready := v.initialized && !v.disposed
	v.mu.Unlock()
	if !ready {
		return
	}

	v.orbitMu.Lock()
	v.targetYaw += dYaw
	v.targetPit = clampPitch(v.targetPit + dPitch)
	v.orbitMu.Unlock()
	v.wake()
}

// stepOrbit eases the camera toward the queued orbit angles and reports
// whether it has settled.
func (v *Viewport) stepOrbit() (settled bool) {
	v.orbitMu.Lock()
	dYaw := v.targetYaw - v.yaw
	dPit := v.targetPit - v.pitch
	if math.Abs(dYaw) < 1e-4 && math.Abs(dPit) < 1e-4 {
		v.yaw, v.pitch = v.targetYaw, v.targetPit
		v.orbitMu.Unlock()
		return true
	}
	v.yaw += dYaw * orbitEasing
	v.pitch += dPit * orbitEasing
	yaw, pitch, radius := v.yaw, v.pitch, v.radius
	v.orbitMu.Unlock()

	v.camera.SetPosition(
		radius*math.Cos(pitch)*math.Cos(yaw),
		radius*math.Sin(pitch),
		radius*math.Cos(pitch)*math.Sin(yaw),
	)
	return false
}

// setOrbitFromPosition derives the orbit angles from a camera position so
// SetCameraPosition and OrbitBy stay consistent.
func (v *Viewport) setOrbitFromPosition(x, y, z float64) {
	v.orbitMu.Lock()
	defer v.orbitMu.Unlock()
	v.radius = math.Sqrt(x*x + y*y + z*z)
	if v.radius == 0 {
		v.radius = 1
	}
	v.pitch = clampPitch(math.Asin(y / v.radius))
	v.yaw = math.Atan2(z, x)
	v.targetYaw, v.targetPit = v.yaw, v.pitch
}

func clampPitch(p float64) float64 {
	if p > maxPitch {
		return maxPitch
	}
	if p < -maxPitch {
		return -maxPitch
	}
	return p
}

// EnqueueBatch hands a batch to the ingestion pipeline. Safe from any
// goroutine. Before Init and after Dispose the batch is dropped silently
// and nil is returned.
func (v *Viewport) EnqueueBatch(b pointview.Batch) error {
	v.mu.Lock()
	p := v.pipeline
	ready := v.initialized && !v.disposed
	v.mu.Unlock()
	if !ready || p == nil {
		return nil
	}
	return p.EnqueueBatch(b)
}

// Attach implements ingest.Sink: a freshly materialized instance gets a
// points drawable bound and added to the scene. Render-loop goroutine
// only.
func (v *Viewport) Attach(inst *pointbuf.Instance) {
	if inst == nil || v.scene == nil {
		return
	}
	d := render.NewPointsDrawable(inst.Buffer())
	inst.BindDrawable(d)
	v.scene.Add(d)
}

// Detach implements ingest.Sink: the instance's drawable leaves the scene
// without being released here; Instance.Dispose owns the release.
func (v *Viewport) Detach(inst *pointbuf.Instance) {
	if inst == nil || v.scene == nil {
		return
	}
	if d, ok := inst.Drawable().(render.Drawable); ok {
		v.scene.Remove(d)
	}
}

// Add puts a caller-owned drawable into the scene on the next frame.
// Safe from any goroutine; a nil-safe no-op before Init and after
// Dispose.
func (v *Viewport) Add(d render.Drawable) {
	if d == nil {
		return
	}
	v.enqueueOp(func() {
		v.scene.Add(d)
	})
}

// SetCameraPosition moves the camera on the next frame, re-aiming it at
// the origin and resetting the orbit baseline. Safe from any goroutine;
// a no-op before Init and after Dispose.
func (v *Viewport) SetCameraPosition(x, y, z float64) {
	v.enqueueOp(func() {
		v.camera.SetPosition(x, y, z)
		v.setOrbitFromPosition(x, y, z)
	})
}

// enqueueOp defers a mutation to the render-loop goroutine, which owns
// the camera and the scene. Dropped silently before Init and after
// Dispose.
func (v *Viewport) enqueueOp(op func()) {
	v.mu.Lock()
	ready := v.initialized && !v.disposed
	v.mu.Unlock()
	if !ready {
		return
	}
	v.pendingMu.Lock()
	v.pending = append(v.pending, op)
	v.pendingMu.Unlock()
	v.wake()
}

// drainPending applies queued mutations before the frame reads the
// camera or the scene.
func (v *Viewport) drainPending() {
	v.pendingMu.Lock()
	ops := v.pending
	v.pending = nil
	v.pendingMu.Unlock()
	for _, op := range ops {
		op()
	}
}

// Scene returns the scene handle, or nil before Init / after Dispose.
func (v *Viewport) Scene() *render.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil
	}
	return v.scene
}

// Camera returns the camera, or nil before Init / after Dispose.
func (v *Viewport) Camera() *render.PerspectiveCamera {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil
	}
	return v.camera
}

// Renderer returns the active renderer, or nil before Init / after
// Dispose.
func (v *Viewport) Renderer() render.Renderer {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil
	}
	return v.renderer
}

// NotifyResize nudges a parked render loop so a host size change is
// observed promptly. Purely advisory; the frame reads the actual size
// from the surface.
func (v *Viewport) NotifyResize() {
	v.wake()
}

// Dispose stops the loop and tears everything down: pipeline instances
// detached and disposed, every scene drawable released exactly once, GPU
// renderer destroyed, handles nilled. A second Dispose is a no-op.
func (v *Viewport) Dispose() {
	v.Stop()

	v.mu.Lock()
	if v.disposed || !v.initialized {
		v.disposed = true
		v.mu.Unlock()
		return
	}
	v.disposed = true
	pipeline, scene, renderer := v.pipeline, v.scene, v.renderer
	v.pipeline, v.scene, v.camera, v.target, v.renderer = nil, nil, nil, nil, nil
	v.surface = nil
	v.stats = nil
	v.mu.Unlock()

	v.pendingMu.Lock()
	v.pending = nil
	v.pendingMu.Unlock()

	if pipeline != nil {
		pipeline.Dispose()
	}
	if scene != nil {
		scene.ReleaseAll()
	}
	if g, ok := renderer.(*render.GPUPointRenderer); ok {
		g.Destroy()
	}
	pointview.Logger().Info("viewport disposed")
}

var _ ingest.Sink = (*Viewport)(nil)
