// Command pointviewdemo hosts a streaming point-cloud viewport in a
// desktop window: a synthetic producer feeds batches into the pipeline
// while the viewport renders them with the configured decay policy.
//
// Arrow keys orbit the camera; S saves a WebP snapshot.
package main

import (
	"flag"
	"log"
	"math"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/pointview"
	"github.com/gogpu/pointview/ingest"
	"github.com/gogpu/pointview/viewport"
)

func main() {
	var (
		width    = flag.Int("width", 800, "window width")
		height   = flag.Int("height", 600, "window height")
		policy   = flag.String("policy", "evict", "decay policy: evict or fade")
		alpha    = flag.Bool("alpha", false, "alpha fade mode (fade policy)")
		capacity = flag.Int("capacity", pointview.DefaultCapacity, "points per buffer")
		decay    = flag.Duration("decay", 0, "decay window (0 = policy default)")
		rate     = flag.Duration("rate", 50*time.Millisecond, "producer batch interval")
		batch    = flag.Int("batch", 50, "points per batch")
		maxTotal = flag.Int("max-points", pointview.DefaultMaxTotalPoints, "admission cap")
		snapshot = flag.String("snapshot", "snapshot.webp", "snapshot output file (S key)")
	)
	flag.Parse()

	var p pointview.Policy
	switch *policy {
	case "evict":
		p = pointview.PolicyInstanceEviction
	case "fade":
		p = pointview.PolicyIntraBufferFade
	default:
		log.Fatalf("unknown policy %q: want evict or fade", *policy)
	}

	opts := []pointview.Option{
		pointview.WithCapacity(*capacity),
		pointview.WithAlpha(*alpha),
		pointview.WithMaxTotalPoints(*maxTotal),
		pointview.WithAxes(true),
		pointview.WithGrid(true),
		pointview.WithStats(true),
	}
	if *decay > 0 {
		opts = append(opts, pointview.WithDecayTime(*decay))
	}
	cfg := pointview.NewConfig(p, opts...)

	g := newGame(*width, *height, cfg, *rate, *batch, *snapshot)

	ebiten.SetWindowTitle("pointview " + pointview.Version)
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("demo exited: %v", err)
	}
}

// game adapts the ebiten window into a viewport.Surface and blits the
// viewport framebuffer to the screen every draw.
type game struct {
	vp       *viewport.Viewport
	producer *ingest.Producer
	snapshot string

	mu            sync.Mutex
	width, height int

	fbImg *ebiten.Image
}

func newGame(width, height int, cfg pointview.Config, rate time.Duration, batchSize int, snapshot string) *game {
	g := &game{width: width, height: height, snapshot: snapshot}

	g.vp = viewport.New(cfg)
	g.vp.Init(g)
	g.vp.Start()

	g.producer = ingest.NewProducer(rate, spiralBatch(batchSize), g.vp.EnqueueBatch)
	g.producer.Start()
	return g
}

// Size implements viewport.Surface. Called from the render-loop
// goroutine, hence the lock.
func (g *game) Size() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.width, g.height
}

// DevicePixelRatio implements viewport.Surface.
func (g *game) DevicePixelRatio() float64 {
	return ebiten.DeviceScaleFactor()
}

func (g *game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.shutdown()
		return ebiten.Termination
	}

	const orbitStep = 0.05
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.vp.OrbitBy(-orbitStep, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.vp.OrbitBy(orbitStep, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.vp.OrbitBy(0, orbitStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.vp.OrbitBy(0, -orbitStep)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.saveSnapshot()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	img := g.vp.Snapshot()
	if img == nil {
		return
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}
	g.fbImg.WritePixels(img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.Lock()
	changed := outsideWidth != g.width || outsideHeight != g.height
	g.width, g.height = outsideWidth, outsideHeight
	g.mu.Unlock()
	if changed {
		g.vp.NotifyResize()
	}
	return outsideWidth, outsideHeight
}

func (g *game) saveSnapshot() {
	f, err := os.Create(g.snapshot)
	if err != nil {
		log.Printf("snapshot: %v", err)
		return
	}
	defer f.Close()
	if err := g.vp.SaveWebP(f); err != nil {
		log.Printf("snapshot: %v", err)
		return
	}
	log.Printf("snapshot saved to %s", g.snapshot)
}

func (g *game) shutdown() {
	g.producer.Stop()
	g.vp.Dispose()
}

// spiralBatch generates batches along a rising spiral with per-point
// jitter, a shape that makes both decay policies easy to see.
func spiralBatch(size int) func(seq int) pointview.Batch {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func(seq int) pointview.Batch {
		pts := make([]pointview.Point, size)
		for i := range pts {
			t := float64(seq)*0.1 + float64(i)*0.002
			r := 3 + math.Mod(t, 4)
			pts[i] = pointview.Point{
				X: float32(r*math.Cos(t) + rng.Float64()*0.3),
				Y: float32(math.Mod(t*0.5, 8) + rng.Float64()*0.3),
				Z: float32(r*math.Sin(t) + rng.Float64()*0.3),
				R: float32(0.5 + 0.5*math.Sin(t)),
				G: float32(0.5 + 0.5*math.Sin(t+2.1)),
				B: float32(0.5 + 0.5*math.Sin(t+4.2)),
			}
		}
		return pointview.NewBatch(pts)
	}
}
