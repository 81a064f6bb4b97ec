// Package app drives the demo: it loads the pipeline, advances the scene at
// a fixed rate, renders once per loop iteration and routes input.
package app

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"go.uber.org/zap"

	"deferred-fbo/renderer"
	"deferred-fbo/scene"
)

// Surface is the window the app renders into.
type Surface interface {
	PollEvents()
	ShouldClose() bool
	SwapBuffers()
	// Close requests the loop to stop.
	Close()
	FramebufferSize() (int, int)
}

// Pipeline renders frames. *renderer.State implements it.
type Pipeline interface {
	RenderFrame(mode renderer.ViewMode)
	Resize(width, height int)
	Destroy()
}

// Loader builds the pipeline for a scene once the surface exists.
type Loader func(sc *scene.Scene) (Pipeline, error)

// Key identifies the non-text keys the app reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
)

type Config struct {
	// UpdateRate is the number of scene updates per second.
	UpdateRate int
	// MaxCatchUp bounds the updates run in one loop iteration; a larger
	// backlog is dropped.
	MaxCatchUp int
}

func DefaultConfig() Config {
	return Config{
		UpdateRate: 30,
		MaxCatchUp: 5,
	}
}

type App struct {
	surface Surface
	scene   *scene.Scene
	load    Loader
	cfg     Config
	log     *zap.Logger

	pipeline Pipeline
	mode     renderer.ViewMode
	step     time.Duration

	// Frame rate readout, eased toward the measured rate once per update.
	rateSpring harmonica.Spring
	rate       float64
	rateVel    float64
	measured   float64
	updates    int

	// Now is the clock the loop measures elapsed time with.
	Now func() time.Time
}

func New(surface Surface, sc *scene.Scene, load Loader, cfg Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.UpdateRate <= 0 {
		cfg.UpdateRate = DefaultConfig().UpdateRate
	}
	if cfg.MaxCatchUp <= 0 {
		cfg.MaxCatchUp = DefaultConfig().MaxCatchUp
	}
	return &App{
		surface: surface,
		scene:   sc,
		load:    load,
		cfg:     cfg,
		log:     log,
		step:    time.Duration(math.Round(harmonica.FPS(cfg.UpdateRate) * float64(time.Second))),
		Now:     time.Now,

		// Critically damped: the readout never overshoots the real rate.
		rateSpring: harmonica.NewSpring(harmonica.FPS(cfg.UpdateRate), rateFrequency, 1.0),
	}
}

const rateFrequency = 4.0

// FrameRate returns the smoothed number of rendered frames per second.
func (a *App) FrameRate() float64 { return a.rate }

// Mode returns the view the next frame renders.
func (a *App) Mode() renderer.ViewMode { return a.mode }

// Step returns the fixed update interval.
func (a *App) Step() time.Duration { return a.step }

// OnLoad builds the pipeline and sizes it to the surface.
func (a *App) OnLoad() error {
	p, err := a.load(a.scene)
	if err != nil {
		return err
	}
	a.pipeline = p
	w, h := a.surface.FramebufferSize()
	a.OnResize(w, h)
	a.log.Info("pipeline loaded", zap.Int("lights", len(a.scene.Lights)),
		zap.Duration("updateStep", a.step))
	return nil
}

// OnUnload releases the pipeline. It is safe to call more than once.
func (a *App) OnUnload() {
	if a.pipeline == nil {
		return
	}
	a.pipeline.Destroy()
	a.pipeline = nil
}

func (a *App) OnUpdate(dt float32) {
	a.scene.Advance(dt)

	a.rate, a.rateVel = a.rateSpring.Update(a.rate, a.rateVel, a.measured)
	a.updates++
	if a.updates%a.cfg.UpdateRate == 0 {
		a.log.Debug("frame rate", zap.Float64("fps", a.rate), zap.Stringer("mode", a.mode))
	}
}

// OnRender draws one frame and presents it.
func (a *App) OnRender() {
	if a.pipeline == nil {
		return
	}
	a.pipeline.RenderFrame(a.mode)
	a.surface.SwapBuffers()
}

func (a *App) OnResize(width, height int) {
	if a.pipeline == nil || width <= 0 || height <= 0 {
		return
	}
	a.pipeline.Resize(width, height)
}

// OnKeyPress handles text input: space toggles the debug view.
func (a *App) OnKeyPress(r rune) {
	if r != ' ' {
		return
	}
	a.mode = a.mode.Toggle()
	a.log.Info("view mode", zap.Stringer("mode", a.mode))
}

// OnKeyDown handles non-text keys: escape requests exit.
func (a *App) OnKeyDown(k Key) {
	if k == KeyEscape {
		a.surface.Close()
	}
}

// Run loads the pipeline and loops until the surface closes. Updates run
// at the fixed step; rendering happens once per iteration.
func (a *App) Run() error {
	if err := a.OnLoad(); err != nil {
		return err
	}
	defer a.OnUnload()

	last := a.Now()
	var backlog time.Duration
	for !a.surface.ShouldClose() {
		a.surface.PollEvents()

		now := a.Now()
		if elapsed := now.Sub(last); elapsed > 0 {
			a.measured = 1 / elapsed.Seconds()
		}
		backlog = a.advance(backlog + now.Sub(last))
		last = now

		a.OnRender()
	}
	return nil
}

// advance runs the updates owed for backlog and returns what is left.
func (a *App) advance(backlog time.Duration) time.Duration {
	dt := float32(a.step.Seconds())
	for n := 0; backlog >= a.step; n++ {
		if n == a.cfg.MaxCatchUp {
			a.log.Debug("dropping update backlog", zap.Duration("backlog", backlog))
			return 0
		}
		a.OnUpdate(dt)
		backlog -= a.step
	}
	return backlog
}
