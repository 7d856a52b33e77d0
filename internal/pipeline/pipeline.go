// Package pipeline wires the analysis chain to the visual consumers:
// spectrum source into band aggregation, bands into mood and palette,
// and the result into the particle engine, all inside one synchronous
// tick.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/lumabeat/lumabeat/internal/bands"
	"github.com/lumabeat/lumabeat/internal/mood"
	"github.com/lumabeat/lumabeat/internal/palette"
	"github.com/lumabeat/lumabeat/internal/particles"
	"github.com/lumabeat/lumabeat/internal/render"
	"github.com/lumabeat/lumabeat/internal/sched"
	"github.com/lumabeat/lumabeat/internal/spectrum"
)

// Snapshot is the per-tick result shared with every observer: the
// analysis frame plus the derived mood and palette. Observers must not
// mutate it.
type Snapshot struct {
	Frame       bands.AnalysisFrame
	Mood        mood.State
	Palette     palette.Palette
	PaletteName string
	VisualMode  string
	Tick        uint64
}

// Observer receives a Snapshot after every completed tick.
type Observer func(Snapshot)

// Config assembles a Pipeline. Source and Surface are required; the rest
// defaults sensibly.
type Config struct {
	Source     spectrum.Source
	Surface    render.Surface
	Scheduler  sched.Scheduler
	Aggregator bands.Config
	Engine     *particles.Engine

	// PaletteName selects a fixed palette; empty means mood-driven.
	PaletteName string

	Logger *slog.Logger
}

// Pipeline owns the per-tick analysis and drawing order: aggregate,
// estimate mood, synthesize palette, then update and render particles.
// All state is mutated only from within a tick.
type Pipeline struct {
	source    spectrum.Source
	surface   render.Surface
	scheduler sched.Scheduler
	agg       *bands.Aggregator
	estimator *mood.Estimator
	engine    *particles.Engine
	logger    *slog.Logger

	fixed     *palette.Palette
	fixedName string
	scratch   []float64

	mu        sync.RWMutex
	observers []Observer
	snapshot  Snapshot
	running   bool
	ticks     uint64
}

// New validates the wiring and resolves the palette strategy up front so
// a bad palette name fails at construction, not mid-run.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Source == nil {
		return nil, eris.New("pipeline: spectrum source is required")
	}
	if cfg.Surface == nil {
		return nil, eris.New("pipeline: render surface is required")
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = sched.NewTicker(60)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Aggregator.SampleRate == 0 {
		cfg.Aggregator.SampleRate = cfg.Source.SampleRate()
	}
	if cfg.Aggregator.FFTSize == 0 {
		cfg.Aggregator.FFTSize = cfg.Source.FFTSize()
	}

	agg := bands.NewAggregator(cfg.Aggregator)

	engine := cfg.Engine
	if engine == nil {
		w, h := cfg.Surface.Size()
		var err error
		engine, err = particles.NewEngine(particles.Config{
			Width:     w,
			Height:    h,
			BandCount: len(agg.BandsConfig()),
		})
		if err != nil {
			return nil, err
		}
	}

	p := &Pipeline{
		source:    cfg.Source,
		surface:   cfg.Surface,
		scheduler: cfg.Scheduler,
		agg:       agg,
		estimator: mood.NewEstimator(),
		engine:    engine,
		logger:    cfg.Logger,
	}
	if cfg.PaletteName != "" {
		named, err := palette.ByName(cfg.PaletteName)
		if err != nil {
			return nil, err
		}
		pal := named.Palette
		p.fixed = &pal
		p.fixedName = named.Name
	}
	return p, nil
}

// Subscribe registers an observer for per-tick snapshots.
func (p *Pipeline) Subscribe(o Observer) {
	p.mu.Lock()
	p.observers = append(p.observers, o)
	p.mu.Unlock()
}

// Frame returns the latest analysis frame as an independent copy, safe
// to read while ticks continue.
func (p *Pipeline) Frame() bands.AnalysisFrame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot.Frame.Clone()
}

// BandsConfig exposes the configured bands for display surfaces.
func (p *Pipeline) BandsConfig() []bands.FrequencyBand {
	return p.agg.BandsConfig()
}

// SetVisualMode switches the particle composition.
func (p *Pipeline) SetVisualMode(name string) error {
	return p.engine.SetMode(name)
}

// Tick runs one full analysis-and-draw pass. Band aggregation completes
// before mood estimation and before the particle engine reads energies.
func (p *Pipeline) Tick() {
	p.scratch = p.source.Spectrum(p.scratch)
	// Observers outlive the tick, so they get an independent copy of the
	// aggregator-owned frame.
	frame := p.agg.Process(p.scratch).Clone()
	state := p.estimator.Update(p.agg.BandsConfig(), frame.Bands)

	var pal palette.Palette
	name := p.fixedName
	if p.fixed != nil {
		pal = *p.fixed
	} else {
		pal = palette.FromMood(state)
		name = "mood"
	}

	p.engine.Tick(p.surface, frame.Bands, pal)

	p.mu.Lock()
	p.ticks++
	p.snapshot = Snapshot{
		Frame:       frame,
		Mood:        state,
		Palette:     pal,
		PaletteName: name,
		VisualMode:  p.engine.ModeName(),
		Tick:        p.ticks,
	}
	observers := p.observers
	snap := p.snapshot
	p.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}

// Start begins the tick loop; calling it while running is a no-op.
func (p *Pipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.scheduler.Start(p.Tick)
}

// Stop halts the tick loop. Safe to call repeatedly.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.scheduler.Stop()
}

// Run drives the pipeline until the context is cancelled, logging a
// periodic state digest at debug level.
func (p *Pipeline) Run(ctx context.Context) error {
	p.Start()
	defer p.Stop()

	debugTicker := time.NewTicker(2 * time.Second)
	defer debugTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-debugTicker.C:
			p.mu.RLock()
			snap := p.snapshot
			p.mu.RUnlock()
			p.logger.Debug("visual state",
				slog.Uint64("tick", snap.Tick),
				slog.Float64("energy", snap.Mood.Energy),
				slog.Float64("brightness", snap.Mood.Brightness),
				slog.Float64("dynamics", snap.Mood.Dynamics),
				slog.String("palette", snap.PaletteName),
				slog.String("mode", snap.VisualMode))
		}
	}
}
