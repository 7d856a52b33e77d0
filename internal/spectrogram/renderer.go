// Package spectrogram renders a scrolling time/frequency heat map of the
// raw bin spectrum, with a labeled frequency axis in a reserved margin.
package spectrogram

import (
	"fmt"
	"image/color"

	"github.com/rotisserie/eris"

	"github.com/lumabeat/lumabeat/internal/bands"
	"github.com/lumabeat/lumabeat/internal/render"
	"github.com/lumabeat/lumabeat/internal/sched"
	"github.com/lumabeat/lumabeat/internal/spectrum"
	"github.com/lumabeat/lumabeat/internal/utils"
)

// DefaultTickFrequencies label the axis at musically useful octave-ish
// steps.
func DefaultTickFrequencies() []float64 {
	return []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000}
}

// axisMargin is the fixed width in pixels reserved on the left for tick
// labels.
const axisMargin = 48

var (
	guideColor = color.RGBA{R: 255, G: 255, B: 255, A: 28}
	labelColor = color.RGBA{R: 200, G: 205, B: 215, A: 255}
	marginBG   = color.RGBA{R: 10, G: 10, B: 14, A: 255}
)

// Config tunes the Renderer. Zero dB bounds fall back to the aggregator
// defaults; nil tick frequencies fall back to DefaultTickFrequencies.
type Config struct {
	Surface         render.Surface
	Source          spectrum.Source
	Scheduler       sched.Scheduler
	MinDecibels     float64
	MaxDecibels     float64
	TickFrequencies []float64
}

// Renderer scrolls one new spectrum column into a persistent image per
// tick. Pausing freezes the columns but keeps the axis overlay fresh;
// Stop halts the loop entirely and is idempotent.
type Renderer struct {
	cfg      Config
	nyquist  float64
	binCount int

	running bool
	paused  bool
	scratch []float64
}

// New validates the configuration and clears the surface.
func New(cfg Config) (*Renderer, error) {
	if cfg.Surface == nil {
		return nil, eris.New("spectrogram: surface is required")
	}
	if cfg.Source == nil {
		return nil, eris.New("spectrogram: spectrum source is required")
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = sched.NewTicker(30)
	}
	if cfg.MinDecibels == 0 && cfg.MaxDecibels == 0 {
		cfg.MinDecibels = bands.DefaultMinDecibels
		cfg.MaxDecibels = bands.DefaultMaxDecibels
	}
	if len(cfg.TickFrequencies) == 0 {
		cfg.TickFrequencies = DefaultTickFrequencies()
	}

	width, _ := cfg.Surface.Size()
	if width <= axisMargin {
		return nil, eris.Errorf("spectrogram: surface width %d leaves no plot area beyond the %dpx margin", width, axisMargin)
	}

	r := &Renderer{
		cfg:      cfg,
		nyquist:  cfg.Source.SampleRate() / 2,
		binCount: cfg.Source.FFTSize() / 2,
	}
	cfg.Surface.Clear(color.Black)
	r.drawAxis()
	return r, nil
}

// Start begins the per-tick loop. Calling Start while running is a no-op.
func (r *Renderer) Start() {
	if r.running {
		return
	}
	r.running = true
	r.cfg.Scheduler.Start(r.Tick)
}

// Stop halts the loop. Safe to call when already stopped.
func (r *Renderer) Stop() {
	if !r.running {
		return
	}
	r.running = false
	r.cfg.Scheduler.Stop()
}

// SetPaused suppresses new-column drawing while keeping the axis overlay
// redrawn over the frozen image.
func (r *Renderer) SetPaused(paused bool) {
	r.paused = paused
}

// Paused reports the paused flag.
func (r *Renderer) Paused() bool {
	return r.paused
}

// Tick renders one frame: scroll, draw the newest column, then the axis
// overlay. Exposed so tests and external schedulers can drive frames
// directly.
func (r *Renderer) Tick() {
	if !r.paused {
		r.scrollAndDrawColumn()
	}
	r.drawAxis()
}

func (r *Renderer) scrollAndDrawColumn() {
	width, height := r.cfg.Surface.Size()
	plotW := width - axisMargin
	if plotW < 2 || height < 2 {
		return
	}

	// Shift the plot region one pixel left; the margin stays put.
	r.cfg.Surface.CopyWithin(render.Rect{X: axisMargin + 1, Y: 0, W: plotW - 1, H: height}, axisMargin, 0)

	r.scratch = r.cfg.Source.Spectrum(r.scratch)
	x := float64(width - 1)
	for y := 0; y < height; y++ {
		// Row 0 is the highest frequency; the bottom row is 0 Hz.
		frac := 0.0
		if height > 1 {
			frac = 1 - float64(y)/float64(height-1)
		}
		bin := utils.ClampIndex(int(frac*float64(r.binCount-1)+0.5), len(r.scratch))
		db := r.cfg.MinDecibels
		if len(r.scratch) > 0 {
			db = r.scratch[bin]
		}
		r.cfg.Surface.FillRect(x, float64(y), 1, 1, HeatColor(r.normalize(db)))
	}
}

// normalize applies the same clamp-and-scale dB mapping the band
// aggregator uses.
func (r *Renderer) normalize(db float64) float64 {
	span := r.cfg.MaxDecibels - r.cfg.MinDecibels
	if span == 0 {
		span = 1
	}
	clamped := utils.Clamp(db, r.cfg.MinDecibels, r.cfg.MaxDecibels)
	return (clamped - r.cfg.MinDecibels) / span
}

// drawAxis paints the reserved margin and, for every configured tick
// frequency, a guide line across the plot plus a label. Placement uses
// the direct bin-count scale so labels line up with the column mapping.
func (r *Renderer) drawAxis() {
	width, height := r.cfg.Surface.Size()
	r.cfg.Surface.FillRect(0, 0, axisMargin, float64(height), marginBG)

	for _, freq := range r.cfg.TickFrequencies {
		if freq <= 0 || freq > r.nyquist {
			continue
		}
		bin := bands.FreqToBin(freq, r.nyquist, r.binCount)
		frac := float64(bin) / float64(r.binCount-1)
		y := (1 - frac) * float64(height-1)

		r.cfg.Surface.StrokeLine(axisMargin, y, float64(width), y, 1, guideColor)
		r.cfg.Surface.DrawText(formatFrequency(freq), 4, y+4, labelColor)
	}
}

// formatFrequency renders Hz below 1 kHz, kHz with one decimal below
// 10 kHz, and whole kHz above.
func formatFrequency(freq float64) string {
	switch {
	case freq < 1000:
		return fmt.Sprintf("%.0f Hz", freq)
	case freq < 10000:
		return fmt.Sprintf("%.1f kHz", freq/1000)
	default:
		return fmt.Sprintf("%.0f kHz", freq/1000)
	}
}
