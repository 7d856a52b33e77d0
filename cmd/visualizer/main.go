package main

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/lumabeat/lumabeat/internal/bands"
	"github.com/lumabeat/lumabeat/internal/particles"
	"github.com/lumabeat/lumabeat/internal/pipeline"
	"github.com/lumabeat/lumabeat/internal/render"
	"github.com/lumabeat/lumabeat/internal/sched"
	"github.com/lumabeat/lumabeat/internal/spectrogram"
	"github.com/lumabeat/lumabeat/internal/spectrum"
	"github.com/lumabeat/lumabeat/internal/stream"
	"github.com/lumabeat/lumabeat/internal/ui"
)

func main() {
	cfg := parseCLIFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runVisualizer(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func setupLogger(debug, monitor bool) *slog.Logger {
	logOutput := os.Stdout
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	if monitor && !debug {
		logLevel = slog.LevelWarn
	}
	if monitor {
		logOutput = os.Stderr
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	return logger
}

func runVisualizer(ctx context.Context, cfg runtimeOptions) error {
	logger := setupLogger(cfg.debug, cfg.monitor)

	source, capture, mode, err := buildSource(logger, &cfg)
	if err != nil {
		return err
	}
	if capture != nil {
		defer capture.close()
	}

	bandList, err := parseBands(cfg.bandSpec)
	if err != nil {
		return err
	}

	canvas, err := render.NewCanvas(cfg.width, cfg.height)
	if err != nil {
		return err
	}

	engine, err := particles.NewEngine(particles.Config{
		Width:         cfg.width,
		Height:        cfg.height,
		ParticleCount: cfg.particles,
		BandCount:     len(bandList),
		Rand:          particles.NewRand(time.Now().UnixNano()),
		Mode:          mode,
	})
	if err != nil {
		return err
	}

	pipe, err := pipeline.New(pipeline.Config{
		Source:    source,
		Surface:   canvas,
		Scheduler: sched.NewTicker(cfg.fps),
		Aggregator: bands.Config{
			SampleRate:  source.SampleRate(),
			FFTSize:     source.FFTSize(),
			Bands:       bandList,
			MinDecibels: cfg.minDecibels,
			MaxDecibels: cfg.maxDecibels,
			Smoothing:   cfg.smoothing,
		},
		Engine:      engine,
		PaletteName: cfg.paletteName,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	var monitor *ui.Monitor
	if cfg.monitor {
		monitor = ui.NewMonitor(pipe.BandsConfig(), cancel)
		defer monitor.Close()
		pipe.Subscribe(monitor.Publish)
	}

	if cfg.listenAddr != "" {
		server := stream.NewServer(logger)
		pipe.Subscribe(server.Publish)
		g.Go(func() error {
			return server.ListenAndServe(gctx, cfg.listenAddr)
		})
	}

	var spectro *spectrogram.Renderer
	var spectroCanvas *render.Canvas
	if cfg.spectrogram {
		tickFreqs, err := parseTickFrequencies(cfg.tickFreqs)
		if err != nil {
			return err
		}
		spectroCanvas, err = render.NewCanvas(cfg.width, cfg.height/2)
		if err != nil {
			return err
		}
		spectro, err = spectrogram.New(spectrogram.Config{
			Surface:         spectroCanvas,
			Source:          source,
			Scheduler:       sched.NewTicker(30),
			MinDecibels:     cfg.minDecibels,
			MaxDecibels:     cfg.maxDecibels,
			TickFrequencies: tickFreqs,
		})
		if err != nil {
			return err
		}
		spectro.Start()
		defer spectro.Stop()
	}

	if cfg.outDir != "" {
		if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
			return eris.Wrap(err, "create output directory")
		}
		g.Go(func() error {
			return dumpFrames(gctx, logger, cfg.outDir, canvas, spectroCanvas)
		})
	}

	if capture != nil {
		g.Go(func() error {
			return capture.run(gctx, logger)
		})
	}

	g.Go(func() error {
		return pipe.Run(gctx)
	})

	logger.Info("visualizer running",
		slog.String("mode", mode),
		slog.Float64("fps", cfg.fps),
		slog.Int("width", cfg.width),
		slog.Int("height", cfg.height))

	if err := g.Wait(); err != nil && !eris.Is(err, context.Canceled) {
		logger.Error("visualizer loop failed", slog.Any("error", err))
		return err
	}
	return nil
}

// liveCapture owns the PortAudio stream feeding a Live spectrum source.
type liveCapture struct {
	device   *portaudio.DeviceInfo
	live     *spectrum.Live
	rate     float64
	channels int
	fftSize  int
}

func (c *liveCapture) close() {
	portaudio.Terminate()
}

func (c *liveCapture) run(ctx context.Context, logger *slog.Logger) error {
	logger.Info("using audio input device",
		slog.String("name", c.device.Name),
		slog.Float64("sample_rate", c.rate),
		slog.Int("channels", c.channels),
		slog.Int("fft_size", c.fftSize))

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   c.device,
			Channels: c.channels,
			Latency:  c.device.DefaultLowInputLatency,
		},
		SampleRate:      c.rate,
		FramesPerBuffer: c.fftSize,
	}

	stream, err := portaudio.OpenStream(params, func(in []float32) {
		c.live.Push(in, c.channels)
	})
	if err != nil {
		return eris.Wrap(err, "open audio stream")
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return eris.Wrap(err, "start audio stream")
	}
	defer stream.Stop()

	<-ctx.Done()
	return ctx.Err()
}

// buildSource resolves the spectrum source from flags: wav file,
// synthetic generator, or live capture. For live capture it also runs
// the interactive device/mode setup.
func buildSource(logger *slog.Logger, cfg *runtimeOptions) (spectrum.Source, *liveCapture, string, error) {
	fftSize := effectiveFFTSize(cfg.fftSize)

	if cfg.wavPath != "" {
		mode, err := resolveModeOnly(cfg.visualMode)
		if err != nil {
			return nil, nil, "", err
		}
		source, err := spectrum.NewWavFile(cfg.wavPath, fftSize, 0)
		if err != nil {
			return nil, nil, "", err
		}
		return source, nil, mode, nil
	}

	if cfg.synthetic {
		mode, err := resolveModeOnly(cfg.visualMode)
		if err != nil {
			return nil, nil, "", err
		}
		rate := effectiveSampleRate(cfg.sampleRate, 0)
		return spectrum.NewSynthetic(rate, fftSize, time.Now().UnixNano()), nil, mode, nil
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, nil, "", eris.Wrap(err, "initialize PortAudio")
	}

	devices, err := portaudio.Devices()
	if err != nil {
		portaudio.Terminate()
		return nil, nil, "", eris.Wrap(err, "enumerate audio devices")
	}
	defaultDevice, err := portaudio.DefaultInputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, nil, "", eris.Wrap(err, "resolve default audio input device")
	}

	device, mode, err := selectDeviceAndMode(devices, defaultDevice.Index, *cfg)
	if err != nil {
		portaudio.Terminate()
		return nil, nil, "", eris.Wrap(err, "select device/mode")
	}
	if device.MaxInputChannels < 1 {
		portaudio.Terminate()
		return nil, nil, "", eris.Errorf("device %s has no input channels; select a loopback/monitor device", device.Name)
	}

	rate := effectiveSampleRate(cfg.sampleRate, device.DefaultSampleRate)
	channels := sanitizeChannelCount(cfg.channels, int(device.MaxInputChannels))
	if cfg.channels > 0 && cfg.channels > int(device.MaxInputChannels) {
		logger.Warn("requested channels exceed device capabilities",
			slog.Int("requested", cfg.channels),
			slog.Int("max", int(device.MaxInputChannels)),
			slog.Int("using", channels))
	}

	live := spectrum.NewLive(spectrum.NewAnalyzer(rate, fftSize))
	capture := &liveCapture{
		device:   device,
		live:     live,
		rate:     rate,
		channels: channels,
		fftSize:  fftSize,
	}
	return live, capture, mode, nil
}

// resolveModeOnly picks the visual mode without any device step, for
// the wav and synthetic sources.
func resolveModeOnly(requested string) (string, error) {
	modes := particles.Modes()
	if requested != "" {
		if indexOf(modes, requested) < 0 {
			return "", eris.Errorf("unknown visual mode %q", requested)
		}
		return requested, nil
	}

	chosen, err := ui.RunSetup([]ui.Step{
		{Title: "Select a visual composition", Options: buildModeOptions(modes)},
	})
	if err != nil {
		if eris.Is(err, ui.ErrNoInteractiveTTY) {
			return particles.ModeRadialPulse, nil
		}
		return "", err
	}
	return modes[chosen[0]], nil
}

// dumpFrames writes the current canvases as PNGs once per second until
// the context is cancelled.
func dumpFrames(ctx context.Context, logger *slog.Logger, dir string, main, spectro *render.Canvas) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			frame++
			if err := writePNG(filepath.Join(dir, fmt.Sprintf("visual-%05d.png", frame)), main); err != nil {
				logger.Warn("frame dump failed", slog.Any("error", err))
				continue
			}
			if spectro != nil {
				if err := writePNG(filepath.Join(dir, fmt.Sprintf("spectrogram-%05d.png", frame)), spectro); err != nil {
					logger.Warn("spectrogram dump failed", slog.Any("error", err))
				}
			}
		}
	}
}

func writePNG(path string, canvas *render.Canvas) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create frame file")
	}
	defer f.Close()

	if err := png.Encode(f, canvas.Image()); err != nil {
		return eris.Wrap(err, "encode frame")
	}
	return nil
}
