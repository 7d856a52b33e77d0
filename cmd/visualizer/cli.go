package main

import "flag"

type runtimeOptions struct {
	deviceIndex int
	sampleRate  float64
	fftSize     int
	channels    int

	minDecibels float64
	maxDecibels float64
	smoothing   float64
	bandSpec    string

	visualMode  string
	paletteName string
	width       int
	height      int
	fps         float64
	particles   int

	wavPath     string
	synthetic   bool
	spectrogram bool
	tickFreqs   string
	outDir      string

	listenAddr string
	monitor    bool
	debug      bool
}

func parseCLIFlags() runtimeOptions {
	var cfg runtimeOptions

	flag.IntVar(&cfg.deviceIndex, "device", -1, "audio input device index (leave blank to choose interactively)")
	flag.Float64Var(&cfg.sampleRate, "sample-rate", 0, "capture sample rate (0 = device default)")
	flag.IntVar(&cfg.fftSize, "fft-size", 2048, "analysis transform size in samples (power of two)")
	flag.IntVar(&cfg.channels, "channels", 2, "number of input channels to capture (<= device max)")

	flag.Float64Var(&cfg.minDecibels, "min-db", -100, "decibel floor mapped to zero energy")
	flag.Float64Var(&cfg.maxDecibels, "max-db", -30, "decibel ceiling mapped to full energy")
	flag.Float64Var(&cfg.smoothing, "smoothing", 0.3, "band smoothing factor in (0,1], higher = more responsive")
	flag.StringVar(&cfg.bandSpec, "bands", "", "custom band list as label:minHz-maxHz,... (blank = defaults)")

	flag.StringVar(&cfg.visualMode, "mode", "", "visual composition (leave blank to choose interactively)")
	flag.StringVar(&cfg.paletteName, "palette", "", "fixed palette name (blank = mood-driven colors)")
	flag.IntVar(&cfg.width, "width", 960, "render surface width in pixels")
	flag.IntVar(&cfg.height, "height", 540, "render surface height in pixels")
	flag.Float64Var(&cfg.fps, "fps", 60, "target frames per second")
	flag.IntVar(&cfg.particles, "particles", 0, "particle pool size (0 = default)")

	flag.StringVar(&cfg.wavPath, "wav", "", "analyze a wav file instead of capturing live audio")
	flag.BoolVar(&cfg.synthetic, "synthetic", false, "use a synthetic spectrum source (no audio needed)")
	flag.BoolVar(&cfg.spectrogram, "spectrogram", false, "also render a scrolling spectrogram")
	flag.StringVar(&cfg.tickFreqs, "tick-freqs", "", "comma-separated spectrogram axis frequencies in Hz")
	flag.StringVar(&cfg.outDir, "out", "", "directory for periodic PNG frame dumps")

	flag.StringVar(&cfg.listenAddr, "listen", "", "serve snapshots over websocket on this address (e.g. :8080)")
	flag.BoolVar(&cfg.monitor, "monitor", false, "show the terminal monitor (logs go to stderr)")
	flag.BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	flag.Parse()

	return cfg
}
