package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"

	"github.com/lumabeat/lumabeat/internal/bands"
	"github.com/lumabeat/lumabeat/internal/particles"
	"github.com/lumabeat/lumabeat/internal/spectrogram"
	"github.com/lumabeat/lumabeat/internal/ui"
)

// selectDeviceAndMode fills in whatever the flags left open, using the
// interactive setup when a terminal is available and sensible defaults
// when it is not.
func selectDeviceAndMode(
	devices []*portaudio.DeviceInfo,
	defaultDeviceIndex int,
	opts runtimeOptions,
) (*portaudio.DeviceInfo, string, error) {
	if len(devices) == 0 {
		return nil, "", eris.New("no input devices available")
	}

	modes := particles.Modes()
	initialDevice := effectiveInitialDeviceIndex(opts.deviceIndex, defaultDeviceIndex, len(devices))
	initialMode := indexOf(modes, opts.visualMode)

	deviceOptions := buildDeviceOptions(devices)
	modeOptions := buildModeOptions(modes)
	if opts.deviceIndex >= 0 {
		if opts.deviceIndex >= len(devices) {
			return nil, "", eris.Errorf("invalid device index %d", opts.deviceIndex)
		}
		deviceOptions = deviceOptions[:0] // skip the device step
	}
	if opts.visualMode != "" {
		if initialMode < 0 {
			return nil, "", eris.Errorf("unknown visual mode %q", opts.visualMode)
		}
		modeOptions = modeOptions[:0]
	}

	if len(deviceOptions) == 0 && len(modeOptions) == 0 {
		return devices[initialDevice], modes[max(initialMode, 0)], nil
	}

	chosen, err := ui.RunSetup([]ui.Step{
		{Title: "Select an audio input device", Options: deviceOptions, Initial: initialDevice},
		{Title: "Select a visual composition", Options: modeOptions, Initial: max(initialMode, 0)},
	})
	if err != nil {
		if eris.Is(err, ui.ErrNoInteractiveTTY) {
			return devices[initialDevice], modes[max(initialMode, 0)], nil
		}
		return nil, "", err
	}

	device := devices[initialDevice]
	if len(deviceOptions) > 0 {
		device = devices[chosen[0]]
	}
	mode := modes[max(initialMode, 0)]
	if len(modeOptions) > 0 {
		mode = modes[chosen[1]]
	}
	return device, mode, nil
}

func buildDeviceOptions(devices []*portaudio.DeviceInfo) []ui.Option {
	options := make([]ui.Option, len(devices))
	for i, dev := range devices {
		options[i] = ui.Option{
			Label: fmt.Sprintf(
				"[%d] %s · %.0fHz · in:%d · latency:%.1fms",
				i,
				dev.Name,
				dev.DefaultSampleRate,
				dev.MaxInputChannels,
				dev.DefaultLowInputLatency.Seconds()*1000,
			),
		}
	}
	return options
}

func buildModeOptions(modes []string) []ui.Option {
	options := make([]ui.Option, len(modes))
	for i, mode := range modes {
		options[i] = ui.Option{Label: mode}
	}
	return options
}

// parseBands turns "sub:20-60,bass:60-250" into a band list, falling
// back to the defaults on an empty flag.
func parseBands(raw string) ([]bands.FrequencyBand, error) {
	if strings.TrimSpace(raw) == "" {
		return bands.DefaultBands(), nil
	}

	parts := strings.Split(raw, ",")
	list := make([]bands.FrequencyBand, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, span, ok := strings.Cut(part, ":")
		if !ok {
			return nil, eris.Errorf("band %q must be label:minHz-maxHz", part)
		}
		lo, hi, ok := strings.Cut(span, "-")
		if !ok {
			return nil, eris.Errorf("band %q must be label:minHz-maxHz", part)
		}
		minHz, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "parse band %q minimum", part)
		}
		maxHz, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "parse band %q maximum", part)
		}
		if minHz < 0 || maxHz <= minHz {
			return nil, eris.Errorf("band %q has an empty frequency range", part)
		}
		label = strings.TrimSpace(label)
		list = append(list, bands.FrequencyBand{
			ID:    strings.ToLower(label),
			Label: label,
			MinHz: minHz,
			MaxHz: maxHz,
		})
	}
	if len(list) == 0 {
		return bands.DefaultBands(), nil
	}
	return list, nil
}

// parseTickFrequencies turns "100,1000,8000" into axis frequencies,
// falling back to the defaults on an empty flag.
func parseTickFrequencies(raw string) ([]float64, error) {
	if strings.TrimSpace(raw) == "" {
		return spectrogram.DefaultTickFrequencies(), nil
	}

	parts := strings.Split(raw, ",")
	freqs := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		freq, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "parse tick frequency %q", part)
		}
		if freq <= 0 {
			return nil, eris.Errorf("tick frequency must be positive, got %v", freq)
		}
		freqs = append(freqs, freq)
	}
	if len(freqs) == 0 {
		return spectrogram.DefaultTickFrequencies(), nil
	}
	return freqs, nil
}

func effectiveInitialDeviceIndex(requested, fallback, length int) int {
	if length == 0 {
		return 0
	}
	if requested >= 0 && requested < length {
		return requested
	}
	if fallback >= 0 && fallback < length {
		return fallback
	}
	return 0
}

func effectiveSampleRate(requested, deviceDefault float64) float64 {
	if requested > 0 {
		return requested
	}
	if deviceDefault > 0 {
		return deviceDefault
	}
	return 44100
}

func effectiveFFTSize(requested int) int {
	if requested > 0 {
		return requested
	}
	return 2048
}

func sanitizeChannelCount(requested, max int) int {
	if requested <= 0 {
		return 1
	}
	if max > 0 && requested > max {
		return max
	}
	return requested
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}

