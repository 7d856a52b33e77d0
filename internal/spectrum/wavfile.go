package spectrum

import (
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rotisserie/eris"
)

// WavFile is a Source that walks through a wav file one hop per tick,
// looping at the end. It decodes the whole file up front; the files this
// tool visualizes are short enough for that to be fine.
type WavFile struct {
	analyzer *Analyzer
	pcm      []float64
	hop      int

	mu  sync.Mutex
	pos int
}

// NewWavFile decodes path and prepares per-tick analysis with the given
// transform size. The hop defaults to half the transform size.
func NewWavFile(path string, fftSize, hop int) (*WavFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, eris.Errorf("%s is not a valid wav file", path)
	}

	sampleRate := float64(decoder.SampleRate)
	channels := int(decoder.NumChans)
	divisor := pcmDivisor(int(decoder.BitDepth))
	if divisor == 0 {
		return nil, eris.Errorf("unsupported bit depth %d", decoder.BitDepth)
	}

	var pcm []float64
	buf := &audio.IntBuffer{
		Data:   make([]int, 8192),
		Format: &audio.Format{SampleRate: int(decoder.SampleRate), NumChannels: channels},
	}
	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return nil, eris.Wrap(err, "decode pcm")
		}
		if n == 0 {
			break
		}
		for i := 0; i < n; i += channels {
			sum := 0.0
			for c := 0; c < channels && i+c < n; c++ {
				sum += float64(buf.Data[i+c]) / divisor
			}
			pcm = append(pcm, sum/float64(channels))
		}
	}
	if len(pcm) == 0 {
		return nil, eris.Errorf("%s contains no samples", path)
	}

	if hop <= 0 {
		hop = fftSize / 2
	}
	return &WavFile{
		analyzer: NewAnalyzer(sampleRate, fftSize),
		pcm:      pcm,
		hop:      hop,
	}, nil
}

func pcmDivisor(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return 128
	case 16:
		return 32768
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 0
	}
}

// Spectrum analyzes the window at the current position and advances by
// one hop, wrapping at the end of the file. Safe for concurrent callers.
func (w *WavFile) Spectrum(dst []float64) []float64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	end := w.pos + w.analyzer.FFTSize()
	if end > len(w.pcm) {
		end = len(w.pcm)
	}
	dst = w.analyzer.Process(w.pcm[w.pos:end], dst)

	w.pos += w.hop
	if w.pos+w.analyzer.FFTSize() > len(w.pcm) {
		w.pos = 0
	}
	return dst
}

// SampleRate returns the file's sample rate.
func (w *WavFile) SampleRate() float64 { return w.analyzer.SampleRate() }

// FFTSize returns the configured transform size.
func (w *WavFile) FFTSize() int { return w.analyzer.FFTSize() }
