// Package colors turns raw averaged edge colors into the 8-bit values
// the LED strip receives: saturation boost, brightness scale, temporal
// smoothing, clamp.
package colors

import (
	"gonum.org/v1/gonum/floats"
)

// Processor applies the color pipeline to one sample at a time. It owns
// the smoothing state and must only be used from a single goroutine.
type Processor struct {
	saturation float64
	brightness float64
	alpha      float64

	prev []float64 // previous processed frame, nil until first sample
	work []float64
	diff []float64
	out  []byte
}

// NewProcessor creates a processor for ledCount LEDs. brightness is a
// [0,1] factor, saturation a multiplier around the per-pixel gray, and
// alpha the smoothing coefficient in (0,1] (1 disables smoothing).
func NewProcessor(ledCount int, brightness, saturation, alpha float64) *Processor {
	n := ledCount * 3
	return &Processor{
		saturation: saturation,
		brightness: brightness,
		alpha:      alpha,
		work:       make([]float64, n),
		diff:       make([]float64, n),
		out:        make([]byte, n),
	}
}

// Process transforms one sample of interleaved R,G,B float values into
// 8-bit output. The returned slice is reused between calls; it is valid
// until the next Process.
func (p *Processor) Process(sample []float64) []byte {
	copy(p.work, sample)

	if p.saturation != 1.0 {
		for i := 0; i+2 < len(p.work); i += 3 {
			gray := (p.work[i] + p.work[i+1] + p.work[i+2]) / 3.0
			p.work[i] = gray + (p.work[i]-gray)*p.saturation
			p.work[i+1] = gray + (p.work[i+1]-gray)*p.saturation
			p.work[i+2] = gray + (p.work[i+2]-gray)*p.saturation
		}
	}

	if p.brightness != 1.0 {
		floats.Scale(p.brightness, p.work)
	}

	if p.prev == nil {
		// First frame seeds the smoothing state directly; blending
		// against a zero baseline would fade in from black.
		p.prev = make([]float64, len(p.work))
		copy(p.prev, p.work)
	} else {
		floats.SubTo(p.diff, p.work, p.prev)
		floats.AddScaledTo(p.work, p.prev, p.alpha, p.diff)
		copy(p.prev, p.work)
	}

	for i, v := range p.work {
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		p.out[i] = byte(v)
	}
	return p.out
}
