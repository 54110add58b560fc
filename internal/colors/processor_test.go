package colors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaturationBoost(t *testing.T) {
	p := NewProcessor(1, 1.0, 1.2, 1.0)

	// gray = (200+100+100)/3 = 133.33; out = gray + (in-gray)*1.2
	// = (213.33, 93.33, 93.33), truncated to integers.
	out := p.Process([]float64{200, 100, 100})
	assert.Equal(t, []byte{213, 93, 93}, out)
}

func TestSaturationClampsAtWhite(t *testing.T) {
	p := NewProcessor(1, 1.0, 2.0, 1.0)

	// gray = 140; red channel 140 + 110*2 = 360 clamps to 255, blue
	// 140 - 110*2 = -80 clamps to 0.
	out := p.Process([]float64{250, 140, 30})
	assert.Equal(t, byte(255), out[0])
	assert.Equal(t, byte(0), out[2])
}

func TestSaturationOneIsIdentity(t *testing.T) {
	p := NewProcessor(1, 1.0, 1.0, 1.0)
	out := p.Process([]float64{200, 100, 50})
	assert.Equal(t, []byte{200, 100, 50}, out)
}

func TestBrightnessScale(t *testing.T) {
	p := NewProcessor(1, 0.5, 1.0, 1.0)
	out := p.Process([]float64{200, 100, 50})
	assert.Equal(t, []byte{100, 50, 25}, out)
}

func TestFirstFrameIsNotBlended(t *testing.T) {
	// With alpha < 1 the first output must equal the transformed sample,
	// not a blend with a zero baseline.
	p := NewProcessor(1, 1.0, 1.0, 0.5)
	out := p.Process([]float64{100, 200, 50})
	assert.Equal(t, []byte{100, 200, 50}, out)
}

func TestSmoothingConvergenceBound(t *testing.T) {
	// Seed the state at 0, then feed a constant 200. Error after n
	// smoothed frames is 200*(1-alpha)^n; the first n within eps=1 is
	// the smallest n with (1-alpha)^n <= eps/200.
	const alpha = 0.6
	const target = 200.0
	const eps = 1.0

	n := int(math.Ceil(math.Log(eps/target) / math.Log(1-alpha)))
	require.Equal(t, 6, n)

	p := NewProcessor(1, 1.0, 1.0, alpha)
	p.Process([]float64{0, 0, 0})

	var out []byte
	for i := 0; i < n-1; i++ {
		out = p.Process([]float64{target, target, target})
	}
	assert.Less(t, out[0], byte(199), "must not yet be within tolerance at n-1")

	out = p.Process([]float64{target, target, target})
	assert.GreaterOrEqual(t, out[0], byte(199), "within +/-1 of target after n frames")
}

func TestSteadyStateMatchesTransformedInput(t *testing.T) {
	// Constant input converges to the saturation/brightness-transformed
	// value within rounding tolerance.
	p := NewProcessor(1, 0.5, 1.3, 0.6)

	in := []float64{120, 30, 240}
	var out []byte
	for i := 0; i < 50; i++ {
		out = p.Process(in)
	}

	gray := (120.0 + 30.0 + 240.0) / 3.0
	for c := 0; c < 3; c++ {
		want := (gray + (in[c]-gray)*1.3) * 0.5
		if want < 0 {
			want = 0
		}
		assert.InDelta(t, want, float64(out[c]), 1.0, "channel %d", c)
	}
}

func TestOutputBufferReused(t *testing.T) {
	p := NewProcessor(2, 1.0, 1.0, 1.0)
	a := p.Process([]float64{1, 2, 3, 4, 5, 6})
	b := p.Process([]float64{6, 5, 4, 3, 2, 1})
	assert.Same(t, &a[0], &b[0], "Process reuses its output buffer")
	assert.Equal(t, []byte{6, 5, 4, 3, 2, 1}, b)
}
