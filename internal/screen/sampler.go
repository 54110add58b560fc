package screen

import "fmt"

// Sampler reduces the three edge captures to one float RGB triple per
// LED by averaging each LED's segment, visiting every stride-th pixel on
// both axes. Averages stay in float64 so downstream smoothing does not
// accumulate rounding error.
type Sampler struct {
	geo    *Geometry
	stride int
}

func NewSampler(geo *Geometry, stride int) *Sampler {
	if stride < 1 {
		stride = 1
	}
	return &Sampler{geo: geo, stride: stride}
}

func (s *Sampler) LEDCount() int {
	return s.geo.LEDCount()
}

// SampleLen returns the required length of a Sample destination slice:
// one interleaved R,G,B triple per LED.
func (s *Sampler) SampleLen() int {
	return s.geo.LEDCount() * 3
}

// Sample fills dst with per-LED average colors in LED traversal order.
// Frame dimensions that disagree with the geometry indicate a broken
// capture setup and are returned as an error; they are not recoverable
// here.
func (s *Sampler) Sample(left, top, right *Frame, dst []float64) error {
	if len(dst) != s.SampleLen() {
		return fmt.Errorf("sample buffer length %d, want %d", len(dst), s.SampleLen())
	}
	if err := checkDims("left", left, s.geo.Left); err != nil {
		return err
	}
	if err := checkDims("top", top, s.geo.Top); err != nil {
		return err
	}
	if err := checkDims("right", right, s.geo.Right); err != nil {
		return err
	}

	i := 0
	for _, seg := range s.geo.LeftSegments {
		s.averageRows(left, seg, dst[i:i+3])
		i += 3
	}
	for _, seg := range s.geo.TopSegments {
		s.averageCols(top, seg, dst[i:i+3])
		i += 3
	}
	for _, seg := range s.geo.RightSegments {
		s.averageRows(right, seg, dst[i:i+3])
		i += 3
	}
	return nil
}

func checkDims(name string, f *Frame, r EdgeRegion) error {
	if f.Width != r.Width || f.Height != r.Height {
		return fmt.Errorf("%s frame is %dx%d, geometry expects %dx%d",
			name, f.Width, f.Height, r.Width, r.Height)
	}
	return nil
}

// averageRows averages a horizontal band of a side-edge frame: rows
// [seg.Start, seg.End) across the full frame width.
func (s *Sampler) averageRows(f *Frame, seg Segment, out []float64) {
	var sumR, sumG, sumB uint64
	var n uint64
	for y := seg.Start; y < seg.End; y += s.stride {
		row := f.Pix[y*f.Width*4:]
		for x := 0; x < f.Width; x += s.stride {
			o := x * 4
			sumB += uint64(row[o])
			sumG += uint64(row[o+1])
			sumR += uint64(row[o+2])
			n++
		}
	}
	writeAverage(out, sumR, sumG, sumB, n)
}

// averageCols averages a vertical band of the top-edge frame: columns
// [seg.Start, seg.End) across the full frame height.
func (s *Sampler) averageCols(f *Frame, seg Segment, out []float64) {
	var sumR, sumG, sumB uint64
	var n uint64
	for y := 0; y < f.Height; y += s.stride {
		row := f.Pix[y*f.Width*4:]
		for x := seg.Start; x < seg.End; x += s.stride {
			o := x * 4
			sumB += uint64(row[o])
			sumG += uint64(row[o+1])
			sumR += uint64(row[o+2])
			n++
		}
	}
	writeAverage(out, sumR, sumG, sumB, n)
}

func writeAverage(out []float64, sumR, sumG, sumB, n uint64) {
	if n == 0 {
		out[0], out[1], out[2] = 0, 0, 0
		return
	}
	out[0] = float64(sumR) / float64(n)
	out[1] = float64(sumG) / float64(n)
	out[2] = float64(sumB) / float64(n)
}
