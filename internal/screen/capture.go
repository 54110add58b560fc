package screen

import (
	"fmt"

	"github.com/kbinani/screenshot"
)

// Frame is a raw edge capture: 4 bytes per pixel in B,G,R,X channel
// order, row-major, no padding between rows. Buffers are reused across
// captures; a Frame is only valid until the next Grab into it.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

func (f *Frame) resize(width, height int) {
	f.Width = width
	f.Height = height
	need := width * height * 4
	if cap(f.Pix) < need {
		f.Pix = make([]byte, need)
	}
	f.Pix = f.Pix[:need]
}

// Grabber captures one edge region into a reusable frame.
type Grabber interface {
	Grab(region EdgeRegion, dst *Frame) error
}

// DisplayGrabber captures edge regions from the live display.
type DisplayGrabber struct{}

func NewDisplayGrabber() *DisplayGrabber {
	return &DisplayGrabber{}
}

func (d *DisplayGrabber) Grab(region EdgeRegion, dst *Frame) error {
	img, err := screenshot.CaptureRect(region.Rect())
	if err != nil {
		return fmt.Errorf("failed to capture region %+v: %w", region, err)
	}

	w := img.Rect.Dx()
	h := img.Rect.Dy()
	dst.resize(w, h)

	// The capture library hands back RGBA; the wire-facing sampler works
	// on the BGRA layout the OS capture buffers use natively.
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		row := dst.Pix[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			row[x*4+0] = src[x*4+2]
			row[x*4+1] = src[x*4+1]
			row[x*4+2] = src[x*4+0]
			row[x*4+3] = src[x*4+3]
		}
	}
	return nil
}
