package screen

import (
	"image"

	"github.com/kbinani/screenshot"

	"github.com/ambiglow/ambiglow/internal/logging"
)

var logger = logging.New("screen")

// EdgeRegion is one thin capture rectangle along a screen border, in
// display coordinates.
type EdgeRegion struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r EdgeRegion) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Segment is the half-open pixel range [Start, End) along an edge's long
// axis that feeds exactly one LED.
type Segment struct {
	Start int
	End   int
}

// Geometry holds the three edge regions and the per-LED segment maps
// derived from a display's bounds. It is computed once at startup and
// read-only afterwards.
type Geometry struct {
	Display image.Rectangle

	Left  EdgeRegion
	Top   EdgeRegion
	Right EdgeRegion

	// Segment maps in LED traversal order: left bottom to top, top left
	// to right, right top to bottom. Ranges are region-local (y for the
	// side edges, x for the top edge).
	LeftSegments  []Segment
	TopSegments   []Segment
	RightSegments []Segment
}

// ClampDisplayIndex clamps a requested display index to the range of
// currently attached displays.
func ClampDisplayIndex(index int) int {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return 0
	}
	if index < 0 {
		logger.Warnf("monitor index %d below range, using 0", index)
		return 0
	}
	if index >= n {
		logger.Warnf("monitor index %d above range, using %d", index, n-1)
		return n - 1
	}
	return index
}

// DisplayBounds returns the bounds of the display at the given index,
// clamping the index to the attached displays.
func DisplayBounds(index int) image.Rectangle {
	return screenshot.GetDisplayBounds(ClampDisplayIndex(index))
}

// NewGeometry derives the capture regions and segment maps for a display.
// Segment length is edgeLength/ledCount; the division remainder is left
// unassigned (side edges anchor their segments at the bottom, so the
// remainder falls at the screen top; the top edge's remainder falls at
// the right).
func NewGeometry(display image.Rectangle, captureDepth, leftLEDs, topLEDs, rightLEDs int) *Geometry {
	width := display.Dx()
	height := display.Dy()

	g := &Geometry{
		Display: display,
		Left: EdgeRegion{
			X: display.Min.X, Y: display.Min.Y,
			Width: captureDepth, Height: height,
		},
		Top: EdgeRegion{
			X: display.Min.X, Y: display.Min.Y,
			Width: width, Height: captureDepth,
		},
		Right: EdgeRegion{
			X: display.Min.X + width - captureDepth, Y: display.Min.Y,
			Width: captureDepth, Height: height,
		},
	}

	vSeg := height / leftLEDs
	g.LeftSegments = make([]Segment, leftLEDs)
	for i := 0; i < leftLEDs; i++ {
		y := height - (i+1)*vSeg
		g.LeftSegments[i] = Segment{Start: y, End: y + vSeg}
	}

	hSeg := width / topLEDs
	g.TopSegments = make([]Segment, topLEDs)
	for i := 0; i < topLEDs; i++ {
		x := i * hSeg
		g.TopSegments[i] = Segment{Start: x, End: x + hSeg}
	}

	vSeg = height / rightLEDs
	g.RightSegments = make([]Segment, rightLEDs)
	for i := 0; i < rightLEDs; i++ {
		y := i * vSeg
		g.RightSegments[i] = Segment{Start: y, End: y + vSeg}
	}

	return g
}

// LEDCount returns the total number of LEDs covered by the segment maps.
func (g *Geometry) LEDCount() int {
	return len(g.LeftSegments) + len(g.TopSegments) + len(g.RightSegments)
}
