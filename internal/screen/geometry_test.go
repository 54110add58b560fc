package screen

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeometryRegions(t *testing.T) {
	g := NewGeometry(image.Rect(0, 0, 1920, 1080), 30, 19, 35, 19)

	assert.Equal(t, EdgeRegion{X: 0, Y: 0, Width: 30, Height: 1080}, g.Left)
	assert.Equal(t, EdgeRegion{X: 0, Y: 0, Width: 1920, Height: 30}, g.Top)
	assert.Equal(t, EdgeRegion{X: 1890, Y: 0, Width: 30, Height: 1080}, g.Right)
	assert.Equal(t, 73, g.LEDCount())
}

func TestNewGeometryOffsetDisplay(t *testing.T) {
	// Secondary monitor to the right of the primary.
	g := NewGeometry(image.Rect(1920, 0, 3840, 1080), 30, 19, 35, 19)

	assert.Equal(t, 1920, g.Left.X)
	assert.Equal(t, 1920, g.Top.X)
	assert.Equal(t, 3810, g.Right.X)
}

func TestSegmentsPartitionWithoutOverlap(t *testing.T) {
	g := NewGeometry(image.Rect(0, 0, 1920, 1080), 30, 19, 35, 19)

	// Left edge runs bottom to top: 1080/19 = 56 with remainder 16
	// dropped at the screen top.
	require.Len(t, g.LeftSegments, 19)
	assert.Equal(t, Segment{Start: 1024, End: 1080}, g.LeftSegments[0])
	assert.Equal(t, Segment{Start: 16, End: 72}, g.LeftSegments[18])
	for i := 1; i < len(g.LeftSegments); i++ {
		assert.Equal(t, g.LeftSegments[i].End, g.LeftSegments[i-1].Start,
			"left segments must be adjacent without overlap")
	}

	// Top edge runs left to right: 1920/35 = 54 with remainder 30
	// dropped at the right.
	require.Len(t, g.TopSegments, 35)
	assert.Equal(t, Segment{Start: 0, End: 54}, g.TopSegments[0])
	assert.Equal(t, Segment{Start: 34 * 54, End: 35 * 54}, g.TopSegments[34])
	for i := 1; i < len(g.TopSegments); i++ {
		assert.Equal(t, g.TopSegments[i-1].End, g.TopSegments[i].Start)
	}

	// Right edge runs top to bottom.
	require.Len(t, g.RightSegments, 19)
	assert.Equal(t, Segment{Start: 0, End: 56}, g.RightSegments[0])
	assert.Equal(t, Segment{Start: 18 * 56, End: 19 * 56}, g.RightSegments[18])

	for _, s := range append(g.LeftSegments, g.RightSegments...) {
		assert.GreaterOrEqual(t, s.Start, 0)
		assert.LessOrEqual(t, s.End, 1080)
	}
}

func TestSegmentsEvenDivision(t *testing.T) {
	// 1080/27 divides evenly: segments must cover the full edge.
	g := NewGeometry(image.Rect(0, 0, 1920, 1080), 30, 27, 32, 27)

	assert.Equal(t, 0, g.LeftSegments[len(g.LeftSegments)-1].Start)
	assert.Equal(t, 1080, g.LeftSegments[0].End)
	assert.Equal(t, 1080, g.RightSegments[len(g.RightSegments)-1].End)
	assert.Equal(t, 0, g.TopSegments[0].Start)
	assert.Equal(t, 1920, g.TopSegments[len(g.TopSegments)-1].End)
}
