package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanvasRejectsUnusableDimensions(t *testing.T) {
	_, err := NewCanvas(0, 100)
	assert.Error(t, err)
	_, err = NewCanvas(100, -1)
	assert.Error(t, err)
}

func TestFillRectWritesPixels(t *testing.T) {
	c, err := NewCanvas(16, 16)
	require.NoError(t, err)

	c.Clear(color.Black)
	c.FillRect(4, 4, 8, 8, color.RGBA{R: 200, G: 10, B: 10, A: 255})

	px := c.backing.RGBAAt(8, 8)
	assert.EqualValues(t, 200, px.R)
	assert.EqualValues(t, 10, px.G)

	corner := c.backing.RGBAAt(0, 0)
	assert.EqualValues(t, 0, corner.R)
}

func TestAdditiveCompositeBrightens(t *testing.T) {
	c, err := NewCanvas(16, 16)
	require.NoError(t, err)

	c.Clear(color.Black)
	c.SetComposite(CompositeAdd)
	c.FillRect(0, 0, 16, 16, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	c.FillRect(0, 0, 16, 16, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	c.FillRect(0, 0, 16, 16, color.RGBA{R: 100, G: 100, B: 100, A: 255})

	px := c.backing.RGBAAt(8, 8)
	// Three additive passes: 100+100+100 clamps at 255.
	assert.EqualValues(t, 255, px.R)
	assert.EqualValues(t, 255, px.G)
	assert.EqualValues(t, 255, px.B)
}

func TestCopyWithinScrollsLeft(t *testing.T) {
	c, err := NewCanvas(8, 2)
	require.NoError(t, err)

	c.Clear(color.Black)
	// Mark column 5, then shift columns 1..7 one pixel left.
	c.backing.SetRGBA(5, 0, color.RGBA{R: 255, A: 255})
	c.CopyWithin(Rect{X: 1, Y: 0, W: 7, H: 2}, 0, 0)

	assert.EqualValues(t, 255, c.backing.RGBAAt(4, 0).R)
}

func TestStrokePathIgnoresDegenerate(t *testing.T) {
	c, err := NewCanvas(8, 8)
	require.NoError(t, err)

	// A single point cannot be stroked or filled; both are no-ops.
	c.StrokePath([]Point{{X: 1, Y: 1}}, 2, color.White, false)
	c.FillPath([]Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, color.White)
}
