package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"github.com/rotisserie/eris"
)

// Canvas implements Surface on top of a software RGBA image using gg for
// rasterization. Additive compositing renders each primitive into a
// scratch layer first and folds it into the backing image channel-wise.
type Canvas struct {
	width   int
	height  int
	backing *image.RGBA
	dc      *gg.Context

	mode      CompositeMode
	scratch   *image.RGBA
	scratchDC *gg.Context
	copyBuf   *image.RGBA
}

var _ Surface = (*Canvas)(nil)

// NewCanvas allocates a canvas. Unusable dimensions are a hard failure:
// rendering cannot proceed without a surface.
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, eris.Errorf("render: unusable surface dimensions %dx%d", width, height)
	}
	backing := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Canvas{
		width:   width,
		height:  height,
		backing: backing,
		dc:      gg.NewContextForRGBA(backing),
	}, nil
}

// Size returns the surface dimensions in pixels.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// SetComposite switches the blend mode for subsequent draws.
func (c *Canvas) SetComposite(mode CompositeMode) {
	c.mode = mode
}

// Image exposes the backing image.
func (c *Canvas) Image() image.Image {
	return c.backing
}

// Clear fills the whole surface regardless of composite mode.
func (c *Canvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

// target returns the context draws should hit, preparing the scratch
// layer when additive mode is active.
func (c *Canvas) target() *gg.Context {
	if c.mode != CompositeAdd {
		return c.dc
	}
	if c.scratch == nil {
		c.scratch = image.NewRGBA(image.Rect(0, 0, c.width, c.height))
		c.scratchDC = gg.NewContextForRGBA(c.scratch)
	}
	draw.Draw(c.scratch, c.scratch.Bounds(), image.Transparent, image.Point{}, draw.Src)
	return c.scratchDC
}

// resolve folds the scratch layer into the backing image when additive
// mode is active. bounds limits the work to the primitive's area.
func (c *Canvas) resolve(bounds image.Rectangle) {
	if c.mode != CompositeAdd || c.scratch == nil {
		return
	}
	bounds = bounds.Intersect(c.backing.Bounds())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := c.scratch.PixOffset(x, y)
			sa := c.scratch.Pix[i+3]
			if sa == 0 {
				continue
			}
			j := c.backing.PixOffset(x, y)
			c.backing.Pix[j+0] = addChannel(c.backing.Pix[j+0], c.scratch.Pix[i+0])
			c.backing.Pix[j+1] = addChannel(c.backing.Pix[j+1], c.scratch.Pix[i+1])
			c.backing.Pix[j+2] = addChannel(c.backing.Pix[j+2], c.scratch.Pix[i+2])
			c.backing.Pix[j+3] = 255
		}
	}
}

func addChannel(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}

func boundsFor(x, y, w, h, pad float64) image.Rectangle {
	return image.Rect(int(x-pad), int(y-pad), int(x+w+pad+1), int(y+h+pad+1))
}

// FillRect fills an axis-aligned rectangle.
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	dc := c.target()
	dc.SetColor(col)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
	c.resolve(boundsFor(x, y, w, h, 1))
}

// FillRoundedRect fills a rectangle with rounded corners.
func (c *Canvas) FillRoundedRect(x, y, w, h, radius float64, col color.Color) {
	dc := c.target()
	dc.SetColor(col)
	dc.DrawRoundedRectangle(x, y, w, h, radius)
	dc.Fill()
	c.resolve(boundsFor(x, y, w, h, 1))
}

// FillCircle fills a circle.
func (c *Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	dc := c.target()
	dc.SetColor(col)
	dc.DrawCircle(cx, cy, r)
	dc.Fill()
	c.resolve(boundsFor(cx-r, cy-r, 2*r, 2*r, 1))
}

// StrokeCircle strokes a circle outline.
func (c *Canvas) StrokeCircle(cx, cy, r, width float64, col color.Color) {
	dc := c.target()
	dc.SetColor(col)
	dc.SetLineWidth(width)
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()
	c.resolve(boundsFor(cx-r, cy-r, 2*r, 2*r, width+1))
}

// StrokeLine strokes a straight segment.
func (c *Canvas) StrokeLine(x1, y1, x2, y2, width float64, col color.Color) {
	dc := c.target()
	dc.SetColor(col)
	dc.SetLineWidth(width)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	c.resolve(boundsFor(min(x1, x2), min(y1, y2), abs(x2-x1), abs(y2-y1), width+1))
}

// StrokeArc strokes a circular arc between two angles in radians.
func (c *Canvas) StrokeArc(cx, cy, r, fromAngle, toAngle, width float64, col color.Color) {
	dc := c.target()
	dc.SetColor(col)
	dc.SetLineWidth(width)
	dc.DrawArc(cx, cy, r, fromAngle, toAngle)
	dc.Stroke()
	c.resolve(boundsFor(cx-r, cy-r, 2*r, 2*r, width+1))
}

// FillPath fills the polygon described by pts, closing it implicitly.
func (c *Canvas) FillPath(pts []Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	dc := c.target()
	dc.SetColor(col)
	tracePath(dc, pts, true)
	dc.Fill()
	c.resolve(pathBounds(pts, 1))
}

// StrokePath strokes the polyline described by pts.
func (c *Canvas) StrokePath(pts []Point, width float64, col color.Color, closed bool) {
	if len(pts) < 2 {
		return
	}
	dc := c.target()
	dc.SetColor(col)
	dc.SetLineWidth(width)
	tracePath(dc, pts, closed)
	dc.Stroke()
	c.resolve(pathBounds(pts, width+1))
}

func tracePath(dc *gg.Context, pts []Point, closed bool) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	if closed {
		dc.ClosePath()
	}
}

func pathBounds(pts []Point, pad float64) image.Rectangle {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return boundsFor(minX, minY, maxX-minX, maxY-minY, pad)
}

// FillRectLinearGradient fills a rectangle with a vertical gradient.
func (c *Canvas) FillRectLinearGradient(x, y, w, h float64, top, bottom color.Color) {
	dc := c.target()
	grad := gg.NewLinearGradient(x, y, x, y+h)
	grad.AddColorStop(0, top)
	grad.AddColorStop(1, bottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
	c.resolve(boundsFor(x, y, w, h, 1))
}

// FillCircleRadialGradient fills a circle with a center-to-rim gradient.
func (c *Canvas) FillCircleRadialGradient(cx, cy, r float64, inner, outer color.Color) {
	dc := c.target()
	grad := gg.NewRadialGradient(cx, cy, 0, cx, cy, r)
	grad.AddColorStop(0, inner)
	grad.AddColorStop(1, outer)
	dc.SetFillStyle(grad)
	dc.DrawCircle(cx, cy, r)
	dc.Fill()
	c.resolve(boundsFor(cx-r, cy-r, 2*r, 2*r, 1))
}

// DrawText renders s with its baseline-left anchor at (x, y) using the
// default bitmap face.
func (c *Canvas) DrawText(s string, x, y float64, col color.Color) {
	dc := c.target()
	dc.SetColor(col)
	dc.DrawString(s, x, y)
	c.resolve(boundsFor(x, y-16, float64(8*len(s)), 20, 1))
}

// CopyWithin copies the src region to (dstX, dstY). The regions may
// overlap; the copy goes through an intermediate buffer.
func (c *Canvas) CopyWithin(src Rect, dstX, dstY int) {
	srcRect := image.Rect(src.X, src.Y, src.X+src.W, src.Y+src.H).Intersect(c.backing.Bounds())
	if srcRect.Empty() {
		return
	}
	if c.copyBuf == nil || c.copyBuf.Bounds().Dx() < srcRect.Dx() || c.copyBuf.Bounds().Dy() < srcRect.Dy() {
		c.copyBuf = image.NewRGBA(image.Rect(0, 0, srcRect.Dx(), srcRect.Dy()))
	}
	buf := c.copyBuf.SubImage(image.Rect(0, 0, srcRect.Dx(), srcRect.Dy())).(*image.RGBA)
	draw.Draw(buf, buf.Bounds(), c.backing, srcRect.Min, draw.Src)

	dstRect := image.Rect(dstX, dstY, dstX+srcRect.Dx(), dstY+srcRect.Dy())
	draw.Draw(c.backing, dstRect, buf, buf.Bounds().Min, draw.Src)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
