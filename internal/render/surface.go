// Package render provides the 2D drawing surface the visual components
// target. The Surface contract covers exactly what the renderers need:
// solid and gradient fills, stroked lines and paths, rounded rectangles,
// text, additive "brighten" compositing for glow, and region self-copy
// for scrolling.
package render

import (
	"image"
	"image/color"
)

// CompositeMode selects how subsequent draws blend with existing pixels.
type CompositeMode int

const (
	// CompositeOver is normal source-over alpha blending.
	CompositeOver CompositeMode = iota
	// CompositeAdd sums channel values, clamped at white. Used for glow
	// layers so overlapping shapes brighten instead of occlude.
	CompositeAdd
)

// Point is a 2D coordinate in pixel space.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned pixel region.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Surface is the drawing contract consumed by the spectrogram renderer
// and the particle visual engine.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// SetComposite switches the blend mode for subsequent draws.
	SetComposite(mode CompositeMode)

	// Clear fills the whole surface, ignoring the composite mode.
	Clear(c color.Color)

	FillRect(x, y, w, h float64, c color.Color)
	FillRoundedRect(x, y, w, h, radius float64, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	StrokeCircle(cx, cy, r, width float64, c color.Color)
	StrokeLine(x1, y1, x2, y2, width float64, c color.Color)

	// StrokeArc strokes a circular arc between two angles in radians.
	StrokeArc(cx, cy, r, fromAngle, toAngle, width float64, c color.Color)

	// FillPath fills the polygon described by pts, closing it implicitly.
	FillPath(pts []Point, c color.Color)

	// StrokePath strokes the polyline described by pts, optionally closed.
	StrokePath(pts []Point, width float64, c color.Color, closed bool)

	// FillRectLinearGradient fills a rectangle with a vertical linear
	// gradient from top color to bottom color.
	FillRectLinearGradient(x, y, w, h float64, top, bottom color.Color)

	// FillCircleRadialGradient fills a circle with a radial gradient from
	// the inner color at the center to the outer color at the rim.
	FillCircleRadialGradient(cx, cy, r float64, inner, outer color.Color)

	// DrawText renders s with its baseline-left anchor at (x, y).
	DrawText(s string, x, y float64, c color.Color)

	// CopyWithin copies the src region onto the surface at (dstX, dstY).
	// Source and destination may overlap; used for scrolling.
	CopyWithin(src Rect, dstX, dstY int)

	// Image exposes the backing image for encoding or inspection.
	Image() image.Image
}
