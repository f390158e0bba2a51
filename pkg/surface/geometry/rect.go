package geometry

import "math"

// Point is a location in surface units, origin top-left, y growing downwards.
type Point struct {
	X, Y float64
}

// Size is a width/height pair in surface units.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle in surface units.
type Rect struct {
	X, Y float64
	W, H float64
}

// RectOf builds a Rect from an origin and a size.
func RectOf(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, W: size.W, H: size.H}
}

// MinX returns the left edge of the rect.
func (r Rect) MinX() float64 { return r.X }

// MaxX returns the right edge of the rect.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge of the rect.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// MidX returns the horizontal center of the rect.
func (r Rect) MidX() float64 { return r.X + r.W/2 }

// MidY returns the vertical center of the rect.
func (r Rect) MidY() float64 { return r.Y + r.H/2 }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rect's size.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Union returns the smallest rect containing both r and o. A zero rect is
// treated as empty.
func (r Rect) Union(o Rect) Rect {
	if r == (Rect{}) {
		return o
	}
	if o == (Rect{}) {
		return r
	}
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.MaxX(), o.MaxX())
	y1 := math.Max(r.MaxY(), o.MaxY())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Scaled returns r scaled by s around its center.
func (r Rect) Scaled(s float64) Rect {
	w, h := r.W*s, r.H*s
	return Rect{X: r.MidX() - w/2, Y: r.MidY() - h/2, W: w, H: h}
}

// Lerp interpolates between r and to. t is not clamped so spring curves may
// overshoot.
func (r Rect) Lerp(to Rect, t float64) Rect {
	return Rect{
		X: lerp(r.X, to.X, t),
		Y: lerp(r.Y, to.Y, t),
		W: lerp(r.W, to.W, t),
		H: lerp(r.H, to.H, t),
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// NonNegative returns v, or 0 when v is negative or NaN.
func NonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
