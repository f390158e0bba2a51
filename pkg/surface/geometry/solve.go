// Package geometry packs control surface items into rows and columns.
//
// The solvers are pure functions: the same inputs always produce the same
// rectangles. Degenerate inputs never fail. Spacing that would come out
// negative or NaN is clamped to zero and the block is allowed to overflow its
// container; clipping is the renderer's business.
//
// # Rows
//
// [SolveRow] lays out n equally sized square items on a horizontal line:
//
//	content  = n × itemSize
//	spacing  = min(maxSpacing, (width − content − 2×inset) / max(n−1, 1))
//	total    = content + (n−1) × spacing
//	left     = floor((width − total) / 2)
//
// The caller picks the tier (item size, inset, spacing cap); the solver does
// not know about call states.
//
// # Columns
//
// [SolveColumn] stacks full-width items of intrinsic height top to bottom
// with a fixed gap, used by the toast stack.
package geometry

import "math"

// Row is the result of packing items on one line.
type Row struct {
	Rects   []Rect  // One rect per item, left to right
	Spacing float64 // Gap between adjacent items, in [0, maxSpacing]
	Width   float64 // Total span from the first item's left edge to the last item's right edge
	Left    float64 // X of the first item
}

// Right returns the distance between the row's right edge and the
// container's right edge.
func (r Row) Right(containerWidth float64) float64 {
	return containerWidth - r.Left - r.Width
}

// SolveRow packs count square items of itemSize at vertical offset y.
func SolveRow(count int, containerWidth, minSideInset, maxSpacing, itemSize, y float64) Row {
	if count <= 0 {
		return Row{}
	}

	content := float64(count) * itemSize
	spacing := 0.0
	if count > 1 {
		available := containerWidth - content - 2*minSideInset
		spacing = NonNegative(math.Min(maxSpacing, available/float64(count-1)))
	}
	total := content + float64(count-1)*spacing
	left := math.Floor((containerWidth - total) / 2)
	if math.IsNaN(left) {
		left = 0
	}

	rects := make([]Rect, count)
	x := left
	for i := range rects {
		rects[i] = Rect{X: x, Y: y, W: itemSize, H: itemSize}
		x += itemSize + spacing
	}
	return Row{Rects: rects, Spacing: spacing, Width: total, Left: left}
}

// Column is the result of stacking items vertically.
type Column struct {
	Rects  []Rect
	Height float64 // Sum of item heights plus gaps, never negative
}

// SolveColumn stacks items of the given heights, each spanning width, with
// spacing between neighbours. Negative or NaN heights count as zero.
func SolveColumn(heights []float64, width, spacing float64) Column {
	spacing = NonNegative(spacing)
	rects := make([]Rect, len(heights))
	y := 0.0
	for i, h := range heights {
		h = NonNegative(h)
		rects[i] = Rect{X: 0, Y: y, W: width, H: h}
		y += h + spacing
	}
	if len(heights) > 0 {
		y -= spacing
	}
	return Column{Rects: rects, Height: NonNegative(y)}
}
