package buttons

import (
	"math"

	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/surface/control"
	"github.com/matzehuels/callsurface/pkg/surface/geometry"
)

const (
	// NarrowWidth is the widest container treated as a compact screen.
	NarrowWidth = 320.0

	SmallSize        = 60.0
	LargeSize        = 76.0
	MaxSmallSpacing  = 34.0
	MaxLargeSpacing  = 115.0
	TopBottomSpacing = 84.0
)

// Metrics are the packing constants for one container width.
type Metrics struct {
	SideInset      float64 // Small tier and ringing top group
	LargeSideInset float64 // Ringing bottom group
}

// MetricsFor returns the metrics for a container width.
func MetricsFor(width float64) Metrics {
	inset := 34.0
	if width <= NarrowWidth {
		inset = 16
	}
	return Metrics{SideInset: inset, LargeSideInset: inset - 6}
}

// place solves geometry for every descriptor of a layout, top group first.
func place(l control.Layout, width float64) []geometry.Rect {
	m := MetricsFor(width)
	var rows []geometry.Row
	switch l.Tier {
	case control.TierLarge:
		rows = append(rows,
			geometry.SolveRow(len(l.Top), width, m.SideInset, MaxSmallSpacing, LargeSize, 0),
			geometry.SolveRow(len(l.Bottom), width, m.LargeSideInset, MaxLargeSpacing, LargeSize, LargeSize+TopBottomSpacing),
		)
	case control.TierSmall:
		rows = append(rows, geometry.SolveRow(len(l.Top), width, m.SideInset, MaxSmallSpacing, SmallSize, 0))
	}
	var rects []geometry.Rect
	for _, r := range rows {
		rects = append(rects, r.Rects...)
	}
	return rects
}

// surfaceSize is the size the cluster reports to its container.
func surfaceSize(c callstate.Class, width, bottomInset float64) geometry.Size {
	m := MetricsFor(width)
	spacing := geometry.NonNegative(math.Min(MaxSmallSpacing, (width-4*LargeSize-2*m.SideInset)/4))
	size := geometry.Size{W: 4*LargeSize + 3*spacing}
	if c.IsRinging() {
		size.H = LargeSize + TopBottomSpacing + LargeSize + math.Max(bottomInset+32, 46)
	} else {
		size.H = SmallSize + math.Max(bottomInset+19, 46)
	}
	return size
}
