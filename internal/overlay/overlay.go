// Package overlay computes anchored positions for floating panels (tour
// tooltips) from plain rectangles. It owns no rendering and queries no live
// layout: callers register measured target rects in a Registry and ask Place
// for a position, which keeps the math a pure function of its inputs.
package overlay

// Rect is an axis-aligned rectangle in screen units.
type Rect struct {
	X, Y, W, H int
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// CenterX returns the horizontal midpoint.
func (r Rect) CenterX() int { return r.X + r.W/2 }

// CenterY returns the vertical midpoint.
func (r Rect) CenterY() int { return r.Y + r.H/2 }

// Contains returns true if the point (x, y) is within the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// ContainsRect reports whether other lies entirely within r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Point is a screen position.
type Point struct {
	X, Y int
}

// Side is the edge of the target a tooltip anchors to.
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

// String returns the lowercase side name.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return "unknown"
}

// Opposite returns the side across the target.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	default:
		return SideLeft
	}
}

const (
	// AnchorGap is the backoff between the target edge and the tooltip
	// along the anchor axis.
	AnchorGap = 12

	// EdgeMargin is the minimum clearance kept from the viewport edges,
	// and the slack required on a side before it is considered roomy
	// enough for the tooltip.
	EdgeMargin = 20
)

// Options adjusts placement beyond the basic side resolution.
type Options struct {
	// Column, when set to a container narrower than the viewport, further
	// clamps the horizontal position so the tooltip stays inside it.
	Column *Rect

	// ExemptFromColumn skips the column clamp for targets that legitimately
	// sit outside the content column (a sidebar anchor, for instance).
	ExemptFromColumn bool

	// Scroll is added to the final position, converting viewport-relative
	// coordinates to document coordinates for document-anchored panels.
	Scroll Point
}

// SpaceOn returns the free space between the target and the viewport edge
// on the given side.
func SpaceOn(side Side, target, viewport Rect) int {
	switch side {
	case SideTop:
		return target.Y - viewport.Y
	case SideBottom:
		return viewport.Bottom() - target.Bottom()
	case SideLeft:
		return target.X - viewport.X
	default:
		return viewport.Right() - target.Right()
	}
}

// mainAxisSize is the tooltip extent consumed along a side's anchor axis.
func mainAxisSize(side Side, tip Rect) int {
	if side == SideTop || side == SideBottom {
		return tip.H
	}
	return tip.W
}

// ResolveSide picks the side to anchor on. The preferred side wins when it
// has room for the tooltip plus margin; otherwise the roomiest of the
// remaining three is chosen, considered opposite-side first and then the
// two perpendicular sides so ties resolve deterministically.
func ResolveSide(target, tip Rect, preferred Side, viewport Rect) Side {
	if SpaceOn(preferred, target, viewport) >= mainAxisSize(preferred, tip)+EdgeMargin {
		return preferred
	}

	candidates := fallbackOrder(preferred)
	best := candidates[0]
	bestSpace := SpaceOn(best, target, viewport)
	for _, side := range candidates[1:] {
		if space := SpaceOn(side, target, viewport); space > bestSpace {
			best, bestSpace = side, space
		}
	}
	return best
}

func fallbackOrder(preferred Side) [3]Side {
	switch preferred {
	case SideTop:
		return [3]Side{SideBottom, SideLeft, SideRight}
	case SideBottom:
		return [3]Side{SideTop, SideLeft, SideRight}
	case SideLeft:
		return [3]Side{SideRight, SideTop, SideBottom}
	default:
		return [3]Side{SideLeft, SideTop, SideBottom}
	}
}

// Place computes the top-left position for a tooltip anchored to target,
// and reports the side it resolved to. The result is clamped so the whole
// tooltip stays at least EdgeMargin inside the viewport, optionally further
// clamped to a centered content column, and finally shifted by the scroll
// offset. It never mutates its inputs.
func Place(target, tip Rect, preferred Side, viewport Rect, opts *Options) (Point, Side) {
	side := ResolveSide(target, tip, preferred, viewport)

	var pos Point
	switch side {
	case SideTop:
		pos = Point{X: target.CenterX() - tip.W/2, Y: target.Y - AnchorGap - tip.H}
	case SideBottom:
		pos = Point{X: target.CenterX() - tip.W/2, Y: target.Bottom() + AnchorGap}
	case SideLeft:
		pos = Point{X: target.X - AnchorGap - tip.W, Y: target.CenterY() - tip.H/2}
	case SideRight:
		pos = Point{X: target.Right() + AnchorGap, Y: target.CenterY() - tip.H/2}
	}

	pos.X = clamp(pos.X, viewport.X+EdgeMargin, viewport.Right()-tip.W-EdgeMargin)
	pos.Y = clamp(pos.Y, viewport.Y+EdgeMargin, viewport.Bottom()-tip.H-EdgeMargin)

	if opts != nil {
		if col := opts.Column; col != nil && !opts.ExemptFromColumn &&
			col.W < viewport.W && colContains(*col, target) {
			pos.X = clamp(pos.X, col.X, col.Right()-tip.W)
		}
		pos.X += opts.Scroll.X
		pos.Y += opts.Scroll.Y
	}

	return pos, side
}

// colContains checks horizontal containment only: a target scrolled partly
// off-screen vertically still belongs to the column.
func colContains(col, target Rect) bool {
	return target.X >= col.X && target.Right() <= col.Right()
}

// clamp bounds v into [lo, hi], favoring lo when the range is inverted
// (a viewport too small to honor both margins).
func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
