package pinboard

import "math"

// Geometry functions are pure. Angles are degrees at the API boundary and are
// converted to radians only for trigonometric calls. Degenerate inputs (zero
// board size, zero start distance, zero item size) produce identity results
// instead of NaN or Inf.

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// safeDiv returns a/b, or 0 when b is zero.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BoardPixelToPercent converts a board-relative pixel point into percentages
// of the board's rendered size.
func BoardPixelToPercent(p Vec2, board Size) Vec2 {
	return Vec2{
		X: safeDiv(p.X, board.Width) * 100,
		Y: safeDiv(p.Y, board.Height) * 100,
	}
}

// PercentToBoardPixel converts a percentage point into board-relative pixels.
func PercentToBoardPixel(p Vec2, board Size) Vec2 {
	return Vec2{
		X: p.X / 100 * board.Width,
		Y: p.Y / 100 * board.Height,
	}
}

// StartDrag returns the pixel offset between the pointer and the item's
// top-left corner. Holding this offset constant during the drag preserves the
// grab point.
func StartDrag(pointer, itemPercent Vec2, boardRect Rect, board Size) Vec2 {
	local := pointer.Sub(boardRect.TopLeft())
	return local.Sub(PercentToBoardPixel(itemPercent, board))
}

// DragTo returns the item's new percent position for the current pointer.
// The result is not clamped: items may be dragged partly or fully off-board.
func DragTo(pointer Vec2, boardRect Rect, board Size, offset Vec2) Vec2 {
	px := pointer.Sub(boardRect.TopLeft()).Sub(offset)
	return BoardPixelToPercent(px, board)
}

// RotateScaleStart captures the state of a rotate/scale gesture at grab time.
type RotateScaleStart struct {
	StartAngle    float64 // degrees, pointer angle around the item center
	StartDistance float64 // pixels, pointer distance from the item center
	BaseRotation  float64 // item rotation at grab time, degrees
	BaseScale     float64 // item scale at grab time
}

// StartRotateScale records the pointer's angle and distance relative to the
// item's rendered center.
func StartRotateScale(pointer, center Vec2, rotation, scale float64) RotateScaleStart {
	d := pointer.Sub(center)
	return RotateScaleStart{
		StartAngle:    radToDeg(math.Atan2(d.Y, d.X)),
		StartDistance: d.Len(),
		BaseRotation:  rotation,
		BaseScale:     scale,
	}
}

// RotateScaleTo computes the rotation and scale for the current pointer. Both
// are driven from the single grab handle: the angle swept around the center
// rotates the item and the distance ratio scales it, clamped to
// [MinScale, MaxScale].
func RotateScaleTo(pointer, center Vec2, start RotateScaleStart) (rotation, scale float64) {
	d := pointer.Sub(center)
	angleNow := radToDeg(math.Atan2(d.Y, d.X))
	rotation = start.BaseRotation + (angleNow - start.StartAngle)

	factor := 1.0
	if start.StartDistance > scaleEpsilon {
		factor = d.Len() / start.StartDistance
	}
	scale = ClampScale(start.BaseScale * factor)
	return rotation, scale
}

// ClampScale limits s to [MinScale, MaxScale]. Non-finite input maps to 1.
func ClampScale(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return clamp(s, MinScale, MaxScale)
}

// PointerToItemLocalPercent maps a pointer into the item's own unrotated frame
// and returns it as percentages of the rendered box, clamped to [0, 100]. The
// inverse of the item's rotation is applied first, so the result does not
// depend on the item's current on-screen rotation.
func PointerToItemLocalPercent(pointer, center Vec2, rendered Size, rotationDeg float64) Vec2 {
	inv := rotationAffine(-rotationDeg)
	d := pointer.Sub(center)
	lx, ly := transformPoint(inv, d.X, d.Y)
	lx += rendered.Width / 2
	ly += rendered.Height / 2
	return Vec2{
		X: clamp(safeDiv(lx, rendered.Width)*100, 0, 100),
		Y: clamp(safeDiv(ly, rendered.Height)*100, 0, 100),
	}
}

// NormalizeDegrees maps any angle into [0, 360). Stored rotations are not
// normalized; this is for display.
func NormalizeDegrees(d float64) float64 {
	r := math.Mod(d, 360)
	if r < 0 {
		r += 360
	}
	return r
}
