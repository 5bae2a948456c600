package pinboard

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// rotationAffine returns the affine matrix rotating by deg degrees about the
// origin. Returns [a, b, c, d, tx, ty].
func rotationAffine(deg float64) [6]float64 {
	sin, cos := math.Sincos(degToRad(deg))
	return [6]float64{cos, sin, -sin, cos, 0, 0}
}

// translationAffine returns the affine matrix translating by (x, y).
func translationAffine(x, y float64) [6]float64 {
	return [6]float64{1, 0, 0, 1, x, y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ItemFrame is where an item is drawn: its unrotated box in some pixel space
// (board or viewport) and its rotation in degrees about the box center.
type ItemFrame struct {
	Box      Rect
	Rotation float64
}

// Center returns the rotation pivot, which is the box center.
func (f ItemFrame) Center() Vec2 { return f.Box.Center() }

// Transform returns the affine matrix mapping item-local pixels (origin at the
// unrotated top-left) into the frame's pixel space.
//
// Composition order:
//
//	Translate(-W/2, -H/2) -> Rotate -> Translate(center)
func (f ItemFrame) Transform() [6]float64 {
	c := f.Center()
	m := translationAffine(-f.Box.Width/2, -f.Box.Height/2)
	m = multiplyAffine(rotationAffine(f.Rotation), m)
	return multiplyAffine(translationAffine(c.X, c.Y), m)
}

// ToLocal converts a point in the frame's space into item-local pixels.
func (f ItemFrame) ToLocal(p Vec2) Vec2 {
	x, y := transformPoint(invertAffine(f.Transform()), p.X, p.Y)
	return Vec2{x, y}
}

// ToSpace converts item-local pixels into the frame's space.
func (f ItemFrame) ToSpace(local Vec2) Vec2 {
	x, y := transformPoint(f.Transform(), local.X, local.Y)
	return Vec2{x, y}
}

// Corners returns the rotated box corners in clockwise order starting at the
// item's own top-left.
func (f ItemFrame) Corners() [4]Vec2 {
	w, h := f.Box.Width, f.Box.Height
	return [4]Vec2{
		f.ToSpace(Vec2{0, 0}),
		f.ToSpace(Vec2{w, 0}),
		f.ToSpace(Vec2{w, h}),
		f.ToSpace(Vec2{0, h}),
	}
}

// Bounds returns the axis-aligned rectangle enclosing the rotated box. This is
// the item's on-screen rectangle as a renderer would report it.
func (f ItemFrame) Bounds() Rect {
	pts := f.Corners()
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// PinPoint returns the pin location in the frame's space for a pin stored as
// percentages of the item's own box.
func (f ItemFrame) PinPoint(pinPercent Vec2) Vec2 {
	return f.ToSpace(Vec2{
		X: pinPercent.X / 100 * f.Box.Width,
		Y: pinPercent.Y / 100 * f.Box.Height,
	})
}

// FrameAt places it on a board of the given size whose top-left corner sits
// at origin. natural is the probed image size, zero when unknown.
func FrameAt(it Item, origin Vec2, board, natural Size) ItemFrame {
	size := it.RenderedSize(natural)
	tl := origin.Add(PercentToBoardPixel(it.Position, board))
	return ItemFrame{
		Box:      Rect{X: tl.X, Y: tl.Y, Width: size.Width, Height: size.Height},
		Rotation: it.Rotation,
	}
}
