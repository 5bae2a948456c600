package pinboard

import "math"

// Vec2 is a 2D vector used for positions, offsets, and pointer coordinates
// throughout the API. Whether it holds pixels or percentages depends on the
// call site; stored item positions are always percentages.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Len returns the euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float64
}

// Center returns the midpoint of a box of this size anchored at the origin.
func (s Size) Center() Vec2 { return Vec2{s.Width / 2, s.Height / 2} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// TopLeft returns the rectangle origin.
func (r Rect) TopLeft() Vec2 { return Vec2{r.X, r.Y} }

// Center returns the rectangle midpoint.
func (r Rect) Center() Vec2 { return Vec2{r.X + r.Width/2, r.Y + r.Height/2} }

// Size returns the rectangle dimensions.
func (r Rect) Size() Size { return Size{r.Width, r.Height} }

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ItemKind distinguishes image items from note items. Fixed at creation.
type ItemKind uint8

const (
	KindImage ItemKind = iota // content is an image URL
	KindNote                  // content is a short plain-text body
)

// String returns the wire name of the kind.
func (k ItemKind) String() string {
	if k == KindNote {
		return "note"
	}
	return "image"
}

// ParseItemKind maps a wire name to an ItemKind. Unknown names report false.
func ParseItemKind(s string) (ItemKind, bool) {
	switch s {
	case "image":
		return KindImage, true
	case "note":
		return KindNote, true
	}
	return KindImage, false
}

// HitRegion classifies which part of an item a pointer landed on.
type HitRegion uint8

const (
	RegionNone         HitRegion = iota // no item under the pointer
	RegionBody                          // item body (click opens the overlay)
	RegionMoveHandle                    // admin drag handle, top-left corner
	RegionRotateHandle                  // admin rotate/scale handle, bottom-right corner
)

// TransitionStyle tells a renderer how to animate an item toward its stored
// transform.
type TransitionStyle uint8

const (
	TransitionEased  TransitionStyle = iota // default smoothing
	TransitionLinear                        // the item is under an active gesture
)

const (
	MinScale = 0.1 // lower clamp for rotate/scale gestures
	MaxScale = 5.0 // upper clamp for rotate/scale gestures

	// scaleEpsilon guards the rotate/scale start distance against division by zero.
	scaleEpsilon = 1e-6

	// HandleSize is the side, in rendered pixels, of the square admin handles.
	HandleSize = 28.0

	defaultNoteWidth  = 250.0
	defaultNoteHeight = 200.0

	// placeholderWidth/Height are used for images whose natural size is unknown.
	placeholderWidth  = 200.0
	placeholderHeight = 150.0
)

// PinColors lists the pin color tags a pin may carry.
var PinColors = []string{"red", "blue", "yellow", "green", "pink", "purple"}

// ValidPinColor reports whether tag is one of PinColors.
func ValidPinColor(tag string) bool {
	for _, c := range PinColors {
		if c == tag {
			return true
		}
	}
	return false
}
