package pinboard

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// OverlayTransform is the detail overlay's transform relative to its resting
// place, centered in the viewport at scale 1.
type OverlayTransform struct {
	Offset   Vec2    // pixels from the viewport center
	Scale    float64 // uniform
	Rotation float64 // degrees
	Opacity  float64 // 0..1
}

// restingOverlay is the fully open overlay transform.
var restingOverlay = OverlayTransform{Scale: 1, Opacity: 1}

// overlayTween animates every OverlayTransform field at once. Call Update each
// frame; Done is set once all fields reach their targets.
type overlayTween struct {
	tweens [5]*gween.Tween
	Done   bool
}

func newOverlayTween(from, to OverlayTransform, duration float32, fn ease.TweenFunc) *overlayTween {
	g := &overlayTween{}
	g.tweens[0] = gween.New(float32(from.Offset.X), float32(to.Offset.X), duration, fn)
	g.tweens[1] = gween.New(float32(from.Offset.Y), float32(to.Offset.Y), duration, fn)
	g.tweens[2] = gween.New(float32(from.Scale), float32(to.Scale), duration, fn)
	g.tweens[3] = gween.New(float32(from.Rotation), float32(to.Rotation), duration, fn)
	g.tweens[4] = gween.New(float32(from.Opacity), float32(to.Opacity), duration, fn)
	return g
}

// Update advances the tween by dt seconds and returns the current transform.
func (g *overlayTween) Update(dt float32) OverlayTransform {
	var v [5]float64
	allDone := true
	for i, tw := range g.tweens {
		val, finished := tw.Update(dt)
		v[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	return OverlayTransform{
		Offset:   Vec2{v[0], v[1]},
		Scale:    v[2],
		Rotation: v[3],
		Opacity:  v[4],
	}
}
