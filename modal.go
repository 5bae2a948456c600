package pinboard

import (
	"math"
	"time"

	"github.com/tanema/gween/ease"
)

// ModalPhase is the detail overlay's lifecycle state.
type ModalPhase uint8

const (
	ModalClosed  ModalPhase = iota // no overlay
	ModalOpening                   // animating from the source item to the center
	ModalOpen                      // resting at the center
	ModalClosing                   // animating back to the source item
)

// String returns a readable phase name.
func (p ModalPhase) String() string {
	switch p {
	case ModalOpening:
		return "opening"
	case ModalOpen:
		return "open"
	case ModalClosing:
		return "closing"
	}
	return "closed"
}

const (
	// ModalDuration is the length of the open and close animations.
	ModalDuration = 300 * time.Millisecond

	overlayMaxWidth = 672.0
	overlayDamping  = 0.8
)

// OverlayWidth returns the overlay's resting width for a viewport.
func OverlayWidth(viewport Size) float64 {
	return math.Min(viewport.Width*0.9, overlayMaxWidth)
}

// sourceTransform returns the overlay transform that lays the centered
// overlay over an item's on-screen rectangle.
func sourceTransform(itemRect Rect, rotation float64, viewport Size) OverlayTransform {
	scale := 0.0
	if w := OverlayWidth(viewport); w > 0 {
		scale = math.Min(1, itemRect.Width/w)
	}
	return OverlayTransform{
		Offset:   itemRect.Center().Sub(viewport.Center()),
		Scale:    scale * overlayDamping,
		Rotation: rotation,
		Opacity:  0,
	}
}

// ModalController sequences the detail overlay animation. Opening snaps the
// overlay onto the source item with opacity 0, then starts the tween to the
// resting transform on the next frame. Closing tweens back to the source
// item's current rectangle, and a single timer of ModalDuration ends the
// phase.
type ModalController struct {
	sched    Scheduler
	phase    ModalPhase
	activeID string
	viewport Size

	current    OverlayTransform
	tween      *overlayTween
	closeTimer *Timer
	generation uint64

	// OnClosed, when set, runs after the overlay reaches ModalClosed.
	OnClosed func(id string)
}

// NewModalController creates a closed controller.
func NewModalController(sched Scheduler) *ModalController {
	return &ModalController{sched: sched}
}

// Phase returns the current phase.
func (m *ModalController) Phase() ModalPhase { return m.phase }

// ActiveID returns the id of the item shown in the overlay, or "".
func (m *ModalController) ActiveID() string { return m.activeID }

// Transform returns the overlay's current transform.
func (m *ModalController) Transform() OverlayTransform { return m.current }

// SourceHidden reports whether id is hidden because the overlay stands in
// for it.
func (m *ModalController) SourceHidden(id string) bool {
	return m.phase != ModalClosed && m.activeID == id
}

// SetViewport records the viewport size used for close transforms.
func (m *ModalController) SetViewport(v Size) { m.viewport = v }

// Open starts the open sequence for id from the item's on-screen rectangle
// and rotation. It is ignored while any item is active.
func (m *ModalController) Open(id string, itemRect Rect, rotation float64, viewport Size) bool {
	if m.phase != ModalClosed || m.activeID != "" {
		return false
	}
	m.generation++
	gen := m.generation
	m.activeID = id
	m.viewport = viewport
	m.phase = ModalOpening
	m.current = sourceTransform(itemRect, rotation, viewport)
	m.tween = nil

	m.sched.NextFrame(func() {
		if m.generation != gen || m.phase != ModalOpening {
			return
		}
		m.tween = newOverlayTween(m.current, restingOverlay, float32(ModalDuration.Seconds()), ease.OutCubic)
	})
	return true
}

// Close starts the close sequence toward the source item's current
// rectangle. found reports whether the source item still exists; when it
// does not, the overlay closes immediately.
func (m *ModalController) Close(itemRect Rect, rotation float64, found bool) {
	if m.phase == ModalClosed || m.phase == ModalClosing {
		return
	}
	if !found {
		m.finishClose()
		return
	}
	m.generation++
	gen := m.generation
	m.phase = ModalClosing
	target := sourceTransform(itemRect, rotation, m.viewport)
	m.tween = newOverlayTween(m.current, target, float32(ModalDuration.Seconds()), ease.OutCubic)
	m.closeTimer = m.sched.AfterFunc(ModalDuration, func() {
		if m.generation == gen {
			m.finishClose()
		}
	})
}

func (m *ModalController) finishClose() {
	id := m.activeID
	m.generation++
	m.closeTimer.Stop()
	m.closeTimer = nil
	m.tween = nil
	m.phase = ModalClosed
	m.activeID = ""
	m.current = OverlayTransform{}
	if m.OnClosed != nil && id != "" {
		m.OnClosed(id)
	}
}

// Update advances the running tween by dt.
func (m *ModalController) Update(dt time.Duration) {
	if m.tween == nil {
		return
	}
	m.current = m.tween.Update(float32(dt.Seconds()))
	if !m.tween.Done {
		return
	}
	m.tween = nil
	if m.phase == ModalOpening {
		m.phase = ModalOpen
	}
}
