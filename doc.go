// Package pinboard is the interaction core of a cork-board widget: image and
// note items placed on a 2D board, dragged, rotated and scaled from corner
// handles, decorated with pins, and opened into an animated detail overlay.
//
// # Coordinates
//
// Item positions are stored as percentages of the board's rendered size, and
// pin positions as percentages of the item's own unrotated box, so a stored
// board stays valid across viewport resizes. Pixels appear only at the pointer
// and render boundary. The conversions are pure functions:
// [BoardPixelToPercent], [StartDrag], [DragTo], [StartRotateScale],
// [RotateScaleTo], and [PointerToItemLocalPercent].
//
// # Sessions
//
// A [Session] owns one board: its [ItemStore], the gesture [Controller], the
// overlay [ModalController], and a [Persister]. Nothing runs concurrently
// with the caller; time advances only through [Session.Update]:
//
//	s := pinboard.NewSession(pinboard.Options{
//		Gateway:  gw,
//		Board:    pinboard.Rect{X: 0, Y: 0, Width: 1000, Height: 800},
//		Viewport: pinboard.Size{Width: 1000, Height: 800},
//	})
//	s.Load(ctx)
//	defer s.Close()
//
//	for each frame {
//		s.PointerMove(cursor)
//		s.Update(dt)
//	}
//
// # Gestures
//
// At most one gesture is active: [Idle], [DraggingItem], [RotatingScaling],
// or [PlacingPin]. Drags and rotate/scale gestures begin from the admin
// handles found by [Session.HitTest] and listen on a document-level
// [PointerBus] until the pointer is released. The release writes the final
// value and queues a debounced save.
//
// # Persistence
//
// A [Gateway] loads and saves the whole [Snapshot]. Loads never fail (missing
// data becomes defaults) and saves are coalesced in a quiet window, with
// failures logged rather than returned. Backends live in the gateway package.
package pinboard
