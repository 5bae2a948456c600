package pinboard

// EventType identifies a document-level pointer event.
type EventType uint8

const (
	EventPointerMove EventType = iota // pointer moved anywhere in the viewport
	EventPointerUp                    // pointer released anywhere in the viewport
)

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(Vec2)
}

// PointerBus is the document-level listener registry. Gestures attach move
// and up handlers here for their duration so the release is seen even when
// the pointer leaves every item.
type PointerBus struct {
	move   []pointerHandler
	up     []pointerHandler
	nextID uint32
}

// CallbackHandle allows removing a registered pointer callback.
type CallbackHandle struct {
	id    uint32
	bus   *PointerBus
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice is
// harmless.
func (h CallbackHandle) Remove() {
	if h.bus == nil {
		return
	}
	switch h.event {
	case EventPointerMove:
		h.bus.move = removePointerHandler(h.bus.move, h.id)
	case EventPointerUp:
		h.bus.up = removePointerHandler(h.bus.up, h.id)
	}
}

func removePointerHandler(s []pointerHandler, id uint32) []pointerHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// OnPointerMove registers a callback for every pointer move.
func (b *PointerBus) OnPointerMove(fn func(Vec2)) CallbackHandle {
	b.nextID++
	b.move = append(b.move, pointerHandler{id: b.nextID, fn: fn})
	return CallbackHandle{id: b.nextID, bus: b, event: EventPointerMove}
}

// OnPointerUp registers a callback for every pointer release.
func (b *PointerBus) OnPointerUp(fn func(Vec2)) CallbackHandle {
	b.nextID++
	b.up = append(b.up, pointerHandler{id: b.nextID, fn: fn})
	return CallbackHandle{id: b.nextID, bus: b, event: EventPointerUp}
}

// Listeners returns the number of registered callbacks.
func (b *PointerBus) Listeners() int {
	return len(b.move) + len(b.up)
}

// DispatchMove calls every move handler. Handlers may remove themselves.
func (b *PointerBus) DispatchMove(p Vec2) {
	dispatch(b.move, p)
}

// DispatchUp calls every up handler. Handlers may remove themselves.
func (b *PointerBus) DispatchUp(p Vec2) {
	dispatch(b.up, p)
}

func dispatch(hs []pointerHandler, p Vec2) {
	if len(hs) == 0 {
		return
	}
	snapshot := make([]pointerHandler, len(hs))
	copy(snapshot, hs)
	for _, h := range snapshot {
		h.fn(p)
	}
}

// --- Pointer pipeline ---

// pointerState tracks the primary pointer between press and release.
type pointerState struct {
	down   bool
	start  Vec2
	last   Vec2
	hitID  string // item body pressed, "" when the press began a gesture or missed
	region HitRegion
}

// PointerDown feeds a press at viewport position p. A press on an admin
// handle starts the matching gesture; a press on an item body arms a click.
func (s *Session) PointerDown(p Vec2) {
	ps := &s.pointer
	ps.down = true
	ps.start = p
	ps.last = p
	ps.hitID = ""

	id, region := s.HitTest(p)
	ps.region = region
	switch region {
	case RegionMoveHandle:
		if !s.BeginDrag(id, p) {
			ps.hitID = id
		}
	case RegionRotateHandle:
		if !s.BeginRotateScale(id, p) {
			ps.hitID = id
		}
	case RegionBody:
		ps.hitID = id
	}
}

// PointerMove feeds a pointer move at viewport position p, pressed or not.
func (s *Session) PointerMove(p Vec2) {
	s.pointer.last = p
	s.bus.DispatchMove(p)
	if _, ok := s.gestures.state.(PlacingPin); ok {
		s.HoverPin(p)
	}
}

// PointerUp feeds a release at viewport position p. Gesture listeners see the
// release first; a press and release on the same item body is a click.
func (s *Session) PointerUp(p Vec2) {
	ps := &s.pointer
	wasDown := ps.down
	pressed := ps.hitID
	*ps = pointerState{last: p}

	s.bus.DispatchUp(p)
	if !wasDown || pressed == "" {
		return
	}
	if id, region := s.HitTest(p); region != RegionNone && id == pressed {
		s.ClickItem(id, p)
	}
}

// PointerPressed reports whether the primary pointer is down.
func (s *Session) PointerPressed() bool {
	return s.pointer.down
}
