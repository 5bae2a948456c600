package pinboard

// GestureState is the board's single active manipulation. It is one of Idle,
// DraggingItem, RotatingScaling, or PlacingPin; holding exactly one value
// makes concurrent gestures unrepresentable.
type GestureState interface {
	gesture()
	// Target returns the item the gesture acts on, or "" for Idle.
	Target() string
}

// Idle means no gesture is active.
type Idle struct{}

// DraggingItem moves an item, keeping the pointer at a fixed pixel offset
// from the item's top-left corner.
type DraggingItem struct {
	ItemID string
	Offset Vec2
}

// RotatingScaling rotates and scales an item about the center captured at
// grab time.
type RotatingScaling struct {
	ItemID string
	Center Vec2
	Start  RotateScaleStart
}

// PlacingPin previews pin positions over an item until a click commits one.
// Preview is nil until the pointer has hovered the item.
type PlacingPin struct {
	ItemID  string
	Preview *Vec2
}

func (Idle) gesture()            {}
func (DraggingItem) gesture()    {}
func (RotatingScaling) gesture() {}
func (PlacingPin) gesture()      {}

func (Idle) Target() string              { return "" }
func (g DraggingItem) Target() string    { return g.ItemID }
func (g RotatingScaling) Target() string { return g.ItemID }
func (g PlacingPin) Target() string      { return g.ItemID }

// Controller runs the gesture state machine for one Session. It holds only
// transient state; every item mutation goes through the session's store.
type Controller struct {
	sess    *Session
	state   GestureState
	handles []CallbackHandle

	// suppressClick swallows the click that follows a gesture's release. It
	// is consumed by the next click or cleared on the next frame.
	suppressClick bool
}

func newController(s *Session) Controller {
	return Controller{sess: s, state: Idle{}}
}

// State returns the current gesture.
func (c *Controller) State() GestureState { return c.state }

// canBegin reports whether a manipulation may start on id.
func (c *Controller) canBegin(id string) bool {
	s := c.sess
	if _, idle := c.state.(Idle); !idle {
		return false
	}
	if !s.isAdmin || s.modal.Phase() != ModalClosed {
		return false
	}
	_, ok := s.store.Get(id)
	return ok
}

// BeginDrag starts dragging id from viewport position pointer. The item is
// brought to the front immediately. Reports whether the drag started.
func (c *Controller) BeginDrag(id string, pointer Vec2) bool {
	if !c.canBegin(id) {
		return false
	}
	s := c.sess
	s.store.BringToFront(id)
	it, _ := s.store.Get(id)
	offset := StartDrag(pointer, it.Position, s.board, s.board.Size())
	c.state = DraggingItem{ItemID: id, Offset: offset}
	c.listen(c.dragMove, c.dragEnd)
	s.log.WithField("item", id).Debug("drag started")
	return true
}

// BeginRotateScale starts a rotate/scale gesture on id relative to the item's
// current rendered center. Reports whether the gesture started.
func (c *Controller) BeginRotateScale(id string, pointer Vec2) bool {
	if !c.canBegin(id) {
		return false
	}
	s := c.sess
	s.store.BringToFront(id)
	frame, _ := s.ItemFrame(id)
	center := frame.Bounds().Center()
	it, _ := s.store.Get(id)
	c.state = RotatingScaling{
		ItemID: id,
		Center: center,
		Start:  StartRotateScale(pointer, center, it.Rotation, it.Scale),
	}
	c.listen(c.rotateMove, c.rotateEnd)
	s.log.WithField("item", id).Debug("rotate/scale started")
	return true
}

// listen attaches document-level handlers for the active gesture.
func (c *Controller) listen(move, up func(Vec2)) {
	c.handles = append(c.handles,
		c.sess.bus.OnPointerMove(move),
		c.sess.bus.OnPointerUp(up),
	)
}

func (c *Controller) unlisten() {
	for _, h := range c.handles {
		h.Remove()
	}
	c.handles = c.handles[:0]
}

func (c *Controller) dragMove(p Vec2) {
	g, ok := c.state.(DraggingItem)
	if !ok {
		return
	}
	s := c.sess
	pos := DragTo(p, s.board, s.board.Size(), g.Offset)
	if !s.store.Update(g.ItemID, func(it *Item) { it.Position = pos }) {
		c.Cancel()
	}
}

func (c *Controller) dragEnd(p Vec2) {
	c.dragMove(p)
	c.finish()
}

func (c *Controller) rotateMove(p Vec2) {
	g, ok := c.state.(RotatingScaling)
	if !ok {
		return
	}
	rot, scale := RotateScaleTo(p, g.Center, g.Start)
	if !c.sess.store.Update(g.ItemID, func(it *Item) {
		it.Rotation = rot
		it.Scale = scale
	}) {
		c.Cancel()
	}
}

func (c *Controller) rotateEnd(p Vec2) {
	c.rotateMove(p)
	c.finish()
}

// finish ends a drag or rotate/scale gesture and queues a save.
func (c *Controller) finish() {
	target := c.state.Target()
	if target == "" {
		return
	}
	c.unlisten()
	c.state = Idle{}
	c.suppressClick = true
	c.sess.log.WithField("item", target).Debug("gesture finished")
	c.sess.scheduleSave()
}

// Cancel abandons any gesture without saving and removes its listeners.
// Values already written during the gesture stay in the store.
func (c *Controller) Cancel() {
	c.unlisten()
	c.state = Idle{}
}

// TogglePinPlacement enters pin placement for id from Idle, or leaves it when
// id is already being placed. Reports whether placement is now active.
func (c *Controller) TogglePinPlacement(id string) bool {
	if g, ok := c.state.(PlacingPin); ok {
		if g.ItemID == id {
			c.state = Idle{}
		}
		return c.state.Target() != ""
	}
	if !c.canBegin(id) {
		return false
	}
	c.state = PlacingPin{ItemID: id}
	return true
}

// HoverPin updates the preview for the item under placement from a viewport
// pointer position. The preview is never persisted.
func (c *Controller) HoverPin(pointer Vec2) {
	g, ok := c.state.(PlacingPin)
	if !ok {
		return
	}
	local, ok := c.sess.pinPercentAt(g.ItemID, pointer)
	if !ok {
		c.state = Idle{}
		return
	}
	g.Preview = &local
	c.state = g
}

// ClickItem handles a click on id at viewport position pointer. While placing
// a pin on id it commits the pin and saves at once; otherwise it opens the
// detail overlay when allowed. Reports whether the click did anything.
func (c *Controller) ClickItem(id string, pointer Vec2) bool {
	s := c.sess
	if c.suppressClick {
		c.suppressClick = false
		return false
	}
	switch g := c.state.(type) {
	case PlacingPin:
		if g.ItemID != id {
			return false
		}
		local, ok := s.pinPercentAt(id, pointer)
		if !ok {
			c.state = Idle{}
			return false
		}
		s.store.Update(id, func(it *Item) { it.Pin.Position = local })
		c.state = Idle{}
		s.saveNow()
		return true
	case Idle:
		it, ok := s.store.Get(id)
		if !ok || !it.Interactable {
			return false
		}
		return s.OpenItem(id)
	}
	return false
}

// TransitionStyle reports how a renderer should animate id: linear while the
// item is under a drag or rotate/scale gesture, eased otherwise.
func (c *Controller) TransitionStyle(id string) TransitionStyle {
	switch g := c.state.(type) {
	case DraggingItem:
		if g.ItemID == id {
			return TransitionLinear
		}
	case RotatingScaling:
		if g.ItemID == id {
			return TransitionLinear
		}
	}
	return TransitionEased
}

// endFrame clears per-frame flags.
func (c *Controller) endFrame() {
	c.suppressClick = false
}
