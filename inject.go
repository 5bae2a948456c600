package pinboard

// syntheticPointerEvent is a single queued pointer event in viewport
// coordinates.
type syntheticPointerEvent struct {
	pos  Vec2
	kind pointerEventKind
}

type pointerEventKind uint8

const (
	injectPress pointerEventKind = iota
	injectMove
	injectRelease
)

// InjectPress queues a pointer press at viewport (x, y). Queued events are
// consumed one per Update, exactly as real input would arrive.
func (s *Session) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{pos: Vec2{x, y}, kind: injectPress})
}

// InjectMove queues a pointer move at viewport (x, y).
func (s *Session) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{pos: Vec2{x, y}, kind: injectMove})
}

// InjectRelease queues a pointer release at viewport (x, y).
func (s *Session) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{pos: Vec2{x, y}, kind: injectRelease})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (s *Session) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag: a press at (fromX, fromY), frames-2 evenly
// spaced moves, and a release at (toX, toY). Minimum frames is 2.
func (s *Session) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// PendingInjected returns the number of queued synthetic events.
func (s *Session) PendingInjected() int { return len(s.injectQueue) }

// processInjectedInput feeds one queued event through the pointer pipeline.
// Reports whether an event was consumed.
func (s *Session) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	switch evt.kind {
	case injectPress:
		s.PointerDown(evt.pos)
	case injectMove:
		s.PointerMove(evt.pos)
	case injectRelease:
		s.PointerUp(evt.pos)
	}
	return true
}
