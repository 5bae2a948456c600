package pinboard

import "testing"

func TestInjectClickOpensOverlay(t *testing.T) {
	s, _ := newTestSession(t, note("a", Vec2{10, 10}, 1))
	s.InjectClick(200, 180)
	if s.PendingInjected() != 2 {
		t.Fatalf("expected 2 queued events, got %d", s.PendingInjected())
	}

	// Frame 1: press
	s.Update(frame)
	if s.PendingInjected() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", s.PendingInjected())
	}
	if s.Modal().Phase() != ModalClosed {
		t.Error("overlay should not open on the press frame")
	}
	if !s.PointerPressed() {
		t.Error("pointer should be down after the press frame")
	}

	// Frame 2: release opens the overlay
	s.Update(frame)
	if s.Modal().ActiveID() != "a" {
		t.Errorf("ActiveID() = %q, want a", s.Modal().ActiveID())
	}
}

func TestInjectDrag(t *testing.T) {
	s, _ := newTestSession(t, note("a", Vec2{15, 18.75}, 1))

	// Press at (150,150), three moves, release at (550,350).
	s.InjectDrag(150, 150, 550, 350, 5)
	if s.PendingInjected() != 5 {
		t.Fatalf("expected 5 queued events, got %d", s.PendingInjected())
	}
	s.Update(frame)
	if _, ok := s.Gesture().(DraggingItem); !ok {
		t.Fatalf("Gesture() = %T after press, want DraggingItem", s.Gesture())
	}
	for i := 0; i < 4; i++ {
		s.Update(frame)
	}
	it, _ := s.Item("a")
	assertVecNear(t, "position", it.Position, Vec2{55, 43.75})
	if _, ok := s.Gesture().(Idle); !ok {
		t.Errorf("Gesture() = %T after release, want Idle", s.Gesture())
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	s, _ := newTestSession(t)
	s.InjectDrag(0, 0, 10, 10, 0)
	if s.PendingInjected() != 2 {
		t.Errorf("expected press and release only, got %d events", s.PendingInjected())
	}
}
