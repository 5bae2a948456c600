package pinboard

// HitTest finds the topmost item under viewport point p and the region hit.
// Each item is tested in its own unrotated frame, so rotated items hit
// exactly where they are drawn. The admin handles occupy HandleSize squares
// in the item's top-left (move) and bottom-right (rotate/scale) corners and
// exist only in admin mode. Items hidden behind the overlay are skipped.
func (s *Session) HitTest(p Vec2) (string, HitRegion) {
	items := s.store.SortedByZ()
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if s.modal.SourceHidden(it.ID) {
			continue
		}
		frame := s.frameOf(it)
		if r := classifyHit(frame, p, s.isAdmin); r != RegionNone {
			return it.ID, r
		}
	}
	return "", RegionNone
}

// classifyHit reports which region of frame contains p.
func classifyHit(frame ItemFrame, p Vec2, admin bool) HitRegion {
	w, h := frame.Box.Width, frame.Box.Height
	if w <= 0 || h <= 0 {
		return RegionNone
	}
	local := frame.ToLocal(p)
	if !(Rect{Width: w, Height: h}).Contains(local.X, local.Y) {
		return RegionNone
	}
	if admin {
		hs := min(HandleSize, w/2, h/2)
		if local.X <= hs && local.Y <= hs {
			return RegionMoveHandle
		}
		if local.X >= w-hs && local.Y >= h-hs {
			return RegionRotateHandle
		}
	}
	return RegionBody
}
