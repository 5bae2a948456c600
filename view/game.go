// Package view is an Ebitengine front end for a pinboard session: it maps
// mouse, touch, and keyboard input onto the session and draws items, pins,
// and the detail overlay.
package view

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/pinboard"
)

var (
	noteFill    = color.RGBA{0xfe, 0xfc, 0xe8, 0xff}
	imageFill   = color.RGBA{0xf1, 0xf5, 0xf9, 0xff}
	handleFill  = color.RGBA{0x1e, 0x29, 0x3b, 0xb0}
	overlayFill = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

const pinRadius = 7

// Game implements ebiten.Game around a Session.
type Game struct {
	session *pinboard.Session
	pixel   *ebiten.Image

	lastCursor pinboard.Vec2
	touchID    ebiten.TouchID
	touching   bool
	showFPS    bool

	// armed is the item whose deletion waits for a second Delete press.
	armed string
}

// New creates a Game driving s. The session should already be loaded.
func New(s *pinboard.Session) *Game {
	px := ebiten.NewImage(1, 1)
	px.Fill(color.White)
	return &Game{session: s, pixel: px}
}

// SetShowFPS toggles the FPS readout.
func (g *Game) SetShowFPS(on bool) { g.showFPS = on }

// Layout implements ebiten.Game. The board fills the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := float64(outsideWidth), float64(outsideHeight)
	g.session.Layout(pinboard.Rect{Width: w, Height: h}, pinboard.Size{Width: w, Height: h})
	return outsideWidth, outsideHeight
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.handleKeys()
	g.handleMouse()
	g.handleTouch()
	g.session.Update(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (g *Game) handleKeys() {
	s := g.session
	for _, r := range ebiten.AppendInputChars(nil) {
		s.KeyPress(r)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if s.EditingItem() != "" {
			s.CancelEditContent()
		}
		s.CloseItem()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		s.ToggleMute()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.showFPS = !g.showFPS
	}
	if !s.IsAdmin() {
		return
	}
	id, region := s.HitTest(g.lastCursor)
	if region == pinboard.RegionNone {
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		s.TogglePinPlacement(id)
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		if g.armed != id {
			g.armed = id
			return
		}
		s.DeleteItem(id)
		g.armed = ""
	}
}

// Confirm approves deleting it once Delete has been pressed twice over the
// same item. Pass it as the session's confirmer.
func (g *Game) Confirm(it pinboard.Item) bool {
	return g != nil && g.armed == it.ID
}

func (g *Game) handleMouse() {
	x, y := ebiten.CursorPosition()
	p := pinboard.Vec2{X: float64(x), Y: float64(y)}
	if p != g.lastCursor {
		g.lastCursor = p
		g.session.PointerMove(p)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.press(p)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.session.PointerUp(p)
	}
}

func (g *Game) handleTouch() {
	if !g.touching {
		ids := inpututil.AppendJustPressedTouchIDs(nil)
		if len(ids) == 0 {
			return
		}
		g.touchID = ids[0]
		g.touching = true
		x, y := ebiten.TouchPosition(g.touchID)
		g.press(pinboard.Vec2{X: float64(x), Y: float64(y)})
		return
	}
	x, y := ebiten.TouchPosition(g.touchID)
	p := pinboard.Vec2{X: float64(x), Y: float64(y)}
	if inpututil.IsTouchJustReleased(g.touchID) {
		x, y = inpututil.TouchPositionInPreviousTick(g.touchID)
		g.touching = false
		g.session.PointerUp(pinboard.Vec2{X: float64(x), Y: float64(y)})
		return
	}
	g.session.PointerMove(p)
}

// press closes an open overlay when the press lands outside it, and feeds
// the board otherwise.
func (g *Game) press(p pinboard.Vec2) {
	s := g.session
	if m := s.Modal(); m.Phase() == pinboard.ModalOpen {
		f := overlayFrame(s.Viewport(), m.Transform())
		local := f.ToLocal(p)
		if !(pinboard.Rect{Width: f.Box.Width, Height: f.Box.Height}).Contains(local.X, local.Y) {
			s.CloseItem()
		}
		return
	}
	s.PointerDown(p)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.session
	bg, ok := pinboard.ParseHexColor(s.Config().BackgroundColor)
	if !ok {
		bg = color.RGBA{0xd4, 0xa3, 0x73, 0xff}
	}
	screen.Fill(bg)

	for _, it := range s.Items() {
		if s.Modal().SourceHidden(it.ID) {
			continue
		}
		frame, _ := s.ItemFrame(it.ID)
		g.drawItem(screen, it, frame)
	}
	g.drawOverlay(screen)

	status := "view"
	if s.IsAdmin() {
		status = "admin"
	}
	if m := s.Music(); m.URL != "" {
		status += fmt.Sprintf("  music:%v", !m.Muted)
	}
	if g.armed != "" {
		status += "  press Delete again to remove"
	}
	ebitenutil.DebugPrintAt(screen, status, 4, screen.Bounds().Dy()-16)
	if g.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// drawQuad draws the box of frame filled with clr, rotated about its center.
func (g *Game) drawQuad(dst *ebiten.Image, frame pinboard.ItemFrame, clr color.Color, alpha float32) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(frame.Box.Width, frame.Box.Height)
	op.GeoM.Translate(-frame.Box.Width/2, -frame.Box.Height/2)
	op.GeoM.Rotate(frame.Rotation * math.Pi / 180)
	c := frame.Center()
	op.GeoM.Translate(c.X, c.Y)
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(alpha)
	dst.DrawImage(g.pixel, op)
}

func (g *Game) drawItem(dst *ebiten.Image, it pinboard.Item, frame pinboard.ItemFrame) {
	s := g.session
	fill := imageFill
	if it.Kind == pinboard.KindNote {
		fill = noteFill
	}
	alpha := float32(1)
	if s.TransitionStyle(it.ID) == pinboard.TransitionLinear {
		alpha = 0.75
	}
	g.drawQuad(dst, frame, fill, alpha)

	tl := frame.ToSpace(pinboard.Vec2{X: 6, Y: 6})
	ebitenutil.DebugPrintAt(dst, it.Title, int(tl.X), int(tl.Y))

	if s.IsAdmin() {
		hs := math.Min(pinboard.HandleSize, math.Min(frame.Box.Width, frame.Box.Height)/2)
		for _, corner := range []pinboard.Vec2{{}, {X: frame.Box.Width - hs, Y: frame.Box.Height - hs}} {
			c := frame.ToSpace(pinboard.Vec2{X: corner.X + hs/2, Y: corner.Y + hs/2})
			g.drawQuad(dst, pinboard.ItemFrame{
				Box:      pinboard.Rect{X: c.X - hs/2, Y: c.Y - hs/2, Width: hs, Height: hs},
				Rotation: frame.Rotation,
			}, handleFill, 1)
		}
	}

	if it.Pin.Enabled {
		p := frame.PinPoint(it.Pin.Position)
		vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), pinRadius, pinboard.PinColor(it.Pin.Color), true)
	}
	if preview, ok := s.PinPreview(it.ID); ok {
		p := frame.PinPoint(preview)
		clr := pinboard.PinColor(it.Pin.Color)
		clr.A = 0x99
		vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), pinRadius-2, clr, true)
	}
}

// overlayFrame returns the overlay's on-screen frame for a transform.
func overlayFrame(viewport pinboard.Size, t pinboard.OverlayTransform) pinboard.ItemFrame {
	w := pinboard.OverlayWidth(viewport) * t.Scale
	h := math.Min(viewport.Height*0.8, 480) * t.Scale
	c := viewport.Center().Add(t.Offset)
	return pinboard.ItemFrame{
		Box:      pinboard.Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h},
		Rotation: t.Rotation,
	}
}

func (g *Game) drawOverlay(dst *ebiten.Image) {
	s := g.session
	m := s.Modal()
	if m.Phase() == pinboard.ModalClosed {
		return
	}
	it, ok := s.Item(m.ActiveID())
	if !ok {
		return
	}
	t := m.Transform()
	frame := overlayFrame(s.Viewport(), t)
	g.drawQuad(dst, frame, overlayFill, float32(t.Opacity))
	if t.Opacity < 0.5 {
		return
	}
	body := it.DetailedContent
	if s.EditingItem() == it.ID {
		body = "[editing] " + s.EditBuffer()
	}
	ebitenutil.DebugPrintAt(dst, it.Title+"\n\n"+body, int(frame.Box.X)+12, int(frame.Box.Y)+12)
}
