package pinboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidItem is returned when a new item lacks a title or content.
	ErrInvalidItem = errors.New("pinboard: title and content are required")
	// ErrNotAdmin is returned for admin actions outside admin mode.
	ErrNotAdmin = errors.New("pinboard: admin mode required")
)

// Options configures a Session. The zero value is usable: no persistence, the
// demo items, the default passphrase, and a deleting confirmer that denies.
type Options struct {
	// Gateway persists the board. Nil keeps the board in memory only.
	Gateway Gateway
	// Logger receives diagnostics. Defaults to the logrus standard logger.
	Logger *log.Entry
	// Passphrase toggles admin mode when typed. Defaults to DefaultPassphrase.
	Passphrase string
	// Board is the board's rectangle in viewport pixels.
	Board Rect
	// Viewport is the size of the whole viewport in pixels.
	Viewport Size
	// SaveDebounce is the quiet window for saves. Defaults to
	// DefaultSaveDebounce.
	SaveDebounce time.Duration
	// Dimensions resolves natural image sizes. Nil renders every image at the
	// placeholder size.
	Dimensions *DimensionCache
	// Confirm is asked before an item is deleted. Nil denies every deletion.
	Confirm func(Item) bool
	// Editor is the rich content editor. Defaults to a TextEditor.
	Editor ContentEditor
	// InitialItems seed the board when the stored document has no items.
	// Nil means SeedItems; use an empty slice for an empty board.
	InitialItems []Item
}

// MusicState is the background music decision for a renderer.
type MusicState struct {
	URL        string
	Muted      bool
	ShouldPlay bool // unmuted, the user has interacted, and a URL is set
}

// NewItem describes an item being added by an admin.
type NewItem struct {
	Kind    ItemKind
	Title   string
	Content string
	LinkURL string
}

// Session is the state of one board session: the item store, board config,
// gesture and overlay controllers, and admin and editing state. It is not
// safe for concurrent use; drive every method, including Update, from one
// goroutine.
type Session struct {
	log      *log.Entry
	sched    *FrameScheduler
	store    *ItemStore
	config   BoardConfig
	persist  *Persister
	bus      PointerBus
	gestures Controller
	modal    *ModalController
	pointer  pointerState

	injectQueue []syntheticPointerEvent
	runner      *ScriptRunner

	admin    *PassphraseMatcher
	isAdmin  bool
	formOpen bool

	editor     ContentEditor
	editing    string
	editBuffer string

	dims    *DimensionCache
	confirm func(Item) bool
	initial []Item

	board    Rect
	viewport Size

	muted      bool
	interacted bool
}

// NewSession creates a session holding an empty board with the default
// config. Call Load to populate it from the gateway.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	editor := opts.Editor
	if editor == nil {
		editor = NewTextEditor()
	}
	initial := opts.InitialItems
	if initial == nil {
		initial = SeedItems()
	}

	sched := NewFrameScheduler()
	s := &Session{
		log:      logger.WithField("component", "session"),
		sched:    sched,
		store:    NewItemStore(nil, DefaultBoardConfig().NextZIndex),
		config:   DefaultBoardConfig(),
		persist:  NewPersister(opts.Gateway, sched, opts.SaveDebounce, logger),
		modal:    NewModalController(sched),
		admin:    NewPassphraseMatcher(opts.Passphrase),
		editor:   editor,
		dims:     opts.Dimensions,
		confirm:  opts.Confirm,
		initial:  initial,
		board:    opts.Board,
		viewport: opts.Viewport,
		muted:    true,
	}
	s.gestures = newController(s)
	s.modal.SetViewport(opts.Viewport)
	s.modal.OnClosed = func(id string) {
		s.log.WithField("item", id).Debug("overlay closed")
	}
	editor.OnChange(s.EditorChange)
	return s
}

// Load replaces the board with the stored snapshot. It never fails; see
// Persister.Load.
func (s *Session) Load(ctx context.Context) {
	snap := s.persist.Load(ctx, s.initial)
	s.gestures.Cancel()
	s.store = NewItemStore(snap.Items, snap.BoardConfig.NextZIndex)
	s.config = snap.BoardConfig
	for _, it := range snap.Items {
		s.probe(it)
	}
	s.log.WithField("items", s.store.Len()).Info("board loaded")
}

func (s *Session) probe(it Item) {
	if it.Kind == KindImage {
		s.dims.Probe(it.Content)
	}
}

// Layout records where the board sits in the viewport. Stored positions are
// percentages, so items follow the board through resizes.
func (s *Session) Layout(board Rect, viewport Size) {
	s.board = board
	s.viewport = viewport
	s.modal.SetViewport(viewport)
}

// Board returns the board rectangle in viewport pixels.
func (s *Session) Board() Rect { return s.board }

// Viewport returns the viewport size.
func (s *Session) Viewport() Size { return s.viewport }

// Items returns the items ordered bottom to top.
func (s *Session) Items() []Item { return s.store.SortedByZ() }

// Item returns the item with the given id.
func (s *Session) Item(id string) (Item, bool) { return s.store.Get(id) }

// Config returns the board config. NextZIndex reflects the live counter.
func (s *Session) Config() BoardConfig {
	c := s.config
	c.NextZIndex = s.store.Counter()
	return c
}

// Snapshot returns the document that a save would write.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{Items: s.store.Items(), BoardConfig: s.Config()}
}

// Modal returns the overlay controller.
func (s *Session) Modal() *ModalController { return s.modal }

// Scheduler returns the session's frame scheduler.
func (s *Session) Scheduler() *FrameScheduler { return s.sched }

// Persister returns the session's saver.
func (s *Session) Persister() *Persister { return s.persist }

// --- Frames ---

func (s *Session) naturalSize(it Item) Size {
	if it.Kind != KindImage {
		return Size{}
	}
	return s.dims.Natural(it.Content)
}

// frameOf places it in viewport pixels.
func (s *Session) frameOf(it Item) ItemFrame {
	return FrameAt(it, s.board.TopLeft(), s.board.Size(), s.naturalSize(it))
}

// ItemFrame returns where id is drawn in viewport pixels.
func (s *Session) ItemFrame(id string) (ItemFrame, bool) {
	it, ok := s.store.Get(id)
	if !ok {
		return ItemFrame{}, false
	}
	return s.frameOf(it), true
}

func (s *Session) pinPercentAt(id string, pointer Vec2) (Vec2, bool) {
	frame, ok := s.ItemFrame(id)
	if !ok {
		return Vec2{}, false
	}
	return PointerToItemLocalPercent(pointer, frame.Center(), frame.Box.Size(), frame.Rotation), true
}

// --- Admin ---

// IsAdmin reports whether admin mode is on.
func (s *Session) IsAdmin() bool { return s.isAdmin }

// SetAdmin switches admin mode. Leaving admin mode ends any gesture,
// including pin placement.
func (s *Session) SetAdmin(on bool) {
	if s.isAdmin == on {
		return
	}
	s.isAdmin = on
	if !on {
		s.gestures.Cancel()
	}
	s.log.WithField("admin", on).Info("admin mode changed")
}

// SetFormOpen marks a text form (add item, board config) as focused. Typing
// into it must not toggle admin mode.
func (s *Session) SetFormOpen(open bool) { s.formOpen = open }

// KeyPress feeds a keystroke to the passphrase matcher. Keys are ignored
// while the overlay, content editing, or a form is active. Reports whether
// admin mode toggled.
func (s *Session) KeyPress(key rune) bool {
	if s.modal.Phase() != ModalClosed || s.modal.ActiveID() != "" || s.editing != "" || s.formOpen {
		return false
	}
	if !s.admin.Feed(key) {
		return false
	}
	s.SetAdmin(!s.isAdmin)
	return true
}

// --- Gestures ---

// Gesture returns the active gesture.
func (s *Session) Gesture() GestureState { return s.gestures.State() }

// BeginDrag starts dragging id. See Controller.BeginDrag.
func (s *Session) BeginDrag(id string, pointer Vec2) bool { return s.gestures.BeginDrag(id, pointer) }

// BeginRotateScale starts rotating and scaling id. See
// Controller.BeginRotateScale.
func (s *Session) BeginRotateScale(id string, pointer Vec2) bool {
	return s.gestures.BeginRotateScale(id, pointer)
}

// TogglePinPlacement toggles pin placement on id.
func (s *Session) TogglePinPlacement(id string) bool { return s.gestures.TogglePinPlacement(id) }

// HoverPin updates the pin preview from a viewport pointer position.
func (s *Session) HoverPin(pointer Vec2) { s.gestures.HoverPin(pointer) }

// PinPreview returns the uncommitted pin position for id, if any.
func (s *Session) PinPreview(id string) (Vec2, bool) {
	g, ok := s.gestures.State().(PlacingPin)
	if !ok || g.ItemID != id || g.Preview == nil {
		return Vec2{}, false
	}
	return *g.Preview, true
}

// ClickItem handles a click on id. See Controller.ClickItem.
func (s *Session) ClickItem(id string, pointer Vec2) bool { return s.gestures.ClickItem(id, pointer) }

// CancelGesture abandons the active gesture.
func (s *Session) CancelGesture() { s.gestures.Cancel() }

// TransitionStyle reports how a renderer should animate id.
func (s *Session) TransitionStyle(id string) TransitionStyle { return s.gestures.TransitionStyle(id) }

// --- Overlay ---

// OpenItem opens the detail overlay for id and brings it to the front. It is
// ignored while a gesture is active or another item is open.
func (s *Session) OpenItem(id string) bool {
	if s.gestures.State().Target() != "" {
		return false
	}
	it, ok := s.store.Get(id)
	if !ok {
		return false
	}
	frame := s.frameOf(it)
	if !s.modal.Open(id, frame.Bounds(), it.Rotation, s.viewport) {
		return false
	}
	s.store.BringToFront(id)
	s.editBuffer = it.DetailedContent
	s.editor.SetContent(it.DetailedContent)
	s.log.WithField("item", id).Debug("overlay opening")
	return true
}

// CloseItem closes the overlay toward the source item's current rectangle
// and drops any unsaved content edit.
func (s *Session) CloseItem() {
	id := s.modal.ActiveID()
	if id == "" {
		return
	}
	s.editing = ""
	it, ok := s.store.Get(id)
	if !ok {
		s.modal.Close(Rect{}, 0, false)
		return
	}
	s.modal.Close(s.frameOf(it).Bounds(), it.Rotation, true)
}

// --- Content editing ---

// EditingItem returns the id whose content is being edited, or "".
func (s *Session) EditingItem() string { return s.editing }

// EditBuffer returns the unsaved edited content.
func (s *Session) EditBuffer() string { return s.editBuffer }

// StartEditContent opens id in the overlay in edit mode.
func (s *Session) StartEditContent(id string) bool {
	if !s.isAdmin {
		return false
	}
	it, ok := s.store.Get(id)
	if !ok {
		return false
	}
	if s.modal.ActiveID() != id && !s.OpenItem(id) {
		return false
	}
	s.editing = id
	s.editBuffer = it.DetailedContent
	s.editor.SetContent(it.DetailedContent)
	return true
}

// EditorChange receives edits from the content editor.
func (s *Session) EditorChange(content string) {
	s.editBuffer = content
}

// SaveContent writes the edited content into the item verbatim and saves.
func (s *Session) SaveContent() bool {
	id := s.editing
	if id == "" {
		return false
	}
	s.editing = ""
	content := s.editBuffer
	if !s.store.Update(id, func(it *Item) { it.DetailedContent = content }) {
		return false
	}
	s.scheduleSave()
	return true
}

// CancelEditContent leaves edit mode without saving.
func (s *Session) CancelEditContent() {
	if s.editing == "" {
		return
	}
	if it, ok := s.store.Get(s.editing); ok {
		s.editBuffer = it.DetailedContent
		s.editor.SetContent(it.DetailedContent)
	}
	s.editing = ""
}

// --- Item administration ---

// AddItem creates an item centered on the board with a small random tilt and
// a random pin color, saves, and opens it for content editing.
func (s *Session) AddItem(n NewItem) (Item, error) {
	if !s.isAdmin {
		return Item{}, ErrNotAdmin
	}
	title := strings.TrimSpace(n.Title)
	content := strings.TrimSpace(n.Content)
	if title == "" || content == "" {
		return Item{}, fmt.Errorf("add %s: %w", n.Kind, ErrInvalidItem)
	}

	it := Item{
		ID:           NewItemID(),
		Kind:         n.Kind,
		Title:        n.Title,
		Content:      n.Content,
		LinkURL:      n.LinkURL,
		Rotation:     RandomRotation(),
		Scale:        1,
		Pin:          Pin{Enabled: true, Color: RandomPinColor(), Position: Vec2{50, 5}},
		Interactable: true,
	}
	if n.Kind == KindNote {
		it.BaseWidth, it.BaseHeight = defaultNoteWidth, defaultNoteHeight
		it.DetailedContent = "<p>" + n.Content + "</p>"
	} else {
		it.Scale = 0.4
		it.DetailedContent = "<p>Edit this content...</p>"
	}
	half := it.RenderedSize(s.naturalSize(it)).Center()
	it.Position = BoardPixelToPercent(s.board.Size().Center().Sub(half), s.board.Size())
	it.ZIndex = s.store.NextZIndex()

	s.store.Upsert(it)
	s.probe(it)
	s.scheduleSave()
	s.log.WithFields(log.Fields{"item": it.ID, "kind": it.Kind.String()}).Info("item added")

	s.StartEditContent(it.ID)
	return it, nil
}

// DeleteItem removes id after the confirmer agrees. Admin only. An open
// overlay on the item closes at once and any gesture or content edit on it
// is dropped.
func (s *Session) DeleteItem(id string) bool {
	if !s.isAdmin {
		return false
	}
	it, ok := s.store.Get(id)
	if !ok || s.confirm == nil || !s.confirm(it) {
		return false
	}
	if s.gestures.State().Target() == id {
		s.gestures.Cancel()
	}
	if s.editing == id {
		s.editing = ""
		s.editBuffer = ""
	}
	if s.modal.ActiveID() == id {
		s.modal.Close(Rect{}, 0, false)
	}
	s.store.Remove(id)
	s.scheduleSave()
	s.log.WithField("item", id).Info("item deleted")
	return true
}

// EditItem applies fn to id and saves. Admin only. The id cannot be changed.
func (s *Session) EditItem(id string, fn func(*Item)) bool {
	if !s.isAdmin || !s.store.Update(id, fn) {
		return false
	}
	if it, ok := s.store.Get(id); ok {
		s.probe(it)
	}
	s.scheduleSave()
	return true
}

// SetPinColor sets id's pin color tag.
func (s *Session) SetPinColor(id, color string) bool {
	if !ValidPinColor(color) {
		return false
	}
	return s.EditItem(id, func(it *Item) { it.Pin.Color = color })
}

// SetPinEnabled shows or hides id's pin.
func (s *Session) SetPinEnabled(id string, enabled bool) bool {
	return s.EditItem(id, func(it *Item) { it.Pin.Enabled = enabled })
}

// SetInteractable controls whether clicking id opens the overlay.
func (s *Session) SetInteractable(id string, on bool) bool {
	return s.EditItem(id, func(it *Item) { it.Interactable = on })
}

// UpdateBoardConfig replaces the board-wide settings and saves. Admin only.
// The z-index counter is owned by the store and is not replaced.
func (s *Session) UpdateBoardConfig(c BoardConfig) error {
	if !s.isAdmin {
		return ErrNotAdmin
	}
	s.config = mergeConfig(c)
	s.scheduleSave()
	return nil
}

// --- Music ---

// ToggleMute flips the mute flag. It counts as the user's first interaction.
func (s *Session) ToggleMute() {
	s.interacted = true
	s.muted = !s.muted
}

// Music reports what the background music should be doing.
func (s *Session) Music() MusicState {
	m := MusicState{Muted: s.muted}
	if s.config.BackgroundMusicURL != nil {
		m.URL = *s.config.BackgroundMusicURL
	}
	m.ShouldPlay = !s.muted && s.interacted && m.URL != ""
	return m
}

// --- Time and persistence ---

// Update advances the session by one frame of length dt: callbacks queued in
// earlier frames and due timers run, an attached script steps, one queued
// synthetic event is consumed, and the overlay animation steps. Work queued
// for the next frame by this frame's input waits until the following Update,
// so an overlay opened now is drawn once at its starting transform.
func (s *Session) Update(dt time.Duration) {
	s.gestures.endFrame()
	s.sched.Advance(dt)
	if s.runner != nil {
		s.runner.step(s)
	}
	s.processInjectedInput()
	s.modal.Update(dt)
	s.sched.EndFrame()
}

func (s *Session) scheduleSave() {
	s.persist.Schedule(s.Snapshot())
}

func (s *Session) saveNow() {
	s.persist.SaveAsync(s.Snapshot())
}

// Save writes the board synchronously. Reports whether it succeeded.
func (s *Session) Save(ctx context.Context) bool {
	return s.persist.SaveNow(ctx, s.Snapshot())
}

// Close flushes any pending save and waits for background work.
func (s *Session) Close() {
	s.gestures.Cancel()
	s.persist.Flush()
	if s.dims != nil {
		s.dims.Wait()
	}
}
