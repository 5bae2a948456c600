package pinboard

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Pin is the decorative pin attached to an item.
type Pin struct {
	Enabled bool
	Color   string
	// Position is in percentages of the item's own unrotated box.
	Position Vec2
}

// Item is one pinned object on the board.
type Item struct {
	ID              string
	Kind            ItemKind
	Title           string
	Content         string // image URL for KindImage, plain text for KindNote
	DetailedContent string // rich body, persisted and rendered verbatim
	LinkURL         string

	// Position is the top-left of the rendered box in percentages of the
	// board's rendered width and height.
	Position Vec2
	Rotation float64 // degrees, unbounded
	Scale    float64 // multiplies the base dimensions; >0

	// BaseWidth and BaseHeight are explicit pixel dimensions. Zero means
	// unset: notes fall back to 250x200, images to their natural size.
	BaseWidth, BaseHeight float64

	ZIndex       int
	Pin          Pin
	Interactable bool
}

// BoardConfig holds board-wide settings.
type BoardConfig struct {
	BackgroundImageURL string  `json:"backgroundImageUrl"`
	BackgroundColor    string  `json:"backgroundColor"`
	BackgroundMusicURL *string `json:"backgroundMusicUrl"`
	NextZIndex         int     `json:"nextZIndex"`
}

// Snapshot is the full persisted board document.
type Snapshot struct {
	Items       []Item      `json:"items"`
	BoardConfig BoardConfig `json:"boardConfig"`
}

const defaultBackgroundImage = "https://www.transparenttextures.com/patterns/cork-board.png"

// DefaultBoardConfig returns the configuration used when none is stored.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		BackgroundImageURL: defaultBackgroundImage,
		BackgroundColor:    "#d4a373",
		NextZIndex:         1,
	}
}

// DefaultSnapshot returns an empty board with the default configuration.
func DefaultSnapshot() Snapshot {
	return Snapshot{Items: []Item{}, BoardConfig: DefaultBoardConfig()}
}

// NewItemID returns a fresh opaque item identifier.
func NewItemID() string {
	return uuid.NewString()
}

// RandomRotation returns a small tilt in [-5, 5) degrees for new items.
func RandomRotation() float64 {
	return rand.Float64()*10 - 5
}

// RandomPinColor picks one of PinColors.
func RandomPinColor() string {
	return PinColors[rand.IntN(len(PinColors))]
}

// BaseSize returns the item's unscaled pixel dimensions. natural is the
// probed size of an image asset; a zero natural size means not yet known.
func (it Item) BaseSize(natural Size) Size {
	if it.BaseWidth > 0 && it.BaseHeight > 0 {
		return Size{it.BaseWidth, it.BaseHeight}
	}
	if it.Kind == KindNote {
		return Size{defaultNoteWidth, defaultNoteHeight}
	}
	if natural.Width > 0 && natural.Height > 0 {
		return natural
	}
	return Size{placeholderWidth, placeholderHeight}
}

// RenderedSize returns the base size multiplied by the item's scale.
func (it Item) RenderedSize(natural Size) Size {
	b := it.BaseSize(natural)
	s := it.Scale
	if s <= 0 {
		s = 1
	}
	return Size{b.Width * s, b.Height * s}
}

// --- JSON wire format ---

// itemWire is the flat document layout shared with existing board documents.
type itemWire struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	DetailedContent string   `json:"detailedContent"`
	Position        Vec2     `json:"position"`
	Rotation        float64  `json:"rotation"`
	PinEnabled      bool     `json:"pinEnabled"`
	PinPosition     Vec2     `json:"pinPosition"`
	PinColor        string   `json:"pinColor"`
	Scale           *float64 `json:"scale,omitempty"`
	ZIndex          int      `json:"zIndex"`
	Width           *float64 `json:"width,omitempty"`
	Height          *float64 `json:"height,omitempty"`
	LinkURL         string   `json:"linkUrl,omitempty"`
	Interactable    *bool    `json:"interactable,omitempty"`
}

// MarshalJSON implements json.Marshaler using the flat document layout.
func (it Item) MarshalJSON() ([]byte, error) {
	w := itemWire{
		ID:              it.ID,
		Type:            it.Kind.String(),
		Title:           it.Title,
		Content:         it.Content,
		DetailedContent: it.DetailedContent,
		Position:        it.Position,
		Rotation:        it.Rotation,
		PinEnabled:      it.Pin.Enabled,
		PinPosition:     it.Pin.Position,
		PinColor:        it.Pin.Color,
		ZIndex:          it.ZIndex,
		LinkURL:         it.LinkURL,
	}
	scale := it.Scale
	w.Scale = &scale
	if it.BaseWidth > 0 {
		bw := it.BaseWidth
		w.Width = &bw
	}
	if it.BaseHeight > 0 {
		bh := it.BaseHeight
		w.Height = &bh
	}
	if !it.Interactable {
		f := false
		w.Interactable = &f
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. Absent scale decodes as 1 and
// absent interactable as true.
func (it *Item) UnmarshalJSON(data []byte) error {
	var w itemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, ok := ParseItemKind(w.Type)
	if !ok && w.Type != "" {
		return fmt.Errorf("item %q: unknown type %q", w.ID, w.Type)
	}
	*it = Item{
		ID:              w.ID,
		Kind:            kind,
		Title:           w.Title,
		Content:         w.Content,
		DetailedContent: w.DetailedContent,
		LinkURL:         w.LinkURL,
		Position:        w.Position,
		Rotation:        w.Rotation,
		Scale:           1,
		ZIndex:          w.ZIndex,
		Pin: Pin{
			Enabled:  w.PinEnabled,
			Color:    w.PinColor,
			Position: w.PinPosition,
		},
		Interactable: true,
	}
	if w.Scale != nil && *w.Scale > 0 {
		it.Scale = *w.Scale
	}
	if w.Width != nil {
		it.BaseWidth = *w.Width
	}
	if w.Height != nil {
		it.BaseHeight = *w.Height
	}
	if w.Interactable != nil {
		it.Interactable = *w.Interactable
	}
	return nil
}

// SeedItems returns the demo board used when a document carries no items.
func SeedItems() []Item {
	seed := []struct {
		kind    ItemKind
		title   string
		content string
		detail  string
		pos     Vec2
		pin     Vec2
		scale   float64
	}{
		{KindImage, "Maci", "https://i.ibb.co/s9LS0MHg/Maci.png",
			"<p>This is Maci, a curious cat exploring the world.</p>", Vec2{15, 12}, Vec2{50, 10}, 0.35},
		{KindImage, "Polaroid", "https://i.ibb.co/LhvRqr36/polaroid.png",
			"<p>A vintage polaroid capturing a moment.</p>", Vec2{40, 18}, Vec2{30, 15}, 0.35},
		{KindImage, "Envelope", "https://i.ibb.co/zWjhJStp/envelope.png",
			"<p>An old envelope, perhaps holding secrets.</p>", Vec2{20, 50}, Vec2{70, 20}, 0.35},
		{KindImage, "Plane Ticket", "https://i.ibb.co/JjBx3nQP/Plane-Ticket.png",
			"<p>A ticket to an adventure waiting to happen.</p>", Vec2{55, 45}, Vec2{50, 0}, 0.4},
		{KindImage, "Sunflower", "https://i.ibb.co/8v01VM4/sunflower.png",
			"<p>A bright sunflower, always facing the light.</p>", Vec2{70, 25}, Vec2{40, 5}, 0.35},
		{KindNote, "Bucket List", "1. Visit Japan\n2. Learn to surf\n3. Write a book\n4. Plant a garden",
			"<h2>My Awesome Bucket List</h2><p>Here are a few things I absolutely want to do:</p>" +
				"<ul><li>Visit the temples in Kyoto, Japan.</li><li>Catch a wave in Hawaii.</li>" +
				"<li>Finally write that novel idea I've had for years.</li><li>Grow my own vegetables and herbs.</li></ul>",
			Vec2{75, 60}, Vec2{50, 0}, 1},
	}

	items := make([]Item, 0, len(seed))
	for i, s := range seed {
		it := Item{
			ID:              NewItemID(),
			Kind:            s.kind,
			Title:           s.title,
			Content:         s.content,
			DetailedContent: s.detail,
			Position:        s.pos,
			Rotation:        RandomRotation(),
			Scale:           s.scale,
			ZIndex:          i + 1,
			Pin:             Pin{Enabled: true, Color: RandomPinColor(), Position: s.pin},
			Interactable:    true,
		}
		if s.kind == KindNote {
			it.BaseWidth, it.BaseHeight = defaultNoteWidth, defaultNoteHeight
		}
		if s.title == "Maci" {
			it.LinkURL = "https://en.wikipedia.org/wiki/Cat"
		}
		items = append(items, it)
	}
	return items
}
