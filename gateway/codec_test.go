package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/pinboard"
)

func TestDecodeSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		hasItems  bool
		hasConfig bool
		wantItems int
		wantBG    string
	}{
		{"full", `{"items":[{"id":"a","type":"note"}],"boardConfig":{"backgroundColor":"#fff","nextZIndex":3}}`, true, true, 1, "#fff"},
		{"record envelope", `{"record":{"items":[],"boardConfig":{"backgroundColor":"#000"}},"metadata":{"id":"x"}}`, true, true, 0, "#000"},
		{"items only", `{"items":[{"id":"a"},{"id":"b"}]}`, true, false, 2, ""},
		{"neither", `{"something":"else"}`, false, false, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSnapshot([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.hasItems, got.HasItems)
			assert.Equal(t, tt.hasConfig, got.HasConfig)
			assert.Len(t, got.Items, tt.wantItems)
			assert.Equal(t, tt.wantBG, got.BoardConfig.BackgroundColor)
		})
	}
}

func TestDecodeSnapshotItemDefaults(t *testing.T) {
	got, err := DecodeSnapshot([]byte(`{"items":[{"id":"a","type":"image","content":"x.png"}]}`))
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1.0, got.Items[0].Scale)
	assert.True(t, got.Items[0].Interactable)
}

func TestDecodeSnapshotErrors(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"items":`))
	assert.Error(t, err)
	_, err = DecodeSnapshot([]byte(`{"items":[{"id":"a","type":"hologram"}]}`))
	assert.Error(t, err)
}

func TestEncodeSnapshotRoundTrip(t *testing.T) {
	music := "https://example.com/a.mp3"
	snap := pinboard.Snapshot{
		Items: []pinboard.Item{{
			ID: "n", Kind: pinboard.KindNote, Title: "Note", Content: "hi",
			DetailedContent: `<p class="x">hi & bye</p>`,
			Position:        pinboard.Vec2{X: 12.5, Y: 80},
			Rotation:        -4, Scale: 1.5, ZIndex: 2,
			BaseWidth: 250, BaseHeight: 200,
			Pin:          pinboard.Pin{Enabled: true, Color: "pink", Position: pinboard.Vec2{X: 50, Y: 5}},
			Interactable: true,
		}},
		BoardConfig: pinboard.BoardConfig{
			BackgroundImageURL: "bg.png", BackgroundColor: "#abc",
			BackgroundMusicURL: &music, NextZIndex: 3,
		},
	}
	data, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	got, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap, got.Snapshot)
}

func TestEncodeSnapshotNilItems(t *testing.T) {
	data, err := EncodeSnapshot(pinboard.Snapshot{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items":[]`)
	assert.Contains(t, string(data), `"backgroundMusicUrl":null`)
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	docs := NewDocuments(store, "")

	loaded, err := docs.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	snap := pinboard.DefaultSnapshot()
	snap.Items = []pinboard.Item{{ID: "a", Scale: 1, Interactable: true}}
	require.NoError(t, docs.Save(ctx, snap))
	assert.Equal(t, 1, store.Puts())

	raw, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"a"`)

	loaded, err = docs.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.HasItems)
	assert.Equal(t, "a", loaded.Items[0].ID)
}

func TestDocumentsBackPersister(t *testing.T) {
	store := NewMemoryStore()
	p := pinboard.NewPersister(NewDocuments(store, "k"), pinboard.NewFrameScheduler(), 0, nil)

	// Nothing stored yet: the seed items come back.
	seed := []pinboard.Item{{ID: "seed", ZIndex: 1, Scale: 1}}
	snap := p.Load(context.Background(), seed)
	require.Len(t, snap.Items, 1)

	require.NoError(t, store.Put(context.Background(), "k", []byte("not json")))
	snap = p.Load(context.Background(), seed)
	assert.Empty(t, snap.Items, "a corrupt document loads as the empty default board")
	assert.Equal(t, pinboard.DefaultBoardConfig(), snap.BoardConfig)
}
