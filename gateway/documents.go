package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/phanxgames/pinboard"
)

// DefaultKey is the document key used when none is configured.
const DefaultKey = "board"

// Documents adapts a Store into a pinboard.Gateway holding one board under a
// fixed key.
type Documents struct {
	store Store
	key   string
}

var _ pinboard.Gateway = (*Documents)(nil)

// NewDocuments creates a gateway for key in store. An empty key uses
// DefaultKey.
func NewDocuments(store Store, key string) *Documents {
	if key == "" {
		key = DefaultKey
	}
	return &Documents{store: store, key: key}
}

// Load implements pinboard.Gateway. A missing document loads as nil.
func (d *Documents) Load(ctx context.Context) (*pinboard.LoadedSnapshot, error) {
	data, err := d.store.Get(ctx, d.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", d.key, err)
	}
	return DecodeSnapshot(data)
}

// Save implements pinboard.Gateway.
func (d *Documents) Save(ctx context.Context, snap pinboard.Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := d.store.Put(ctx, d.key, data); err != nil {
		return fmt.Errorf("save %q: %w", d.key, err)
	}
	return nil
}
