package gateway

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/phanxgames/pinboard"
)

// codec is sonic in its encoding/json compatible mode.
var codec = sonic.ConfigStd

// document is the stored board layout. Some stores wrap it as
// {"record": {...}, "metadata": {...}}.
type document struct {
	Items       *[]pinboard.Item       `json:"items"`
	BoardConfig *pinboard.BoardConfig  `json:"boardConfig"`
	Record      sonic.NoCopyRawMessage `json:"record,omitempty"`
}

// DecodeSnapshot parses a stored board document, unwrapping a record
// envelope when present.
func DecodeSnapshot(data []byte) (*pinboard.LoadedSnapshot, error) {
	var doc document
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if doc.Items == nil && doc.BoardConfig == nil && len(doc.Record) > 0 {
		var inner document
		if err := codec.Unmarshal(doc.Record, &inner); err != nil {
			return nil, fmt.Errorf("decode board record: %w", err)
		}
		doc = inner
	}

	out := &pinboard.LoadedSnapshot{}
	if doc.Items != nil {
		out.Items = *doc.Items
		out.HasItems = true
	}
	if doc.BoardConfig != nil {
		out.BoardConfig = *doc.BoardConfig
		out.HasConfig = true
	}
	return out, nil
}

// EncodeSnapshot serializes a board document.
func EncodeSnapshot(snap pinboard.Snapshot) ([]byte, error) {
	if snap.Items == nil {
		snap.Items = []pinboard.Item{}
	}
	data, err := codec.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode board: %w", err)
	}
	return data, nil
}
