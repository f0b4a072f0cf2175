package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"kvlist-go/internal/common"
	"kvlist-go/internal/store"
	"kvlist-go/internal/value"
)

const textFormat = "kvlist-text"

type textDocument struct {
	Format  string      `json:"format"`
	Count   int         `json:"count"`
	Entries []textEntry `json:"entries"`
}

// Display fields are for people reading the file and ignored on decode.
type textEntry struct {
	Key          []byte `json:"key"`
	KeyKind      string `json:"key_kind"`
	KeyDisplay   string `json:"key_display,omitempty"`
	Value        []byte `json:"value"`
	ValueKind    string `json:"value_kind"`
	ValueDisplay string `json:"value_display,omitempty"`
}

// TextEncoder implements human-readable JSON encoding for debugging
type TextEncoder struct {
	// Mode is used to fill display fields of untyped 4-byte blobs
	Mode value.FourByteMode
}

// NewTextEncoder creates a new text encoder
func NewTextEncoder() *TextEncoder {
	return &TextEncoder{Mode: value.FourByteInt}
}

func (e *TextEncoder) Name() string {
	return TextName
}

func (e *TextEncoder) Encode(w io.Writer, s *store.Store) error {
	if err := checkStore(s); err != nil {
		return err
	}

	doc := textDocument{
		Format:  textFormat,
		Count:   s.Len(),
		Entries: make([]textEntry, 0, s.Len()),
	}
	for entry := range s.All() {
		te := textEntry{
			Key:       entry.Key(),
			KeyKind:   entry.KeyKind().String(),
			Value:     entry.Value(),
			ValueKind: entry.ValueKind().String(),
		}
		te.KeyDisplay, _ = value.Format(entry.KeyKind(), te.Key, e.Mode)
		te.ValueDisplay, _ = value.Format(entry.ValueKind(), te.Value, e.Mode)
		doc.Entries = append(doc.Entries, te)
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	jsonBytes = append(jsonBytes, '\n')

	if _, err := w.Write(jsonBytes); err != nil {
		return ioError("write text", err)
	}
	return nil
}

func (e *TextEncoder) Decode(r io.Reader) (*store.Store, error) {
	var doc textDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, ioError("decode text", err)
	}
	if doc.Format != textFormat {
		return nil, fmt.Errorf("%w: unexpected format %q", common.ErrIO, doc.Format)
	}
	if doc.Count != len(doc.Entries) {
		return nil, fmt.Errorf("%w: declared %d entries, found %d", common.ErrIO, doc.Count, len(doc.Entries))
	}

	s := store.New()
	for i, te := range doc.Entries {
		key, err := textBlob(te.KeyKind, te.Key)
		if err == nil {
			var val value.Value
			val, err = textBlob(te.ValueKind, te.Value)
			if err == nil {
				err = s.AppendValues(key, val)
			}
		}
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	return s, nil
}

func textBlob(kindName string, data []byte) (value.Value, error) {
	if data == nil {
		return value.Value{}, fmt.Errorf("%w: missing blob", common.ErrIO)
	}
	kind, err := value.ParseKind(kindName)
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	return value.Value{Kind: kind, Data: data}, nil
}
