package codec

import (
	"fmt"
	"io"

	"kvlist-go/internal/store"
)

// Binary layout, all lengths are little-endian uint64 words:
// [count]
// repeated count times:
//   [key length][key bytes][value length][value bytes]
// No header, padding or checksum. Kinds are not stored.

// BinaryEncoder implements the flat length-prefixed format
type BinaryEncoder struct{}

// NewBinaryEncoder creates a new binary encoder
func NewBinaryEncoder() *BinaryEncoder {
	return &BinaryEncoder{}
}

func (e *BinaryEncoder) Name() string {
	return BinaryName
}

func (e *BinaryEncoder) Encode(w io.Writer, s *store.Store) error {
	if err := checkStore(s); err != nil {
		return err
	}

	if err := writeWord(w, uint64(s.Len())); err != nil {
		return err
	}

	for entry := range s.All() {
		if err := writeBlob(w, entry.Key()); err != nil {
			return err
		}
		if err := writeBlob(w, entry.Value()); err != nil {
			return err
		}
	}

	return nil
}

func (e *BinaryEncoder) Decode(r io.Reader) (*store.Store, error) {
	count, err := readWord(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry count: %w", err)
	}

	s := store.New()
	for i := uint64(0); i < count; i++ {
		key, err := readBlob(r)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("entry %d of %d: key: %w", i, count, err)
		}

		value, err := readBlob(r)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("entry %d of %d: value: %w", i, count, err)
		}

		if err := s.Append(key, value); err != nil {
			s.Destroy()
			return nil, fmt.Errorf("entry %d of %d: %w", i, count, err)
		}
	}

	return s, nil
}
