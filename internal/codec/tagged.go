package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"kvlist-go/internal/common"
	"kvlist-go/internal/store"
	"kvlist-go/internal/value"
)

// Tagged layout:
// [4 bytes: magic "KVLT"]
// [1 byte: version]
// [8 bytes: count]
// repeated count times:
//   [1 byte: key kind][8 bytes: key length][key bytes]
//   [1 byte: value kind][8 bytes: value length][value bytes]
// [4 bytes: CRC32 of everything after the magic]

const TaggedVersion = 1

var taggedMagic = []byte("KVLT")

// TaggedEncoder is the binary format plus a kind per blob, so a 4-byte
// float no longer reads back as an int.
type TaggedEncoder struct{}

// NewTaggedEncoder creates a new tagged encoder
func NewTaggedEncoder() *TaggedEncoder {
	return &TaggedEncoder{}
}

func (e *TaggedEncoder) Name() string {
	return TaggedName
}

func (e *TaggedEncoder) Encode(w io.Writer, s *store.Store) error {
	if err := checkStore(s); err != nil {
		return err
	}

	if _, err := w.Write(taggedMagic); err != nil {
		return ioError("write magic", err)
	}

	// Start checksum calculation
	crc := crc32.NewIEEE()
	multiWriter := io.MultiWriter(w, crc)

	if err := writeByte(multiWriter, TaggedVersion); err != nil {
		return err
	}
	if err := writeWord(multiWriter, uint64(s.Len())); err != nil {
		return err
	}

	for entry := range s.All() {
		if err := writeTaggedBlob(multiWriter, entry.KeyKind(), entry.Key()); err != nil {
			return err
		}
		if err := writeTaggedBlob(multiWriter, entry.ValueKind(), entry.Value()); err != nil {
			return err
		}
	}

	var sum [4]byte
	binary.LittleEndian.PutUint32(sum[:], crc.Sum32())
	if _, err := w.Write(sum[:]); err != nil {
		return ioError("write checksum", err)
	}
	return nil
}

func writeTaggedBlob(w io.Writer, kind value.Kind, b []byte) error {
	if err := writeByte(w, byte(kind)); err != nil {
		return err
	}
	return writeBlob(w, b)
}

func readTaggedBlob(r io.Reader) (value.Value, error) {
	tag, err := readByte(r)
	if err != nil {
		return value.Value{}, err
	}
	kind := value.Kind(tag)
	if !kind.Valid() {
		return value.Value{}, fmt.Errorf("%w: unknown kind tag %d", common.ErrIO, tag)
	}
	data, err := readBlob(r)
	if err != nil {
		return value.Value{}, err
	}
	return value.Value{Kind: kind, Data: data}, nil
}

func (e *TaggedEncoder) Decode(r io.Reader) (*store.Store, error) {
	magic := make([]byte, len(taggedMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, ioError("read magic", err)
	}
	if !bytes.Equal(magic, taggedMagic) {
		return nil, fmt.Errorf("%w: bad magic %q", common.ErrIO, magic)
	}

	crc := crc32.NewIEEE()
	body := io.TeeReader(r, crc)

	version, err := readByte(body)
	if err != nil {
		return nil, err
	}
	if version != TaggedVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", common.ErrIO, version)
	}

	count, err := readWord(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry count: %w", err)
	}

	s := store.New()
	fail := func(err error) (*store.Store, error) {
		s.Destroy()
		return nil, err
	}

	for i := uint64(0); i < count; i++ {
		key, err := readTaggedBlob(body)
		if err != nil {
			return fail(fmt.Errorf("entry %d of %d: key: %w", i, count, err))
		}
		val, err := readTaggedBlob(body)
		if err != nil {
			return fail(fmt.Errorf("entry %d of %d: value: %w", i, count, err))
		}
		if err := s.AppendValues(key, val); err != nil {
			return fail(fmt.Errorf("entry %d of %d: %w", i, count, err))
		}
	}

	// the trailer is read from r so it stays out of the checksum
	actualChecksum := crc.Sum32()
	var sum [4]byte
	if _, err := io.ReadFull(r, sum[:]); err != nil {
		return fail(ioError("read checksum", err))
	}
	expectedChecksum := binary.LittleEndian.Uint32(sum[:])
	if expectedChecksum != actualChecksum {
		return fail(fmt.Errorf("%w: checksum mismatch: expected %d, got %d", common.ErrIO, expectedChecksum, actualChecksum))
	}

	return s, nil
}
