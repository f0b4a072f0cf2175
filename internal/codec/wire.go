package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"kvlist-go/internal/common"
)

// Length fields are unsigned 64-bit little-endian words.
const wordSize = 8

// blobs grow with the bytes actually read past this size, so a bogus
// length fails as truncation instead of allocating up front
const maxPrealloc = 64 * 1024

func ioError(op string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %s: %w", common.ErrIO, op, err)
}

func writeWord(w io.Writer, v uint64) error {
	var buf [wordSize]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return ioError("write length", err)
	}
	return nil
}

func writeBlob(w io.Writer, b []byte) error {
	if err := writeWord(w, uint64(len(b))); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return ioError("write data", err)
	}
	return nil
}

func writeByte(w io.Writer, b byte) error {
	if _, err := w.Write([]byte{b}); err != nil {
		return ioError("write tag", err)
	}
	return nil
}

// readWord reads a length field. Running out of input, even before the
// first byte, is a truncation.
func readWord(r io.Reader) (uint64, error) {
	var buf [wordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ioError("read length", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ioError("read tag", err)
	}
	return buf[0], nil
}

// readBlob reads a length-prefixed blob. The result is never nil.
func readBlob(r io.Reader) ([]byte, error) {
	n, err := readWord(r)
	if err != nil {
		return nil, err
	}
	if n > math.MaxInt {
		return nil, fmt.Errorf("%w: blob of %d bytes", common.ErrAllocation, n)
	}
	if n == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	buf.Grow(int(min(n, maxPrealloc)))
	copied, err := io.CopyN(&buf, r, int64(n))
	if err != nil {
		return nil, ioError(fmt.Sprintf("read data (%d of %d bytes)", copied, n), err)
	}
	return buf.Bytes(), nil
}
