package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"kvlist-go/internal/common"
	"kvlist-go/internal/store"
)

const (
	BinaryName = "binary"
	TaggedName = "tagged"
	TextName   = "text"
)

// Encoder defines the interface for encoding and decoding a whole store
type Encoder interface {
	// Encode writes every entry of s to w
	Encode(w io.Writer, s *store.Store) error

	// Decode reads a complete stream into a new store
	Decode(r io.Reader) (*store.Store, error)

	// Name returns the encoder name for identification
	Name() string
}

// Names lists the encoders known to EncoderFactory
func Names() []string {
	return []string{BinaryName, TaggedName, TextName}
}

// IsKnown reports whether name selects an encoder
func IsKnown(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

func EncoderFactory(encoderType string) Encoder {
	var encoder Encoder

	switch encoderType {
	case TextName:
		encoder = NewTextEncoder()
	case TaggedName:
		encoder = NewTaggedEncoder()
	default:
		// Default to the flat binary format
		encoder = NewBinaryEncoder()
	}

	return encoder
}

// Detect guesses the format of r without consuming it. Only the tagged
// format has a real header; text must open like a JSON object. Everything
// else is assumed to be binary.
func Detect(r *bufio.Reader) Encoder {
	if hdr, err := r.Peek(len(taggedMagic)); err == nil && bytes.Equal(hdr, taggedMagic) {
		return NewTaggedEncoder()
	}
	// a short read still returns what is buffered
	hdr, _ := r.Peek(detectWindow)
	if looksLikeText(hdr) {
		return NewTextEncoder()
	}
	return NewBinaryEncoder()
}

const detectWindow = 64

// looksLikeText accepts '{' followed by whitespace and then either a
// printable key string or '}' closing an empty object. The low bytes of a
// binary count can spell "{\n" or "{\"", but the zero bytes after them
// cannot continue a JSON object.
func looksLikeText(hdr []byte) bool {
	if len(hdr) < 2 || hdr[0] != '{' {
		return false
	}
	i := 1 + leadingSpace(hdr[1:])
	if i == len(hdr) {
		return false
	}

	switch hdr[i] {
	case '}':
		return i+1+leadingSpace(hdr[i+1:]) == len(hdr)
	case '"':
		for _, c := range hdr[i+1:] {
			if c == '"' {
				return true
			}
			if c < 0x20 || c >= 0x7f {
				return false
			}
		}
		return true
	}
	return false
}

func leadingSpace(b []byte) int {
	n := 0
	for n < len(b) && (b[n] == ' ' || b[n] == '\t' || b[n] == '\n' || b[n] == '\r') {
		n++
	}
	return n
}

func checkStore(s *store.Store) error {
	if s == nil {
		return fmt.Errorf("%w: nil store", common.ErrInvalidArgument)
	}
	if s.Destroyed() {
		return store.ErrDestroyed
	}
	return nil
}
