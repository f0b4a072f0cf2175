package value

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"kvlist-go/internal/common"
)

// Kind tags how the bytes of a blob should be interpreted.
// KindUntyped blobs carry no tag and are interpreted by size.
type Kind uint8

const (
	KindUntyped Kind = iota
	KindChar
	KindInt32
	KindFloat32
	KindFloat64
	KindBytes
)

var kindNames = [...]string{
	KindUntyped: "untyped",
	KindChar:    "char",
	KindInt32:   "int32",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindBytes:   "bytes",
}

// String returns a string representation of the kind
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(k))
}

// Valid reports whether k is one of the defined kinds
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return KindUntyped, fmt.Errorf("%w: unknown kind %q", common.ErrInvalidArgument, s)
}

// Value is a blob together with its kind.
type Value struct {
	Kind Kind
	Data []byte
}

func Untyped(b []byte) Value { return Value{Kind: KindUntyped, Data: b} }

func Bytes(b []byte) Value { return Value{Kind: KindBytes, Data: b} }

func Char(c byte) Value { return Value{Kind: KindChar, Data: []byte{c}} }

func Int32(i int32) Value {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(i))
	return Value{Kind: KindInt32, Data: b}
}

func Float32(f float32) Value {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
	return Value{Kind: KindFloat32, Data: b}
}

func Float64(f float64) Value {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(f))
	return Value{Kind: KindFloat64, Data: b}
}

// Len returns the blob length in bytes
func (v Value) Len() int {
	return len(v.Data)
}

// FourByteMode decides how an untyped 4-byte blob is displayed. The size
// alone cannot tell an int32 from a float32.
type FourByteMode int

const (
	FourByteInt FourByteMode = iota
	FourByteFloat
)

// ParseFourByteMode accepts "int" or "float"
func ParseFourByteMode(s string) (FourByteMode, error) {
	switch strings.ToLower(s) {
	case "int", "":
		return FourByteInt, nil
	case "float":
		return FourByteFloat, nil
	default:
		return FourByteInt, fmt.Errorf("%w: four byte mode must be 'int' or 'float', got %q", common.ErrInvalidArgument, s)
	}
}

func (m FourByteMode) String() string {
	if m == FourByteFloat {
		return "float"
	}
	return "int"
}

// Format renders data according to kind. Untyped data is guessed from its
// size: 1 byte is a char, 4 bytes an int32 or float32 (see mode) and
// 8 bytes a float64. ok is false when the data cannot be interpreted.
func Format(kind Kind, data []byte, mode FourByteMode) (s string, ok bool) {
	if kind == KindUntyped {
		switch len(data) {
		case 1:
			kind = KindChar
		case 4:
			kind = KindInt32
			if mode == FourByteFloat {
				kind = KindFloat32
			}
		case 8:
			kind = KindFloat64
		default:
			return "", false
		}
	}

	switch kind {
	case KindChar:
		if len(data) != 1 {
			return "", false
		}
		return string(data[:1]), true
	case KindInt32:
		if len(data) != 4 {
			return "", false
		}
		return strconv.FormatInt(int64(int32(binary.LittleEndian.Uint32(data))), 10), true
	case KindFloat32:
		if len(data) != 4 {
			return "", false
		}
		return fmt.Sprintf("%f", math.Float32frombits(binary.LittleEndian.Uint32(data))), true
	case KindFloat64:
		if len(data) != 8 {
			return "", false
		}
		return fmt.Sprintf("%f", math.Float64frombits(binary.LittleEndian.Uint64(data))), true
	case KindBytes:
		return "hex:" + hex.EncodeToString(data), true
	}
	return "", false
}

// ParseLiteral parses a "kind:text" literal such as "int:42" or "hex:0a0b".
// ok is false when text has no recognized prefix.
func ParseLiteral(text string) (v Value, ok bool, err error) {
	prefix, rest, found := strings.Cut(text, ":")
	if !found {
		return Value{}, false, nil
	}

	switch prefix {
	case "char":
		if len(rest) != 1 {
			return Value{}, true, fmt.Errorf("%w: char literal must be a single byte, got %q", common.ErrInvalidArgument, rest)
		}
		return Char(rest[0]), true, nil
	case "int":
		i, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 32)
		if err != nil {
			return Value{}, true, fmt.Errorf("%w: bad int literal: %w", common.ErrInvalidArgument, err)
		}
		return Int32(int32(i)), true, nil
	case "float":
		f, err := strconv.ParseFloat(strings.TrimSpace(rest), 32)
		if err != nil {
			return Value{}, true, fmt.Errorf("%w: bad float literal: %w", common.ErrInvalidArgument, err)
		}
		return Float32(float32(f)), true, nil
	case "double":
		f, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil {
			return Value{}, true, fmt.Errorf("%w: bad double literal: %w", common.ErrInvalidArgument, err)
		}
		return Float64(f), true, nil
	case "hex":
		b, err := hex.DecodeString(strings.TrimSpace(rest))
		if err != nil {
			return Value{}, true, fmt.Errorf("%w: bad hex literal: %w", common.ErrInvalidArgument, err)
		}
		return Bytes(b), true, nil
	}
	return Value{}, false, nil
}

// MaxInputSize bounds the declared size of a blob typed at the console
const MaxInputSize = 64 * 1024

// FromInput builds a blob from a line of console input and a declared size.
// Literals keep their natural size, so size must be 0 or that size.
// Anything else is taken as raw bytes, truncated or zero padded to size.
func FromInput(text string, size int) (Value, error) {
	if size < 0 {
		return Value{}, fmt.Errorf("%w: negative size %d", common.ErrInvalidArgument, size)
	}
	if size > MaxInputSize {
		return Value{}, fmt.Errorf("%w: size %d exceeds the %d byte limit", common.ErrAllocation, size, MaxInputSize)
	}

	v, ok, err := ParseLiteral(text)
	if err != nil {
		return Value{}, err
	}
	if ok {
		if size != 0 && size != v.Len() {
			return Value{}, fmt.Errorf("%w: %s literal is %d bytes, size %d given", common.ErrInvalidArgument, v.Kind, v.Len(), size)
		}
		return v, nil
	}

	b := make([]byte, size)
	copy(b, text)
	return Untyped(b), nil
}
