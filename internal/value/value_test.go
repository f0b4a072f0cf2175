package value

import (
	"testing"

	"kvlist-go/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUntyped(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		mode   FourByteMode
		want   string
		wantOK bool
	}{
		{"char", []byte{'A'}, FourByteInt, "A", true},
		{"high byte char", []byte{0xe9}, FourByteInt, "\xe9", true},
		{"int32", []byte{0x01, 0x00, 0x00, 0x00}, FourByteInt, "1", true},
		{"negative int32", []byte{0xff, 0xff, 0xff, 0xff}, FourByteInt, "-1", true},
		{"float32", Float32(1.5).Data, FourByteFloat, "1.500000", true},
		{"float64", Float64(2.25).Data, FourByteInt, "2.250000", true},
		{"empty", []byte{}, FourByteInt, "", false},
		{"three bytes", []byte{1, 2, 3}, FourByteInt, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Format(KindUntyped, tt.data, tt.mode)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatTypedIgnoresMode(t *testing.T) {
	// a tagged float32 stays a float even when untyped 4-byte blobs are ints
	got, ok := Format(KindFloat32, Float32(0.5).Data, FourByteInt)
	require.True(t, ok)
	assert.Equal(t, "0.500000", got)

	got, ok = Format(KindInt32, Int32(-7).Data, FourByteFloat)
	require.True(t, ok)
	assert.Equal(t, "-7", got)

	got, ok = Format(KindBytes, []byte{0x0a, 0xff}, FourByteInt)
	require.True(t, ok)
	assert.Equal(t, "hex:0aff", got)

	_, ok = Format(KindInt32, []byte{1, 2}, FourByteInt)
	assert.False(t, ok)
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		text     string
		wantOK   bool
		wantErr  bool
		wantKind Kind
		wantLen  int
	}{
		{"char:A", true, false, KindChar, 1},
		{"int:42", true, false, KindInt32, 4},
		{"float:1.5", true, false, KindFloat32, 4},
		{"double:2.5", true, false, KindFloat64, 8},
		{"hex:0a0b0c", true, false, KindBytes, 3},
		{"char:AB", true, true, 0, 0},
		{"int:nope", true, true, 0, 0},
		{"hex:zz", true, true, 0, 0},
		{"plain text", false, false, 0, 0},
		{"url:thing", false, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v, ok, err := ParseLiteral(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			if ok {
				assert.Equal(t, tt.wantKind, v.Kind)
				assert.Equal(t, tt.wantLen, v.Len())
			}
		})
	}
}

func TestFromInput(t *testing.T) {
	v, err := FromInput("A", 1)
	require.NoError(t, err)
	assert.Equal(t, Untyped([]byte{'A'}), v)

	// padded like a realloc to a bigger size
	v, err = FromInput("ab", 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 'b', 0, 0}, v.Data)

	v, err = FromInput("abcdef", 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), v.Data)

	v, err = FromInput("anything", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())

	v, err = FromInput("int:42", 0)
	require.NoError(t, err)
	assert.Equal(t, Int32(42), v)

	v, err = FromInput("double:1", 8)
	require.NoError(t, err)
	assert.Equal(t, KindFloat64, v.Kind)

	_, err = FromInput("int:42", 8)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = FromInput("x", -1)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	v, err = FromInput("x", MaxInputSize)
	require.NoError(t, err)
	assert.Equal(t, MaxInputSize, v.Len())

	for _, size := range []int{MaxInputSize + 1, 1 << 34, 1 << 62} {
		_, err = FromInput("a", size)
		assert.ErrorIs(t, err, common.ErrAllocation, "size %d", size)
	}
}

func TestKindNames(t *testing.T) {
	for k := KindUntyped; k <= KindBytes; k++ {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.False(t, Kind(42).Valid())
	assert.Equal(t, "Unknown(42)", Kind(42).String())

	_, err := ParseKind("complex128")
	assert.Error(t, err)
}

func TestParseFourByteMode(t *testing.T) {
	m, err := ParseFourByteMode("FLOAT")
	require.NoError(t, err)
	assert.Equal(t, FourByteFloat, m)

	m, err = ParseFourByteMode("")
	require.NoError(t, err)
	assert.Equal(t, FourByteInt, m)

	_, err = ParseFourByteMode("double")
	assert.Error(t, err)
}
