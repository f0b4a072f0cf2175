package store

import (
	"fmt"
	"testing"

	"kvlist-go/internal/common"
	"kvlist-go/internal/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPair struct {
	key   []byte
	value []byte
}

func genPairs(n int) []testPair {
	pairs := make([]testPair, n)
	for i := range pairs {
		pairs[i] = testPair{
			key:   []byte(fmt.Sprintf("key-%d", i)),
			value: make([]byte, i%9),
		}
		for j := range pairs[i].value {
			pairs[i].value[j] = byte(i + j)
		}
	}
	return pairs
}

func collect(s *Store) []testPair {
	var got []testPair
	for e := range s.All() {
		got = append(got, testPair{key: e.Key(), value: e.Value()})
	}
	return got
}

func TestAppendThenIterate(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 250} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s := New()
			pairs := genPairs(n)
			for _, p := range pairs {
				require.NoError(t, s.Append(p.key, p.value))
			}

			assert.Equal(t, n, s.Len())
			got := collect(s)
			require.Len(t, got, n)
			for i := range pairs {
				assert.Equal(t, pairs[i].key, got[i].key, "entry %d key", i)
				assert.Equal(t, pairs[i].value, got[i].value, "entry %d value", i)
			}
		})
	}
}

func TestHeadTailInvariant(t *testing.T) {
	s := New()
	assert.Nil(t, s.Front())
	assert.Nil(t, s.Back())

	require.NoError(t, s.Append([]byte("a"), []byte("1")))
	require.NotNil(t, s.Front())
	assert.Same(t, s.Front(), s.Back())
	assert.Nil(t, s.Front().Prev())
	assert.Nil(t, s.Front().Next())

	require.NoError(t, s.Append([]byte("b"), []byte("2")))
	require.NoError(t, s.Append([]byte("c"), []byte("3")))

	// walk backwards from the tail
	var keys []string
	for e := s.Back(); e != nil; e = e.Prev() {
		keys = append(keys, string(e.Key()))
	}
	assert.Equal(t, []string{"c", "b", "a"}, keys)

	reachable := 0
	for e := s.Front(); e != nil; e = e.Next() {
		reachable++
	}
	assert.Equal(t, s.Len(), reachable)
}

func TestAppendCopiesInput(t *testing.T) {
	s := New()
	key := []byte{0x41}
	val := []byte{0x01, 0x00, 0x00, 0x00}
	require.NoError(t, s.Append(key, val))

	key[0] = 'Z'
	val[0] = 0xff

	e := s.Front()
	assert.Equal(t, []byte{0x41}, e.Key())
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, e.Value())
	assert.Equal(t, 1, e.KeyLen())
	assert.Equal(t, 4, e.ValueLen())

	// returned slices are copies too
	e.Key()[0] = 'Q'
	assert.Equal(t, []byte{0x41}, e.Key())
}

func TestAppendEmptyBlobs(t *testing.T) {
	s := New()
	require.NoError(t, s.Append([]byte{}, []byte("v")))
	require.NoError(t, s.Append([]byte("k"), []byte{}))
	require.NoError(t, s.Append([]byte{}, []byte{}))

	assert.Equal(t, 3, s.Len())
	lens := [][2]int{}
	for e := range s.All() {
		lens = append(lens, [2]int{e.KeyLen(), e.ValueLen()})
	}
	assert.Equal(t, [][2]int{{0, 1}, {1, 0}, {0, 0}}, lens)
}

func TestAppendRejectsInvalidArguments(t *testing.T) {
	s := New()
	require.NoError(t, s.Append([]byte("a"), []byte("1")))

	tests := []struct {
		name  string
		store *Store
		key   []byte
		value []byte
	}{
		{"nil store", nil, []byte("k"), []byte("v")},
		{"nil key", s, nil, []byte("v")},
		{"nil value", s, []byte("k"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.store.Append(tt.key, tt.value)
			assert.ErrorIs(t, err, common.ErrInvalidArgument)
		})
	}

	// nothing was linked by the failed calls
	assert.Equal(t, 1, s.Len())
	assert.Same(t, s.Front(), s.Back())

	err := s.AppendValues(value.Value{Kind: value.Kind(99), Data: []byte{1}}, value.Untyped([]byte{1}))
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	assert.Equal(t, 1, s.Len())
}

func TestAppendValuesKeepsKinds(t *testing.T) {
	s := New()
	require.NoError(t, s.AppendValues(value.Char('x'), value.Float32(1.25)))
	require.NoError(t, s.Append([]byte("raw"), []byte{1, 2, 3, 4}))

	e := s.Front()
	assert.Equal(t, value.KindChar, e.KeyKind())
	assert.Equal(t, value.KindFloat32, e.ValueKind())
	assert.Equal(t, value.Float32(1.25), e.ValueValue())

	e = e.Next()
	assert.Equal(t, value.KindUntyped, e.KeyKind())
	assert.Equal(t, value.KindUntyped, e.ValueKind())
	assert.Equal(t, value.Untyped([]byte("raw")), e.KeyValue())
}

func TestIterateIsRestartable(t *testing.T) {
	s := New()
	for _, p := range genPairs(5) {
		require.NoError(t, s.Append(p.key, p.value))
	}

	first := collect(s)
	second := collect(s)
	assert.Equal(t, first, second)

	// early stop does not disturb later iterations
	seen := 0
	for range s.All() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
	assert.Len(t, collect(s), 5)
}

func TestDestroy(t *testing.T) {
	s := New()
	for _, p := range genPairs(10) {
		require.NoError(t, s.Append(p.key, p.value))
	}
	first := s.Front()

	require.NoError(t, s.Destroy())
	assert.True(t, s.Destroyed())
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Front())
	assert.Nil(t, s.Back())
	assert.Nil(t, first.Next(), "links are released")

	err := s.Destroy()
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	err = s.Append([]byte("k"), []byte("v"))
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.Empty(t, collect(s))
}

func TestDestroyEmpty(t *testing.T) {
	s := New()
	require.NoError(t, s.Destroy())
	assert.True(t, s.Destroyed())

	var nilStore *Store
	assert.ErrorIs(t, nilStore.Destroy(), common.ErrInvalidArgument)
	assert.False(t, nilStore.Destroyed())
	assert.Equal(t, 0, nilStore.Len())
}
