package store

import (
	"bytes"
	"fmt"
	"iter"

	"kvlist-go/internal/common"
	"kvlist-go/internal/value"
)

// ErrDestroyed is returned by every operation on a destroyed store.
var ErrDestroyed = fmt.Errorf("%w: store already destroyed", common.ErrInvalidArgument)

// Entry is one key/value pair owned by a Store.
// next/prev only describe the sequence; they imply no ownership.
type Entry struct {
	key       []byte
	keyKind   value.Kind
	value     []byte
	valueKind value.Kind

	next *Entry
	prev *Entry
}

// Key returns a copy of the key bytes
func (e *Entry) Key() []byte { return bytes.Clone(e.key) }

// Value returns a copy of the value bytes
func (e *Entry) Value() []byte { return bytes.Clone(e.value) }

func (e *Entry) KeyLen() int   { return len(e.key) }
func (e *Entry) ValueLen() int { return len(e.value) }

func (e *Entry) KeyKind() value.Kind   { return e.keyKind }
func (e *Entry) ValueKind() value.Kind { return e.valueKind }

// KeyValue returns a copy of the key with its kind
func (e *Entry) KeyValue() value.Value {
	return value.Value{Kind: e.keyKind, Data: e.Key()}
}

// ValueValue returns a copy of the value with its kind
func (e *Entry) ValueValue() value.Value {
	return value.Value{Kind: e.valueKind, Data: e.Value()}
}

// Next returns the following entry or nil
func (e *Entry) Next() *Entry { return e.next }

// Prev returns the preceding entry or nil
func (e *Entry) Prev() *Entry { return e.prev }

// Store is an append-only, insertion-ordered sequence of entries.
// It is not safe for concurrent use.
type Store struct {
	head  *Entry
	tail  *Entry
	count int

	destroyed bool
}

// New creates an empty store
func New() *Store {
	return &Store{}
}

func (s *Store) check() error {
	if s == nil {
		return fmt.Errorf("%w: nil store", common.ErrInvalidArgument)
	}
	if s.destroyed {
		return ErrDestroyed
	}
	return nil
}

// Append copies key and value into a new untyped entry at the tail.
// A nil slice is rejected; an empty one is a valid zero-length blob.
func (s *Store) Append(key, val []byte) error {
	return s.AppendValues(value.Untyped(key), value.Untyped(val))
}

// AppendValues is Append for tagged blobs.
func (s *Store) AppendValues(key, val value.Value) error {
	if err := s.check(); err != nil {
		return err
	}
	if key.Data == nil || val.Data == nil {
		return fmt.Errorf("%w: nil key or value", common.ErrInvalidArgument)
	}
	if !key.Kind.Valid() || !val.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind", common.ErrInvalidArgument)
	}

	e := &Entry{
		key:       bytes.Clone(key.Data),
		keyKind:   key.Kind,
		value:     bytes.Clone(val.Data),
		valueKind: val.Kind,
		prev:      s.tail,
	}

	if s.tail != nil {
		s.tail.next = e
	} else {
		s.head = e
	}
	s.tail = e
	s.count++
	return nil
}

// Len returns the number of entries. A nil or destroyed store has none.
func (s *Store) Len() int {
	if s.check() != nil {
		return 0
	}
	return s.count
}

// Front returns the first entry or nil
func (s *Store) Front() *Entry {
	if s.check() != nil {
		return nil
	}
	return s.head
}

// Back returns the last entry or nil
func (s *Store) Back() *Entry {
	if s.check() != nil {
		return nil
	}
	return s.tail
}

// All iterates entries from head to tail. Each call starts over.
// Appending while iterating is not supported.
func (s *Store) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for e := s.Front(); e != nil; e = e.next {
			if !yield(e) {
				return
			}
		}
	}
}

// Destroyed reports whether Destroy was called
func (s *Store) Destroyed() bool {
	return s != nil && s.destroyed
}

// Destroy releases every entry. The store must not be used afterwards;
// a second call returns ErrDestroyed.
func (s *Store) Destroy() error {
	if err := s.check(); err != nil {
		return err
	}

	for e := s.head; e != nil; {
		next := e.next
		e.key, e.value = nil, nil
		e.next, e.prev = nil, nil
		e = next
	}
	s.head, s.tail = nil, nil
	s.count = 0
	s.destroyed = true
	return nil
}
