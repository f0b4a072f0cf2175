package session

import (
	"fmt"
	"log/slog"
	"sync"

	"kvlist-go/internal/codec"
	"kvlist-go/internal/common"
	"kvlist-go/internal/persistence"
	"kvlist-go/internal/snapshot"
	"kvlist-go/internal/store"
	"kvlist-go/internal/value"
)

// ErrSnapshotsDisabled is returned by the snapshot operations of a session
// opened without a catalog.
var ErrSnapshotsDisabled = fmt.Errorf("%w: snapshots are disabled", common.ErrInvalidArgument)

type Option struct {
	// Encoder writes saved files. Nil means the flat binary format.
	Encoder codec.Encoder
	// FourByteAs decides how untyped 4-byte blobs are displayed
	FourByteAs value.FourByteMode
	// Catalog is optional; without it snapshot operations fail
	Catalog *snapshot.Catalog
}

// EntryView is a display-ready copy of one entry
type EntryView struct {
	Key          []byte     `json:"key"`
	KeyKind      value.Kind `json:"-"`
	KeyDisplay   string     `json:"key_display,omitempty"`
	KeyKnown     bool       `json:"-"`
	Value        []byte     `json:"value"`
	ValueKind    value.Kind `json:"-"`
	ValueDisplay string     `json:"value_display,omitempty"`
	ValueKnown   bool       `json:"-"`
}

// Session owns the live store. All methods are safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	store   *store.Store
	encoder codec.Encoder
	mode    value.FourByteMode
	catalog *snapshot.Catalog
}

func New(opts *Option) *Session {
	if opts == nil {
		opts = &Option{}
	}
	enc := opts.Encoder
	if enc == nil {
		enc = codec.NewBinaryEncoder()
	}
	return &Session{
		store:   store.New(),
		encoder: enc,
		mode:    opts.FourByteAs,
		catalog: opts.Catalog,
	}
}

// Insert appends a copy of key and val to the live store
func (s *Session) Insert(key, val value.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.AppendValues(key, val); err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}
	slog.Debug("Inserted entry", "key_len", key.Len(), "value_len", val.Len(), "entries", s.store.Len())
	return nil
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

// Entries returns a view of every entry in insertion order
func (s *Session) Entries() []EntryView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]EntryView, 0, s.store.Len())
	for e := range s.store.All() {
		v := EntryView{
			Key:       e.Key(),
			KeyKind:   e.KeyKind(),
			Value:     e.Value(),
			ValueKind: e.ValueKind(),
		}
		v.KeyDisplay, v.KeyKnown = value.Format(v.KeyKind, v.Key, s.mode)
		v.ValueDisplay, v.ValueKnown = value.Format(v.ValueKind, v.Value, s.mode)
		views = append(views, v)
	}
	return views
}

// FourByteAs reports how untyped 4-byte blobs are displayed
func (s *Session) FourByteAs() value.FourByteMode {
	return s.mode
}

// Save writes the live store to path
func (s *Session) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := persistence.Save(path, s.store, s.encoder); err != nil {
		return err
	}
	slog.Info("Saved store", "path", path, "entries", s.store.Len(), "encoder", s.encoder.Name())
	return nil
}

// Restore loads path and, only if that succeeds, destroys the live store
// and replaces it. The file format is detected.
func (s *Session) Restore(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := persistence.Load(path, nil)
	if err != nil {
		return err
	}
	s.replace(loaded)
	slog.Info("Restored store", "path", path, "entries", loaded.Len())
	return nil
}

func (s *Session) replace(next *store.Store) {
	s.store.Destroy()
	s.store = next
}

// SaveSnapshot stores a copy of the live store in the catalog and
// returns the name used
func (s *Session) SaveSnapshot(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog == nil {
		return "", ErrSnapshotsDisabled
	}
	name, err := s.catalog.Put(name, s.store)
	if err != nil {
		return "", err
	}
	slog.Info("Saved snapshot", "name", name, "entries", s.store.Len())
	return name, nil
}

// RestoreSnapshot replaces the live store with the named snapshot
func (s *Session) RestoreSnapshot(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog == nil {
		return ErrSnapshotsDisabled
	}
	loaded, err := s.catalog.Get(name)
	if err != nil {
		return err
	}
	s.replace(loaded)
	slog.Info("Restored snapshot", "name", name, "entries", loaded.Len())
	return nil
}

// Snapshots lists the snapshot names in the catalog
func (s *Session) Snapshots() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog == nil {
		return nil, ErrSnapshotsDisabled
	}
	return s.catalog.Names()
}

// Close destroys the live store and closes the catalog, if any
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Destroyed() {
		s.store.Destroy()
	}
	if s.catalog != nil {
		if err := s.catalog.Close(); err != nil {
			return fmt.Errorf("failed to close snapshot catalog: %w", err)
		}
		s.catalog = nil
	}
	return nil
}
