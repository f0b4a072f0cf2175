package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"kvlist-go/internal/codec"
	"kvlist-go/internal/common"
	"kvlist-go/internal/store"

	"github.com/google/uuid"
	"github.com/nutsdb/nutsdb"
)

const bucketSnapshots = "snapshots"

// ErrNotFound is returned when no snapshot has the requested name
var ErrNotFound = errors.New("snapshot not found")

type Option struct {
	Dir string `toml:"dir"`
}

// Catalog keeps encoded stores under names in a nutsdb bucket. Stores are
// encoded with the tagged format so blob kinds survive a round trip.
type Catalog struct {
	db      *nutsdb.DB
	encoder codec.Encoder
}

// Open opens or creates the catalog in opts.Dir
func Open(opts *Option) (*Catalog, error) {
	if opts == nil || opts.Dir == "" {
		return nil, fmt.Errorf("%w: snapshot dir is required", common.ErrInvalidArgument)
	}

	nutsdbOpts := nutsdb.DefaultOptions
	nutsdbOpts.Dir = opts.Dir
	nutsdbOpts.EntryIdxMode = nutsdb.HintKeyValAndRAMIdxMode
	nutsdbOpts.SegmentSize = 8 * 1024 * 1024

	db, err := nutsdb.Open(nutsdbOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open nutsdb: %w", common.ErrIO, err)
	}

	if err = db.Update(func(tx *nutsdb.Tx) error {
		if tx.ExistBucket(nutsdb.DataStructureBTree, bucketSnapshots) {
			return nil
		}
		return tx.NewBucket(nutsdb.DataStructureBTree, bucketSnapshots)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create bucket %s: %w", common.ErrIO, bucketSnapshots, err)
	}

	return &Catalog{
		db:      db,
		encoder: codec.NewTaggedEncoder(),
	}, nil
}

// Put stores s under name, replacing any snapshot with that name. An
// empty name gets a generated one. The name used is returned.
func (c *Catalog) Put(name string, s *store.Store) (string, error) {
	if name == "" {
		name = uuid.NewString()
	}

	var buf bytes.Buffer
	if err := c.encoder.Encode(&buf, s); err != nil {
		return "", err
	}

	err := c.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Put(bucketSnapshots, []byte(name), buf.Bytes(), 0) // 0 means no TTL
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to put snapshot %s: %w", common.ErrIO, name, err)
	}

	slog.Debug("Stored snapshot", "name", name, "entries", s.Len(), "bytes", buf.Len())
	return name, nil
}

// Get decodes the snapshot called name into a new store
func (c *Catalog) Get(name string) (*store.Store, error) {
	var data []byte

	err := c.db.View(func(tx *nutsdb.Tx) error {
		value, err := tx.Get(bucketSnapshots, []byte(name))
		if err != nil {
			return err
		}
		data = bytes.Clone(value)
		return nil
	})
	if err != nil {
		if errors.Is(err, nutsdb.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: failed to get snapshot %s: %w", common.ErrIO, name, err)
	}

	s, err := c.encoder.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}
	return s, nil
}

// Names returns the snapshot names in ascending order
func (c *Catalog) Names() ([]string, error) {
	var names []string

	err := c.db.View(func(tx *nutsdb.Tx) error {
		keys, _, err := tx.GetAll(bucketSnapshots)
		if err != nil {
			return err
		}
		for _, k := range keys {
			names = append(names, string(k))
		}
		return nil
	})
	if err != nil && !errors.Is(err, nutsdb.ErrBucketEmpty) {
		return nil, fmt.Errorf("%w: failed to list snapshots: %w", common.ErrIO, err)
	}

	slices.Sort(names)
	return names, nil
}

// Delete removes the snapshot called name
func (c *Catalog) Delete(name string) error {
	err := c.db.Update(func(tx *nutsdb.Tx) error {
		if _, err := tx.Get(bucketSnapshots, []byte(name)); err != nil {
			return err
		}
		return tx.Delete(bucketSnapshots, []byte(name))
	})
	if err != nil {
		if errors.Is(err, nutsdb.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("%w: failed to delete snapshot %s: %w", common.ErrIO, name, err)
	}
	return nil
}

// Close closes the database
func (c *Catalog) Close() error {
	return c.db.Close()
}
