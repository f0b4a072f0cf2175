package session

import (
	"fmt"

	"kvlist-go/internal/codec"
	"kvlist-go/internal/config"
	"kvlist-go/internal/snapshot"
)

// Open builds a session from the application config, opening the
// snapshot catalog when it is enabled.
func Open(cfg *config.AppConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := &Option{
		Encoder:    codec.EncoderFactory(cfg.Store.Codec),
		FourByteAs: cfg.FourByteMode(),
	}

	if cfg.Snapshots.Enabled {
		catalog, err := snapshot.Open(&snapshot.Option{Dir: cfg.Snapshots.Dir})
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot catalog: %w", err)
		}
		opts.Catalog = catalog
	}

	return New(opts), nil
}
