package persistence

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kvlist-go/internal/codec"
	"kvlist-go/internal/common"
	"kvlist-go/internal/store"
)

// Save encodes s into path. The data goes to a temporary file in the same
// directory that replaces path only once it is fully written and synced,
// so a failed save leaves any previous file intact.
func Save(path string, s *store.Store, enc codec.Encoder) (err error) {
	if path == "" {
		return fmt.Errorf("%w: empty file name", common.ErrInvalidArgument)
	}
	if enc == nil {
		enc = codec.NewBinaryEncoder()
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmpFile, err := os.CreateTemp(dir, name+".tmp*")
	if err != nil {
		return fmt.Errorf("%w: failed to create file: %w", common.ErrIO, err)
	}
	tmpPath := tmpFile.Name()

	renamed := false
	defer func() {
		if !renamed {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	bufWriter := bufio.NewWriter(tmpFile)
	if err := enc.Encode(bufWriter, s); err != nil {
		return err
	}
	if err := bufWriter.Flush(); err != nil {
		return fmt.Errorf("%w: failed to flush buffer: %w", common.ErrIO, err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("%w: failed to sync file: %w", common.ErrIO, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: failed to close file: %w", common.ErrIO, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: failed to replace %s: %w", common.ErrIO, path, err)
	}
	renamed = true

	slog.Debug("Saved store", "path", path, "entries", s.Len(), "encoder", enc.Name())
	return nil
}

// Load decodes path into a new store. A nil enc detects the format.
func Load(path string, enc codec.Encoder) (*store.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty file name", common.ErrInvalidArgument)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open file: %w", common.ErrIO, err)
	}
	defer file.Close()

	bufReader := bufio.NewReader(file)
	if enc == nil {
		enc = codec.Detect(bufReader)
	}

	s, err := enc.Decode(bufReader)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Debug("Loaded store", "path", path, "entries", s.Len(), "encoder", enc.Name())
	return s, nil
}
