package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"kvlist-go/internal/codec"
	"kvlist-go/internal/common"
	"kvlist-go/internal/value"

	"github.com/BurntSushi/toml"
)

const DefaultPath = "config.toml"

type AppConfig struct {
	Store     StoreConfig     `toml:"store"`
	Snapshots SnapshotsConfig `toml:"snapshots"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

type StoreConfig struct {
	// Codec used when saving: binary, tagged or text
	Codec       string `toml:"codec"`
	DefaultFile string `toml:"default_file"`
	// FourByteAs is "int" or "float"
	FourByteAs string `toml:"four_byte_as"`
}

type SnapshotsConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type ServerConfig struct {
	EntriesURL string `toml:"entries_url"`
	// DataDir holds the files named by /save and /restore requests
	DataDir  string `toml:"data_dir"`
	Port     uint16 `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// LogConfig applies to the console program, which logs to stderr
type LogConfig struct {
	Level string `toml:"level"`
}

func Default() *AppConfig {
	return &AppConfig{
		Store: StoreConfig{
			Codec:       codec.BinaryName,
			DefaultFile: "kvlist.bin",
			FourByteAs:  "int",
		},
		Snapshots: SnapshotsConfig{
			Enabled: false,
			Dir:     "snapshots",
		},
		Server: ServerConfig{
			EntriesURL: "/entries",
			DataDir:    "data",
			Port:       8080,
			LogLevel:   "info",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*AppConfig, error) {
	config := Default()
	if path == "" {
		path = DefaultPath
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *AppConfig) Validate() error {
	if !codec.IsKnown(c.Store.Codec) {
		return fmt.Errorf("%w: unknown codec %q, want one of %s", common.ErrInvalidArgument, c.Store.Codec, strings.Join(codec.Names(), ", "))
	}
	if _, err := value.ParseFourByteMode(c.Store.FourByteAs); err != nil {
		return err
	}
	if c.Snapshots.Enabled && c.Snapshots.Dir == "" {
		return fmt.Errorf("%w: snapshots enabled without a dir", common.ErrInvalidArgument)
	}
	if c.Server.DataDir == "" {
		return fmt.Errorf("%w: server data_dir is required", common.ErrInvalidArgument)
	}
	if !strings.HasPrefix(c.Server.EntriesURL, "/") {
		return fmt.Errorf("%w: entries_url must start with '/', got %q", common.ErrInvalidArgument, c.Server.EntriesURL)
	}
	return nil
}

// FourByteMode returns the parsed four_byte_as setting
func (c *AppConfig) FourByteMode() value.FourByteMode {
	mode, _ := value.ParseFourByteMode(c.Store.FourByteAs)
	return mode
}
