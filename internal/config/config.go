// Package config loads the small JSON configuration STFS demos and tools
// read: a Default baseline, a Load that overlays a file on top of it, and
// a Validate that fills in zero-valued fields and rejects bad combinations.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config controls a single STFS mount's shape and logging.
type Config struct {
	// MediumPath is the file backing the medium. Required for any command
	// other than in-memory tests/benchmarks.
	MediumPath string `json:"medium_path"`

	// MetadataSpaceSize is the number of sectors reserved for the trail +
	// table region.
	MetadataSpaceSize uint32 `json:"metadata_space_size"`

	// AccessesPerShift is the reset value applied to AccessesLeft after
	// every shift.
	AccessesPerShift uint64 `json:"accesses_per_shift"`

	// CompressFilesData enables zstd compression of the per-file metadata
	// payload before it is packed into the table.
	CompressFilesData bool `json:"compress_files_data"`

	// LogFile optionally redirects logging away from stderr.
	LogFile string `json:"log_file"`

	// MetricsListen, if non-empty, serves Prometheus metrics at this
	// address (e.g. "127.0.0.1:9464").
	MetricsListen string `json:"metrics_listen"`
}

// Default returns the baseline configuration for a freshly formatted
// medium: a 10-sector metadata region and 500 accesses per shift.
func Default() Config {
	return Config{
		MediumPath:        "./stfs-medium.img",
		MetadataSpaceSize: 10,
		AccessesPerShift:  500,
		CompressFilesData: false,
		LogFile:           "",
		MetricsListen:     "",
	}
}

// Load reads a JSON config file at path, overlaying it on Default(). An
// empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to path atomically: it creates a temp file alongside path
// and renames it into place, so a crash or concurrent read never observes a
// half-written config.
func (c Config) Save(path string) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".stfs-config-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(b); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmpName, 0o644)

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	ok = true
	return nil
}

// Validate fills in zero-valued fields with their defaults and rejects a
// metadata region of fewer than 2 sectors.
func (c *Config) Validate() error {
	if c.MetadataSpaceSize == 0 {
		c.MetadataSpaceSize = 10
	}
	if c.MetadataSpaceSize < 2 {
		return fmt.Errorf("config: metadata_space_size must be >= 2, got %d", c.MetadataSpaceSize)
	}
	if c.AccessesPerShift == 0 {
		c.AccessesPerShift = 500
	}
	return nil
}
