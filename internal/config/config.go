package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Bounds for validated numeric settings.
const (
	MinDataSize        = 1024
	MaxDataSize        = 16 * 1024 * 1024
	MinChunkBufferSize = 1024
	MaxChunkBufferSize = 64 * 1024
)

// Config is the engine configuration, immutable once an engine is opened.
type Config struct {
	// DataDir is the directory holding both files. Empty means the OS-specific
	// default application data directory.
	DataDir string `json:"dataDir" yaml:"dataDir"`
	// DataFile is the record file name, joined with DataDir unless absolute.
	DataFile string `json:"dataFile" yaml:"dataFile"`
	// MetaFile is the ledger file name, joined with DataDir unless absolute.
	MetaFile string `json:"metaFile" yaml:"metaFile"`
	// MaxDataSize caps the record file in bytes.
	MaxDataSize uint32 `json:"maxDataSize" yaml:"maxDataSize"`
	// ChunkBufferSize bounds the working buffer used during compaction.
	ChunkBufferSize int `json:"chunkBufferSize" yaml:"chunkBufferSize"`
	// FormatOnInit wipes both files when the engine opens.
	FormatOnInit bool `json:"formatOnInit" yaml:"formatOnInit"`
	// AutoCleanup enables threshold-driven eviction after appends.
	AutoCleanup bool `json:"autoCleanup" yaml:"autoCleanup"`
	// CleanupThreshold triggers auto cleanup at this usage ratio (0..1).
	CleanupThreshold float64 `json:"cleanupThreshold" yaml:"cleanupThreshold"`
	// CleanupTarget is the usage ratio to evict down to (0..1). Must be below
	// CleanupThreshold.
	CleanupTarget float64 `json:"cleanupTarget" yaml:"cleanupTarget"`
}

// Default returns built-in defaults mirroring the reference deployment:
// 12 MiB cap, 4 KiB chunk buffer, cleanup at 95% down to 75%.
func Default() Config {
	return Config{
		DataFile:         "data.bin",
		MetaFile:         "meta.bin",
		MaxDataSize:      12 * 1024 * 1024,
		ChunkBufferSize:  4096,
		FormatOnInit:     false,
		AutoCleanup:      true,
		CleanupThreshold: 0.95,
		CleanupTarget:    0.75,
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate checks bounds on all numeric settings and that both file paths are
// set.
func (c Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("dataFile must not be empty")
	}
	if c.MetaFile == "" {
		return fmt.Errorf("metaFile must not be empty")
	}
	if c.DataPath() == c.MetaPath() {
		return fmt.Errorf("dataFile and metaFile must differ")
	}
	if c.MaxDataSize < MinDataSize || c.MaxDataSize > MaxDataSize {
		return fmt.Errorf("maxDataSize %d out of range [%d, %d]", c.MaxDataSize, MinDataSize, MaxDataSize)
	}
	if c.ChunkBufferSize < MinChunkBufferSize || c.ChunkBufferSize > MaxChunkBufferSize {
		return fmt.Errorf("chunkBufferSize %d out of range [%d, %d]", c.ChunkBufferSize, MinChunkBufferSize, MaxChunkBufferSize)
	}
	if c.CleanupThreshold < 0 || c.CleanupThreshold > 1 {
		return fmt.Errorf("cleanupThreshold %v out of range [0, 1]", c.CleanupThreshold)
	}
	if c.CleanupTarget < 0 || c.CleanupTarget > 1 {
		return fmt.Errorf("cleanupTarget %v out of range [0, 1]", c.CleanupTarget)
	}
	if c.CleanupThreshold <= c.CleanupTarget {
		return fmt.Errorf("cleanupThreshold %v must exceed cleanupTarget %v", c.CleanupThreshold, c.CleanupTarget)
	}
	return nil
}

// DataPath returns the resolved record file path.
func (c Config) DataPath() string { return c.resolve(c.DataFile) }

// MetaPath returns the resolved ledger file path.
func (c Config) MetaPath() string { return c.resolve(c.MetaFile) }

func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	dir := c.DataDir
	if dir == "" {
		dir = DefaultDataDir()
	}
	return filepath.Join(dir, name)
}
