package config

import (
	"os"
	"strconv"
)

// FromEnv overlays FLASHMGR_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("FLASHMGR_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FLASHMGR_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("FLASHMGR_META_FILE"); v != "" {
		cfg.MetaFile = v
	}
	if v := os.Getenv("FLASHMGR_MAX_DATA_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.MaxDataSize = uint32(n)
		}
	}
	if v := os.Getenv("FLASHMGR_CHUNK_BUFFER_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ChunkBufferSize = n
		}
	}
	if v := os.Getenv("FLASHMGR_FORMAT_ON_INIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.FormatOnInit = b
		}
	}
	if v := os.Getenv("FLASHMGR_AUTO_CLEANUP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AutoCleanup = b
		}
	}
	if v := os.Getenv("FLASHMGR_CLEANUP_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.CleanupThreshold = f
		}
	}
	if v := os.Getenv("FLASHMGR_CLEANUP_TARGET"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.CleanupTarget = f
		}
	}
}
