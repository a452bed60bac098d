package config

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns the default data directory based on the host OS.
// It prefers standard locations when available and falls back to a dotdir
// in the user's home directory.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}

	// XDG (Linux) override
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "flash-mgr")
	}

	// Common Linux/Unix system dir
	if isDir("/var/lib") {
		return "/var/lib/flash-mgr"
	}

	// macOS: ~/Library/Application Support/FlashMgr
	if isDir(filepath.Join(homeDir, "Library")) {
		return filepath.Join(homeDir, "Library", "Application Support", "FlashMgr")
	}

	// Windows: %USERPROFILE%/AppData/Local/FlashMgr
	if isDir(filepath.Join(homeDir, "AppData")) {
		return filepath.Join(homeDir, "AppData", "Local", "FlashMgr")
	}

	// Fallback: ~/.flash-mgr
	return filepath.Join(homeDir, ".flash-mgr")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
