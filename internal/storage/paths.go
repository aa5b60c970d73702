// Package storage persists the checkable-range index between runs, either in
// a BadgerDB database or in a plain-text file.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessrules"

// RangeFileName is the file the text store writes inside the data directory.
const RangeFileName = "CheckableRange.txt"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/chessrules/
// - Linux: ~/.local/share/chessrules/
// - Windows: %APPDATA%/chessrules/
func GetDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Linux and other Unix-like: XDG_DATA_HOME or ~/.local/share/
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	return ensureDir(filepath.Join(baseDir, appName))
}

// ResolveDataDir returns override when set, else the platform directory.
// Either way the directory exists on return.
func ResolveDataDir(override string) (string, error) {
	if override == "" {
		return GetDataDir()
	}
	return ensureDir(override)
}

// GetDatabaseDir returns the BadgerDB directory inside dataDir.
func GetDatabaseDir(dataDir string) (string, error) {
	return ensureDir(filepath.Join(dataDir, "db"))
}

// RangeFilePath returns the path of the text store inside dataDir.
func RangeFilePath(dataDir string) string {
	return filepath.Join(dataDir, RangeFileName)
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
