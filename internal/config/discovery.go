package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateDir is the per-project directory holding config.yaml and history.db
const StateDir = ".cubic"

// FindProjectRoot walks up from startDir looking for a .cubic directory and
// returns the directory containing it. When none is found, startDir itself
// (made absolute) is the project root.
func FindProjectRoot(startDir string) (string, error) {
	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for dir := start; ; {
		if info, err := os.Stat(filepath.Join(dir, StateDir)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// reached filesystem root
			return start, nil
		}
		dir = parent
	}
}

// DiscoverProjectRoot runs FindProjectRoot from the working directory
func DiscoverProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return FindProjectRoot(dir)
}

// ResolveDBPath anchors a relative history path at projectRoot.
// ":memory:" and absolute paths are returned unchanged.
func ResolveDBPath(projectRoot, dbPath string) string {
	if dbPath == ":memory:" || filepath.IsAbs(dbPath) {
		return dbPath
	}
	return filepath.Join(projectRoot, dbPath)
}
