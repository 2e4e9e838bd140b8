package note

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ScanVault walks a vault directory and returns every markdown note,
// skipping hidden directories (.obsidian and friends).
func ScanVault(vaultDir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(vaultDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != vaultDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault %s: %w", vaultDir, err)
	}

	return paths, nil
}

// Read loads and parses a note from disk.
func Read(path string) (*Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read note %s: %w", path, err)
	}
	return Parse(path, string(data))
}

// Write saves a note back to disk with the file mode notes are normally
// created with.
func Write(n *Note) error {
	if err := os.WriteFile(n.Path, []byte(n.Render()), 0644); err != nil {
		return fmt.Errorf("failed to write note %s: %w", n.Path, err)
	}
	return nil
}
