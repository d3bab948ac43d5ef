package library

import (
	"fmt"
	"os"
	"path/filepath"

	lib "github.com/olympiadforge/forge/internal/library"
)

// exportLibrary writes the library backup to name in the working
// directory and returns its absolute path.
func exportLibrary(l *lib.Library, name string) (string, error) {
	data, err := l.Export()
	if err != nil {
		return "", err
	}
	path, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// writeSolutionPage renders p as a standalone HTML page in the temp
// directory and returns the file path.
func writeSolutionPage(p lib.Problem) (string, error) {
	f, err := os.CreateTemp("", "olympiad-forge-*.html")
	if err != nil {
		return "", fmt.Errorf("create solution page: %w", err)
	}
	if err := lib.RenderHTML(f, p); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}
