// File: internal/analyzer/discovery.go
package analyzer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xkilldash9x/archlens-cli/api/schemas"
)

// frameworkMarkers are the content substrings that tag a file as an API
// component.
var frameworkMarkers = []string{"fastapi", "flask", "django"}

// discoverFiles walks the repository for source files, excluding any whose
// stem contains "test" (case-insensitive) from the primary analysis set.
// Results are sorted so repeated runs visit files in the same order.
func (a *Analyzer) discoverFiles() ([]string, error) {
	ext := a.cfg.Analysis.SourceExtension
	var files []string

	err := filepath.WalkDir(a.repo.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ext {
			return nil
		}
		if strings.Contains(strings.ToLower(stem(path)), "test") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// classifyFile reads a file and tags it by the first matching heuristic:
// "test" in the stem, a framework marker in the content, "model" in the
// stem, else module. The test branch cannot fire for files that came
// through discoverFiles; it is kept for callers classifying arbitrary
// paths. Read errors propagate and abort the run.
func (a *Analyzer) classifyFile(path string) ([]byte, schemas.ComponentType, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	name := strings.ToLower(stem(path))
	lowered := strings.ToLower(string(content))

	switch {
	case strings.Contains(name, "test"):
		return content, schemas.ComponentTest, nil
	case containsAnyMarker(lowered, frameworkMarkers):
		return content, schemas.ComponentAPI, nil
	case strings.Contains(name, "model"):
		return content, schemas.ComponentModel, nil
	default:
		return content, schemas.ComponentModule, nil
	}
}

func containsAnyMarker(content string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}
