// Package reset clears the catalog server's on-disk state before a run so
// every scenario starts from an empty catalog.
package reset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
)

// DefaultStateFile is where a catalog server started with its default
// database root keeps its state.
const DefaultStateFile = "database/catalog.namespace"

// Result describes what the reset did.
type Result struct {
	Path    string `json:"path" yaml:"path"`
	Removed bool   `json:"removed" yaml:"removed"`
	Skipped bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Message is the line reported to the operator.
func (r Result) Message() string {
	switch {
	case r.Skipped:
		return "Catalog reset skipped"
	case r.Removed:
		return "Removed catalog file"
	default:
		return "Catalog file does not exist"
	}
}

// StateFile removes the catalog state file at path if it exists. A missing
// file is not an error and leaves the filesystem untouched. An empty path
// skips the reset.
func StateFile(path string) (Result, error) {
	result := Result{Path: path}
	if path == "" {
		result.Skipped = true
		return result, nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("catalog state file not present")
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("checking catalog state file: %w", err)
	}
	if info.IsDir() {
		return result, fmt.Errorf("catalog state path %s is a directory", path)
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, nil
		}
		return result, fmt.Errorf("removing catalog state file: %w", err)
	}

	log.Debug().Str("path", path).Msg("removed catalog state file")
	result.Removed = true
	return result, nil
}
