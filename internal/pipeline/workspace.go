// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Workspace is the per-run temporary directory holding OCR output. It is
// acquired once at start and must be released on every exit path; Remove
// is safe to call from both a defer and a signal handler.
type Workspace struct {
	dir  string
	once sync.Once
}

// NewWorkspace creates the temporary directory.
func NewWorkspace() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "refile-*")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Path returns the workspace path for name.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Remove deletes the workspace recursively. Subsequent calls are no-ops.
func (w *Workspace) Remove() {
	w.once.Do(func() {
		os.RemoveAll(w.dir)
	})
}
