package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tenderflow/pkg/models"
)

// FileSnapshots loads workspaces from <Dir>/<workspace>.json. It serves local
// runs and deployments without a database.
type FileSnapshots struct {
	Dir string
}

// NewFileSnapshots creates a file loader rooted at dir.
func NewFileSnapshots(dir string) *FileSnapshots {
	return &FileSnapshots{Dir: dir}
}

// Load reads and decodes the workspace file.
func (f *FileSnapshots) Load(ctx context.Context, workspace string) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workspace == "" || strings.ContainsAny(workspace, `/\`) || strings.HasPrefix(workspace, ".") {
		return nil, fmt.Errorf("invalid workspace name %q", workspace)
	}

	path := filepath.Join(f.Dir, workspace+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("workspace %s: %w", workspace, ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return DecodeSnapshot(data, workspace)
}

// Save writes the snapshot as indented JSON, creating Dir when needed.
func (f *FileSnapshots) Save(ctx context.Context, workspace string, snap *models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return os.WriteFile(filepath.Join(f.Dir, workspace+".json"), data, 0o644)
}

// DecodeSnapshot parses a snapshot document. An empty Workspace field is
// filled with the given name.
func DecodeSnapshot(data []byte, workspace string) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Workspace == "" {
		snap.Workspace = workspace
	}
	return &snap, nil
}

// Hybrid reads from Primary and falls back to Fallback when the workspace is
// not found there. Either may be nil.
type Hybrid struct {
	Primary  SnapshotLoader
	Fallback SnapshotLoader
}

// Load implements SnapshotLoader.
func (h *Hybrid) Load(ctx context.Context, workspace string) (*models.Snapshot, error) {
	if h.Primary != nil {
		snap, err := h.Primary.Load(ctx, workspace)
		if err == nil {
			return snap, nil
		}
		if h.Fallback == nil || !errors.Is(err, ErrSnapshotNotFound) {
			return nil, err
		}
	}
	if h.Fallback == nil {
		return nil, fmt.Errorf("workspace %s: %w", workspace, ErrSnapshotNotFound)
	}
	return h.Fallback.Load(ctx, workspace)
}
