package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/quickcash/loan-origination/internal/domain/model"
)

// ErrSnapshotNotFound is returned when no snapshot exists for an ID.
var ErrSnapshotNotFound = errors.New("review snapshot not found")

// FileStore implements port.ReviewStore on the local filesystem, one JSON
// file per snapshot. The manual review queue is low volume and reviewers
// want greppable artifacts, so files beat a table here.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the store, making the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "review-queue"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create review directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(snapshotID string) string {
	return filepath.Join(s.dir, snapshotID+".json")
}

// Save writes the snapshot and returns its ID.
func (s *FileStore) Save(_ context.Context, snap model.ReviewSnapshot) (string, error) {
	if snap.SnapshotID == "" {
		return "", errors.New("snapshot ID is required")
	}
	if strings.ContainsAny(snap.SnapshotID, `/\`) {
		return "", fmt.Errorf("invalid snapshot ID %q", snap.SnapshotID)
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path(snap.SnapshotID), raw, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return snap.SnapshotID, nil
}

// Get loads a snapshot by ID.
func (s *FileStore) Get(_ context.Context, snapshotID string) (model.ReviewSnapshot, error) {
	if strings.ContainsAny(snapshotID, `/\`) {
		return model.ReviewSnapshot{}, fmt.Errorf("invalid snapshot ID %q", snapshotID)
	}

	s.mu.Lock()
	raw, err := os.ReadFile(s.path(snapshotID))
	s.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return model.ReviewSnapshot{}, ErrSnapshotNotFound
		}
		return model.ReviewSnapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap model.ReviewSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return model.ReviewSnapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// List returns the IDs of all archived snapshots.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return ids, nil
}
