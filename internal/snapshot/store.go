// Package snapshot persists chart exports saved from the dashboard.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/f1-dashboard/backend/internal/models"
)

// Store defines the interface for snapshot storage.
type Store interface {
	Save(chart, title string, payload json.RawMessage) (*models.SnapshotInfo, error)
	Get(id string) (*models.SnapshotInfo, error)
	Read(id string) (*Envelope, error)
	List(limit int) ([]*models.SnapshotInfo, error)
	Delete(id string) error
}

// Envelope is the on-disk snapshot format: metadata plus the chart
// payload exactly as the chart endpoint produced it.
type Envelope struct {
	ID      string          `json:"id"`
	Chart   string          `json:"chart"`
	Title   string          `json:"title"`
	SavedAt time.Time       `json:"savedAt"`
	Payload json.RawMessage `json:"payload"`
}

// LocalStore implements Store using the local filesystem. The index is
// rebuilt from disk on startup so snapshots survive restarts.
type LocalStore struct {
	mu        sync.RWMutex
	dir       string
	snapshots map[string]*models.SnapshotInfo
}

// NewLocalStore creates a LocalStore rooted at dir and indexes any
// snapshots already present.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshots directory: %w", err)
	}

	s := &LocalStore{
		dir:       dir,
		snapshots: make(map[string]*models.SnapshotInfo),
	}
	if err := s.reindex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) reindex() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading snapshots directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.ID == "" {
			// Not one of ours, leave it alone.
			continue
		}
		s.snapshots[env.ID] = &models.SnapshotInfo{
			ID:      env.ID,
			Chart:   env.Chart,
			Title:   env.Title,
			Size:    int64(len(data)),
			SavedAt: env.SavedAt,
		}
	}
	return nil
}

func (s *LocalStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes a new snapshot to disk.
func (s *LocalStore) Save(chart, title string, payload json.RawMessage) (*models.SnapshotInfo, error) {
	env := Envelope{
		ID:      uuid.New().String(),
		Chart:   chart,
		Title:   title,
		SavedAt: time.Now().UTC(),
		Payload: payload,
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(s.path(env.ID), data, 0644); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}

	info := &models.SnapshotInfo{
		ID:      env.ID,
		Chart:   env.Chart,
		Title:   env.Title,
		Size:    int64(len(data)),
		SavedAt: env.SavedAt,
	}

	s.mu.Lock()
	s.snapshots[info.ID] = info
	s.mu.Unlock()

	return info, nil
}

// Get retrieves snapshot metadata by ID.
func (s *LocalStore) Get(id string) (*models.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.snapshots[id]
	if !ok {
		return nil, fmt.Errorf("snapshot not found: %s", id)
	}
	return info, nil
}

// Read loads a full snapshot envelope from disk.
func (s *LocalStore) Read(id string) (*Envelope, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	env := &Envelope{}
	if err := json.Unmarshal(data, env); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return env, nil
}

// List returns the most recent snapshots.
func (s *LocalStore) List(limit int) ([]*models.SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.SnapshotInfo, 0, len(s.snapshots))
	for _, info := range s.snapshots {
		list = append(list, info)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].SavedAt.After(list[j].SavedAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// Delete removes a snapshot from disk and the index.
func (s *LocalStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[id]; !ok {
		return fmt.Errorf("snapshot not found: %s", id)
	}

	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	delete(s.snapshots, id)
	return nil
}
