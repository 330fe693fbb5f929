package rastcore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is the injected key-value boundary between the core and any
// storage backing. The core never touches the filesystem except through
// this interface.
type Store interface {
	// Get returns the stored bytes for key and whether the key existed.
	Get(key string) ([]byte, bool, error)
	// Put stores data under key, replacing any previous value.
	Put(key string, data []byte) error
}

// MemStore is an in-memory Store, primarily for tests.
type MemStore struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{m: map[string][]byte{}}
}

func (s *MemStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.m[key]
	return data, ok, nil
}

func (s *MemStore) Put(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.m[key] = cp
	return nil
}

// DirStore stores one file per key under a directory.
type DirStore struct {
	dir string
}

// NewDirStore creates the directory if needed and returns a DirStore.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *DirStore) Put(key string, data []byte) error {
	return os.WriteFile(s.path(key), data, 0o644)
}

func (s *DirStore) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// sanitizeKey maps a cache key to a safe file name.
func sanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// ResultsCache layers JSON encoding and key construction on a Store.
type ResultsCache struct {
	store Store
}

// NewResultsCache wraps a Store.
func NewResultsCache(store Store) *ResultsCache {
	return &ResultsCache{store: store}
}

func (c *ResultsCache) key(parts ...string) string {
	var b bytes.Buffer
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(p)
	}
	return b.String()
}

// Load returns previously saved results for a drive, if any.
func (c *ResultsCache) Load(driveID string) (*Results, bool, error) {
	data, ok, err := c.store.Get(c.key(driveID, "results"))
	if err != nil || !ok {
		return nil, false, err
	}
	var res Results
	if err := json.Unmarshal(data, &res); err != nil {
		// Corrupted entry behaves like a miss; the drive is reprocessed.
		return nil, false, nil
	}
	return &res, true, nil
}

// Save stores results under the drive's key.
func (c *ResultsCache) Save(res *Results) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return c.store.Put(c.key(res.DriveID, "results"), data)
}
