// Package prefs stores user preferences such as the dashboard theme.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"sync"

	"github.com/Sumatoshi-tech/surveycharts/pkg/persist"
)

// KeyTheme is the preference key holding the theme name.
const KeyTheme = "theme"

// DefaultBasename is the file name (without extension) of a FileStore.
const DefaultBasename = "preferences"

// Store reads and writes string preferences.
type Store interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
}

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]

	return value, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()

	return nil
}

// fileState is the on-disk layout of a FileStore.
type fileState struct {
	Values map[string]string `json:"values" yaml:"values"`
}

// FileStore keeps preferences in a JSON or YAML file shared by every reader.
// A missing file reads as an empty store.
type FileStore struct {
	file persist.File[fileState]

	mu sync.Mutex
}

// NewFileStore creates a store persisting to dir in the given format
// ("json" or "yaml").
func NewFileStore(dir, format string) (*FileStore, error) {
	parsed, err := persist.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("preference store: %w", err)
	}

	return &FileStore{
		file: persist.File[fileState]{Dir: dir, Name: DefaultBasename, Format: parsed},
	}, nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}

	value, ok := values[key]

	return value, ok, nil
}

// Set implements Store.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}

	values[key] = value

	if err := s.file.Save(fileState{Values: values}); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	return nil
}

func (s *FileStore) load() (map[string]string, error) {
	values := make(map[string]string)

	state, err := s.file.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}

	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	maps.Copy(values, state.Values)

	return values, nil
}
