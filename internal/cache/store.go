package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const cacheFileExtension = ".json"

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// FileStore stores response bodies as one JSON file per key. It is safe for
// concurrent use.
type FileStore struct {
	directory  string
	enabled    bool
	ttlSeconds int
	now        func() time.Time

	mu sync.RWMutex
}

// NewFileStore creates the store, creating directory if needed. A disabled
// store is valid and answers every call with ErrCacheDisabled.
func NewFileStore(directory string, enabled bool, ttlSeconds int) (*FileStore, error) {
	if !enabled {
		return &FileStore{now: time.Now}, nil
	}
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
		now:        time.Now,
	}, nil
}

// SetClock replaces the time source used for stamping and expiry.
func (s *FileStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get returns a fresh entry. Expired entries yield ErrCacheExpired.
func (s *FileStore) Get(key string) (*Entry, error) {
	entry, err := s.GetStale(key)
	if err != nil {
		return nil, err
	}
	if entry.ExpiredAt(s.clock()) {
		return nil, ErrCacheExpired
	}
	return entry, nil
}

// GetStale returns the entry for key whether or not it has expired.
func (s *FileStore) GetStale(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrCacheDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.keyToFilePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

// Set stores data under key, replacing any previous entry.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entryData, err := json.Marshal(NewEntry(key, data, s.ttlSeconds, s.now()))
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	filePath := s.keyToFilePath(key)
	tempPath := filePath + ".tmp"
	if err = os.WriteFile(tempPath, entryData, 0600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err = os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyToFilePath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (s *FileStore) Clear() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	err := s.eachFile(func(path string, _ os.DirEntry) error {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove cache file %s: %w", filepath.Base(path), err)
		}
		removed++
		return nil
	})
	return removed, err
}

// CleanupExpired removes expired entries and returns how many were removed.
// Unreadable files are skipped.
func (s *FileStore) CleanupExpired() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	err := s.eachFile(func(path string, _ os.DirEntry) error {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		var entry Entry
		if json.Unmarshal(data, &entry) != nil {
			return nil
		}
		if entry.ExpiredAt(now) && os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed, err
}

// Stats describes the store's contents.
type Stats struct {
	Directory  string
	Entries    int
	TotalBytes int64
	TTLSeconds int
}

// Stats counts entries and their total size on disk.
func (s *FileStore) Stats() (Stats, error) {
	if !s.enabled {
		return Stats{}, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Directory: s.directory, TTLSeconds: s.ttlSeconds}
	err := s.eachFile(func(_ string, d os.DirEntry) error {
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		st.Entries++
		st.TotalBytes += info.Size()
		return nil
	})
	return st, err
}

// IsEnabled reports whether caching is active.
func (s *FileStore) IsEnabled() bool {
	return s.enabled
}

// Directory returns the cache directory path.
func (s *FileStore) Directory() string {
	return s.directory
}

func (s *FileStore) clock() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

// eachFile calls fn for every cache file in the directory. Callers hold mu.
func (s *FileStore) eachFile(fn func(path string, d os.DirEntry) error) error {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, d := range entries {
		if d.IsDir() || filepath.Ext(d.Name()) != cacheFileExtension {
			continue
		}
		if err = fn(filepath.Join(s.directory, d.Name()), d); err != nil {
			return err
		}
	}
	return nil
}

// keyToFilePath maps key to a file name safe on every platform.
func (s *FileStore) keyToFilePath(key string) string {
	safeKey := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.directory, safeKey+cacheFileExtension)
}
