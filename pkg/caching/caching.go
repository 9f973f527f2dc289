// Package caching provides the in-memory description store: the default
// store for tests and for runs that opt out of the on-disk database.
package caching

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/repolens/repolens/models"
)

// DefaultSize bounds the cache when the caller does not.
const DefaultSize = 1024

// MemoryStore keeps description records in an LRU map keyed by repository
// URL. Save is a wholesale upsert; a find after a save for the same key
// always observes that save.
type MemoryStore struct {
	cache *lru.Cache[string, models.DescriptionRecord]
}

// NewMemoryStore creates a store bounded to size entries.
func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, models.DescriptionRecord](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &MemoryStore{cache: cache}, nil
}

// SaveDescription upserts the record, overwriting any previous value for
// the same repository URL.
func (s *MemoryStore) SaveDescription(record *models.DescriptionRecord) error {
	s.cache.Add(record.RepoURL, cloneRecord(*record))
	return nil
}

// FindByRepoURL returns the stored record or (nil, nil) on a miss.
func (s *MemoryStore) FindByRepoURL(repoURL string) (*models.DescriptionRecord, error) {
	record, ok := s.cache.Get(repoURL)
	if !ok {
		return nil, nil
	}
	record = cloneRecord(record)
	return &record, nil
}

// cloneRecord deep-copies the record so the store never shares slice
// backing with callers, in either direction.
func cloneRecord(record models.DescriptionRecord) models.DescriptionRecord {
	record.Signals.TechStack = slices.Clone(record.Signals.TechStack)
	return record
}

// Len reports how many records the store currently holds.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
