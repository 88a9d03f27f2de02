package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/catalog-browser/catalog/internal/models"
)

// Store holds the loaded catalog rows and media index. It is never mutated after
// construction and may be shared between goroutines.
type Store struct {
	records []models.CatalogRecord
	index   MediaIndex
	byKey   map[string]int
}

// NewStore builds a store over records and index
func NewStore(records []models.CatalogRecord, index MediaIndex) *Store {
	s := &Store{
		records: slices.Clone(records),
		index:   index,
		byKey:   make(map[string]int, len(records)),
	}
	if s.records == nil {
		s.records = []models.CatalogRecord{}
	}
	for i, r := range s.records {
		key := r.Key()
		if _, dup := s.byKey[key]; dup {
			continue
		}
		s.byKey[key] = i
	}
	return s
}

// Records returns the records in table order
func (s *Store) Records() []models.CatalogRecord {
	return slices.Clone(s.records)
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.records)
}

// MediaIndex returns the media filename index
func (s *Store) MediaIndex() MediaIndex {
	return s.index
}

// Lookup returns the record addressed by key (see models.CatalogRecord.Key)
func (s *Store) Lookup(key string) (models.CatalogRecord, error) {
	i, ok := s.byKey[strings.TrimSpace(key)]
	if !ok {
		return models.CatalogRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, key)
	}
	return s.records[i], nil
}

// Scoped returns a store restricted to the records the scope includes.
// The media index is shared.
func (s *Store) Scoped(scope Scope) *Store {
	if scope.IsZero() {
		return s
	}
	return NewStore(scope.Apply(s.records), s.index)
}

// WithCounts returns a store whose record names carry the given counts
func (s *Store) WithCounts(counts map[string]int) *Store {
	if len(counts) == 0 {
		return s
	}
	return NewStore(MergeCounts(s.records, counts), s.index)
}
