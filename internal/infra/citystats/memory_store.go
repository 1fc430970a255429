package citystats

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
)

// MemoryStore keeps lookup counts in process memory for tests and dev.
type MemoryStore struct {
	mu       sync.RWMutex
	counts   map[string]int64
	displays map[string]string
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counts:   make(map[string]int64),
		displays: make(map[string]string),
	}
}

// RecordLookup bumps the counter for a city.
func (s *MemoryStore) RecordLookup(_ context.Context, city, country string) error {
	canonical := canonicalCity(city, country)
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[canonical]++
	if _, exists := s.displays[canonical]; !exists {
		s.displays[canonical] = displayCity(city, country)
	}
	return nil
}

// TopCities returns the most frequently looked-up cities.
func (s *MemoryStore) TopCities(_ context.Context, limit int) ([]assistant.CityCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.counts)
	}
	items := make([]assistant.CityCount, 0, len(s.counts))
	for canonical, count := range s.counts {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		items = append(items, assistant.CityCount{City: display, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].City < items[j].City
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

var _ assistant.CityStats = (*MemoryStore)(nil)
