package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage"
)

// InMemoryRateLimitStore keeps fixed-window counters in a process-local map.
// State is lost on restart and not shared across instances; both are accepted
// for a best-effort limiter.
type InMemoryRateLimitStore struct {
	mu      sync.RWMutex
	records map[string]models.RateLimitRecord
}

func NewRateLimitStore() storage.RateLimitRepository {
	return &InMemoryRateLimitStore{
		records: make(map[string]models.RateLimitRecord),
	}
}

func (s *InMemoryRateLimitStore) GetRecord(_ context.Context, key string) (*models.RateLimitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *InMemoryRateLimitStore) SetRecord(_ context.Context, key string, rec models.RateLimitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = rec

	return nil
}

func (s *InMemoryRateLimitStore) DeleteRecord(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)

	return nil
}

// PurgeExpired removes records whose window ended before now. Stale entries
// are harmless except for memory, so the sweep frequency is a tunable.
func (s *InMemoryRateLimitStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for key, rec := range s.records {
		if now.After(rec.ResetAt) {
			delete(s.records, key)
			purged++
		}
	}

	return purged, nil
}
