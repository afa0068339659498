package store

import (
	"context"
	"sync"
	"time"

	"github.com/kurvpilot/backend/internal/domain"
)

// storedEntry wraps a report with its expiration
type storedEntry struct {
	report     *domain.StoredReport
	expiration time.Time
}

// MemoryStore is a thread-safe in-memory report store with TTL support. It
// is the persistence collaborator of the pipeline: finished batch reports
// land here and the UI reads them back.
type MemoryStore struct {
	data     map[string]storedEntry
	latestID string
	ttl      time.Duration
	mutex    sync.RWMutex
}

// NewMemoryStore creates a new in-memory report store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 168 * time.Hour // Default 7 days
	}

	store := &MemoryStore{
		data: make(map[string]storedEntry),
		ttl:  ttl,
	}

	// Start cleanup goroutine to remove expired entries every 10 minutes
	go store.cleanupExpired()

	return store
}

// Save stores a report and marks it as the latest
func (s *MemoryStore) Save(ctx context.Context, report *domain.StoredReport) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidRequest
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[report.ID] = storedEntry{
		report:     report,
		expiration: time.Now().Add(s.ttl),
	}
	s.latestID = report.ID

	return nil
}

// Get retrieves a report by ID
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.StoredReport, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entry, exists := s.data[id]
	if !exists || time.Now().After(entry.expiration) {
		return nil, domain.ErrReportNotFound
	}

	return entry.report, nil
}

// Latest retrieves the most recently saved report
func (s *MemoryStore) Latest(ctx context.Context) (*domain.StoredReport, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.latestID == "" {
		return nil, domain.ErrReportNotFound
	}

	entry, exists := s.data[s.latestID]
	if !exists || time.Now().After(entry.expiration) {
		return nil, domain.ErrReportNotFound
	}

	return entry.report, nil
}

// Size returns the current number of stored reports (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// cleanupExpired removes expired entries from the store periodically
func (s *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		for id, entry := range s.data {
			if now.After(entry.expiration) {
				delete(s.data, id)
			}
		}
		s.mutex.Unlock()
	}
}
