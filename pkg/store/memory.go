package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artusm/funny-learn-notifier/pkg/metrics"
)

type entry struct {
	data  []byte
	timer *time.Timer
}

// MemoryStore is an in-memory ImageStore implementation with TTL eviction.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]*entry
	lastID string
	reg    *metrics.Registry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(reg *metrics.Registry) *MemoryStore {
	return &MemoryStore{data: make(map[string]*entry), reg: reg}
}

// Save stores image bytes under a new UUID and arms TTL-based deletion.
func (s *MemoryStore) Save(ctx context.Context, data []byte, ttl time.Duration) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image data")
	}

	id := uuid.NewString()

	// Copy so later mutation of the caller's slice cannot change the stored image.
	buf := make([]byte, len(data))
	copy(buf, data)

	e := &entry{data: buf}
	if ttl > 0 {
		e.timer = time.AfterFunc(ttl, func() {
			_ = s.Delete(context.Background(), id)
		})
	}

	s.mu.Lock()
	s.data[id] = e
	s.lastID = id
	s.mu.Unlock()

	log.Ctx(ctx).Info().Str("image_id", id).Int("bytes", len(buf)).Msg("image stored")
	if s.reg != nil {
		s.reg.Inc(ctx, "images_stored_total", nil, 1)
		s.reg.Inc(ctx, "images_stored_bytes_total", nil, int64(len(buf)))
	}
	return id, nil
}

// Get returns a copy of stored data by id without deleting it.
func (s *MemoryStore) Get(ctx context.Context, id string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.data[id]
	s.mu.RUnlock()
	if !ok || e == nil || len(e.data) == 0 {
		return nil, false
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, true
}

// Latest returns the most recently saved image, if it has not expired yet.
func (s *MemoryStore) Latest(ctx context.Context) ([]byte, string, bool) {
	s.mu.RLock()
	id := s.lastID
	s.mu.RUnlock()
	if id == "" {
		return nil, "", false
	}
	data, ok := s.Get(ctx, id)
	return data, id, ok
}

// Delete stops the TTL timer and removes the entry from memory.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.data[id]
	if ok {
		delete(s.data, id)
	}
	if s.lastID == id {
		s.lastID = ""
	}
	s.mu.Unlock()

	if ok && e != nil {
		if e.timer != nil {
			e.timer.Stop()
		}
		log.Ctx(ctx).Info().Str("image_id", id).Int("bytes", len(e.data)).Msg("image evicted")
		if s.reg != nil {
			s.reg.Inc(ctx, "images_evicted_total", nil, 1)
		}
	}
	return nil
}

var _ ImageStore = (*MemoryStore)(nil)
