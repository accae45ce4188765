package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Divyendra-S/sasha/internal/platform/errors"
)

type memoryStore struct {
	items       map[string]Archive
	mutex       sync.RWMutex
	ttl         time.Duration
	cleanupFreq time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMemory builds an in-memory session archive.
func NewMemory(cfg Config) Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	cleanup := 5 * time.Minute
	if cfg.Memory != nil && cfg.Memory.GCInterval > 0 {
		cleanup = cfg.Memory.GCInterval
	}
	s := &memoryStore{
		items:       make(map[string]Archive),
		ttl:         ttl,
		cleanupFreq: cleanup,
		stop:        make(chan struct{}),
	}
	go s.gcLoop()
	return s
}

func (s *memoryStore) gcLoop() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = s.CleanupExpired(context.Background())
		case <-s.stop:
			return
		}
	}
}

func (s *memoryStore) Save(_ context.Context, archive Archive) error {
	if archive.SessionID == "" {
		return errors.New(errors.KindStorage, "store.Save", "session id required")
	}
	if archive.ExpiresAt == nil && s.ttl > 0 {
		exp := time.Now().Add(s.ttl)
		archive.ExpiresAt = &exp
	}

	s.mutex.Lock()
	s.items[archive.SessionID] = archive
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Get(_ context.Context, sessionID string) (Archive, error) {
	s.mutex.RLock()
	archive, ok := s.items[sessionID]
	s.mutex.RUnlock()
	if !ok {
		return Archive{}, errors.New(errors.KindStorage, "store.Get", "session not found: "+sessionID)
	}
	if archive.ExpiresAt != nil && time.Now().After(*archive.ExpiresAt) {
		return Archive{}, errors.New(errors.KindStorage, "store.Get", "session expired: "+sessionID)
	}
	return archive, nil
}

func (s *memoryStore) List(_ context.Context) ([]Archive, error) {
	now := time.Now()
	s.mutex.RLock()
	archives := make([]Archive, 0, len(s.items))
	for _, item := range s.items {
		if item.ExpiresAt == nil || now.Before(*item.ExpiresAt) {
			archives = append(archives, item)
		}
	}
	s.mutex.RUnlock()

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].FinishedAt.After(archives[j].FinishedAt)
	})
	return archives, nil
}

func (s *memoryStore) Remove(_ context.Context, sessionID string) error {
	s.mutex.Lock()
	delete(s.items, sessionID)
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) CleanupExpired(_ context.Context) error {
	now := time.Now()
	s.mutex.Lock()
	for id, item := range s.items {
		if item.ExpiresAt != nil && now.After(*item.ExpiresAt) {
			delete(s.items, id)
		}
	}
	s.mutex.Unlock()
	return nil
}

func (s *memoryStore) Close(_ context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}
