package session

import (
	"context"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"

	"github.com/Divyendra-S/sasha/internal/domain/eventbus"
	"github.com/Divyendra-S/sasha/internal/domain/llm"
	"github.com/Divyendra-S/sasha/internal/domain/record"
	"github.com/Divyendra-S/sasha/internal/domain/session/store"
	"github.com/Divyendra-S/sasha/internal/platform/config"
	"github.com/Divyendra-S/sasha/internal/platform/errors"
	"github.com/Divyendra-S/sasha/internal/platform/logging"
)

// Manager tracks live sessions and archives them at teardown. The
// most recently created session is the "active" one whose record the
// polling API serves.
type Manager struct {
	cfg      *config.Config
	provider llm.Provider
	bus      evbus.Bus
	archive  store.Store
	logger   *logging.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	activeID string
}

func NewManager(cfg *config.Config, provider llm.Provider, bus evbus.Bus, archive store.Store, logger *logging.Logger) *Manager {
	m := &Manager{
		cfg:      cfg,
		provider: provider,
		bus:      bus,
		archive:  archive,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
	if err := bus.Subscribe(eventbus.TopicRecordUpdated, m.onRecordUpdated); err != nil {
		logger.WarnTag("Session", "record update subscription failed: %v", err)
	}
	return m
}

// onRecordUpdated routes record changes back to the owning session's
// client push. Sessions publish rather than pushing directly so other
// subscribers can observe the same stream.
func (m *Manager) onRecordUpdated(sessionID, field, value string) {
	if s, ok := m.Get(sessionID); ok {
		s.PushRecordUpdate()
	}
}

// Create builds and starts a session bound to the given sink.
func (m *Manager) Create(ctx context.Context, sink MessageSink) (*Session, error) {
	id := uuid.NewString()
	s, err := New(id, m.cfg, m.provider, sink, m.bus, m.logger)
	if err != nil {
		return nil, errors.Wrap(errors.KindSession, "manager.Create", "failed to build session", err)
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.activeID = id
	m.mu.Unlock()

	s.Start(ctx)
	return s, nil
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// ActiveRecord returns the record of the most recent live session.
func (m *Manager) ActiveRecord() (*record.Record, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[m.activeID]
	if !ok {
		return nil, "", false
	}
	return s.rec, s.ID, true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close shuts one session down and archives its final snapshot.
func (m *Manager) Close(ctx context.Context, id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		if m.activeID == id {
			m.activeID = ""
			// Fall back to any remaining session.
			for remaining := range m.sessions {
				m.activeID = remaining
				break
			}
		}
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	s.Close()
	if err := m.archiveSession(ctx, s); err != nil {
		m.logger.ErrorTag("Session", "failed to archive session %s: %v", id, err)
	}
}

// CloseAll tears down every live session, used at server shutdown.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Close(ctx, id)
	}
}

// Archives returns stored snapshots of finished sessions.
func (m *Manager) Archives(ctx context.Context) ([]store.Archive, error) {
	return m.archive.List(ctx)
}

// ArchivedSession returns one stored snapshot by session id.
func (m *Manager) ArchivedSession(ctx context.Context, id string) (store.Archive, error) {
	return m.archive.Get(ctx, id)
}

func (m *Manager) archiveSession(ctx context.Context, s *Session) error {
	snap := s.rec.Peek()
	return m.archive.Save(ctx, store.Archive{
		SessionID:  s.ID,
		Schema:     snap.Schema,
		Data:       snap.Data,
		Missing:    snap.Missing,
		Complete:   snap.Complete,
		Updates:    snap.UpdateCount,
		StartedAt:  s.StartedAt,
		FinishedAt: time.Now(),
	})
}
