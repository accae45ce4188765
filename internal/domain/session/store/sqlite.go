package store

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	platformerrors "github.com/Divyendra-S/sasha/internal/platform/errors"
	"github.com/Divyendra-S/sasha/internal/platform/storage"
)

type sqliteStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSQLite builds a SQLite-backed session archive.
func NewSQLite(db *gorm.DB, cfg Config) (Store, error) {
	if db == nil {
		return nil, platformerrors.New(platformerrors.KindStorage, "store.NewSQLite", "sqlite store requires database handle")
	}
	return &sqliteStore{
		db:  db,
		ttl: cfg.TTL,
	}, nil
}

func (s *sqliteStore) Save(ctx context.Context, archive Archive) error {
	const op = "store.Save"
	if archive.SessionID == "" {
		return platformerrors.New(platformerrors.KindStorage, op, "session id required")
	}
	if archive.ExpiresAt == nil && s.ttl > 0 {
		exp := time.Now().Add(s.ttl)
		archive.ExpiresAt = &exp
	}
	data, err := sonic.Marshal(archivePayload{Data: archive.Data, Missing: archive.Missing})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, op, "failed to encode archive", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", archive.SessionID).Delete(&storage.SessionArchive{}).Error; err != nil {
			return err
		}
		row := &storage.SessionArchive{
			SessionID:  archive.SessionID,
			Schema:     archive.Schema,
			Data:       data,
			Complete:   archive.Complete,
			Updates:    archive.Updates,
			StartedAt:  archive.StartedAt,
			FinishedAt: archive.FinishedAt,
			ExpiresAt:  archive.ExpiresAt,
		}
		return tx.Create(row).Error
	})
}

func (s *sqliteStore) Get(ctx context.Context, sessionID string) (Archive, error) {
	const op = "store.Get"
	var row storage.SessionArchive
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Archive{}, platformerrors.New(platformerrors.KindStorage, op, "session not found: "+sessionID)
		}
		return Archive{}, platformerrors.Wrap(platformerrors.KindStorage, op, "query failed", err)
	}
	if row.ExpiresAt != nil && time.Now().After(*row.ExpiresAt) {
		return Archive{}, platformerrors.New(platformerrors.KindStorage, op, "session expired: "+sessionID)
	}
	return fromRow(row)
}

func (s *sqliteStore) List(ctx context.Context) ([]Archive, error) {
	const op = "store.List"
	var rows []storage.SessionArchive
	err := s.db.WithContext(ctx).Order("finished_at DESC").Find(&rows).Error
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "query failed", err)
	}
	now := time.Now()
	archives := make([]Archive, 0, len(rows))
	for _, row := range rows {
		if row.ExpiresAt != nil && now.After(*row.ExpiresAt) {
			continue
		}
		archive, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		archives = append(archives, archive)
	}
	return archives, nil
}

func (s *sqliteStore) Remove(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&storage.SessionArchive{}).Error
}

func (s *sqliteStore) CleanupExpired(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&storage.SessionArchive{}).
		Error
}

func (s *sqliteStore) Close(_ context.Context) error {
	return nil
}

// archivePayload is what goes into the JSON column.
type archivePayload struct {
	Data    map[string]any `json:"data"`
	Missing []string       `json:"missingFields"`
}

func fromRow(row storage.SessionArchive) (Archive, error) {
	var payload archivePayload
	if len(row.Data) > 0 {
		if err := sonic.Unmarshal(row.Data, &payload); err != nil {
			return Archive{}, platformerrors.Wrap(platformerrors.KindStorage, "store.fromRow", "failed to decode archive", err)
		}
	}
	return Archive{
		SessionID:  row.SessionID,
		Schema:     row.Schema,
		Data:       payload.Data,
		Missing:    payload.Missing,
		Complete:   row.Complete,
		Updates:    row.Updates,
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
		ExpiresAt:  row.ExpiresAt,
	}, nil
}
