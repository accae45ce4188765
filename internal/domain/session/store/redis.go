package store

import (
	"context"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/Divyendra-S/sasha/internal/platform/errors"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis constructs a redis-backed session archive.
func NewRedis(cfg Config) (Store, error) {
	const op = "store.NewRedis"
	if cfg.Redis == nil {
		return nil, errors.New(errors.KindStorage, op, "redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New(errors.KindStorage, op, "redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "redis ping failed", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "session:archive:"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisStore{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

func (s *redisStore) key(id string) string {
	return s.prefix + id
}

func (s *redisStore) Save(ctx context.Context, archive Archive) error {
	const op = "store.Save"
	if archive.SessionID == "" {
		return errors.New(errors.KindStorage, op, "session id required")
	}
	data, err := sonic.Marshal(archive)
	if err != nil {
		return errors.Wrap(errors.KindStorage, op, "failed to encode archive", err)
	}
	expiry := s.ttl
	if archive.ExpiresAt != nil {
		expiry = time.Until(*archive.ExpiresAt)
	}
	return s.client.Set(ctx, s.key(archive.SessionID), data, expiry).Err()
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (Archive, error) {
	const op = "store.Get"
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Archive{}, errors.New(errors.KindStorage, op, "session not found: "+sessionID)
		}
		return Archive{}, errors.Wrap(errors.KindStorage, op, "redis get failed", err)
	}
	var archive Archive
	if err := sonic.Unmarshal(raw, &archive); err != nil {
		return Archive{}, errors.Wrap(errors.KindStorage, op, "failed to decode archive", err)
	}
	return archive, nil
}

func (s *redisStore) List(ctx context.Context) ([]Archive, error) {
	const op = "store.List"
	var archives []Archive
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.Wrap(errors.KindStorage, op, "redis get failed", err)
		}
		var archive Archive
		if err := sonic.Unmarshal(raw, &archive); err != nil {
			return nil, errors.Wrap(errors.KindStorage, op, "failed to decode archive", err)
		}
		archives = append(archives, archive)
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "redis scan failed", err)
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].FinishedAt.After(archives[j].FinishedAt)
	})
	return archives, nil
}

func (s *redisStore) Remove(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

// CleanupExpired is a no-op: redis expires keys itself.
func (s *redisStore) CleanupExpired(_ context.Context) error {
	return nil
}

func (s *redisStore) Close(_ context.Context) error {
	return s.client.Close()
}
