package presence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

const keyPrefix = "presence:"

// Store keeps the single heartbeat row per worker as a redis hash. Upserts
// overwrite lastActive; there is no history.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func key(workerID int64) string {
	return keyPrefix + strconv.FormatInt(workerID, 10)
}

// Upsert sets lastActive to now and updates the optional descriptive fields
// only when they are non-empty.
func (s *Store) Upsert(ctx context.Context, workerID int64, appName, windowTitle string, now time.Time) error {
	fields := map[string]any{
		"lastActive": now.UTC().Format(time.RFC3339Nano),
	}
	if appName != "" {
		fields["appName"] = appName
	}
	if windowTitle != "" {
		fields["windowTitle"] = windowTitle
	}

	return s.rdb.HSet(ctx, key(workerID), fields).Err()
}

// Get returns the worker's heartbeat, or nil when none was ever reported.
func (s *Store) Get(ctx context.Context, workerID int64) (*domain.Heartbeat, error) {
	values, err := s.rdb.HGetAll(ctx, key(workerID)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	return heartbeatFromHash(workerID, values)
}

// List scans every presence key. Only used by the admin dashboard, so the
// full SCAN is acceptable.
func (s *Store) List(ctx context.Context) ([]*domain.Heartbeat, error) {
	heartbeats := []*domain.Heartbeat{}

	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		workerID, err := strconv.ParseInt(strings.TrimPrefix(k, keyPrefix), 10, 64)
		if err != nil {
			continue
		}

		values, err := s.rdb.HGetAll(ctx, k).Result()
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			continue
		}

		hb, err := heartbeatFromHash(workerID, values)
		if err != nil {
			return nil, err
		}
		heartbeats = append(heartbeats, hb)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return heartbeats, nil
}

func heartbeatFromHash(workerID int64, values map[string]string) (*domain.Heartbeat, error) {
	lastActive, err := time.Parse(time.RFC3339Nano, values["lastActive"])
	if err != nil {
		return nil, fmt.Errorf("corrupt lastActive for worker %d: %w", workerID, err)
	}

	return &domain.Heartbeat{
		WorkerID:    workerID,
		AppName:     values["appName"],
		WindowTitle: values["windowTitle"],
		LastActive:  lastActive,
	}, nil
}
