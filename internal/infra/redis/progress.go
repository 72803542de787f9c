// Package redis implements progress persistence on a Redis key-value store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
)

// NewClient creates a Redis client from a connection URL and verifies
// the connection before returning it.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// ProgressRepository stores serialized user progress under two keys per
// user. Missing or unparsable values load as empty defaults.
type ProgressRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewProgressRepository(client *redis.Client, logger *zap.Logger) *ProgressRepository {
	return &ProgressRepository{client: client, logger: logger}
}

func progressKey(userID int64) string {
	return fmt.Sprintf("grammar:progress:%d", userID)
}

func pointsKey(userID int64) string {
	return fmt.Sprintf("grammar:total_points:%d", userID)
}

// Load reads both keys for a user, treating absent or malformed values
// as a fresh start.
func (r *ProgressRepository) Load(ctx context.Context, userID int64) (*entities.UserProgress, error) {
	progress := entities.NewUserProgress(userID)

	raw, err := r.client.Get(ctx, progressKey(userID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// first run for this user
	case err != nil:
		return nil, fmt.Errorf("get progress: %w", err)
	default:
		if err := json.Unmarshal([]byte(raw), &progress.Topics); err != nil || progress.Topics == nil {
			r.logger.Warn("malformed stored progress, starting fresh",
				zap.Int64("user_id", userID),
			)
			progress.Topics = make(map[string]*entities.TopicProgress)
		}
	}

	rawPoints, err := r.client.Get(ctx, pointsKey(userID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return nil, fmt.Errorf("get points: %w", err)
	default:
		points, convErr := strconv.Atoi(rawPoints)
		if convErr != nil || points < 0 {
			r.logger.Warn("malformed stored points, starting from zero",
				zap.Int64("user_id", userID),
			)
			points = 0
		}
		progress.TotalPoints = points
	}

	return progress, nil
}

// Save overwrites both keys for a user. Values never expire.
func (r *ProgressRepository) Save(ctx context.Context, progress *entities.UserProgress) error {
	topics, err := json.Marshal(progress.Topics)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	if err := r.client.Set(ctx, progressKey(progress.UserID), topics, 0).Err(); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if err := r.client.Set(ctx, pointsKey(progress.UserID), strconv.Itoa(progress.TotalPoints), 0).Err(); err != nil {
		return fmt.Errorf("save points: %w", err)
	}

	return nil
}
