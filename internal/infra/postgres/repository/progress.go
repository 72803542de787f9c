// Package repository implements progress persistence on PostgreSQL.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
)

// Storage keys. Each user's state lives under two independent keys that
// are read once at startup and overwritten wholesale on every save.
const (
	keyProgress    = "progress"
	keyTotalPoints = "total_points"
)

// ProgressRepository stores serialized user progress in a key-value
// table. Absent or unparsable values load as empty defaults: a broken
// record means a fresh start, never a failed one.
type ProgressRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProgressRepository(db *pgxpool.Pool, logger *zap.Logger) *ProgressRepository {
	return &ProgressRepository{db: db, logger: logger}
}

// Load reads both keys for a user and decodes them, falling back to
// empty defaults per key on missing or malformed values.
func (r *ProgressRepository) Load(ctx context.Context, userID int64) (*entities.UserProgress, error) {
	query := `
		SELECT key, value
		FROM user_state
		WHERE user_id = $1 AND key IN ($2, $3)
	`

	rows, err := r.db.Query(ctx, query, userID, keyProgress, keyTotalPoints)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, 2)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	return r.decode(userID, values[keyProgress], values[keyTotalPoints]), nil
}

// Save overwrites both keys for a user in one transaction.
func (r *ProgressRepository) Save(ctx context.Context, progress *entities.UserProgress) error {
	topics, err := json.Marshal(progress.Topics)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO user_state (user_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := tx.Exec(ctx, query, progress.UserID, keyProgress, string(topics)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if _, err := tx.Exec(ctx, query, progress.UserID, keyTotalPoints, strconv.Itoa(progress.TotalPoints)); err != nil {
		return fmt.Errorf("save points: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *ProgressRepository) decode(userID int64, rawTopics, rawPoints string) *entities.UserProgress {
	progress := entities.NewUserProgress(userID)

	if rawTopics != "" {
		if err := json.Unmarshal([]byte(rawTopics), &progress.Topics); err != nil || progress.Topics == nil {
			r.logger.Warn("malformed stored progress, starting fresh",
				zap.Int64("user_id", userID),
			)
			progress.Topics = make(map[string]*entities.TopicProgress)
		}
	}

	if rawPoints != "" {
		points, err := strconv.Atoi(rawPoints)
		if err != nil || points < 0 {
			r.logger.Warn("malformed stored points, starting from zero",
				zap.Int64("user_id", userID),
			)
			points = 0
		}
		progress.TotalPoints = points
	}

	return progress
}
