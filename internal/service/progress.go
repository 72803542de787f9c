package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
)

// ProgressService owns the durable learning progress of every user. Each
// user's record is loaded once, kept authoritative in memory for the rest
// of the process and written back after every mutation. A failed write is
// logged and swallowed: the in-memory state stays the source of truth
// until the next successful save.
type ProgressService struct {
	repository ProgressRepository
	logger     *zap.Logger

	mu     sync.Mutex
	loaded map[int64]*entities.UserProgress
}

func NewProgressService(repository ProgressRepository, logger *zap.Logger) *ProgressService {
	return &ProgressService{
		repository: repository,
		logger:     logger,
		loaded:     make(map[int64]*entities.UserProgress),
	}
}

// Get returns the progress record for a user, loading it from the
// repository on first access.
func (s *ProgressService) Get(ctx context.Context, userID int64) (*entities.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx, userID)
}

func (s *ProgressService) get(ctx context.Context, userID int64) (*entities.UserProgress, error) {
	if p, ok := s.loaded[userID]; ok {
		return p, nil
	}

	p, err := s.repository.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if p == nil {
		p = entities.NewUserProgress(userID)
	}
	s.loaded[userID] = p

	return p, nil
}

// CompleteLesson idempotently marks the lesson of a topic as done.
// Lesson completion never awards points.
func (s *ProgressService) CompleteLesson(ctx context.Context, userID int64, topicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.get(ctx, userID)
	if err != nil {
		return err
	}

	if p.MarkLessonDone(topicID) {
		s.save(ctx, p)
	}

	return nil
}

// RecordActivityScore applies a completed exercise run. The stored best
// only moves up; a strict improvement awards round(score/10) points.
func (s *ProgressService) RecordActivityScore(
	ctx context.Context,
	userID int64,
	topicID string,
	kind entities.ActivityKind,
	score int,
) (improved bool, points int, err error) {
	if score < 0 || score > 100 {
		return false, 0, fmt.Errorf("score %d out of range", score)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.get(ctx, userID)
	if err != nil {
		return false, 0, err
	}

	improved, points = p.RecordScore(topicID, kind, score)
	if improved {
		s.save(ctx, p)
	}

	return improved, points, nil
}

// Completion returns the composite completion percentage for a topic.
func (s *ProgressService) Completion(ctx context.Context, userID int64, topicID string) (int, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return p.Completion(topicID), nil
}

// ProgressSummary is the aggregate view rendered on the catalog screen.
type ProgressSummary struct {
	TotalPoints     int
	CompletedTopics int
	TotalTopics     int
	Completion      map[string]int // topic id -> composite percentage
}

// Summary builds the aggregate progress view over the given topics.
func (s *ProgressService) Summary(ctx context.Context, userID int64, topics []*entities.Topic) (*ProgressSummary, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	completion := make(map[string]int, len(topics))
	for _, t := range topics {
		completion[t.ID] = p.Completion(t.ID)
	}

	return &ProgressSummary{
		TotalPoints:     p.TotalPoints,
		CompletedTopics: p.CompletedCount(),
		TotalTopics:     len(topics),
		Completion:      completion,
	}, nil
}

// save writes the record back. Persistence failures are not fatal: the
// in-memory record remains authoritative and the error is only logged.
func (s *ProgressService) save(ctx context.Context, p *entities.UserProgress) {
	if err := s.repository.Save(ctx, p); err != nil {
		s.logger.Warn("failed to save progress",
			zap.Int64("user_id", p.UserID),
			zap.Error(err),
		)
	}
}
