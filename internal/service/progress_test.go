package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
)

// fakeProgressRepo is an in-memory ProgressRepository with switchable
// failure modes.
type fakeProgressRepo struct {
	records map[int64]*entities.UserProgress
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[int64]*entities.UserProgress)}
}

func (r *fakeProgressRepo) Load(_ context.Context, userID int64) (*entities.UserProgress, error) {
	r.loads++
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.records[userID], nil
}

func (r *fakeProgressRepo) Save(_ context.Context, p *entities.UserProgress) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records[p.UserID] = p
	return nil
}

func TestProgressService_GetLoadsOnce(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewProgressService(repo, zap.NewNop())

	p, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(42), p.UserID)

	again, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Same(t, p, again)
	assert.Equal(t, 1, repo.loads)
}

func TestProgressService_GetPropagatesLoadError(t *testing.T) {
	repo := newFakeProgressRepo()
	repo.loadErr = errors.New("connection refused")
	svc := NewProgressService(repo, zap.NewNop())

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorContains(t, err, "load progress")
}

func TestProgressService_CompleteLessonSavesOnce(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewProgressService(repo, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.CompleteLesson(ctx, 1, "articles"))
	assert.Equal(t, 1, repo.saves)

	// Idempotent repeat: no extra write.
	require.NoError(t, svc.CompleteLesson(ctx, 1, "articles"))
	assert.Equal(t, 1, repo.saves)

	completion, err := svc.Completion(ctx, 1, "articles")
	require.NoError(t, err)
	assert.Equal(t, 25, completion)
}

func TestProgressService_RecordActivityScore(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewProgressService(repo, zap.NewNop())
	ctx := context.Background()

	improved, points, err := svc.RecordActivityScore(ctx, 1, "articles", entities.ActivityQuiz, 80)
	require.NoError(t, err)
	assert.True(t, improved)
	assert.Equal(t, 8, points)
	assert.Equal(t, 1, repo.saves)

	// No improvement, no save.
	improved, points, err = svc.RecordActivityScore(ctx, 1, "articles", entities.ActivityQuiz, 80)
	require.NoError(t, err)
	assert.False(t, improved)
	assert.Zero(t, points)
	assert.Equal(t, 1, repo.saves)
}

func TestProgressService_RecordActivityScoreRange(t *testing.T) {
	svc := NewProgressService(newFakeProgressRepo(), zap.NewNop())
	ctx := context.Background()

	_, _, err := svc.RecordActivityScore(ctx, 1, "articles", entities.ActivityQuiz, -1)
	assert.Error(t, err)
	_, _, err = svc.RecordActivityScore(ctx, 1, "articles", entities.ActivityQuiz, 101)
	assert.Error(t, err)
}

func TestProgressService_FailedSaveIsNotFatal(t *testing.T) {
	repo := newFakeProgressRepo()
	repo.saveErr = errors.New("disk full")
	svc := NewProgressService(repo, zap.NewNop())
	ctx := context.Background()

	improved, points, err := svc.RecordActivityScore(ctx, 1, "articles", entities.ActivityQuiz, 90)
	require.NoError(t, err)
	assert.True(t, improved)
	assert.Equal(t, 9, points)

	// The in-memory record stays authoritative.
	p, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 90, p.Topic("articles").QuizBest)
	assert.Equal(t, 9, p.TotalPoints)
}

func TestProgressService_Summary(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewProgressService(repo, zap.NewNop())
	ctx := context.Background()

	topics := []*entities.Topic{
		{ID: "articles"},
		{ID: "prepositions"},
	}

	require.NoError(t, svc.CompleteLesson(ctx, 1, "articles"))
	_, _, err := svc.RecordActivityScore(ctx, 1, "articles", entities.ActivityQuiz, 100)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, 1, topics)
	require.NoError(t, err)

	assert.Equal(t, 10, summary.TotalPoints)
	assert.Zero(t, summary.CompletedTopics)
	assert.Equal(t, 2, summary.TotalTopics)
	assert.Equal(t, 50, summary.Completion["articles"])
	assert.Zero(t, summary.Completion["prepositions"])
}
