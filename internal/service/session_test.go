package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
	"github.com/viktosha/grammar-tutor-bot/internal/storage"
)

// fakeTopicRepo serves a fixed catalog.
type fakeTopicRepo struct {
	topics []*entities.Topic
}

func (r *fakeTopicRepo) GetByID(id string) (*entities.Topic, error) {
	for _, t := range r.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, errTopicMissing
}

var errTopicMissing = errors.New("topic not found")

func (r *fakeTopicRepo) GetAll() []*entities.Topic { return r.topics }
func (r *fakeTopicRepo) Count() int                { return len(r.topics) }

func testTopic() *entities.Topic {
	return &entities.Topic{
		ID:      "present-simple",
		Title:   "Present Simple",
		TitleUK: "Простий теперішній час",
		Level:   entities.LevelBeginner,
		QuizQuestions: []entities.QuizQuestion{
			{Question: "She ___ to work.", Options: []string{"go", "goes"}, CorrectAnswer: 1},
		},
		Practice: []entities.PracticeExercise{
			{Sentence: "He ___ football.", Options: []string{"play", "plays"}, CorrectAnswer: "plays"},
		},
	}
}

func newTestSessionService(topic *entities.Topic) (*SessionService, *fakeProgressRepo) {
	repo := newFakeProgressRepo()
	progress := NewProgressService(repo, zap.NewNop())
	svc := NewSessionService(
		&fakeTopicRepo{topics: []*entities.Topic{topic}},
		progress,
		storage.NewSessionStorage(),
		zap.NewNop(),
	)
	return svc, repo
}

func TestSessionService_SelectTopic(t *testing.T) {
	svc, _ := newTestSessionService(testTopic())

	assert.Nil(t, svc.Current(7))

	session, err := svc.SelectTopic(7, 100, "present-simple")
	require.NoError(t, err)
	assert.Equal(t, entities.ActivityLesson, session.Activity)
	assert.Nil(t, session.Runner)
	assert.True(t, session.Ukrainian)
	assert.Same(t, session, svc.Current(7))
}

func TestSessionService_SelectUnknownTopic(t *testing.T) {
	svc, _ := newTestSessionService(testTopic())

	_, err := svc.SelectTopic(7, 100, "nope")
	assert.ErrorIs(t, err, errTopicMissing)
	assert.Nil(t, svc.Current(7))
}

func TestSessionService_SelectTopicKeepsLanguage(t *testing.T) {
	svc, _ := newTestSessionService(testTopic())

	first, err := svc.SelectTopic(7, 100, "present-simple")
	require.NoError(t, err)
	first.Ukrainian = false

	second, err := svc.SelectTopic(7, 100, "present-simple")
	require.NoError(t, err)
	assert.False(t, second.Ukrainian)
}

func TestSessionService_SwitchActivity(t *testing.T) {
	svc, _ := newTestSessionService(testTopic())

	_, err := svc.SwitchActivity(7, entities.ActivityQuiz)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = svc.SelectTopic(7, 100, "present-simple")
	require.NoError(t, err)

	session, err := svc.SwitchActivity(7, entities.ActivityQuiz)
	require.NoError(t, err)
	assert.Equal(t, entities.ActivityQuiz, session.Activity)
	require.NotNil(t, session.Runner)
	assert.Equal(t, entities.RunnerActive, session.Runner.State())

	// Back to the lesson tab: no runner.
	session, err = svc.SwitchActivity(7, entities.ActivityLesson)
	require.NoError(t, err)
	assert.Nil(t, session.Runner)
}

func TestSessionService_SwitchActivityWithoutExercises(t *testing.T) {
	topic := testTopic()
	topic.Sentences = nil
	svc, _ := newTestSessionService(topic)

	session, err := svc.SelectTopic(7, 100, "present-simple")
	require.NoError(t, err)

	_, err = svc.SwitchActivity(7, entities.ActivityBuilder)
	assert.ErrorIs(t, err, entities.ErrNoExercises)

	// The refused switch leaves the session where it was.
	assert.Equal(t, entities.ActivityLesson, session.Activity)
	assert.Nil(t, session.Runner)
}

func TestSessionService_QuizFlowRecordsScore(t *testing.T) {
	svc, repo := newTestSessionService(testTopic())
	ctx := context.Background()

	_, err := svc.SelectTopic(7, 100, "present-simple")
	require.NoError(t, err)
	_, err = svc.SwitchActivity(7, entities.ActivityQuiz)
	require.NoError(t, err)

	correct, err := svc.SubmitAnswer(7, entities.AnswerOption(1))
	require.NoError(t, err)
	assert.True(t, correct)

	result, err := svc.Advance(ctx, 7)
	require.NoError(t, err)
	assert.True(t, result.Done)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Improved)
	assert.Equal(t, 10, result.Points)
	assert.Equal(t, 1, repo.saves)

	// Replaying at the same score earns nothing.
	require.NoError(t, svc.Restart(7))
	_, err = svc.SubmitAnswer(7, entities.AnswerOption(1))
	require.NoError(t, err)
	result, err = svc.Advance(ctx, 7)
	require.NoError(t, err)
	assert.True(t, result.Done)
	assert.False(t, result.Improved)
	assert.Zero(t, result.Points)
	assert.Equal(t, 1, repo.saves)
}

func TestSessionService_AdvanceMidRun(t *testing.T) {
	topic := testTopic()
	topic.QuizQuestions = append(topic.QuizQuestions, entities.QuizQuestion{
		Question: "I ___ to London.", Options: []string{"go", "went"}, CorrectAnswer: 1,
	})
	svc, _ := newTestSessionService(topic)

	_, err := svc.SelectTopic(7, 100, "present-simple")
	require.NoError(t, err)
	_, err = svc.SwitchActivity(7, entities.ActivityQuiz)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(7, entities.AnswerOption(0))
	require.NoError(t, err)

	result, err := svc.Advance(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, result.Done)
	assert.Zero(t, result.Score)
}

func TestSessionService_ExerciseIntentsNeedRunner(t *testing.T) {
	svc, _ := newTestSessionService(testTopic())

	_, err := svc.SubmitAnswer(7, entities.AnswerOption(0))
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = svc.SelectTopic(7, 100, "present-simple")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(7, entities.AnswerOption(0))
	assert.ErrorIs(t, err, ErrNoActiveRunner)
	_, err = svc.Advance(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNoActiveRunner)
	assert.ErrorIs(t, svc.Restart(7), ErrNoActiveRunner)
}

func TestSessionService_CompleteLesson(t *testing.T) {
	svc, repo := newTestSessionService(testTopic())
	ctx := context.Background()

	assert.ErrorIs(t, svc.CompleteLesson(ctx, 7), ErrNoActiveSession)

	_, err := svc.SelectTopic(7, 100, "present-simple")
	require.NoError(t, err)

	require.NoError(t, svc.CompleteLesson(ctx, 7))
	assert.Equal(t, 1, repo.saves)

	p := repo.records[7]
	require.NotNil(t, p)
	assert.True(t, p.Topic("present-simple").LessonDone)
	assert.Zero(t, p.TotalPoints)
}

func TestSessionService_ReturnToCatalogDiscardsRunner(t *testing.T) {
	svc, repo := newTestSessionService(testTopic())

	_, err := svc.SelectTopic(7, 100, "present-simple")
	require.NoError(t, err)
	_, err = svc.SwitchActivity(7, entities.ActivityQuiz)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(7, entities.AnswerOption(1))
	require.NoError(t, err)

	// Leaving mid-run drops the tally without touching stored progress.
	svc.ReturnToCatalog(7)
	assert.Nil(t, svc.Current(7))
	assert.Zero(t, repo.saves)
}

func TestSessionService_ToggleLanguage(t *testing.T) {
	svc, _ := newTestSessionService(testTopic())

	_, err := svc.ToggleLanguage(7)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = svc.SelectTopic(7, 100, "present-simple")
	require.NoError(t, err)

	uk, err := svc.ToggleLanguage(7)
	require.NoError(t, err)
	assert.False(t, uk)

	uk, err = svc.ToggleLanguage(7)
	require.NoError(t, err)
	assert.True(t, uk)
}
