package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
)

var (
	// ErrNoActiveSession is returned when an intent arrives for a user
	// who has no topic selected.
	ErrNoActiveSession = errors.New("no active session")
	// ErrNoActiveRunner is returned when an exercise intent arrives while
	// no exercise activity is running.
	ErrNoActiveRunner = errors.New("no active exercise")
)

// SessionService is the session controller: it owns the currently
// selected topic and active activity of each user and routes exercise
// completions into the progress service. It holds no scoring logic.
type SessionService struct {
	topics   TopicRepository
	progress *ProgressService
	sessions SessionRepository
	logger   *zap.Logger
}

func NewSessionService(
	topics TopicRepository,
	progress *ProgressService,
	sessions SessionRepository,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		topics:   topics,
		progress: progress,
		sessions: sessions,
		logger:   logger,
	}
}

// Current returns the user's active session, or nil.
func (s *SessionService) Current(userID int64) *entities.Session {
	return s.sessions.Get(userID)
}

// SelectTopic starts a session on a topic, positioned at the lesson tab.
// Any previous session of the user is replaced; the language preference
// of the replaced session is kept.
func (s *SessionService) SelectTopic(userID, chatID int64, topicID string) (*entities.Session, error) {
	topic, err := s.topics.GetByID(topicID)
	if err != nil {
		return nil, err
	}

	session := entities.NewSession(userID, chatID, topic)
	if prev := s.sessions.Get(userID); prev != nil {
		session.Ukrainian = prev.Ukrainian
	}
	s.sessions.Store(userID, session)

	return session, nil
}

// SwitchActivity moves the session to another activity tab. Exercise
// activities get a fresh runner; an activity without exercises is
// refused, the session stays where it was.
func (s *SessionService) SwitchActivity(userID int64, kind entities.ActivityKind) (*entities.Session, error) {
	session := s.sessions.Get(userID)
	if session == nil {
		return nil, ErrNoActiveSession
	}

	var (
		runner *entities.ExerciseRunner
		err    error
	)
	switch kind {
	case entities.ActivityLesson:
		runner = nil
	case entities.ActivityQuiz:
		runner, err = entities.NewQuizRunner(session.Topic.QuizQuestions)
	case entities.ActivityPractice:
		runner, err = entities.NewPracticeRunner(session.Topic.Practice)
	case entities.ActivityBuilder:
		runner, err = entities.NewSentenceRunner(session.Topic.Sentences)
	default:
		return nil, fmt.Errorf("unknown activity kind: %s", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("start %s for topic %s: %w", kind, session.Topic.ID, err)
	}

	session.Activity = kind
	session.Runner = runner

	return session, nil
}

// SubmitAnswer submits the answer for the current exercise item.
func (s *SessionService) SubmitAnswer(userID int64, a entities.Answer) (bool, error) {
	runner, err := s.runner(userID)
	if err != nil {
		return false, err
	}
	return runner.Submit(a)
}

// SubmitSentence checks the word arrangement built so far.
func (s *SessionService) SubmitSentence(userID int64) (bool, error) {
	runner, err := s.runner(userID)
	if err != nil {
		return false, err
	}
	return runner.SubmitSentence()
}

// PickWord places an available word at the end of the built sentence.
func (s *SessionService) PickWord(userID int64, wordIndex int) error {
	runner, err := s.runner(userID)
	if err != nil {
		return err
	}
	return runner.PickWord(wordIndex)
}

// UnpickWord returns a placed word to the available set.
func (s *SessionService) UnpickWord(userID int64, wordIndex int) error {
	runner, err := s.runner(userID)
	if err != nil {
		return err
	}
	return runner.UnpickWord(wordIndex)
}

// ActivityResult is the outcome of advancing past the last item.
type ActivityResult struct {
	Done     bool
	Score    int
	Improved bool
	Points   int
}

// Advance moves the runner past the current feedback. When the run
// finishes, the final score is routed into the progress store and the
// improvement outcome is reported back for rendering.
func (s *SessionService) Advance(ctx context.Context, userID int64) (*ActivityResult, error) {
	session := s.sessions.Get(userID)
	if session == nil {
		return nil, ErrNoActiveSession
	}
	if session.Runner == nil {
		return nil, ErrNoActiveRunner
	}

	done, score, err := session.Runner.Advance()
	if err != nil {
		return nil, err
	}
	if !done {
		return &ActivityResult{}, nil
	}

	improved, points, err := s.progress.RecordActivityScore(ctx, userID, session.Topic.ID, session.Activity, score)
	if err != nil {
		return nil, err
	}

	s.logger.Info("activity completed",
		zap.Int64("user_id", userID),
		zap.String("topic", session.Topic.ID),
		zap.String("activity", string(session.Activity)),
		zap.Int("score", score),
		zap.Bool("improved", improved),
	)

	return &ActivityResult{
		Done:     true,
		Score:    score,
		Improved: improved,
		Points:   points,
	}, nil
}

// Restart resets a finished runner for another attempt.
func (s *SessionService) Restart(userID int64) error {
	runner, err := s.runner(userID)
	if err != nil {
		return err
	}
	return runner.Restart()
}

// CompleteLesson marks the lesson of the selected topic as done.
func (s *SessionService) CompleteLesson(ctx context.Context, userID int64) error {
	session := s.sessions.Get(userID)
	if session == nil {
		return ErrNoActiveSession
	}
	return s.progress.CompleteLesson(ctx, userID, session.Topic.ID)
}

// ReturnToCatalog drops the session. Any in-flight runner state is
// discarded; scores already reported are kept in the progress store.
func (s *SessionService) ReturnToCatalog(userID int64) {
	s.sessions.Delete(userID)
}

// ToggleLanguage flips the display language of the active session and
// returns the new Ukrainian flag. Without a session, Ukrainian stays the
// default and false is returned for the error case.
func (s *SessionService) ToggleLanguage(userID int64) (bool, error) {
	session := s.sessions.Get(userID)
	if session == nil {
		return false, ErrNoActiveSession
	}
	session.Ukrainian = !session.Ukrainian
	return session.Ukrainian, nil
}

func (s *SessionService) runner(userID int64) (*entities.ExerciseRunner, error) {
	session := s.sessions.Get(userID)
	if session == nil {
		return nil, ErrNoActiveSession
	}
	if session.Runner == nil {
		return nil, ErrNoActiveRunner
	}
	return session.Runner, nil
}
