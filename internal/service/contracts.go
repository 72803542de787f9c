package service

import (
	"context"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
)

// TopicRepository exposes the ordered, read-only topic catalog.
type TopicRepository interface {
	GetByID(id string) (*entities.Topic, error)
	GetAll() []*entities.Topic
	Count() int
}

// ProgressRepository persists user progress between sessions. Load must
// return an empty record when nothing is stored or the stored value is
// unparsable; it never fails a session start. Save overwrites the stored
// state wholesale.
type ProgressRepository interface {
	Load(ctx context.Context, userID int64) (*entities.UserProgress, error)
	Save(ctx context.Context, progress *entities.UserProgress) error
}

// SessionRepository holds active sessions by user ID.
type SessionRepository interface {
	Store(userID int64, session *entities.Session)
	Get(userID int64) *entities.Session
	Delete(userID int64)
}
