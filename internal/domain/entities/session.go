package entities

// Session is the navigation state of one user: the selected topic, the
// active activity tab and the exercise runner driving it. The runner is
// nil for the lesson activity and while no activity has been started.
// Ukrainian is a display-only flag the delivery layer reads to pick
// between the two pre-supplied strings of every bilingual field.
type Session struct {
	UserID    int64
	ChatID    int64
	Topic     *Topic
	Activity  ActivityKind
	Runner    *ExerciseRunner
	Ukrainian bool
}

// NewSession creates a session positioned at the lesson tab of a topic.
func NewSession(userID, chatID int64, topic *Topic) *Session {
	return &Session{
		UserID:    userID,
		ChatID:    chatID,
		Topic:     topic,
		Activity:  ActivityLesson,
		Ukrainian: true,
	}
}
