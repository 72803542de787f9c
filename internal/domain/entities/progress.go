package entities

import "math"

// TopicProgress is the per-topic record of best scores and the
// lesson-completion flag. Best scores are integer percentages in [0, 100].
type TopicProgress struct {
	LessonDone   bool `json:"lesson"`
	QuizBest     int  `json:"quiz"`
	PracticeBest int  `json:"practice"`
	BuilderBest  int  `json:"builder"`
}

// Best returns the stored best score for an exercise activity.
func (p TopicProgress) Best(kind ActivityKind) int {
	switch kind {
	case ActivityQuiz:
		return p.QuizBest
	case ActivityPractice:
		return p.PracticeBest
	case ActivityBuilder:
		return p.BuilderBest
	default:
		return 0
	}
}

func (p *TopicProgress) setBest(kind ActivityKind, score int) {
	switch kind {
	case ActivityQuiz:
		p.QuizBest = score
	case ActivityPractice:
		p.PracticeBest = score
	case ActivityBuilder:
		p.BuilderBest = score
	}
}

// Completion returns the composite completion percentage of a topic:
// 25 points for the lesson plus a quarter of each best score. A topic is
// completed when the lesson is done and all three bests are 100.
func (p TopicProgress) Completion() int {
	lesson := 0.0
	if p.LessonDone {
		lesson = 25
	}
	return int(math.Round(lesson +
		25*float64(p.QuizBest)/100 +
		25*float64(p.PracticeBest)/100 +
		25*float64(p.BuilderBest)/100))
}

// UserProgress holds the whole learning progress of one user: the
// per-topic records plus the global reward points. It is mutated only
// through MarkLessonDone and RecordScore and persisted after every
// mutation by the progress service.
type UserProgress struct {
	UserID      int64
	Topics      map[string]*TopicProgress
	TotalPoints int
}

// NewUserProgress creates an empty progress record for a user.
func NewUserProgress(userID int64) *UserProgress {
	return &UserProgress{
		UserID: userID,
		Topics: make(map[string]*TopicProgress),
	}
}

// Topic returns the progress record for a topic id, or a zero record for
// a topic the user has not touched yet.
func (p *UserProgress) Topic(topicID string) TopicProgress {
	if tp, ok := p.Topics[topicID]; ok {
		return *tp
	}
	return TopicProgress{}
}

// Completion returns the composite completion for a topic id,
// 0 for an unknown topic.
func (p *UserProgress) Completion(topicID string) int {
	return p.Topic(topicID).Completion()
}

// CompletedCount returns the number of fully completed topics.
func (p *UserProgress) CompletedCount() int {
	count := 0
	for _, tp := range p.Topics {
		if tp.Completion() >= 100 {
			count++
		}
	}
	return count
}

// MarkLessonDone idempotently sets the lesson flag for a topic. It awards
// no points; lesson completion contributes to composite progress only.
// It reports whether the record changed.
func (p *UserProgress) MarkLessonDone(topicID string) bool {
	tp := p.ensure(topicID)
	if tp.LessonDone {
		return false
	}
	tp.LessonDone = true
	return true
}

// RecordScore applies a completed activity run. Only a strict improvement
// over the stored best mutates the record and awards round(score/10)
// points; replaying at a lower or equal score changes nothing, so points
// cannot be farmed.
func (p *UserProgress) RecordScore(topicID string, kind ActivityKind, score int) (improved bool, points int) {
	tp := p.ensure(topicID)
	if score <= tp.Best(kind) {
		return false, 0
	}

	tp.setBest(kind, score)
	points = int(math.Round(float64(score) / 10))
	p.TotalPoints += points

	return true, points
}

func (p *UserProgress) ensure(topicID string) *TopicProgress {
	tp, ok := p.Topics[topicID]
	if !ok {
		tp = &TopicProgress{}
		p.Topics[topicID] = tp
	}
	return tp
}
