package entities

import (
	"errors"
	"math"
)

// ActivityKind is one of the four learning activities of a topic.
type ActivityKind string

const (
	ActivityLesson   ActivityKind = "lesson"
	ActivityQuiz     ActivityKind = "quiz"
	ActivityPractice ActivityKind = "practice"
	ActivityBuilder  ActivityKind = "builder"
)

// RunnerState represents the state of an exercise runner.
type RunnerState string

const (
	RunnerActive   RunnerState = "active"   // waiting for an answer to the current item
	RunnerFeedback RunnerState = "feedback" // answer submitted, feedback shown
	RunnerFinished RunnerState = "finished" // all items answered, final score computed
)

var (
	// ErrNoExercises is returned when an activity has no items to run.
	ErrNoExercises = errors.New("no exercises for this activity")
	// ErrInvalidTransition is returned for an intent issued outside the
	// enabled set of the current runner state. This is a caller bug.
	ErrInvalidTransition = errors.New("invalid runner state transition")
	// ErrSentenceIncomplete is returned when a sentence is checked before
	// all words have been placed.
	ErrSentenceIncomplete = errors.New("sentence is not complete")
)

// Answer carries the user's selection for one item. Exactly one field is
// meaningful depending on the activity kind: Option for quiz, Text for
// practice, Order for sentence building.
type Answer struct {
	Option int
	Text   string
	Order  []int
}

// AnswerOption builds a quiz answer (option index).
func AnswerOption(i int) Answer { return Answer{Option: i} }

// AnswerText builds a practice answer (option text).
func AnswerText(s string) Answer { return Answer{Text: s} }

// AnswerOrder builds a sentence-builder answer (word index order).
func AnswerOrder(order []int) Answer { return Answer{Order: order} }

// evaluateFunc reports whether the answer is correct for the item at index i.
type evaluateFunc func(i int, a Answer) bool

// ExerciseRunner drives a single activity over an ordered item sequence.
// It is one state machine for all three exercise kinds; the kind-specific
// equality rule is injected as an evaluator at construction time.
//
// Transitions: Active(i, tally) --submit--> Feedback --advance-->
// Active(i+1, tally) or Finished(score); Finished --restart--> Active(0, 0).
type ExerciseRunner struct {
	kind     ActivityKind
	state    RunnerState
	index    int
	tally    int
	total    int
	evaluate evaluateFunc

	answer  Answer // last submitted answer, valid in feedback state
	correct bool   // whether the last answer was correct

	score    int  // final score, valid in finished state
	reported bool // final score already handed out by Advance

	words [][]string // sentence-builder word lists, nil for other kinds
	bank  *WordBank  // sentence-builder word bank for the current item
}

// NewQuizRunner creates a runner over a topic's quiz questions.
func NewQuizRunner(items []QuizQuestion) (*ExerciseRunner, error) {
	if len(items) == 0 {
		return nil, ErrNoExercises
	}
	return &ExerciseRunner{
		kind:  ActivityQuiz,
		state: RunnerActive,
		total: len(items),
		evaluate: func(i int, a Answer) bool {
			return a.Option == items[i].CorrectAnswer
		},
	}, nil
}

// NewPracticeRunner creates a runner over a topic's practice exercises.
func NewPracticeRunner(items []PracticeExercise) (*ExerciseRunner, error) {
	if len(items) == 0 {
		return nil, ErrNoExercises
	}
	return &ExerciseRunner{
		kind:  ActivityPractice,
		state: RunnerActive,
		total: len(items),
		evaluate: func(i int, a Answer) bool {
			return a.Text == items[i].CorrectAnswer
		},
	}, nil
}

// NewSentenceRunner creates a runner over a topic's sentence-building
// exercises. The word bank for the first item is ready immediately.
func NewSentenceRunner(items []SentenceExercise) (*ExerciseRunner, error) {
	if len(items) == 0 {
		return nil, ErrNoExercises
	}

	words := make([][]string, len(items))
	for i, item := range items {
		words[i] = item.Words
	}

	return &ExerciseRunner{
		kind:  ActivityBuilder,
		state: RunnerActive,
		total: len(items),
		words: words,
		bank:  NewWordBank(words[0]),
		evaluate: func(i int, a Answer) bool {
			if len(a.Order) != len(items[i].CorrectOrder) {
				return false
			}
			for j, w := range a.Order {
				if w != items[i].CorrectOrder[j] {
					return false
				}
			}
			return true
		},
	}, nil
}

// Kind returns the activity kind the runner was built for.
func (r *ExerciseRunner) Kind() ActivityKind { return r.kind }

// State returns the current runner state.
func (r *ExerciseRunner) State() RunnerState { return r.state }

// Index returns the 0-based index of the current item.
func (r *ExerciseRunner) Index() int { return r.index }

// Tally returns the running count of correct answers.
func (r *ExerciseRunner) Tally() int { return r.tally }

// Total returns the number of items in the sequence.
func (r *ExerciseRunner) Total() int { return r.total }

// LastAnswer returns the answer submitted for the current item.
// Meaningful only in the feedback state.
func (r *ExerciseRunner) LastAnswer() Answer { return r.answer }

// LastCorrect reports whether the last submitted answer was correct.
// Meaningful only in the feedback state.
func (r *ExerciseRunner) LastCorrect() bool { return r.correct }

// Score returns the final score. Meaningful only in the finished state.
func (r *ExerciseRunner) Score() int { return r.score }

// Bank returns the word bank of the current sentence-building item,
// or nil for other activity kinds.
func (r *ExerciseRunner) Bank() *WordBank { return r.bank }

// Submit checks the answer against the current item, increments the tally
// if correct and moves the runner into the feedback state.
func (r *ExerciseRunner) Submit(a Answer) (bool, error) {
	if r.state != RunnerActive {
		return false, ErrInvalidTransition
	}

	r.answer = a
	r.correct = r.evaluate(r.index, a)
	if r.correct {
		r.tally++
	}
	r.state = RunnerFeedback

	return r.correct, nil
}

// SubmitSentence submits the word bank arrangement of the current
// sentence-building item. All words must have been placed first.
func (r *ExerciseRunner) SubmitSentence() (bool, error) {
	if r.kind != ActivityBuilder || r.bank == nil {
		return false, ErrInvalidTransition
	}
	if !r.bank.Complete() {
		return false, ErrSentenceIncomplete
	}
	return r.Submit(AnswerOrder(r.bank.Selected()))
}

// PickWord moves word index i from the available set to the end of the
// built sentence. Valid only pre-submission on a sentence runner.
func (r *ExerciseRunner) PickWord(i int) error {
	if r.kind != ActivityBuilder || r.state != RunnerActive {
		return ErrInvalidTransition
	}
	return r.bank.Pick(i)
}

// UnpickWord moves word index i from the built sentence back into the
// available set. Valid only pre-submission on a sentence runner.
func (r *ExerciseRunner) UnpickWord(i int) error {
	if r.kind != ActivityBuilder || r.state != RunnerActive {
		return ErrInvalidTransition
	}
	return r.bank.Unpick(i)
}

// Advance moves past the feedback of the current item. If items remain it
// returns to the active state at the next index; otherwise it computes the
// final score exactly once and finishes. The returned score is meaningful
// only when done is true.
func (r *ExerciseRunner) Advance() (done bool, score int, err error) {
	if r.state != RunnerFeedback {
		return false, 0, ErrInvalidTransition
	}

	if r.index < r.total-1 {
		r.index++
		r.answer = Answer{}
		r.correct = false
		r.state = RunnerActive
		if r.kind == ActivityBuilder {
			r.bank = NewWordBank(r.words[r.index])
		}
		return false, 0, nil
	}

	if r.reported {
		return false, 0, ErrInvalidTransition
	}
	r.score = Percentage(r.tally, r.total)
	r.reported = true
	r.state = RunnerFinished

	return true, r.score, nil
}

// Restart resets a finished runner to the first item with a zero tally.
// The previous run's score is not re-reported.
func (r *ExerciseRunner) Restart() error {
	if r.state != RunnerFinished {
		return ErrInvalidTransition
	}

	r.index = 0
	r.tally = 0
	r.answer = Answer{}
	r.correct = false
	r.score = 0
	r.reported = false
	r.state = RunnerActive
	if r.kind == ActivityBuilder {
		r.bank = NewWordBank(r.words[0])
	}

	return nil
}

// Percentage returns round(100 * correct / total). The caller guarantees
// total > 0; runners cannot be constructed over empty sequences.
func Percentage(correct, total int) int {
	return int(math.Round(100 * float64(correct) / float64(total)))
}
