// Package entities contains domain entities used across the application.
package entities

import "strings"

// Level represents the difficulty level of a grammar topic.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Topic is one grammar concept with bilingual explanatory content and
// exercise sequences for each learning activity. Topics are immutable
// after load and owned by the topic repository.
type Topic struct {
	ID            string             `json:"id" validate:"required"`
	Title         string             `json:"title" validate:"required"`
	TitleUK       string             `json:"titleUk" validate:"required"`
	Level         Level              `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Description   string             `json:"description"`
	DescriptionUK string             `json:"descriptionUk"`
	Explanation   string             `json:"explanation" validate:"required"`
	ExplanationUK string             `json:"explanationUk" validate:"required"`
	Examples      []Example          `json:"examples" validate:"dive"`
	QuizQuestions []QuizQuestion     `json:"quizQuestions" validate:"dive"`
	Practice      []PracticeExercise `json:"practiceExercises" validate:"dive"`
	Sentences     []SentenceExercise `json:"sentenceBuilding" validate:"dive"`
}

// Example is a correct sentence with an optional incorrect counterpart
// and a translation, shown in the lesson view.
type Example struct {
	Correct     string `json:"correct" validate:"required"`
	Incorrect   string `json:"incorrect,omitempty"`
	Translation string `json:"translation"`
}

// QuizQuestion is a multiple choice question. CorrectAnswer is a 0-based
// index into Options.
type QuizQuestion struct {
	Question      string   `json:"question" validate:"required"`
	QuestionUK    string   `json:"questionUk" validate:"required"`
	Options       []string `json:"options" validate:"min=2"`
	CorrectAnswer int      `json:"correctAnswer" validate:"gte=0"`
	Explanation   string   `json:"explanation"`
	ExplanationUK string   `json:"explanationUk"`
}

// PracticeExercise is a fill-in-the-blank sentence. CorrectAnswer must
// match exactly one of Options (exact equality, case-sensitive).
type PracticeExercise struct {
	Sentence      string   `json:"sentence" validate:"required"`
	SentenceUK    string   `json:"sentenceUk" validate:"required"`
	Blank         string   `json:"blank"`
	Options       []string `json:"options" validate:"min=2"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
}

// SentenceExercise is a word-ordering exercise. Words may contain
// duplicates, so CorrectOrder arranges words by original position:
// it is a permutation of the index range [0, len(Words)).
type SentenceExercise struct {
	Prompt       string   `json:"prompt" validate:"required"`
	PromptUK     string   `json:"promptUk" validate:"required"`
	Words        []string `json:"words" validate:"min=2"`
	CorrectOrder []int    `json:"correctOrder"`
}

// CorrectSentence reconstructs the target sentence for display.
func (e SentenceExercise) CorrectSentence() string {
	words := make([]string, 0, len(e.CorrectOrder))
	for _, i := range e.CorrectOrder {
		words = append(words, e.Words[i])
	}
	return strings.Join(words, " ")
}

// LocalTitle returns the Ukrainian title when uk is true.
func (t *Topic) LocalTitle(uk bool) string {
	if uk {
		return t.TitleUK
	}
	return t.Title
}

// LocalDescription returns the Ukrainian description when uk is true.
func (t *Topic) LocalDescription(uk bool) string {
	if uk {
		return t.DescriptionUK
	}
	return t.Description
}

// LocalExplanation returns the Ukrainian explanation when uk is true.
func (t *Topic) LocalExplanation(uk bool) string {
	if uk {
		return t.ExplanationUK
	}
	return t.Explanation
}

// LocalQuestion returns the Ukrainian question text when uk is true.
func (q QuizQuestion) LocalQuestion(uk bool) string {
	if uk {
		return q.QuestionUK
	}
	return q.Question
}

// LocalExplanation returns the Ukrainian explanation when uk is true.
func (q QuizQuestion) LocalExplanation(uk bool) string {
	if uk {
		return q.ExplanationUK
	}
	return q.Explanation
}

// LocalSentence returns the Ukrainian sentence when uk is true.
func (e PracticeExercise) LocalSentence(uk bool) string {
	if uk {
		return e.SentenceUK
	}
	return e.Sentence
}

// LocalPrompt returns the Ukrainian prompt when uk is true.
func (e SentenceExercise) LocalPrompt(uk bool) string {
	if uk {
		return e.PromptUK
	}
	return e.Prompt
}
