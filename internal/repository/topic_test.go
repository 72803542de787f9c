package repository

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCatalog = `{
  "topics": [
    {
      "id": "present-simple",
      "title": "Present Simple",
      "titleUk": "Простий теперішній час",
      "level": "beginner",
      "description": "Habits and facts",
      "descriptionUk": "Звички та факти",
      "explanation": "Subject + base verb",
      "explanationUk": "Підмет + основна форма",
      "examples": [
        {"correct": "I study English.", "translation": "Я вивчаю англійську."}
      ],
      "quizQuestions": [
        {
          "question": "She ___ to work.",
          "questionUk": "Вона ___ на роботу.",
          "options": ["go", "goes"],
          "correctAnswer": 1,
          "explanation": "goes with she",
          "explanationUk": "goes з she"
        }
      ],
      "practiceExercises": [
        {
          "sentence": "He ___ football.",
          "sentenceUk": "Він ___ у футбол.",
          "blank": "___",
          "options": ["play", "plays"],
          "correctAnswer": "plays"
        }
      ],
      "sentenceBuilding": [
        {
          "prompt": "Make a sentence",
          "promptUk": "Складіть речення",
          "words": ["I", "breakfast", "eat"],
          "correctOrder": [0, 2, 1]
        }
      ]
    }
  ]
}`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topics.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewTopicRepository_LoadsCatalog(t *testing.T) {
	repo, err := NewTopicRepository(writeCatalog(t, validCatalog))
	require.NoError(t, err)

	assert.Equal(t, 1, repo.Count())
	require.Len(t, repo.GetAll(), 1)

	topic, err := repo.GetByID("present-simple")
	require.NoError(t, err)
	assert.Equal(t, "Present Simple", topic.Title)
	assert.Equal(t, "Простий теперішній час", topic.TitleUK)
	require.Len(t, topic.Sentences, 1)
	assert.Equal(t, "I eat breakfast", topic.Sentences[0].CorrectSentence())
}

func TestNewTopicRepository_UnknownTopic(t *testing.T) {
	repo, err := NewTopicRepository(writeCatalog(t, validCatalog))
	require.NoError(t, err)

	_, err = repo.GetByID("nope")
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestNewTopicRepository_MissingFile(t *testing.T) {
	_, err := NewTopicRepository(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNewTopicRepository_MalformedJSON(t *testing.T) {
	_, err := NewTopicRepository(writeCatalog(t, `{"topics": [`))
	assert.Error(t, err)
}

func TestNewTopicRepository_EmptyCatalog(t *testing.T) {
	_, err := NewTopicRepository(writeCatalog(t, `{"topics": []}`))
	assert.ErrorContains(t, err, "empty")
}

func TestNewTopicRepository_QuizAnswerOutOfRange(t *testing.T) {
	broken := validCatalog
	broken = replace(t, broken, `"correctAnswer": 1,`, `"correctAnswer": 5,`)

	_, err := NewTopicRepository(writeCatalog(t, broken))
	assert.ErrorContains(t, err, "out of range")
}

func TestNewTopicRepository_PracticeAnswerNotAnOption(t *testing.T) {
	broken := replace(t, validCatalog, `"correctAnswer": "plays"`, `"correctAnswer": "played"`)

	_, err := NewTopicRepository(writeCatalog(t, broken))
	assert.ErrorContains(t, err, "exactly one option")
}

func TestNewTopicRepository_OrderNotAPermutation(t *testing.T) {
	broken := replace(t, validCatalog, `"correctOrder": [0, 2, 1]`, `"correctOrder": [0, 2, 2]`)

	_, err := NewTopicRepository(writeCatalog(t, broken))
	assert.ErrorContains(t, err, "repeated")
}

func TestNewTopicRepository_OrderWrongLength(t *testing.T) {
	broken := replace(t, validCatalog, `"correctOrder": [0, 2, 1]`, `"correctOrder": [0, 2]`)

	_, err := NewTopicRepository(writeCatalog(t, broken))
	assert.ErrorContains(t, err, "2 entries for 3 words")
}

func replace(t *testing.T, s, old, new string) string {
	t.Helper()
	require.Contains(t, s, old)
	return strings.Replace(s, old, new, 1)
}
