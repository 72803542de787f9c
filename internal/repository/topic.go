// Package repository provides access to the static grammar topic catalog.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/viktosha/grammar-tutor-bot/internal/domain/entities"
)

var ErrTopicNotFound = errors.New("topic not found")

// TopicRepository holds the ordered, immutable list of grammar topics.
// The catalog is loaded once from a JSON asset and never mutated.
type TopicRepository struct {
	topics []*entities.Topic
	byID   map[string]*entities.Topic
}

// NewTopicRepository loads and validates the topic catalog from path.
func NewTopicRepository(path string) (*TopicRepository, error) {
	topics, err := loadTopics(path)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Topic, len(topics))
	for _, t := range topics {
		if _, ok := byID[t.ID]; ok {
			return nil, fmt.Errorf("duplicate topic id %q", t.ID)
		}
		byID[t.ID] = t
	}

	return &TopicRepository{
		topics: topics,
		byID:   byID,
	}, nil
}

// GetByID retrieves a topic by its id.
func (r *TopicRepository) GetByID(id string) (*entities.Topic, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, ErrTopicNotFound
	}
	return t, nil
}

// GetAll retrieves all topics in catalog order.
func (r *TopicRepository) GetAll() []*entities.Topic {
	return r.topics
}

// Count returns the number of topics in the catalog.
func (r *TopicRepository) Count() int {
	return len(r.topics)
}

func loadTopics(path string) ([]*entities.Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Topics []*entities.Topic `json:"topics"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal topics JSON: %w", err)
	}

	if len(wrapper.Topics) == 0 {
		return nil, fmt.Errorf("topic catalog is empty")
	}

	validate := validator.New()
	for _, t := range wrapper.Topics {
		if err := validate.Struct(t); err != nil {
			return nil, fmt.Errorf("topic %q: %w", t.ID, err)
		}
		if err := checkExercises(t); err != nil {
			return nil, fmt.Errorf("topic %q: %w", t.ID, err)
		}
	}

	return wrapper.Topics, nil
}

// checkExercises verifies the invariants the validator tags cannot
// express: answer keys must actually point at the exercise content.
func checkExercises(t *entities.Topic) error {
	for i, q := range t.QuizQuestions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("quiz question %d: correct answer index %d out of range", i, q.CorrectAnswer)
		}
	}

	for i, e := range t.Practice {
		matches := 0
		for _, opt := range e.Options {
			if opt == e.CorrectAnswer {
				matches++
			}
		}
		if matches != 1 {
			return fmt.Errorf("practice exercise %d: correct answer %q must match exactly one option, matches %d", i, e.CorrectAnswer, matches)
		}
	}

	for i, s := range t.Sentences {
		if err := checkPermutation(s.CorrectOrder, len(s.Words)); err != nil {
			return fmt.Errorf("sentence exercise %d: %w", i, err)
		}
	}

	return nil
}

// checkPermutation verifies order is a permutation of [0, n).
func checkPermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("correct order has %d entries for %d words", len(order), n)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n {
			return fmt.Errorf("word index %d out of range", idx)
		}
		if seen[idx] {
			return fmt.Errorf("word index %d repeated", idx)
		}
		seen[idx] = true
	}
	return nil
}
