package entities

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrWordNotAvailable is returned when picking a word index that is
	// not in the available set.
	ErrWordNotAvailable = errors.New("word is not available")
	// ErrWordNotSelected is returned when unpicking a word index that is
	// not part of the built sentence.
	ErrWordNotSelected = errors.New("word is not selected")
)

// WordBank tracks the two disjoint index sets of one sentence-building
// item: the ordered sequence of picked words and the remaining available
// words. Indices refer to original word positions, so duplicate words
// stay distinguishable.
type WordBank struct {
	words     []string
	available []int // kept in ascending order
	selected  []int // in pick order
}

// NewWordBank creates a bank with every word available and none selected.
func NewWordBank(words []string) *WordBank {
	available := make([]int, len(words))
	for i := range words {
		available[i] = i
	}
	return &WordBank{
		words:     words,
		available: available,
		selected:  make([]int, 0, len(words)),
	}
}

// Pick moves word index i to the end of the built sentence.
func (b *WordBank) Pick(i int) error {
	pos := -1
	for j, idx := range b.available {
		if idx == i {
			pos = j
			break
		}
	}
	if pos == -1 {
		return ErrWordNotAvailable
	}

	b.available = append(b.available[:pos], b.available[pos+1:]...)
	b.selected = append(b.selected, i)

	return nil
}

// Unpick removes word index i from the built sentence and returns it to
// the available set, which stays sorted in ascending index order.
func (b *WordBank) Unpick(i int) error {
	pos := -1
	for j, idx := range b.selected {
		if idx == i {
			pos = j
			break
		}
	}
	if pos == -1 {
		return ErrWordNotSelected
	}

	b.selected = append(b.selected[:pos], b.selected[pos+1:]...)
	b.available = append(b.available, i)
	sort.Ints(b.available)

	return nil
}

// Complete reports whether every word has been placed.
func (b *WordBank) Complete() bool {
	return len(b.selected) == len(b.words)
}

// Selected returns a copy of the picked word indices in pick order.
func (b *WordBank) Selected() []int {
	return append([]int(nil), b.selected...)
}

// Available returns a copy of the available word indices in ascending order.
func (b *WordBank) Available() []int {
	return append([]int(nil), b.available...)
}

// Word returns the word at original position i.
func (b *WordBank) Word(i int) string { return b.words[i] }

// Sentence returns the built sentence so far, words joined by spaces.
func (b *WordBank) Sentence() string {
	words := make([]string, 0, len(b.selected))
	for _, i := range b.selected {
		words = append(words, b.words[i])
	}
	return strings.Join(words, " ")
}
