package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordBank_StartsEmpty(t *testing.T) {
	b := NewWordBank([]string{"I", "breakfast", "eat"})

	assert.Equal(t, []int{0, 1, 2}, b.Available())
	assert.Empty(t, b.Selected())
	assert.False(t, b.Complete())
	assert.Equal(t, "", b.Sentence())
}

func TestWordBank_PickKeepsOrder(t *testing.T) {
	b := NewWordBank([]string{"I", "breakfast", "eat"})

	require.NoError(t, b.Pick(2))
	require.NoError(t, b.Pick(0))

	assert.Equal(t, []int{2, 0}, b.Selected())
	assert.Equal(t, []int{1}, b.Available())
	assert.Equal(t, "eat I", b.Sentence())
}

func TestWordBank_PickUnavailable(t *testing.T) {
	b := NewWordBank([]string{"I", "am"})

	require.NoError(t, b.Pick(1))
	assert.ErrorIs(t, b.Pick(1), ErrWordNotAvailable)
	assert.ErrorIs(t, b.Pick(5), ErrWordNotAvailable)
}

func TestWordBank_UnpickRestoresAscendingOrder(t *testing.T) {
	b := NewWordBank([]string{"I", "breakfast", "eat", "daily"})

	require.NoError(t, b.Pick(3))
	require.NoError(t, b.Pick(0))
	require.NoError(t, b.Pick(2))
	assert.Equal(t, []int{1}, b.Available())

	require.NoError(t, b.Unpick(3))
	assert.Equal(t, []int{0, 2}, b.Selected())
	assert.Equal(t, []int{1, 3}, b.Available())

	assert.ErrorIs(t, b.Unpick(3), ErrWordNotSelected)
}

func TestWordBank_DuplicateWordsStayDistinct(t *testing.T) {
	// "If I study I will succeed" has two "I" tokens at indices 1 and 3.
	b := NewWordBank([]string{"If", "I", "study", "I", "will", "succeed"})

	require.NoError(t, b.Pick(0))
	require.NoError(t, b.Pick(3))
	require.NoError(t, b.Pick(2))

	assert.Equal(t, []int{0, 3, 2}, b.Selected())
	assert.Equal(t, "If I study", b.Sentence())
	assert.Equal(t, []int{1, 4, 5}, b.Available())
}

func TestWordBank_Complete(t *testing.T) {
	b := NewWordBank([]string{"I", "am"})

	require.NoError(t, b.Pick(1))
	assert.False(t, b.Complete())
	require.NoError(t, b.Pick(0))
	assert.True(t, b.Complete())
	assert.Equal(t, "am I", b.Sentence())
}

func TestWordBank_AccessorsReturnCopies(t *testing.T) {
	b := NewWordBank([]string{"a", "b", "c"})
	require.NoError(t, b.Pick(1))

	selected := b.Selected()
	selected[0] = 99
	assert.Equal(t, []int{1}, b.Selected())

	available := b.Available()
	available[0] = 99
	assert.Equal(t, []int{0, 2}, b.Available())
}

func TestSentenceExercise_CorrectSentence(t *testing.T) {
	e := SentenceExercise{
		Words:        []string{"I", "breakfast", "eat", "every", "day"},
		CorrectOrder: []int{0, 2, 1, 3, 4},
	}
	assert.Equal(t, "I eat breakfast every day", e.CorrectSentence())
}
