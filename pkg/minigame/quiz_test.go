package minigame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/meter"
)

func testQuestions(n int) []content.Question {
	qs := make([]content.Question, n)
	for i := range qs {
		qs[i] = content.Question{Text: "q", Options: []string{"a", "b", "c"}, Correct: 1}
	}
	return qs
}

func TestQuiz_Answer(t *testing.T) {
	qs := testQuestions(5)

	t.Run("correct answer scores", func(t *testing.T) {
		q := NewQuiz(len(qs))
		ok, err := q.Answer(qs[0], 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, q.Score)
		assert.Equal(t, meter.Meter(20), q.Ecosystem)
		assert.Equal(t, StartLives, q.Lives)
		assert.Equal(t, meter.Meter(20), q.Water())
	})

	t.Run("wrong answer costs a life", func(t *testing.T) {
		q := NewQuiz(len(qs))
		ok, err := q.Answer(qs[0], 2)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, q.Score)
		assert.Equal(t, StartLives-1, q.Lives)
		assert.False(t, q.LastCorrect)
	})

	t.Run("second answer rejected", func(t *testing.T) {
		q := NewQuiz(len(qs))
		_, err := q.Answer(qs[0], 0)
		require.NoError(t, err)
		_, err = q.Answer(qs[0], 1)
		assert.True(t, errors.Is(err, ErrAlreadyAnswered))
		assert.Equal(t, 0, q.Score)
	})

	t.Run("option out of range", func(t *testing.T) {
		q := NewQuiz(len(qs))
		_, err := q.Answer(qs[0], 3)
		assert.True(t, errors.Is(err, ErrInvalidOption))
		assert.False(t, q.Answered())
	})
}

func TestQuiz_Next(t *testing.T) {
	qs := testQuestions(5)
	q := NewQuiz(len(qs))

	_, err := q.Next()
	require.True(t, errors.Is(err, ErrNotAnswered))

	for i := range qs {
		_, err := q.Answer(qs[i], 1)
		require.NoError(t, err)
		done, err := q.Next()
		require.NoError(t, err)
		assert.Equal(t, i == len(qs)-1, done, "question %d", i)
	}

	assert.True(t, q.Finished)
	assert.Equal(t, 5, q.Score)
	assert.Equal(t, meter.Meter(100), q.Ecosystem, "ecosystem clamps at 100")
	assert.Equal(t, meter.Meter(100), q.Water())

	_, err = q.Answer(qs[4], 1)
	assert.True(t, errors.Is(err, ErrFinished))
}

func TestQuiz_LivesFloorAtZero(t *testing.T) {
	qs := testQuestions(7)
	q := NewQuiz(len(qs))
	for i := range qs {
		_, err := q.Answer(qs[i], 0)
		require.NoError(t, err)
		_, err = q.Next()
		require.NoError(t, err)
	}
	assert.Equal(t, 0, q.Lives)
	assert.True(t, q.Finished, "running out of lives does not end the quiz early")
}
