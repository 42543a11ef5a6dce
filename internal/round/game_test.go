package round

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleValueGame() *Game {
	s := DefaultSettings()
	s.Min, s.Max = 1, 1
	return NewGame(NewGenerator(fixedSource{}), s)
}

func TestGame_CorrectAnswer(t *testing.T) {
	g := singleValueGame()
	r, err := g.Start()
	require.NoError(t, err)
	assert.Equal(t, 1, r.Target)

	out, err := g.Submit("1")
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, Stats{Attempts: 1, Correct: 1, Streak: 1, BestStreak: 1}, g.Stats())
	assert.Equal(t, "Correct! It was 1.", g.Feedback().Message)
	assert.Equal(t, FeedbackSuccess, g.Feedback().Kind)
}

func TestGame_IncorrectAnswerResetsStreak(t *testing.T) {
	g := singleValueGame()

	_, _ = g.Start()
	_, _ = g.Submit("1")
	_, _ = g.Start()
	out, err := g.Submit("2")
	require.NoError(t, err)

	assert.False(t, out.Correct)
	assert.Equal(t, 0, g.Stats().Streak)
	assert.Equal(t, 2, g.Stats().Attempts)
	assert.Equal(t, "Not quite! The number was 1.", g.Feedback().Message)
}

func TestGame_EmptyInputNotScored(t *testing.T) {
	g := singleValueGame()
	_, _ = g.Start()

	for _, in := range []string{"", "   ", "\n"} {
		_, err := g.Submit(in)
		assert.ErrorIs(t, err, ErrEmptyAnswer)
	}
	assert.Equal(t, Stats{}, g.Stats())
	assert.True(t, g.Pending())
}

func TestGame_ScoredOnce(t *testing.T) {
	g := singleValueGame()
	_, _ = g.Start()

	_, err := g.Submit("1")
	require.NoError(t, err)
	_, err = g.Submit("1")
	assert.ErrorIs(t, err, ErrAlreadyScored)
	_, err = g.Submit("5")
	assert.ErrorIs(t, err, ErrAlreadyScored)

	assert.Equal(t, 1, g.Stats().Attempts)
	assert.Equal(t, FeedbackInfo, g.Feedback().Kind)
}

func TestGame_SubmitWithoutRound(t *testing.T) {
	g := singleValueGame()
	_, err := g.Submit("1")
	assert.ErrorIs(t, err, ErrNoRound)
}

func TestGame_InvalidRangeCreatesNoRound(t *testing.T) {
	s := DefaultSettings()
	s.Min, s.Max = 10, 1
	g := NewGame(NewGenerator(nil), s)

	_, err := g.Start()
	assert.True(t, errors.Is(err, ErrInvalidRange))
	assert.Nil(t, g.Round())
	assert.Equal(t, Stats{}, g.Stats())
	assert.Equal(t, "Invalid range: Min > Max.", g.Feedback().Message)
}

func TestGame_SettingsChangeResetsRound(t *testing.T) {
	g := singleValueGame()
	_, _ = g.Start()
	_, _ = g.Submit("7")
	require.NotNil(t, g.Feedback())

	s := g.Settings()
	s.Language = "fr-FR"
	assert.True(t, g.ApplySettings(s))
	assert.Nil(t, g.Round())
	assert.Nil(t, g.Feedback())
	assert.Equal(t, 1, g.Stats().Attempts, "stats survive settings changes")

	assert.False(t, g.ApplySettings(s), "identical settings are not a change")
}

func TestGame_Abandon(t *testing.T) {
	g := singleValueGame()
	_, _ = g.Start()
	g.Abandon("Network hiccup, try again.")

	assert.Nil(t, g.Round())
	assert.False(t, g.Pending())
	assert.Equal(t, FeedbackError, g.Feedback().Kind)
}

func TestGame_Skip(t *testing.T) {
	g := singleValueGame()

	_, err := g.Skip()
	assert.ErrorIs(t, err, ErrNoRound)

	_, _ = g.Start()
	skipped, err := g.Skip()
	require.NoError(t, err)
	assert.Equal(t, 1, skipped.Target)
	assert.Nil(t, g.Round())
	assert.Equal(t, Stats{}, g.Stats())
	assert.Equal(t, "Skipped. The number was 1.", g.Feedback().Message)

	_, _ = g.Start()
	_, _ = g.Submit("1")
	_, err = g.Skip()
	assert.ErrorIs(t, err, ErrNoRound, "a scored round cannot be skipped")
}

func TestGame_AttemptsInvariant(t *testing.T) {
	g := NewGame(NewGenerator(nil), DefaultSettings())
	for i := range 50 {
		r, err := g.Start()
		require.NoError(t, err)
		answer := "0"
		if i%3 == 0 {
			answer = strconv.Itoa(r.Target)
		}
		_, err = g.Submit(answer)
		require.NoError(t, err)
	}
	st := g.Stats()
	assert.Equal(t, 50, st.Attempts)
	assert.Equal(t, st.Attempts, st.Correct+st.Incorrect())
	assert.LessOrEqual(t, st.Correct, st.Attempts)
}
