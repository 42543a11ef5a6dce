// Package round holds the game rules: target generation, answer
// evaluation, running statistics and the settings that shape a round.
package round

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrInvalidRange is returned when the configured minimum exceeds the maximum.
	ErrInvalidRange = errors.New("invalid range: min > max")

	// ErrEmptyAnswer is returned for blank or whitespace-only input.
	// Empty answers are never scored.
	ErrEmptyAnswer = errors.New("answer is empty")

	// ErrNoRound is returned when an answer is submitted with no active round.
	ErrNoRound = errors.New("no active round")

	// ErrAlreadyScored is returned when a round has already been evaluated.
	ErrAlreadyScored = errors.New("this round has already been scored")
)

// Round is a single listen-and-type exercise.
type Round struct {
	Target int
	Scored bool
}

// Evaluate compares the typed input against target.
// Input is trimmed first, then read up to the end of its leading base-10
// integer, so "7.0" and "7abc" both answer 7. Input with no leading
// integer is simply incorrect.
func Evaluate(input string, target int) (bool, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false, ErrEmptyAnswer
	}

	n, ok := leadingInt(trimmed)
	return ok && n == target, nil
}

func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}
