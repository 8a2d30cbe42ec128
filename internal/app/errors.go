package app

import "errors"

var (
	// ErrBusy is returned while a network call for the round is outstanding.
	ErrBusy = errors.New("round is busy")
	// ErrNotPresenting is returned when no question is on screen.
	ErrNotPresenting = errors.New("no question is being presented")
	// ErrIncompleteGuess is returned when a required guess field is unset.
	ErrIncompleteGuess = errors.New("guess is incomplete")
	// ErrQuestionClosed is returned when the current question was already decided.
	ErrQuestionClosed = errors.New("question already answered")
	// ErrNextLocked is returned when advancing before the question is decided.
	ErrNextLocked = errors.New("next is locked")
	// ErrHintUnavailable is returned before a wrong attempt or without hint material.
	ErrHintUnavailable = errors.New("hint not available")
	// ErrUnknownField is returned for a guess field the question does not have.
	ErrUnknownField = errors.New("unknown guess field")
	// ErrUnknownOption is returned for a value outside the field's options.
	ErrUnknownOption = errors.New("unknown option")
	// ErrNotFailed is returned when retrying a round that did not fail.
	ErrNotFailed = errors.New("round has not failed")
	// ErrStale is returned when a fetch finished after the round moved on.
	ErrStale = errors.New("result belongs to an earlier round")
)
