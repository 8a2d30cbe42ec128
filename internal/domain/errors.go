package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownGame is returned for a game name outside Games.
	ErrUnknownGame = errors.New("unknown game")
	// ErrAuth indicates a missing or rejected credential on a score update.
	ErrAuth = errors.New("not authenticated, please log in again")
	// ErrMissingField is returned when a required request field is empty.
	ErrMissingField = errors.New("missing required field")
	// ErrUserNotFound is returned when an account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering an email twice.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNoSentences indicates the corpus has nothing to build a question from.
	ErrNoSentences = errors.New("no sentences available")
	// ErrCorpusNotFound indicates the named corpus could not be loaded.
	ErrCorpusNotFound = errors.New("corpus not found")
)

// TransportError covers network failures and non-2xx responses.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SemanticError is a well-formed response that carries an explicit error.
type SemanticError struct {
	Op      string
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsSemantic reports whether err is a SemanticError.
func IsSemantic(err error) bool {
	var se *SemanticError
	return errors.As(err, &se)
}
