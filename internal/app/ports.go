package app

import (
	"context"

	"sanskrit-quiz-service/internal/domain"
)

// QuestionSource fetches one question for a fixed game.
// Implementations surface *domain.TransportError or *domain.SemanticError
// and never retry.
type QuestionSource interface {
	FetchQuestion(ctx context.Context) (domain.Question, error)
}

// SourceFunc adapts a function to QuestionSource.
type SourceFunc func(ctx context.Context) (domain.Question, error)

func (f SourceFunc) FetchQuestion(ctx context.Context) (domain.Question, error) {
	return f(ctx)
}

// ScoreReporter persists score changes.
type ScoreReporter interface {
	// ReportDelta adds amount to the learner's cumulative score and returns
	// the confirmed total. Missing credentials yield domain.ErrAuth.
	ReportDelta(ctx context.Context, amount int) (int, error)
	// ReportFinal records the total of a finished round.
	ReportFinal(ctx context.Context, userID string, total int) error
}

// ProgressStore keeps the round-in-progress score per game.
type ProgressStore interface {
	Save(ctx context.Context, game domain.Game, score int) error
	Load(ctx context.Context, game domain.Game) (int, bool, error)
	Clear(ctx context.Context, game domain.Game) error
}

// Identity exposes the persisted authenticated user, if any.
type Identity interface {
	UserID() (string, bool)
}

// Credentials exposes the bearer token used for score updates.
type Credentials interface {
	Token() (string, bool)
}

// StaticCredentials is a fixed token; empty means logged out.
type StaticCredentials string

func (c StaticCredentials) Token() (string, bool) { return string(c), c != "" }

// StaticIdentity is a fixed user ID; empty means anonymous.
type StaticIdentity string

func (i StaticIdentity) UserID() (string, bool) { return string(i), i != "" }
