package bank

import (
	"context"
	"errors"

	"sanskrit-quiz-service/internal/app"
	"sanskrit-quiz-service/internal/domain"
)

// Sources returns in-process question sources backed by b, for rounds
// hosted next to the bank.
func Sources(b *Bank, rnd domain.Intn) app.SourceFactory {
	return func(game domain.Game) (app.QuestionSource, error) {
		switch game {
		case domain.GameTense:
			return app.SourceFunc(func(ctx context.Context) (domain.Question, error) {
				p, err := b.Tense(ctx)
				if err != nil {
					return domain.Question{}, sourceError("get tense question", err)
				}
				return app.TenseQuestion(p, rnd), nil
			}), nil
		case domain.GameVerb:
			return app.SourceFunc(func(ctx context.Context) (domain.Question, error) {
				p, err := b.Verb(ctx)
				if err != nil {
					return domain.Question{}, sourceError("get verb question", err)
				}
				return app.VerbQuestion(p, rnd), nil
			}), nil
		case domain.GameNumber:
			return app.SourceFunc(func(ctx context.Context) (domain.Question, error) {
				p, err := b.Number(ctx)
				if err != nil {
					return domain.Question{}, sourceError("get number question", err)
				}
				return app.NumberQuestion(p)
			}), nil
		}
		return nil, domain.ErrUnknownGame
	}
}

// sourceError classifies bank failures the way the HTTP adapters do:
// an empty or unknown corpus is a semantic answer, anything else is transport.
func sourceError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoSentences):
		return &domain.SemanticError{Op: op, Message: "No sentences available"}
	case errors.Is(err, domain.ErrCorpusNotFound):
		return &domain.SemanticError{Op: op, Message: "Corpus not found"}
	}
	return &domain.TransportError{Op: op, Err: err}
}
