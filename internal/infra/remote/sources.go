package remote

import (
	"context"

	"sanskrit-quiz-service/internal/app"
	"sanskrit-quiz-service/internal/domain"
)

// TenseSource fetches tense questions.
type TenseSource struct {
	client *Client
	rnd    domain.Intn
}

func NewTenseSource(client *Client, rnd domain.Intn) *TenseSource {
	return &TenseSource{client: client, rnd: rnd}
}

func (s *TenseSource) FetchQuestion(ctx context.Context) (domain.Question, error) {
	var p domain.TensePayload
	if err := s.client.getPayload(ctx, "get tense question", "/api/get-tense-question", &p); err != nil {
		return domain.Question{}, err
	}
	return app.TenseQuestion(p, s.rnd), nil
}

// VerbSource fetches verb form questions.
type VerbSource struct {
	client *Client
	rnd    domain.Intn
}

func NewVerbSource(client *Client, rnd domain.Intn) *VerbSource {
	return &VerbSource{client: client, rnd: rnd}
}

func (s *VerbSource) FetchQuestion(ctx context.Context) (domain.Question, error) {
	var p domain.VerbPayload
	if err := s.client.getPayload(ctx, "get verb question", "/api/get-game", &p); err != nil {
		return domain.Question{}, err
	}
	return app.VerbQuestion(p, s.rnd), nil
}

// NumberSource fetches person/number questions.
type NumberSource struct {
	client *Client
}

func NewNumberSource(client *Client) *NumberSource {
	return &NumberSource{client: client}
}

func (s *NumberSource) FetchQuestion(ctx context.Context) (domain.Question, error) {
	var p domain.NumberPayload
	if err := s.client.getPayload(ctx, "get number question", "/api/get-number-game", &p); err != nil {
		return domain.Question{}, err
	}
	return app.NumberQuestion(p)
}

// Sources returns a factory of HTTP question sources for every game.
func Sources(client *Client, rnd domain.Intn) app.SourceFactory {
	return func(game domain.Game) (app.QuestionSource, error) {
		switch game {
		case domain.GameTense:
			return NewTenseSource(client, rnd), nil
		case domain.GameVerb:
			return NewVerbSource(client, rnd), nil
		case domain.GameNumber:
			return NewNumberSource(client), nil
		}
		return nil, domain.ErrUnknownGame
	}
}
