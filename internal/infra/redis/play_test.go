package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"sanskrit-quiz-service/internal/app"
	"sanskrit-quiz-service/internal/domain"
)

func TestPlayProgressKeyedByUserAndClearedOnClose(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	service := newRedisPlayService(client, time.Minute, time.Hour)

	session, err := service.Open(ctx, domain.GameTense, "42")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	playTenseRound(t, service, session.ID())

	key := "progress:42:tense"
	if v, _ := mr.Get(key); v != "5" {
		t.Fatalf("expected finished score under the user key, got %q", v)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected progress ttl within an hour, got %v", ttl)
	}

	service.Close(ctx, session.ID())
	if mr.Exists(key) {
		t.Fatalf("expected progress removed on close")
	}
}

func TestAnonymousPlayProgressKeyedBySession(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	service := newRedisPlayService(client, time.Minute, time.Hour)

	session, err := service.Open(ctx, domain.GameTense, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	playTenseRound(t, service, session.ID())

	key := "progress:" + session.ID() + ":tense"
	if !mr.Exists(key) {
		t.Fatalf("expected progress under %s, keys %v", key, mr.Keys())
	}
	service.Close(ctx, session.ID())
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected no keys left after close, got %v", mr.Keys())
	}
}

func TestPlayActionsKeepSessionMarkerAlive(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	service := newRedisPlayService(client, time.Minute, time.Hour)

	session, err := service.Open(ctx, domain.GameTense, "42")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	marker := "play:session:" + session.ID()

	for i := 0; i < 3; i++ {
		if _, err := service.Apply(ctx, session.ID(), app.Action{Type: app.ActionState}); err != nil {
			t.Fatalf("state: %v", err)
		}
		mr.FastForward(40 * time.Second)
	}
	if !mr.Exists(marker) {
		t.Fatalf("expected marker refreshed by play actions")
	}

	mr.FastForward(2 * time.Minute)
	if mr.Exists(marker) {
		t.Fatalf("expected marker to expire once actions stop")
	}
}

func newRedisPlayService(client *redis.Client, sessionTTL, progressTTL time.Duration) *app.PlayService {
	sources := func(domain.Game) (app.QuestionSource, error) {
		return app.SourceFunc(func(context.Context) (domain.Question, error) {
			return app.TenseQuestion(domain.TensePayload{Sentence: "रामः गच्छति", Tense: "present"}, nil), nil
		}), nil
	}
	progress := func(owner string) app.ProgressStore {
		return NewProgressStore(client, owner, progressTTL)
	}
	return app.NewPlayService(NewSessionStore(client, sessionTTL), sources, progress, nil, app.PlayConfig{})
}

func playTenseRound(t *testing.T, service *app.PlayService, id string) {
	t.Helper()
	ctx := context.Background()
	apply := func(a app.Action) domain.RoundState {
		t.Helper()
		st, err := service.Apply(ctx, id, a)
		if err != nil {
			t.Fatalf("%s: %v", a.Type, err)
		}
		return st
	}

	apply(app.Action{Type: app.ActionStart})
	for i := 0; i < 5; i++ {
		apply(app.Action{Type: app.ActionSelect, Field: domain.FieldAnswer, Value: "present"})
		apply(app.Action{Type: app.ActionSubmit})
		apply(app.Action{Type: app.ActionNext})
	}
	if st := apply(app.Action{Type: app.ActionState}); st.Phase != domain.PhaseFinished || st.Score != 5 {
		t.Fatalf("expected a finished round scoring 5, got %+v", st)
	}
}
