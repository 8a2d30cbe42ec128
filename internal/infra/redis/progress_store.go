package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"sanskrit-quiz-service/internal/domain"
)

// ProgressStore keeps the round-in-progress score per game under
// progress:{owner}:{game}, where owner is a play session or user.
// Entries expire after ttl; zero keeps them until cleared.
type ProgressStore struct {
	client *redis.Client
	owner  string
	ttl    time.Duration
}

func NewProgressStore(client *redis.Client, owner string, ttl time.Duration) *ProgressStore {
	return &ProgressStore{client: client, owner: owner, ttl: ttl}
}

func (p *ProgressStore) Save(ctx context.Context, game domain.Game, score int) error {
	return p.client.Set(ctx, p.key(game), score, p.ttl).Err()
}

func (p *ProgressStore) Load(ctx context.Context, game domain.Game) (int, bool, error) {
	score, err := p.client.Get(ctx, p.key(game)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

func (p *ProgressStore) Clear(ctx context.Context, game domain.Game) error {
	return p.client.Del(ctx, p.key(game)).Err()
}

func (p *ProgressStore) key(game domain.Game) string {
	return "progress:" + p.owner + ":" + string(game)
}
