package memory

import (
	"context"
	"sync"

	"sanskrit-quiz-service/internal/domain"
)

// ProgressStore keeps the round-in-progress score per game in process memory.
type ProgressStore struct {
	mu     sync.RWMutex
	scores map[domain.Game]int
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{scores: make(map[domain.Game]int)}
}

func (p *ProgressStore) Save(_ context.Context, game domain.Game, score int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scores[game] = score
	return nil
}

func (p *ProgressStore) Load(_ context.Context, game domain.Game) (int, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	score, ok := p.scores[game]
	return score, ok, nil
}

func (p *ProgressStore) Clear(_ context.Context, game domain.Game) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.scores, game)
	return nil
}
