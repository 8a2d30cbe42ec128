package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"sanskrit-quiz-service/internal/domain"
)

// CorpusLoader loads corpus JSONB from Postgres.
type CorpusLoader struct {
	pool *pgxpool.Pool
}

func NewCorpusLoader(pool *pgxpool.Pool) *CorpusLoader {
	return &CorpusLoader{pool: pool}
}

func (l *CorpusLoader) LoadCorpus(ctx context.Context, name string) (domain.Corpus, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM corpora WHERE name=$1`, name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Corpus{}, domain.ErrCorpusNotFound
	}
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("load corpus: %w", err)
	}
	var c domain.Corpus
	if err := json.Unmarshal(raw, &c); err != nil {
		return domain.Corpus{}, fmt.Errorf("unmarshal corpus: %w", err)
	}
	if c.Name == "" {
		c.Name = name
	}
	return c, nil
}

// SaveCorpus upserts c under its name.
func (l *CorpusLoader) SaveCorpus(ctx context.Context, c domain.Corpus) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal corpus: %w", err)
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO corpora (name, data) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, c.Name, string(data))
	if err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}
	return nil
}
