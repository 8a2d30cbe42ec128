package migrations

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/uptrace/bun"

	"sanskrit-quiz-service/internal/bank"
)

//go:embed 0003_create_corpora.sql
var createCorporaSQL string

// The bundled sample corpus is seeded so a fresh database can serve questions.
func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, createCorporaSQL); err != nil {
				return err
			}
			c, err := bank.SampleCorpus()
			if err != nil {
				return err
			}
			data, err := json.Marshal(c)
			if err != nil {
				return err
			}
			_, err = db.ExecContext(ctx, `INSERT INTO corpora (name, data) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`, bank.SampleName, string(data))
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS corpora`)
			return err
		},
	)
}
