package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"sanskrit-quiz-service/internal/domain"
)

// UserStore keeps learners and score history in Postgres.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (full_name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, score, created_at`, u.FullName, u.Email, u.PasswordHash).
		Scan(&id, &u.Score, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrEmailTaken
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	u.ID = strconv.FormatInt(id, 10)
	return u, nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, full_name, email, password_hash, score, created_at
		FROM users WHERE email = $1`, email))
}

func (s *UserStore) ByID(ctx context.Context, id string) (domain.User, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, full_name, email, password_hash, score, created_at
		FROM users WHERE id = $1`, n))
}

func (s *UserStore) AddScore(ctx context.Context, id string, delta int) (int, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}
	var total int
	err = s.pool.QueryRow(ctx, `UPDATE users SET score = score + $1 WHERE id = $2 RETURNING score`, delta, n).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("update score: %w", err)
	}
	return total, nil
}

func (s *UserStore) SaveScore(ctx context.Context, save domain.ScoreSave) error {
	n, err := strconv.ParseInt(save.UserID, 10, 64)
	if err != nil {
		return domain.ErrUserNotFound
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO score_saves (user_id, score, saved_at) VALUES ($1, $2, $3)`, n, save.Score, save.SavedAt)
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

// Saves returns the recorded round results of userID, oldest first.
func (s *UserStore) Saves(ctx context.Context, userID string) ([]domain.ScoreSave, error) {
	n, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	rows, err := s.pool.Query(ctx, `SELECT score, saved_at FROM score_saves WHERE user_id = $1 ORDER BY id`, n)
	if err != nil {
		return nil, fmt.Errorf("list score saves: %w", err)
	}
	defer rows.Close()

	var out []domain.ScoreSave
	for rows.Next() {
		save := domain.ScoreSave{UserID: userID}
		if err := rows.Scan(&save.Score, &save.SavedAt); err != nil {
			return nil, fmt.Errorf("scan score save: %w", err)
		}
		out = append(out, save)
	}
	return out, rows.Err()
}

func (s *UserStore) scanUser(row pgx.Row) (domain.User, error) {
	var (
		u  domain.User
		id int64
	)
	err := row.Scan(&id, &u.FullName, &u.Email, &u.PasswordHash, &u.Score, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	u.ID = strconv.FormatInt(id, 10)
	return u, nil
}
