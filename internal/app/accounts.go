package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"sanskrit-quiz-service/internal/domain"
)

// UserStore persists learners and their score history.
type UserStore interface {
	// Create inserts u and returns it with ID and CreatedAt set.
	// A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, u domain.User) (domain.User, error)
	ByEmail(ctx context.Context, email string) (domain.User, error)
	ByID(ctx context.Context, id string) (domain.User, error)
	// AddScore adds delta to the cumulative score and returns the new total.
	AddScore(ctx context.Context, id string, delta int) (int, error)
	SaveScore(ctx context.Context, s domain.ScoreSave) error
	// Saves lists the recorded round results of a user, oldest first.
	Saves(ctx context.Context, userID string) ([]domain.ScoreSave, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AccountService contains the account and score use cases.
type AccountService struct {
	users  UserStore
	tokens TokenIssuer
	hasher PasswordHasher
	now    func() time.Time
}

func NewAccountService(users UserStore, tokens TokenIssuer, hasher PasswordHasher) *AccountService {
	return &AccountService{users: users, tokens: tokens, hasher: hasher, now: time.Now}
}

// Register creates an account and returns it with a fresh token.
func (s *AccountService) Register(ctx context.Context, fullName, email, password string) (domain.User, string, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)
	if fullName == "" || email == "" || password == "" {
		return domain.User{}, "", fmt.Errorf("full name, email, and password are required: %w", domain.ErrMissingField)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, domain.User{FullName: fullName, Email: email, PasswordHash: hash})
	if err != nil {
		return domain.User{}, "", err
	}
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	log.Info().Str("user", user.ID).Msg("user registered")
	return user, token, nil
}

// Login checks credentials and returns the user with a fresh token.
func (s *AccountService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, "", fmt.Errorf("email and password are required: %w", domain.ErrMissingField)
	}

	user, err := s.users.ByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Profile returns the account of userID.
func (s *AccountService) Profile(ctx context.Context, userID string) (domain.User, error) {
	return s.users.ByID(ctx, userID)
}

// AddScore applies a per-question delta and returns the cumulative score.
func (s *AccountService) AddScore(ctx context.Context, userID string, delta int) (int, error) {
	if userID == "" {
		return 0, domain.ErrAuth
	}
	total, err := s.users.AddScore(ctx, userID, delta)
	if err != nil {
		return 0, err
	}
	log.Debug().Str("user", userID).Int("delta", delta).Int("total", total).Msg("score updated")
	return total, nil
}

// SaveFinal records the result of a finished round. The cumulative score is
// left alone since per-question deltas already reached it.
func (s *AccountService) SaveFinal(ctx context.Context, userID string, score int) error {
	if userID == "" {
		return fmt.Errorf("user id is required: %w", domain.ErrMissingField)
	}
	if _, err := s.users.ByID(ctx, userID); err != nil {
		return err
	}
	return s.users.SaveScore(ctx, domain.ScoreSave{UserID: userID, Score: score, SavedAt: s.now().UTC()})
}

// History returns the saved round results of userID, oldest first.
func (s *AccountService) History(ctx context.Context, userID string) ([]domain.ScoreSave, error) {
	if _, err := s.users.ByID(ctx, userID); err != nil {
		return nil, err
	}
	saves, err := s.users.Saves(ctx, userID)
	if err != nil {
		return nil, err
	}
	if saves == nil {
		saves = []domain.ScoreSave{}
	}
	return saves, nil
}

// Reporter returns a ScoreReporter that books scores for userID in-process.
// An empty userID reports domain.ErrAuth for every delta.
func (s *AccountService) Reporter(userID string) ScoreReporter {
	return accountReporter{accounts: s, userID: userID}
}

type accountReporter struct {
	accounts *AccountService
	userID   string
}

func (r accountReporter) ReportDelta(ctx context.Context, amount int) (int, error) {
	return r.accounts.AddScore(ctx, r.userID, amount)
}

func (r accountReporter) ReportFinal(ctx context.Context, userID string, total int) error {
	return r.accounts.SaveFinal(ctx, userID, total)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
