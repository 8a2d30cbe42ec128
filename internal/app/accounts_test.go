package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sanskrit-quiz-service/internal/app"
	"sanskrit-quiz-service/internal/auth"
	"sanskrit-quiz-service/internal/domain"
	"sanskrit-quiz-service/internal/infra/memory"
)

func TestRegisterLoginProfile(t *testing.T) {
	ctx := context.Background()
	accounts, tokens, _ := newTestAccounts()

	user, token, err := accounts.Register(ctx, "Ada Lovelace", " Ada@Example.com ", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ada@example.com" || user.Score != 0 || user.PasswordHash == "pw" {
		t.Fatalf("unexpected user %+v", user)
	}
	claims, err := tokens.Parse(token)
	if err != nil || claims.UserID != user.ID {
		t.Fatalf("token does not identify user: %+v %v", claims, err)
	}

	if _, _, err := accounts.Register(ctx, "Ada", "ada@example.com", "pw"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, _, err := accounts.Register(ctx, "", "x@example.com", "pw"); !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}

	if _, _, err := accounts.Login(ctx, "ada@example.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := accounts.Login(ctx, "nobody@example.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	logged, _, err := accounts.Login(ctx, "ADA@example.com", "pw")
	if err != nil || logged.ID != user.ID {
		t.Fatalf("login: %+v %v", logged, err)
	}

	if _, err := accounts.Profile(ctx, "404"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestScoreDeltasAndFinalSave(t *testing.T) {
	ctx := context.Background()
	accounts, _, _ := newTestAccounts()
	user, _, _ := accounts.Register(ctx, "Ada", "ada@example.com", "pw")

	reporter := accounts.Reporter(user.ID)
	for _, d := range []int{1, 2, 1} {
		if _, err := reporter.ReportDelta(ctx, d); err != nil {
			t.Fatalf("delta: %v", err)
		}
	}
	if err := reporter.ReportFinal(ctx, user.ID, 4); err != nil {
		t.Fatalf("final: %v", err)
	}

	profile, _ := accounts.Profile(ctx, user.ID)
	if profile.Score != 4 {
		t.Fatalf("final save must not change the cumulative score, got %d", profile.Score)
	}
	saves, err := accounts.History(ctx, user.ID)
	if err != nil || len(saves) != 1 || saves[0].Score != 4 {
		t.Fatalf("unexpected history %+v %v", saves, err)
	}
	if _, err := accounts.History(ctx, "404"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for history, got %v", err)
	}

	if _, err := accounts.Reporter("").ReportDelta(ctx, 1); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth for anonymous reporter, got %v", err)
	}
	if err := accounts.SaveFinal(ctx, "404", 1); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func newTestAccounts() (*app.AccountService, *auth.Manager, *memory.UserStore) {
	users := memory.NewUserStore()
	tokens := auth.NewManager("test-secret", time.Hour)
	return app.NewAccountService(users, tokens, auth.Bcrypt{Cost: bcrypt.MinCost}), tokens, users
}
