package app

import (
	"context"
	"testing"
	"time"

	"github.com/fundflow/crowdfund/services/api/internal/auth"
	"github.com/fundflow/crowdfund/services/api/internal/clock"
	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := auth.NewManager("test-secret", time.Hour)

	makeSvc := func() (*AuthService, *fakeUserRepo) {
		repo := newFakeUserRepo()
		return NewAuthService(repo, tokens, clock.NewFixed(now)), repo
	}

	t.Run("register creates plain user with hashed password", func(t *testing.T) {
		svc, repo := makeSvc()
		user, err := svc.Register(context.Background(), RegisterInput{
			Email:     "backer@example.com",
			Password:  "s3cret-pass",
			FirstName: "Ada",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.Role != domain.UserRoleUser {
			t.Fatalf("expected plain user role, got %s", user.Role)
		}
		stored := repo.byEmail["backer@example.com"]
		if stored.PasswordHash == "s3cret-pass" || stored.PasswordHash == "" {
			t.Fatalf("password must be stored hashed")
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc, _ := makeSvc()
		in := RegisterInput{Email: "backer@example.com", Password: "s3cret-pass"}
		if _, err := svc.Register(context.Background(), in); err != nil {
			t.Fatalf("first register: %v", err)
		}
		if _, err := svc.Register(context.Background(), in); err != domain.ErrEmailTaken {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("login returns verifiable token and records last login", func(t *testing.T) {
		svc, repo := makeSvc()
		if _, err := svc.Register(context.Background(), RegisterInput{
			Email:    "backer@example.com",
			Password: "s3cret-pass",
		}); err != nil {
			t.Fatalf("register: %v", err)
		}

		res, err := svc.Login(context.Background(), "backer@example.com", "s3cret-pass")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		claims, err := tokens.Verify(res.Token)
		if err != nil {
			t.Fatalf("token must verify: %v", err)
		}
		if claims.UserID != res.User.ID {
			t.Fatalf("token subject mismatch: %s vs %s", claims.UserID, res.User.ID)
		}
		stored := repo.byEmail["backer@example.com"]
		if stored.LastLoginAt == nil || !stored.LastLoginAt.Equal(now) {
			t.Fatalf("expected last login %v, got %v", now, stored.LastLoginAt)
		}
	})

	t.Run("wrong password and unknown email both map to invalid credentials", func(t *testing.T) {
		svc, _ := makeSvc()
		if _, err := svc.Register(context.Background(), RegisterInput{
			Email:    "backer@example.com",
			Password: "s3cret-pass",
		}); err != nil {
			t.Fatalf("register: %v", err)
		}

		if _, err := svc.Login(context.Background(), "backer@example.com", "wrong"); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := svc.Login(context.Background(), "ghost@example.com", "whatever"); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

type fakeUserRepo struct {
	byEmail map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]domain.User)}
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user domain.User) error {
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	for email, u := range f.byEmail {
		if u.ID == id {
			u.LastLoginAt = &at
			f.byEmail[email] = u
			return nil
		}
	}
	return domain.ErrUserNotFound
}
