package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fundflow/crowdfund/services/api/internal/auth"
	"github.com/fundflow/crowdfund/services/api/internal/clock"
	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	CreateUser(ctx context.Context, user domain.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type AuthService struct {
	repo   UserRepository
	tokens *auth.Manager
	clock  clock.Clock
}

func NewAuthService(repo UserRepository, tokens *auth.Manager, clk clock.Clock) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		clock:  clk,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if _, err := s.repo.GetUserByEmail(ctx, in.Email); err == nil {
		return domain.User{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         domain.UserRoleUser,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

type LoginResult struct {
	User  domain.User
	Token string
}

func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	now := s.clock.Now()
	token, err := s.tokens.Issue(user.ID, user.Role, now)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return LoginResult{}, err
	}
	user.LastLoginAt = &now
	return LoginResult{User: user, Token: token}, nil
}
