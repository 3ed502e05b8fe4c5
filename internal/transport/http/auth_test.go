package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fundflow/crowdfund/services/api/internal/app"
	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

func TestHandleRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "registered",
			body:           `{"email": "a@b.com", "password": "secret", "first_name": "Ada"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"email":"a@b.com"`,
		},
		{
			name:           "missing credentials",
			body:           `{"email": "a@b.com"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid body",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "email taken",
			body:           `{"email": "a@b.com", "password": "secret"}`,
			serviceErr:     domain.ErrEmailTaken,
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAuthService{
				user: domain.User{ID: "user-1", Email: "a@b.com", Role: domain.UserRoleUser},
				err:  tt.serviceErr,
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			HandleRegister(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
			if strings.Contains(rec.Body.String(), "password") {
				t.Fatalf("response must not leak password material: %q", rec.Body.String())
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "logged in",
			body:           `{"email": "a@b.com", "password": "secret"}`,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"token":"tok-1"`,
		},
		{
			name:           "wrong password",
			body:           `{"email": "a@b.com", "password": "nope"}`,
			serviceErr:     domain.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			body:           `{"email": "a@b.com"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAuthService{
				login: app.LoginResult{User: domain.User{ID: "user-1", Email: "a@b.com"}, Token: "tok-1"},
				err:   tt.serviceErr,
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			HandleLogin(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

type stubAuthService struct {
	user  domain.User
	login app.LoginResult
	err   error
}

func (s *stubAuthService) Register(_ context.Context, _ app.RegisterInput) (domain.User, error) {
	if s.err != nil {
		return domain.User{}, s.err
	}
	return s.user, nil
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (app.LoginResult, error) {
	if s.err != nil {
		return app.LoginResult{}, s.err
	}
	return s.login, nil
}
