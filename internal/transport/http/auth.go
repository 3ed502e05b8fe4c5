package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fundflow/crowdfund/services/api/internal/app"
	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

// Registrar is the minimal interface needed to register a user.
type Registrar interface {
	Register(ctx context.Context, in app.RegisterInput) (domain.User, error)
}

// Authenticator is the minimal interface needed to log a user in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (app.LoginResult, error)
}

// HandleRegister returns an HTTP handler for creating user accounts.
func HandleRegister(svc Registrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := svc.Register(r.Context(), app.RegisterInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			if errors.Is(err, domain.ErrEmailTaken) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeSuccess(w, http.StatusCreated, toUserResponse(user), "User registered successfully")
	}
}

// HandleLogin returns an HTTP handler for exchanging credentials for a token.
func HandleLogin(svc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeSuccess(w, http.StatusOK, loginResponse{
			Token: res.Token,
			User:  toUserResponse(res.User),
		}, "Login successful")
	}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
	}
}
