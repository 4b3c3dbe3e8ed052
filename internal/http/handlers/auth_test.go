package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/geocoder89/hrhub/internal/domain/user"
	"github.com/geocoder89/hrhub/internal/http/handlers"
	"github.com/geocoder89/hrhub/internal/security"
	"github.com/gin-gonic/gin"
)

type fakeUsersRepo struct {
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	createFn     func(ctx context.Context, email, passwordHash, firstName, lastName, role string) (user.User, error)
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}

	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) Create(ctx context.Context, email, passwordHash, firstName, lastName, role string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, email, passwordHash, firstName, lastName, role)
	}

	return user.User{ID: "new-id", Email: email, Role: role}, nil
}

type fakeIssuer struct {
	token string
	err   error
}

func (f *fakeIssuer) IssueToken(userID, role string) (string, error) {
	return f.token, f.err
}

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeUsersRepo)
		wantStatusCode int
	}{
		{
			name:           "success",
			body:           `{"name": "Jane Doe", "email": "jane@example.com", "password": "secret1", "role": "employee"}`,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing_email",
			body:           `{"name": "Jane Doe", "password": "secret1", "role": "employee"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "short_password",
			body:           `{"name": "Jane Doe", "email": "jane@example.com", "password": "abc", "role": "employee"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "unknown_role",
			body:           `{"name": "Jane Doe", "email": "jane@example.com", "password": "secret1", "role": "superuser"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "email_taken",
			body: `{"name": "Jane Doe", "email": "jane@example.com", "password": "secret1", "role": "employee"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, email, passwordHash, firstName, lastName, role string) (user.User, error) {
					return user.User{}, user.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"name": "Jane Doe", "email": "jane@example.com", "password": "secret1", "role": "employee"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, email, passwordHash, firstName, lastName, role string) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAuthHandler(repo, repo, &fakeIssuer{token: "tok"}, nil)

			r := setupRouter(http.MethodPost, "/auth/signup", h.SignUp)

			w := doJSON(r, http.MethodPost, "/auth/signup", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestSignUpSplitsFullName(t *testing.T) {
	var gotFirst, gotLast string

	repo := &fakeUsersRepo{
		createFn: func(ctx context.Context, email, passwordHash, firstName, lastName, role string) (user.User, error) {
			gotFirst, gotLast = firstName, lastName
			return user.User{ID: "new-id"}, nil
		},
	}

	h := handlers.NewAuthHandler(repo, repo, &fakeIssuer{token: "tok"}, nil)
	r := setupRouter(http.MethodPost, "/auth/signup", h.SignUp)

	w := doJSON(r, http.MethodPost, "/auth/signup", `{"name": "Ada Mary Lovelace", "email": "ada@example.com", "password": "secret1", "role": "admin"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if gotFirst != "Ada" || gotLast != "Mary Lovelace" {
		t.Fatalf("got name %q / %q", gotFirst, gotLast)
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("right-pass")

	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	stored := user.User{ID: "user-1", Email: "jane@example.com", PasswordHash: hash, Role: "employee"}

	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeUsersRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email": "jane@example.com", "password": "right-pass"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "wrong_password",
			body: `{"email": "jane@example.com", "password": "wrong-pass"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "unknown_email",
			body:           `{"email": "nobody@example.com", "password": "right-pass"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "malformed_email",
			body:           `{"email": "not-an-email", "password": "right-pass"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAuthHandler(repo, repo, &fakeIssuer{token: "issued-token"}, nil)

			r := setupRouter(http.MethodPost, "/auth/login", h.Login)

			w := doJSON(r, http.MethodPost, "/auth/login", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Token  string `json:"token"`
					Role   string `json:"role"`
					UserID string `json:"user_id"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("bad response body: %v", err)
				}

				if resp.Token != "issued-token" || resp.Role != "employee" || resp.UserID != "user-1" {
					t.Fatalf("unexpected payload: %+v", resp)
				}
			}
		})
	}
}
