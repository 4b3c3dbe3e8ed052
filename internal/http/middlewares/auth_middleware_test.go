package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/hrhub/internal/auth"
	"github.com/geocoder89/hrhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f *fakeVerifier) VerifyToken(token string) (*auth.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.claims, nil
}

func protectedRouter(v middlewares.TokenVerifier, adminOnly bool) *gin.Engine {
	mw := middlewares.NewAuthMiddleware(v, nil)

	r := gin.New()

	chain := []gin.HandlerFunc{mw.RequireAuth()}

	if adminOnly {
		chain = append(chain, mw.RequireAdmin())
	}

	chain = append(chain, func(c *gin.Context) {
		id, _ := middlewares.IdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "role": id.Role})
	})

	r.GET("/protected", chain...)

	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRequireAuth(t *testing.T) {
	valid := &fakeVerifier{claims: &auth.Claims{UserID: "user-1", Role: "employee"}}

	tests := []struct {
		name           string
		verifier       middlewares.TokenVerifier
		authHeader     string
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:           "valid_token",
			verifier:       valid,
			authHeader:     "Bearer good-token",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_header",
			verifier:       valid,
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Missing or invalid Authorization header",
		},
		{
			name:           "wrong_scheme",
			verifier:       valid,
			authHeader:     "Basic dXNlcjpwYXNz",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Missing or invalid Authorization header",
		},
		{
			name:           "empty_bearer",
			verifier:       valid,
			authHeader:     "Bearer ",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Missing or invalid access token",
		},
		{
			name:           "expired_token",
			verifier:       &fakeVerifier{err: auth.ErrTokenExpired},
			authHeader:     "Bearer stale-token",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Token has expired",
		},
		{
			name:           "invalid_token",
			verifier:       &fakeVerifier{err: auth.ErrTokenInvalid},
			authHeader:     "Bearer garbage",
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Invalid token",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := protectedRouter(tt.verifier, false)

			w := get(r, tt.authHeader)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantMessage == "" {
				return
			}

			var resp struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("bad response body: %v", err)
			}

			if resp.Success || resp.Message != tt.wantMessage {
				t.Fatalf("unexpected error payload: %+v", resp)
			}
		})
	}
}

func TestRequireAuthExposesIdentity(t *testing.T) {
	r := protectedRouter(&fakeVerifier{claims: &auth.Claims{UserID: "user-1", Role: "admin"}}, false)

	w := get(r, "Bearer good-token")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if resp.UserID != "user-1" || resp.Role != "admin" {
		t.Fatalf("unexpected identity: %+v", resp)
	}
}

func TestRequireAdmin(t *testing.T) {
	admin := &fakeVerifier{claims: &auth.Claims{UserID: "admin-1", Role: "admin"}}
	employee := &fakeVerifier{claims: &auth.Claims{UserID: "emp-1", Role: "employee"}}

	if w := get(protectedRouter(admin, true), "Bearer t"); w.Code != http.StatusOK {
		t.Fatalf("admin should pass, got %d", w.Code)
	}

	w := get(protectedRouter(employee, true), "Bearer t")

	if w.Code != http.StatusForbidden {
		t.Fatalf("employee should be forbidden, got %d", w.Code)
	}

	var resp struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if resp.Message != "Unauthorized access" {
		t.Fatalf("got message %q", resp.Message)
	}
}
