package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"github.com/geocoder89/hrhub/internal/auth"
	"github.com/geocoder89/hrhub/internal/authz"
	"github.com/geocoder89/hrhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Keep gin quiet during tests

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeVerifier satisfies middlewares.TokenVerifier and hands back a
// fixed identity so handler tests can run behind the real middleware.
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

func authMiddlewareFor(id authz.Identity) *middlewares.AuthMiddleware {
	return middlewares.NewAuthMiddleware(&fakeVerifier{
		claims: &auth.Claims{UserID: id.UserID, Role: id.Role},
	}, nil)
}

var (
	adminID    = authz.Identity{UserID: "admin-1", Role: "admin"}
	employeeID = authz.Identity{UserID: "emp-1", Role: "employee"}
)

// setupAuthedRouter mounts a single handler behind the real auth
// middleware, faking only the token verification.
func setupAuthedRouter(id authz.Identity, method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	mw := authMiddlewareFor(id)

	r.Handle(method, path, mw.RequireAuth(), h)

	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func doGET(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)

	req.Header.Set("Authorization", "Bearer test-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
