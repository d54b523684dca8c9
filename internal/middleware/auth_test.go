package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dan9191/task-tracker/internal/auth"
	"github.com/sirupsen/logrus"
)

type stubAuthenticator struct {
	claims *auth.Claims
	err    error
	got    string
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	s.got = token
	return s.claims, s.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func serve(a Authenticator, header string) (*httptest.ResponseRecorder, bool) {
	called := false
	h := AuthMiddleware(a, quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		fmt.Fprintf(w, "%d", claims.UserID)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, called
}

func TestAuthMiddlewarePassesClaims(t *testing.T) {
	a := &stubAuthenticator{claims: &auth.Claims{UserID: 7}}

	rec, called := serve(a, "Bearer abc.def.ghi")
	if !called || rec.Code != http.StatusOK || rec.Body.String() != "7" {
		t.Fatalf("unexpected response: called=%v code=%d body=%q", called, rec.Code, rec.Body.String())
	}
	if a.got != "abc.def.ghi" {
		t.Fatalf("token passed = %q", a.got)
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic dXNlcjpwdw==", "abc.def.ghi"} {
		rec, called := serve(&stubAuthenticator{claims: &auth.Claims{UserID: 1}}, header)
		if called || rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: called=%v code=%d", header, called, rec.Code)
		}
	}
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	a := &stubAuthenticator{err: fmt.Errorf("%w: expired", auth.ErrInvalidToken)}

	rec, called := serve(a, "Bearer expired")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("called=%v code=%d", called, rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("expected WWW-Authenticate header")
	}
}

func TestAuthMiddlewareStoreFailure(t *testing.T) {
	a := &stubAuthenticator{err: errors.New("db down")}

	rec, called := serve(a, "Bearer tok")
	if called || rec.Code != http.StatusInternalServerError {
		t.Fatalf("called=%v code=%d", called, rec.Code)
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	h := Logging(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201", rec.Code)
	}
}
