package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
)

// stubResolver is an in-memory UserResolver. Missing ids return NotFound,
// like the real repository.
type stubResolver struct {
	users map[string]*model.User
}

var _ UserResolver = (*stubResolver)(nil)

func (s *stubResolver) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func newGuard(t *testing.T) (*TokenService, *stubResolver, http.Handler) {
	t.Helper()

	tokens := newTestTokenService(t)
	resolver := &stubResolver{users: map[string]*model.User{
		"u1": {ID: "u1", Email: "u1@example.com"},
	}}

	// The protected handler echoes the caller id from the context so the
	// test can confirm what the guard resolved.
	protected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("UserFromContext() should succeed behind the guard")
			return
		}
		w.Write([]byte(user.ID))
	})

	return tokens, resolver, RequireUser(tokens, resolver)(protected)
}

func TestRequireUser_ValidBearerToken(t *testing.T) {
	tokens, _, guard := newGuard(t)

	token, err := tokens.Generate("u1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	guard.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "u1" {
		t.Errorf("resolved caller = %q, want %q", rec.Body.String(), "u1")
	}
}

func TestRequireUser_CookieFallback(t *testing.T) {
	tokens, _, guard := newGuard(t)

	token, err := tokens.Generate("u1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()

	guard.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (cookie fallback)", rec.Code)
	}
}

func TestRequireUser_Rejections(t *testing.T) {
	tokens, resolver, guard := newGuard(t)

	valid, err := tokens.Generate("u1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	expired, err := tokens.GenerateWithDuration("u1", -1*time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}
	otherKey, err := NewTokenService("some-other-signing-key-here")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	foreign, err := otherKey.Generate("u1")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	deletedUser, err := tokens.Generate("gone")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing token", header: ""},
		{name: "malformed header", header: valid}, // no "Bearer " prefix
		{name: "wrong scheme", header: "Basic " + valid},
		{name: "garbage token", header: "Bearer not.a.jwt"},
		{name: "expired token", header: "Bearer " + expired},
		{name: "foreign signing key", header: "Bearer " + foreign},
		{name: "token for deleted user", header: "Bearer " + deletedUser},
	}

	// "gone" must really be gone.
	if _, ok := resolver.users["gone"]; ok {
		t.Fatal("test setup: user 'gone' should not exist")
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			guard.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestUserFromContext_Anonymous(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("UserFromContext() should report no user on a bare context")
	}
}
