package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/model"
)

func newTestAuthService(t *testing.T, users *mockUserRepo) (*AuthService, *auth.TokenService, *auth.PasswordService) {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	return NewAuthService(users, tokens, passwords, testLogger()), tokens, passwords
}

// registerUser stores a user with a real (min-cost) hash of password.
func registerUser(t *testing.T, users *mockUserRepo, passwords *auth.PasswordService, email, password string) *model.User {
	t.Helper()

	hash, err := passwords.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	user := &model.User{Email: email, PasswordHash: hash}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

func TestLogin_Success(t *testing.T) {
	users := newMockUserRepo()
	svc, tokens, passwords := newTestAuthService(t, users)
	user := registerUser(t, users, passwords, "alice@example.com", "hunter22")

	token, err := svc.Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token.TokenType != "bearer" {
		t.Errorf("TokenType = %q, want bearer", token.TokenType)
	}

	// The minted token must resolve back to the user.
	userID, err := tokens.Validate(token.AccessToken)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != user.ID {
		t.Errorf("token subject = %q, want %q", userID, user.ID)
	}
}

func TestLogin_TrimsEmail(t *testing.T) {
	users := newMockUserRepo()
	svc, _, passwords := newTestAuthService(t, users)
	registerUser(t, users, passwords, "alice@example.com", "hunter22")

	if _, err := svc.Login(context.Background(), "  alice@example.com  ", "hunter22"); err != nil {
		t.Errorf("Login() with padded email error = %v", err)
	}
}

// Every failure mode answers the same Unauthorized: the response must not
// reveal whether the email is registered.
func TestLogin_Failures(t *testing.T) {
	users := newMockUserRepo()
	svc, _, passwords := newTestAuthService(t, users)
	registerUser(t, users, passwords, "alice@example.com", "hunter22")

	// OAuth-only account: present, but no password hash.
	oauthUser := &model.User{Email: "octo@example.com", GitHubID: 42}
	if err := users.UpsertByGitHubID(context.Background(), oauthUser); err != nil {
		t.Fatalf("UpsertByGitHubID: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown email", email: "nobody@example.com", password: "hunter22"},
		{name: "wrong password", email: "alice@example.com", password: "wrong"},
		{name: "empty email", email: "", password: "hunter22"},
		{name: "empty password", email: "alice@example.com", password: ""},
		{name: "oauth-only account", email: "octo@example.com", password: "anything"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, apperror.ErrUnauthorized) {
				t.Errorf("Login() = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestLoginOrRegisterGitHub_NewUser(t *testing.T) {
	users := newMockUserRepo()
	svc, tokens, _ := newTestAuthService(t, users)

	token, err := svc.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{
		ID:    42,
		Login: "octocat",
		Email: "octo@example.com",
	})
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}

	userID, err := tokens.Validate(token.AccessToken)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	stored, err := users.GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.GitHubID != 42 {
		t.Errorf("GitHubID = %d, want 42", stored.GitHubID)
	}
}

// GitHub users can hide their email; a noreply address stands in so the
// unique-email invariant holds.
func TestLoginOrRegisterGitHub_HiddenEmail(t *testing.T) {
	users := newMockUserRepo()
	svc, tokens, _ := newTestAuthService(t, users)

	token, err := svc.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{
		ID:    42,
		Login: "octocat",
	})
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}

	userID, err := tokens.Validate(token.AccessToken)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	stored, err := users.GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Email != "octocat@users.noreply.github.com" {
		t.Errorf("Email = %q, want the noreply fallback", stored.Email)
	}
}

func TestLoginOrRegisterGitHub_RepeatLoginKeepsID(t *testing.T) {
	users := newMockUserRepo()
	svc, tokens, _ := newTestAuthService(t, users)
	ctx := context.Background()

	first, err := svc.LoginOrRegisterGitHub(ctx, &auth.GitHubUser{ID: 42, Login: "octocat", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("first login error = %v", err)
	}
	second, err := svc.LoginOrRegisterGitHub(ctx, &auth.GitHubUser{ID: 42, Login: "octocat", Email: "b@example.com"})
	if err != nil {
		t.Fatalf("second login error = %v", err)
	}

	firstID, err := tokens.Validate(first.AccessToken)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	secondID, err := tokens.Validate(second.AccessToken)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if firstID != secondID {
		t.Errorf("repeat GitHub login changed the internal ID: %q != %q", firstID, secondID)
	}
}
