package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"backoffice/internal/core"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens := NewTokens("0123456789abcdef", time.Hour)
	user := core.User{ID: 7, Username: "admin"}

	pair, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := tokens.Verify(pair.AccessToken, TokenAccess)
	if err != nil {
		t.Fatalf("Verify(access) error = %v", err)
	}
	if id, _ := claims.UserID(); id != 7 || claims.Username != "admin" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := tokens.Verify(pair.RefreshToken, TokenRefresh); err != nil {
		t.Errorf("Verify(refresh) error = %v", err)
	}
}

func TestTokens_VerifyRejects(t *testing.T) {
	tokens := NewTokens("0123456789abcdef", time.Hour)
	pair, err := tokens.Issue(core.User{ID: 1, Username: "u"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	expired := NewTokens("0123456789abcdef", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue(core.User{ID: 1, Username: "u"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{TokenType: TokenAccess}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	tests := []struct {
		name      string
		verifier  *Tokens
		token     string
		tokenType string
		want      error
	}{
		{"refresh used as access", tokens, pair.RefreshToken, TokenAccess, ErrInvalidToken},
		{"access used as refresh", tokens, pair.AccessToken, TokenRefresh, ErrInvalidToken},
		{"wrong secret", NewTokens("another-secret-value", time.Hour), pair.AccessToken, TokenAccess, ErrInvalidToken},
		{"garbage", tokens, "not.a.token", TokenAccess, ErrInvalidToken},
		{"unsigned", tokens, none, TokenAccess, ErrInvalidToken},
		{"expired", tokens, old.AccessToken, TokenAccess, ErrExpiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.Verify(tt.token, tt.tokenType)
			if !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, core.ErrUnauthorized) {
				t.Errorf("Verify() error = %v, want ErrUnauthorized kind", err)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Error("CheckPassword() = false for the right password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() = true for a wrong password")
	}
	if CheckPassword("not-a-hash", "s3cret-pass") {
		t.Error("CheckPassword() = true for a malformed hash")
	}
}

func TestCurrentUserContext(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != nil || UserIDFromContext(ctx) != nil {
		t.Fatal("empty context should carry no user")
	}
	ctx = WithCurrentUser(ctx, CurrentUser{ID: 3, Username: "x"})
	if id := UserIDFromContext(ctx); id == nil || *id != 3 {
		t.Errorf("UserIDFromContext() = %v, want 3", id)
	}
}
