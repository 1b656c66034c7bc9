package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/core"
	"backoffice/internal/log"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(openTestDB(t), auth.NewTokens("test-secret-test-secret-test-secret", time.Hour), log.Discard())
}

func TestSignupAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	sess, err := svc.Signup(ctx, SignupInput{Username: " amina ", Email: "amina@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if sess.User.Username != "amina" || sess.User.PasswordHash == "" || sess.Tokens.AccessToken == "" {
		t.Errorf("Signup() = %+v", sess)
	}

	if _, err := svc.Signup(ctx, SignupInput{Username: "amina", Email: "other@example.com", Password: "s3cret-pass"}); !errors.Is(err, core.ErrConflict) {
		t.Errorf("duplicate Signup() error = %v, want conflict", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{name: "valid", username: "amina", password: "s3cret-pass"},
		{name: "wrong password", username: "amina", password: "nope-nope", wantErr: true},
		{name: "unknown user", username: "ghost", password: "s3cret-pass", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) || !errors.Is(err, core.ErrUnauthorized) {
					t.Errorf("Login() error = %v, want invalid credentials", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Login() error = %v", err)
			}
		})
	}
}

func TestSignupValidation(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.Signup(context.Background(), SignupInput{Username: "bob", Email: "bob@example.com", Password: "short"})
	var ve *core.ValidationError
	if !errors.As(err, &ve) || ve.Fields["password"] == "" {
		t.Errorf("Signup() error = %v, want password field error", err)
	}
}

func TestRefresh(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	sess, err := svc.Signup(ctx, SignupInput{Username: "amina", Email: "amina@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	next, err := svc.Refresh(ctx, sess.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if next.User.ID != sess.User.ID {
		t.Errorf("Refresh() user = %d, want %d", next.User.ID, sess.User.ID)
	}
	if _, err := svc.Refresh(ctx, sess.Tokens.AccessToken); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("Refresh(access token) error = %v, want unauthorized", err)
	}
}

func TestProfileAndPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	sess, err := svc.Signup(ctx, SignupInput{Username: "amina", Email: "amina@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	id := sess.User.ID

	first := "Amina"
	u, err := svc.UpdateProfile(ctx, id, ProfileInput{FirstName: &first})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if u.FirstName != "Amina" || u.Email != "amina@example.com" {
		t.Errorf("UpdateProfile() = %+v", u)
	}

	if err := svc.ChangePassword(ctx, id, "wrong-old-pass", "an0ther-pass"); !errors.Is(err, core.ErrValidation) {
		t.Errorf("ChangePassword(wrong old) error = %v", err)
	}
	if err := svc.ChangePassword(ctx, id, "s3cret-pass", "short"); !errors.Is(err, core.ErrValidation) {
		t.Errorf("ChangePassword(short new) error = %v", err)
	}
	if err := svc.ChangePassword(ctx, id, "s3cret-pass", "an0ther-pass"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if _, err := svc.Login(ctx, "amina", "s3cret-pass"); err == nil {
		t.Error("old password still accepted")
	}
	if _, err := svc.Login(ctx, "amina", "an0ther-pass"); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}

	if _, err := svc.Profile(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Profile(unknown) error = %v", err)
	}
}
