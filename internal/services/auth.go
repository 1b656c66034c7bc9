package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/auth"
	"backoffice/internal/core"
	"backoffice/internal/log"
	"backoffice/internal/storage"
)

var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", core.ErrUnauthorized)

type SignupInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type ProfileInput struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Session is a user together with freshly issued tokens.
type Session struct {
	User   core.User      `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}

type AuthService struct {
	db     *storage.DB
	tokens *auth.Tokens
	logger *log.Logger
}

func NewAuthService(db *storage.DB, tokens *auth.Tokens, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.Discard()
	}
	return &AuthService{db: db, tokens: tokens, logger: logger.WithComponent(log.ComponentAuth)}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	u := core.User{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.TrimSpace(in.Email),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
	}
	if err := u.Validate(); err != nil {
		return Session{}, err
	}
	if err := core.ValidatePassword("password", in.Password); err != nil {
		return Session{}, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}
	u.PasswordHash = hash

	if err := s.db.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return Session{}, fmt.Errorf("%w: username already taken", core.ErrConflict)
		}
		return Session{}, err
	}
	s.logger.InfoContext(ctx, "User signed up", log.FieldUserID, u.ID)
	return s.session(u)
}

// Login checks the password of an active user. Unknown users and wrong
// passwords give the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (Session, error) {
	u, err := s.db.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !u.IsActive || !auth.CheckPassword(u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(u)
}

// Refresh trades a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tokens.Verify(refreshToken, auth.TokenRefresh)
	if err != nil {
		return Session{}, err
	}
	id, _ := claims.UserID()
	u, err := s.db.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return Session{}, auth.ErrInvalidToken
		}
		return Session{}, err
	}
	if !u.IsActive {
		return Session{}, auth.ErrInvalidToken
	}
	return s.session(u)
}

func (s *AuthService) session(u core.User) (Session, error) {
	pair, err := s.tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{User: u, Tokens: pair}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (core.User, error) {
	return s.db.GetUser(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (core.User, error) {
	u, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return core.User{}, err
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}
	if err := s.db.UpdateUser(ctx, &u); err != nil {
		return core.User{}, err
	}
	return u, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	u, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, oldPassword) {
		return core.FieldError("old_password", "wrong password")
	}
	if err := core.ValidatePassword("new_password", newPassword); err != nil {
		return err
	}
	if u.PasswordHash, err = auth.HashPassword(newPassword); err != nil {
		return err
	}
	if err := s.db.UpdateUser(ctx, &u); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Password changed", log.FieldUserID, u.ID)
	return nil
}

// CreateUser is the admin path: no tokens are issued.
func (s *AuthService) CreateUser(ctx context.Context, in SignupInput) (core.User, error) {
	sess, err := s.Signup(ctx, in)
	return sess.User, err
}
