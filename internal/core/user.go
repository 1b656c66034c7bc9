package core

import (
	"net/mail"
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) Validate() error {
	v := NewValidationError()
	v.Check(strings.TrimSpace(u.Username) != "", "username", "this field is required")
	v.Check(len(u.Username) <= 150, "username", "ensure this field has no more than 150 characters")
	if u.Email != "" {
		_, err := mail.ParseAddress(u.Email)
		v.Check(err == nil, "email", "enter a valid email address")
	}
	return v.Err()
}

// ValidatePassword applies the minimum password policy.
func ValidatePassword(field, password string) error {
	if len(password) < 8 {
		return FieldError(field, "password must be at least 8 characters")
	}
	if strings.TrimSpace(password) == "" {
		return FieldError(field, "password cannot be blank")
	}
	return nil
}
