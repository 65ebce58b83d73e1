// Package wire defines the JSON representation exchanged with the
// Segmentation Fault API: snake_case keys and string timestamps.
package wire

import (
	"fmt"
	"strings"
	"time"
)

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type User struct {
	ID        int64   `json:"id"`
	Created   string  `json:"created"`
	Updated   *string `json:"updated"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Super     bool    `json:"super"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
}

type UserCreate struct {
	Username  string `json:"username"  validate:"required,min=1,max=64"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required"`
	FirstName string `json:"first_name" validate:"required,max=64"`
	LastName  string `json:"last_name"  validate:"required,max=64"`
}

type UserUpdate struct {
	Username  *string `json:"username,omitempty"   validate:"omitempty,min=1,max=64"`
	Email     *string `json:"email,omitempty"      validate:"omitempty,email"`
	Password  *string `json:"password,omitempty"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=64"`
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,max=64"`
}

type Post struct {
	ID      int64   `json:"id"`
	Created string  `json:"created"`
	Updated *string `json:"updated"`
	Author  int64   `json:"author"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
}

type PostCreate struct {
	Title   string `json:"title"   validate:"required,max=256"`
	Content string `json:"content" validate:"required"`
}

type PostUpdate struct {
	Title   string `json:"title"   validate:"required,max=256"`
	Content string `json:"content" validate:"required"`
}

type Comment struct {
	ID      int64   `json:"id"`
	Created string  `json:"created"`
	Updated *string `json:"updated"`
	Author  int64   `json:"author"`
	Content string  `json:"content"`
	Post    int64   `json:"post"`
}

type CommentCreate struct {
	Content string `json:"content" validate:"required"`
	Post    int64  `json:"post"    validate:"required,gt=0"`
}

type CommentUpdate struct {
	Content string `json:"content" validate:"required"`
}

type ForgotPasswordForm struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordForm struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ValidationError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

type HTTPValidationError struct {
	Detail []ValidationError `json:"detail"`
}

// naiveLayouts are accepted for timestamps without a zone, which the API
// emits in UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTime decodes an RFC 3339 timestamp, or a naive ISO-8601 one as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed timestamp %q", s)
}

// FormatTime encodes t the way the API does.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatOptionalTime returns nil for a nil or zero time.
func FormatOptionalTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := FormatTime(*t)
	return &s
}
