package auth

import (
	"context"

	"github.com/chimustore/chimu-backend/internal/modules/user"
)

// Session is an authenticated session: the signed token plus the user it
// belongs to.
type Session struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login checks credentials and issues a session token.
	Login(ctx context.Context, email, password string) (*Session, error)

	// Register creates an account and signs it in.
	Register(ctx context.Context, email, password, fullName string) (*Session, error)

	// CurrentUser resolves a token back to its user.
	CurrentUser(ctx context.Context, token string) (*user.User, error)
}
