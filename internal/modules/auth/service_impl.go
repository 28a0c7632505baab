package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/chimustore/chimu-backend/internal/modules/user"
)

const tokenTTL = 24 * time.Hour

type service struct {
	users  user.Service
	repo   user.Repository
	jwtKey []byte
}

// NewService creates a new auth service. The signing key comes from
// JWT_SECRET; an empty value falls back to a development-only key.
func NewService(users user.Service, repo user.Repository) Service {
	key := os.Getenv("JWT_SECRET")
	if key == "" {
		key = "chimu-dev-secret"
	}
	return &service{users: users, repo: repo, jwtKey: []byte(key)}
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return s.session(u)
}

func (s *service) Register(ctx context.Context, email, password, fullName string) (*Session, error) {
	u, err := s.users.RegisterUser(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *service) CurrentUser(ctx context.Context, token string) (*user.User, error) {
	userID, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, userID)
}

func (s *service) session(u *user.User) (*Session, error) {
	claims := &jwt.StandardClaims{
		Subject:   u.ID.String(),
		ExpiresAt: time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, err
	}
	return &Session{Token: signed, User: u}, nil
}

func (s *service) parseToken(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired token")
	}
	return claims.Subject, nil
}
