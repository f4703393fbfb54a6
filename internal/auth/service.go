package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/richxcame/fx-gateway/pkg/config"
	"github.com/richxcame/fx-gateway/pkg/middleware"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords
// alike; the caller cannot tell which.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is an account in the credential store.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	Role         string
	PasswordHash []byte
}

// Service authenticates users and issues JWTs.
type Service struct {
	users map[string]User
	cfg   config.JWTConfig
	now   func() time.Time
}

// NewService creates an auth service over a demo credential store.
// Real deployments would back this with a user database.
func NewService(cfg config.JWTConfig) *Service {
	return &Service{
		users: demoUsers(),
		cfg:   cfg,
		now:   time.Now,
	}
}

func demoUsers() map[string]User {
	hash := func(password string) []byte {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			panic(err)
		}
		return h
	}

	return map[string]User{
		"admin": {
			ID:           uuid.MustParse("6f1c2b4a-0d3e-4f5a-9b8c-1a2b3c4d5e6f"),
			Username:     "admin",
			Email:        "admin@example.com",
			Role:         "admin",
			PasswordHash: hash("admin123"),
		},
		"user": {
			ID:           uuid.MustParse("0a9b8c7d-6e5f-4a3b-2c1d-0e9f8a7b6c5d"),
			Username:     "user",
			Email:        "user@example.com",
			Role:         "user",
			PasswordHash: hash("user123"),
		},
	}
}

// Login verifies the credentials and returns a signed token.
func (s *Service) Login(username, password string) (string, error) {
	user, ok := s.users[username]
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(user)
}

func (s *Service) issueToken(user User) (string, error) {
	expiration := time.Duration(s.cfg.Expiration) * time.Hour
	if expiration <= 0 {
		expiration = time.Hour
	}

	now := s.now()
	claims := middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}
