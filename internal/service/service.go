package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Dan9191/task-tracker/internal/auth"
	"github.com/Dan9191/task-tracker/internal/models"
	"github.com/Dan9191/task-tracker/internal/repository"
	"github.com/Dan9191/task-tracker/internal/utils"
	"github.com/sirupsen/logrus"
)

// MaxUsernameLength bounds usernames in characters
const MaxUsernameLength = 80

// UserRepository persists user credentials
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// TokenRepository persists revoked token ids
type TokenRepository interface {
	RevokeToken(ctx context.Context, token models.RevokedToken) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Hasher hashes and verifies passwords
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
	VerifyDummy(password string)
}

// Service handles business logic
type Service struct {
	users  UserRepository
	tasks  TaskRepository
	revoke TokenRepository
	hasher Hasher
	tokens *auth.TokenManager
	log    *logrus.Logger
}

// Deps groups the collaborators of a Service
type Deps struct {
	Users   UserRepository
	Tasks   TaskRepository
	Revoked TokenRepository
	Hasher  Hasher
	Tokens  *auth.TokenManager
	Log     *logrus.Logger
}

// NewService initializes a new service
func NewService(d Deps) *Service {
	return &Service{
		users:  d.Users,
		tasks:  d.Tasks,
		revoke: d.Revoked,
		hasher: d.Hasher,
		tokens: d.Tokens,
		log:    d.Log,
	}
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username is required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return nil, invalid(fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	}
	if password == "" {
		return nil, invalid("password is required")
	}
	if len(password) > utils.MaxPasswordBytes {
		return nil, invalid(fmt.Sprintf("password must be at most %d bytes", utils.MaxPasswordBytes))
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, nil
}

// Login authenticates a user and returns a signed token
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrNotFound) {
		s.hasher.VerifyDummy(password)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	s.log.Infof("User logged in: %s", user.Username)
	return token, nil
}

// Authenticate verifies a bearer token and rejects revoked ones
func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoke.IsTokenRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", auth.ErrInvalidToken)
	}
	return claims, nil
}

// Logout revokes the presented token until it would have expired anyway
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	err := s.revoke.RevokeToken(ctx, models.RevokedToken{
		JTI:       claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	})
	if err != nil {
		return err
	}
	s.log.Infof("User %d logged out", claims.UserID)
	return nil
}
