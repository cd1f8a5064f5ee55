package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"nutritrack/internal/auth"
	apperrors "nutritrack/internal/errors"
	"nutritrack/internal/model"
	"nutritrack/internal/repository"
)

const bcryptCost = 10

// Fixed credentials of the auto-provisioned test account used by the dev token.
const (
	devEmail    = "dev@example.com"
	devPassword = "devpassword123"
)

// AuthService handles registration, login and token-to-user resolution.
type AuthService interface {
	Register(ctx context.Context, username, email, password, firstName, lastName string) (*model.User, error)
	Login(ctx context.Context, usernameOrEmail, password string) (token string, user *model.User, err error)
	TestToken() (string, error)
	// ResolveSubject and ProvisionDevUser implement auth.UserResolver.
	ResolveSubject(ctx context.Context, subject string) (*model.User, error)
	ProvisionDevUser(ctx context.Context) (*model.User, error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
	}
}

// Register creates a new user with a hashed password and a pending email
// verification token. Username and email must be unique.
func (s *authService) Register(ctx context.Context, username, email, password, firstName, lastName string) (*model.User, error) {
	if err := model.ValidateUsername(username); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, apperrors.ErrUserExists
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrUserExists
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:          username,
		Email:             email,
		HashedPassword:    string(hashed),
		FirstName:         firstName,
		LastName:          lastName,
		IsActive:          true,
		IsVerified:        false,
		VerificationToken: uuid.New().String(),
		Roles:             []string{"user"},
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by username or email and returns a signed access token.
func (s *authService) Login(ctx context.Context, usernameOrEmail, password string) (string, *model.User, error) {
	user, err := s.users.FindByUsername(ctx, usernameOrEmail)
	if errors.Is(err, apperrors.ErrNotFound) {
		user, err = s.users.FindByEmail(ctx, usernameOrEmail)
	}
	if err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(user.Username)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}

	return token, user, nil
}

// TestToken issues the permanent development token. Callers gate this on
// environment; the service only signs it.
func (s *authService) TestToken() (string, error) {
	return s.jwtService.GenerateDevToken()
}

// ResolveSubject resolves a verified token subject to its user record.
func (s *authService) ResolveSubject(ctx context.Context, subject string) (*model.User, error) {
	return s.users.FindByUsername(ctx, subject)
}

// ProvisionDevUser returns the fixed test account, creating it verified and
// active on first use. Two requests can race here: if the insert loses to a
// concurrent one on the unique username index, the winner's record is
// refetched instead of propagating the conflict.
func (s *authService) ProvisionDevUser(ctx context.Context) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, auth.DevSubject)
	if err == nil {
		return s.ensureDevFlags(ctx, user)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash dev password: %w", err)
	}

	user = &model.User{
		Username:       auth.DevSubject,
		Email:          devEmail,
		HashedPassword: string(hashed),
		IsActive:       true,
		IsVerified:     true,
		Roles:          []string{"user"},
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUserExists) {
			return s.users.FindByUsername(ctx, auth.DevSubject)
		}
		return nil, err
	}
	return user, nil
}

// ensureDevFlags keeps the test account usable: the dev token always maps
// to a verified, active user even if someone toggled the flags.
func (s *authService) ensureDevFlags(ctx context.Context, user *model.User) (*model.User, error) {
	if user.IsActive && user.IsVerified {
		return user, nil
	}
	user.IsActive = true
	user.IsVerified = true
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
