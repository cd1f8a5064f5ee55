package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"nutritrack/internal/model"
	"nutritrack/internal/repository"
)

// UserService exposes user profile operations.
type UserService interface {
	VerifyEmail(ctx context.Context, verificationToken string) (*model.User, error)
	Update(ctx context.Context, user *model.User, upd model.UserUpdate) (*model.User, error)
	Deactivate(ctx context.Context, user *model.User) (*model.User, error)
	Reactivate(ctx context.Context, user *model.User) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// VerifyEmail marks the user holding the verification token as verified and
// consumes the token.
func (s *userService) VerifyEmail(ctx context.Context, verificationToken string) (*model.User, error) {
	user, err := s.users.FindByVerificationToken(ctx, verificationToken)
	if err != nil {
		return nil, err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies a typed partial update field by field. A password update is
// rehashed; identity fields (id, username, timestamps) are not updatable.
func (s *userService) Update(ctx context.Context, user *model.User, upd model.UserUpdate) (*model.User, error) {
	if upd.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.HashedPassword = string(hashed)
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate turns off the account's active flag.
func (s *userService) Deactivate(ctx context.Context, user *model.User) (*model.User, error) {
	user.IsActive = false
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Reactivate turns the account's active flag back on.
func (s *userService) Reactivate(ctx context.Context, user *model.User) (*model.User, error) {
	user.IsActive = true
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
