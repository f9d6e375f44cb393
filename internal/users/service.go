package users

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Service handles account business logic.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers an account, hashing the password with bcrypt.
func (s *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Phone:        input.Phone,
	})
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Patch applies partial changes; a new password is re-hashed.
func (s *Service) Patch(ctx context.Context, id int64, patch Patch) (*User, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	if patch.Email != nil {
		next.Email = patch.Email
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		next.PasswordHash = string(hash)
	}
	if patch.Phone != nil {
		next.Phone = patch.Phone
	}
	if patch.Active != nil {
		next.Active = *patch.Active
	}
	return s.repo.Update(ctx, next)
}

// Deactivate disables an account without deleting its history.
func (s *Service) Deactivate(ctx context.Context, id int64) (*User, error) {
	inactive := false
	return s.Patch(ctx, id, Patch{Active: &inactive})
}

// VerifyPassword checks a username/password pair and stamps the login time
// on success.
func (s *Service) VerifyPassword(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	return user, nil
}
