package service

import (
	"context"
	"strings"

	"github.com/xyzesther/CommunityAssist/internal/domain"
	"github.com/xyzesther/CommunityAssist/internal/repository"
)

// Caller is the authenticated identity a handler passes down to services.
type Caller struct {
	Subject string
	Name    string
	Email   string
}

// UserService handles the identity flow: lazy provisioning on first verified
// call and self-service profile updates.
type UserService struct {
	store repository.Store
}

// NewUserService constructs the service.
func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// VerifyUser returns the user for the caller's subject, creating it from the
// token's profile claims when none exists yet. Idempotent.
func (s *UserService) VerifyUser(ctx context.Context, caller Caller) (*domain.User, error) {
	return s.store.Users().GetOrCreateBySubject(ctx, caller.Subject, caller.Name, caller.Email)
}

// GetBySubject fetches the user for an identity-provider subject.
func (s *UserService) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	return s.store.Users().GetBySubject(ctx, subject)
}

// UpdateProfile updates the caller's display name and email.
func (s *UserService) UpdateProfile(ctx context.Context, subject, name, email string) (*domain.User, error) {
	return s.store.Users().UpdateBySubject(ctx, subject, strings.TrimSpace(name), strings.TrimSpace(email))
}
