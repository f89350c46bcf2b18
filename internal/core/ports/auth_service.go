package ports

import (
	"context"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// RegisterInput is the DTO used by both user registration and admin bootstrap.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// UpdateProfileInput carries a partial profile update; nil fields are kept.
type UpdateProfileInput struct {
	Email    *string
	FullName *string
	Password *string
}

// Authenticator resolves a bearer token into an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type AuthService interface {
	Authenticator
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	CreateAdmin(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error)
}
