package repository

import (
	"context"

	"medcare-api/internal/domain/entity"

	"github.com/google/uuid"
)

// UserRepository returns (nil, nil) from finders when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindUnverified(ctx context.Context) ([]entity.User, error)
	FindByRole(ctx context.Context, role entity.Role) ([]entity.User, error)
}
