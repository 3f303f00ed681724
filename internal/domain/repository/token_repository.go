package repository

import (
	"context"

	"medcare-api/internal/domain/entity"
)

type TokenRepository interface {
	Store(ctx context.Context, token *entity.RefreshToken) error
	// Find returns nil when the token was never issued or has been revoked.
	Find(ctx context.Context, token string) (*entity.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}
