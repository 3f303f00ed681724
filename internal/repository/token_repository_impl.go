package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"medcare-api/internal/domain/entity"
	domainRepo "medcare-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const refreshTokenPrefix = "refresh_token:"

type tokenRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenRepository stores refresh tokens in Redis. Entries expire after ttl,
// which should match the refresh token lifetime.
func NewTokenRepository(client *redis.Client, ttl time.Duration) domainRepo.TokenRepository {
	return &tokenRepository{client: client, ttl: ttl}
}

// Keys hold a digest of the token, never the token itself.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return refreshTokenPrefix + hex.EncodeToString(sum[:])
}

func (r *tokenRepository) Store(ctx context.Context, token *entity.RefreshToken) error {
	key := tokenKey(token.Token)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key,
		"user_id", token.UserID.String(),
		"issued_at", token.IssuedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *tokenRepository) Find(ctx context.Context, token string) (*entity.RefreshToken, error) {
	fields, err := r.client.HGetAll(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	userID, err := uuid.Parse(fields["user_id"])
	if err != nil {
		return nil, fmt.Errorf("corrupt refresh token entry: %w", err)
	}
	issuedAt, err := time.Parse(time.RFC3339Nano, fields["issued_at"])
	if err != nil {
		return nil, fmt.Errorf("corrupt refresh token entry: %w", err)
	}

	return &entity.RefreshToken{
		Token:    token,
		UserID:   userID,
		IssuedAt: issuedAt,
	}, nil
}

func (r *tokenRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, tokenKey(token)).Err()
}
