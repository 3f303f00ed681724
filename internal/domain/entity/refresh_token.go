package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a server-side record of an issued refresh token. Deleting it revokes the token.
type RefreshToken struct {
	Token    string
	UserID   uuid.UUID
	IssuedAt time.Time
}
