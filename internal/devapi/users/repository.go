package users

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository stores accounts. Create returns common.ErrorAlreadyExists for a
// taken email, lookups return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetUserByLogin(ctx context.Context, login string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// RefreshTokenRepository stores one-use refresh tokens. Consume removes the
// token whether or not it has expired.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID uuid.UUID, token string, validity time.Duration) error
	Consume(ctx context.Context, token string) (*RefreshToken, error)
}
