package users

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	Timezone     string
	CreatedAt    time.Time
}

type RefreshToken struct {
	UserID  uuid.UUID
	Token   string
	Expires time.Time
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
