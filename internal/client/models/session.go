package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity returned by GET /auth/me.
type User struct {
	ID        uuid.UUID `json:"id"`
	Login     string    `json:"login"`
	Email     *string   `json:"email,omitempty"`
	Timezone  *string   `json:"timezone,omitempty"`
	CreatedAt string    `json:"created_at"`
}

// Credentials is the body of login and signup requests.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type Health struct {
	Status string `json:"status"`
}

// Session is the snapshot emitted by the session manager.
// Token values are never exposed, only their presence.
type Session struct {
	HasAccessToken       bool
	HasRefreshToken      bool
	CurrentUser          *User
	IsAuthenticated      bool
	IsLoading            bool
	Error                string
	AccessTokenExpiresAt *time.Time
}
