package client

import (
	"context"

	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/google/uuid"
)

// Client is the Oculog REST API as seen by the services layer. Non-success
// answers are returned as *apierr.Error.
type Client interface {
	Health(ctx context.Context) (*models.Health, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Signup(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Me(ctx context.Context, accessToken string) (*models.User, error)
	ListLogs(ctx context.Context, filter models.LogFilter) (*models.LogPage, error)
	CreateLog(ctx context.Context, in models.LogCreate) (*models.LogEntry, error)
	UpdateLog(ctx context.Context, id uuid.UUID, in models.LogUpdate) (*models.LogEntry, error)
	DeleteLog(ctx context.Context, id uuid.UUID) error
	Weather(ctx context.Context, lat, lon float64) (*models.Weather, error)
}

// TokenSource supplies bearer tokens for authorized calls.
type TokenSource interface {
	// AccessToken returns the stored access token, if any.
	AccessToken(ctx context.Context) (string, bool)
	// Refresh exchanges the refresh token for a new pair and reports success.
	Refresh(ctx context.Context) bool
}
