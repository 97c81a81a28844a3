// Package users implements accounts and token issuance for the development
// backend.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/oculog/internal/common"
	"github.com/dmitrijs2005/oculog/internal/devapi/auth"
	"github.com/dmitrijs2005/oculog/internal/devapi/config"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

type Service struct {
	repo                         Repository
	refreshTokenRepo             RefreshTokenRepository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	bcryptCost                   int
}

func NewService(repo Repository, refreshTokenRepo RefreshTokenRepository, cfg *config.Config) *Service {
	return &Service{
		repo:                         repo,
		refreshTokenRepo:             refreshTokenRepo,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		bcryptCost:                   bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

func validateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &common.ValidationError{Field: "email", Reason: "is required"}
	}
	if !strings.Contains(email, "@") {
		return &common.ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	if len([]rune(password)) < MinPasswordLength {
		return &common.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLength)}
	}
	return nil
}

// Signup creates an account and signs it in.
func (s *Service) Signup(ctx context.Context, email, password string) (*TokenPair, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %w", common.ErrorInternal, err)
	}

	user, err := s.repo.Create(ctx, &User{Email: strings.TrimSpace(email), PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("%w: creating user: %w", common.ErrorInternal, err)
	}

	return s.issue(ctx, user.ID)
}

// Login checks the password and issues a fresh pair. Unknown accounts and
// wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repo.GetUserByLogin(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(ctx, user.ID)
}

// Refresh consumes refreshToken and issues a new pair. A token can be used
// once; replays fail with common.ErrInvalidToken.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrInvalidToken
	}

	rt, err := s.refreshTokenRepo.Consume(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrInvalidToken
		case errors.Is(err, common.ErrRefreshTokenExpired):
			return nil, common.ErrRefreshTokenExpired
		default:
			return nil, common.ErrorInternal
		}
	}

	if _, err := s.repo.GetUserByID(ctx, rt.UserID); err != nil {
		return nil, common.ErrInvalidToken
	}

	return s.issue(ctx, rt.UserID)
}

// UserByID returns the account behind an authenticated request.
func (s *Service) UserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// UserIDFromAccessToken verifies accessToken without a repository lookup.
func (s *Service) UserIDFromAccessToken(accessToken string) (uuid.UUID, error) {
	raw, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, common.ErrInvalidToken
	}
	return id, nil
}

func (s *Service) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *Service) issue(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID.String(), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.refreshTokenRepo.Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
