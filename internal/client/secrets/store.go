package secrets

import (
	"context"
	"errors"
	"fmt"
)

// Key names one of the session secrets.
type Key string

const (
	AccessToken  Key = "access_token"
	RefreshToken Key = "refresh_token"
)

// Valid reports whether k is one of the known session keys.
func (k Key) Valid() bool {
	return k == AccessToken || k == RefreshToken
}

var (
	ErrNotFound   = errors.New("secret not found")
	ErrUnknownKey = errors.New("unknown secret key")
	ErrCorrupt    = errors.New("secret cannot be decrypted")
)

// Store keeps the session token pair between runs.
// Get returns ErrNotFound when the key has never been written or was cleared.
// Delete of an absent key is not an error.
type Store interface {
	Save(ctx context.Context, key Key, token string) error
	Get(ctx context.Context, key Key) (string, error)
	Delete(ctx context.Context, key Key) error
	ClearAll(ctx context.Context) error
}

// PairStore is a Store that can write both tokens in one atomic step.
type PairStore interface {
	Store
	SavePair(ctx context.Context, access, refresh string) error
}

// SavePair writes access and refresh so that readers never observe a new
// access token next to an old refresh token. Stores implementing PairStore
// do it in one transaction; for other stores the previous access token is
// put back if the refresh token cannot be written, and a failure to put it
// back is reported in the returned error.
func SavePair(ctx context.Context, s Store, access, refresh string) error {
	if ps, ok := s.(PairStore); ok {
		return ps.SavePair(ctx, access, refresh)
	}

	prev, prevErr := s.Get(ctx, AccessToken)

	if err := s.Save(ctx, AccessToken, access); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}

	if err := s.Save(ctx, RefreshToken, refresh); err != nil {
		var undoErr error
		if prevErr == nil {
			undoErr = s.Save(ctx, AccessToken, prev)
		} else {
			undoErr = s.Delete(ctx, AccessToken)
		}
		if undoErr != nil {
			return fmt.Errorf("save refresh token: %w (restoring access token: %w)", err, undoErr)
		}
		return fmt.Errorf("save refresh token: %w", err)
	}

	return nil
}
