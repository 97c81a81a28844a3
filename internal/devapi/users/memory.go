package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/oculog/internal/common"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*User
	byLogin map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[uuid.UUID]*User),
		byLogin: make(map[string]uuid.UUID),
	}
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	login := normalizeLogin(user.Email)
	if _, ok := r.byLogin[login]; ok {
		return nil, common.ErrorAlreadyExists
	}

	u := *user
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	r.byID[u.ID] = &u
	r.byLogin[login] = u.ID

	out := u
	return &out, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byLogin[normalizeLogin(login)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

type MemoryRefreshTokens struct {
	mu     sync.Mutex
	tokens map[string]RefreshToken
	now    func() time.Time
}

func NewMemoryRefreshTokens() *MemoryRefreshTokens {
	return &MemoryRefreshTokens{tokens: make(map[string]RefreshToken), now: time.Now}
}

func (r *MemoryRefreshTokens) Create(ctx context.Context, userID uuid.UUID, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token]; ok {
		return common.ErrorAlreadyExists
	}
	r.tokens[token] = RefreshToken{UserID: userID, Token: token, Expires: r.now().Add(validity)}
	return nil
}

func (r *MemoryRefreshTokens) Consume(ctx context.Context, token string) (*RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.tokens, token)

	if !r.now().Before(rt.Expires) {
		return nil, common.ErrRefreshTokenExpired
	}
	return &rt, nil
}
