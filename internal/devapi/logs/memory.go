package logs

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/common"
	"github.com/google/uuid"
)

type userLogs struct {
	byID   map[uuid.UUID]models.LogEntry
	byDate map[string]uuid.UUID
}

type MemoryRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*userLogs
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[uuid.UUID]*userLogs)}
}

func (r *MemoryRepository) bucket(userID uuid.UUID) *userLogs {
	b, ok := r.users[userID]
	if !ok {
		b = &userLogs{byID: make(map[uuid.UUID]models.LogEntry), byDate: make(map[string]uuid.UUID)}
		r.users[userID] = b
	}
	return b
}

func (r *MemoryRepository) Create(ctx context.Context, e *models.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.bucket(e.UserID)
	if id, ok := b.byDate[e.LogDate]; ok {
		return &DuplicateDateError{Date: e.LogDate, ExistingID: id}
	}
	b.byID[e.ID] = *e
	b.byDate[e.LogDate] = e.ID
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, userID, id uuid.UUID) (*models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.users[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	e, ok := b.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &e, nil
}

func (r *MemoryRepository) Update(ctx context.Context, e *models.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.users[e.UserID]
	if !ok {
		return common.ErrorNotFound
	}
	prev, ok := b.byID[e.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if id, taken := b.byDate[e.LogDate]; taken && id != e.ID {
		return &DuplicateDateError{Date: e.LogDate, ExistingID: id}
	}

	delete(b.byDate, prev.LogDate)
	b.byID[e.ID] = *e
	b.byDate[e.LogDate] = e.ID
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	e, ok := b.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(b.byID, id)
	delete(b.byDate, e.LogDate)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, userID uuid.UUID) ([]models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	out := make([]models.LogEntry, 0, len(b.byID))
	for _, e := range b.byID {
		out = append(out, e)
	}
	return out, nil
}
