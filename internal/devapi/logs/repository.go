package logs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/common"
	"github.com/google/uuid"
)

// DuplicateDateError is returned when a user already has an entry for the
// date. It matches common.ErrorAlreadyExists.
type DuplicateDateError struct {
	Date       string
	ExistingID uuid.UUID
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("a log for %s already exists", e.Date)
}

func (e *DuplicateDateError) Is(target error) bool {
	return target == common.ErrorAlreadyExists
}

// Repository stores entries per user, at most one per log date.
type Repository interface {
	Create(ctx context.Context, e *models.LogEntry) error
	Get(ctx context.Context, userID, id uuid.UUID) (*models.LogEntry, error)
	Update(ctx context.Context, e *models.LogEntry) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]models.LogEntry, error)
}
