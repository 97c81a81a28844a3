// Package logs implements daily condition logs for the development backend.
package logs

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/common"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxTextLength   = 500
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// List returns one page of the user's entries inside [StartDate, EndDate]
// (either bound optional), ordered by f.SortField and f.SortOrder. A page
// past the end is returned empty with its requested number.
func (s *Service) List(ctx context.Context, userID uuid.UUID, f models.LogFilter) (*models.LogPage, error) {
	if f.StartDate != "" && !validDate(f.StartDate) {
		return nil, &common.ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
	}
	if f.EndDate != "" && !validDate(f.EndDate) {
		return nil, &common.ValidationError{Field: "end_date", Reason: "must be YYYY-MM-DD"}
	}
	if f.SortField == "" {
		f.SortField = models.SortByDate
	}
	if f.SortOrder == "" {
		f.SortOrder = models.SortDesc
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	f.PageSize = min(f.PageSize, MaxPageSize)

	all, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing logs: %w", common.ErrorInternal, err)
	}

	items := slices.DeleteFunc(all, func(e models.LogEntry) bool {
		return (f.StartDate != "" && e.LogDate < f.StartDate) || (f.EndDate != "" && e.LogDate > f.EndDate)
	})
	slices.SortFunc(items, compareEntries(f.SortField, f.SortOrder))

	total := len(items)
	totalPages := (total + f.PageSize - 1) / f.PageSize

	start := min((f.Page-1)*f.PageSize, total)
	end := min(start+f.PageSize, total)

	page := make([]models.LogEntry, end-start)
	copy(page, items[start:end])

	return &models.LogPage{
		Items:      page,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: totalPages,
	}, nil
}

func compareEntries(field models.SortField, order models.SortOrder) func(a, b models.LogEntry) int {
	return func(a, b models.LogEntry) int {
		var c int
		if field == models.SortByRating {
			c = cmp.Compare(rating(a), rating(b))
		}
		if c == 0 {
			c = strings.Compare(a.LogDate, b.LogDate)
		}
		if order == models.SortDesc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.ID.String(), b.ID.String())
		}
		return c
	}
}

func rating(e models.LogEntry) int {
	if e.OverallRating == nil {
		return -1
	}
	return *e.OverallRating
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, in models.LogCreate) (*models.LogEntry, error) {
	ts := s.timestamp()
	e := &models.LogEntry{
		ID:              uuid.New(),
		UserID:          userID,
		LogDate:         in.LogDate,
		OverallRating:   in.OverallRating,
		Comments:        in.Comments,
		CreatedAt:       ts,
		UpdatedAt:       ts,
		Symptoms:        in.Symptoms,
		Lifestyle:       in.Lifestyle,
		Treatments:      in.Treatments,
		Environment:     in.Environment,
		TreatmentsNotes: in.TreatmentsNotes,
	}
	if city := strings.TrimSpace(in.City); city != "" {
		e.City = &city
	}

	if e.City == nil {
		return nil, &common.ValidationError{Field: "city", Reason: "is required"}
	}
	if err := validate(e); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, mapRepoError("creating log", err)
	}
	return e, nil
}

// Update applies the non-nil fields of in to the entry.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in models.LogUpdate) (*models.LogEntry, error) {
	e, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, mapRepoError("loading log", err)
	}

	merge(&e.LogDate, in.LogDate)
	mergePtr(&e.City, in.City)
	mergePtr(&e.OverallRating, in.OverallRating)
	mergePtr(&e.Comments, in.Comments)
	mergePtr(&e.TreatmentsNotes, in.TreatmentsNotes)
	mergeSymptoms(&e.Symptoms, in.Symptoms)
	mergeLifestyle(&e.Lifestyle, in.Lifestyle)
	mergeTreatments(&e.Treatments, in.Treatments)
	mergeEnvironment(&e.Environment, in.Environment)
	e.UpdatedAt = s.timestamp()

	if err := validate(e); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, mapRepoError("updating log", err)
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return mapRepoError("deleting log", err)
	}
	return nil
}

func mapRepoError(op string, err error) error {
	var dup *DuplicateDateError
	switch {
	case errors.As(err, &dup):
		return dup
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrorNotFound
	default:
		return fmt.Errorf("%w: %s: %w", common.ErrorInternal, op, err)
	}
}

func validDate(s string) bool {
	_, err := time.Parse(common.DateLayout, s)
	return err == nil
}

func validate(e *models.LogEntry) error {
	if !validDate(e.LogDate) {
		return &common.ValidationError{Field: "log_date", Reason: "must be YYYY-MM-DD"}
	}
	if e.OverallRating != nil && (*e.OverallRating < 1 || *e.OverallRating > 10) {
		return &common.ValidationError{Field: "overall_rating", Reason: "must be between 1 and 10"}
	}

	scales := []struct {
		name string
		v    *int
	}{
		{"burning", e.Burning},
		{"redness", e.Redness},
		{"itching", e.Itching},
		{"tearing", e.Tearing},
		{"swelling", e.Swelling},
		{"dryness", e.Dryness},
		{"stress_level", e.StressLevel},
	}
	for _, sc := range scales {
		if sc.v != nil && (*sc.v < 0 || *sc.v > 10) {
			return &common.ValidationError{Field: sc.name, Reason: "must be between 0 and 10"}
		}
	}

	texts := []struct {
		name string
		v    *string
	}{
		{"comments", e.Comments},
		{"treatments_notes", e.TreatmentsNotes},
	}
	for _, tx := range texts {
		if tx.v != nil && utf8.RuneCountInString(*tx.v) > MaxTextLength {
			return &common.ValidationError{Field: tx.name, Reason: fmt.Sprintf("must be %d characters or less", MaxTextLength)}
		}
	}
	return nil
}
