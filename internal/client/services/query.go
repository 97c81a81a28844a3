package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/oculog/internal/client/models"
	"github.com/dmitrijs2005/oculog/internal/common"
)

// maxRangeMonths is the longest custom range the backend accepts.
const maxRangeMonths = 3

// ErrInvalidRange matches every *RangeError.
var ErrInvalidRange = errors.New("invalid date range")

// RangeError is a rejected custom range. It matches ErrInvalidRange and its
// text is shown to the user as is.
type RangeError struct {
	Reason string
}

func (e *RangeError) Error() string { return e.Reason }

func (e *RangeError) Is(target error) bool { return target == ErrInvalidRange }

var (
	errRangeTooLong  = &RangeError{Reason: "Date range cannot exceed 3 months"}
	errRangeReversed = &RangeError{Reason: "Start date must be on or before end date"}
	errRangeMissing  = &RangeError{Reason: "Custom range needs a start and end date"}
)

// DefaultQuery is the list position on startup.
func DefaultQuery(pageSize int) models.ListQuery {
	return models.ListQuery{
		Preset:      models.PresetLast30Days,
		SortField:   models.SortByDate,
		SortOrder:   models.SortDesc,
		CurrentPage: 1,
		PageSize:    pageSize,
		TotalPages:  1,
	}
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ResolveRange returns the start and end dates of q relative to now.
func ResolveRange(q models.ListQuery, now time.Time) (string, string, error) {
	today := day(now)

	var start time.Time
	switch q.Preset {
	case models.PresetLast7Days:
		start = today.AddDate(0, 0, -6)
	case models.PresetLast3Months:
		start = today.AddDate(0, -3, 0)
	case models.PresetCustom:
		if err := ValidateCustomRange(q.Start, q.End); err != nil {
			return "", "", err
		}
		return q.Start, q.End, nil
	default:
		start = today.AddDate(0, 0, -29)
	}

	return start.Format(common.DateLayout), today.Format(common.DateLayout), nil
}

// ValidateCustomRange checks that start and end are dates, in order, and at
// most three whole months apart.
func ValidateCustomRange(start, end string) error {
	if start == "" || end == "" {
		return errRangeMissing
	}
	s, err := time.Parse(common.DateLayout, start)
	if err != nil {
		return &RangeError{Reason: fmt.Sprintf("Start date %q is not YYYY-MM-DD", start)}
	}
	e, err := time.Parse(common.DateLayout, end)
	if err != nil {
		return &RangeError{Reason: fmt.Sprintf("End date %q is not YYYY-MM-DD", end)}
	}
	if s.After(e) {
		return errRangeReversed
	}
	if wholeMonths(s, e) > maxRangeMonths {
		return errRangeTooLong
	}
	return nil
}

// wholeMonths counts complete calendar months from s to e (s <= e).
func wholeMonths(s, e time.Time) int {
	months := (e.Year()-s.Year())*12 + int(e.Month()-s.Month())
	if e.Day() < s.Day() {
		months--
	}
	return months
}
