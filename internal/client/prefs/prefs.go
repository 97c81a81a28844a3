// Package prefs keeps UI preferences that outlive a session, currently the
// log list sort. Values are stored as plain text next to the sealed tokens
// in the client database.
package prefs

import (
	"context"

	"github.com/dmitrijs2005/oculog/internal/client/models"
)

// Sort is the saved list sort.
type Sort struct {
	Field models.SortField
	Order models.SortOrder
}

// Store reads and writes the saved sort.
type Store interface {
	// LoadSort returns def with every valid stored value applied. Missing or
	// unrecognised values leave the matching field of def as is.
	LoadSort(ctx context.Context, def Sort) (Sort, error)
	SaveSort(ctx context.Context, s Sort) error
}

const (
	keySortField = "sort_field"
	keySortOrder = "sort_order"
)

// apply overlays the raw stored values on def.
func apply(def Sort, field, order string) Sort {
	if f, err := models.ParseSortField(field); err == nil {
		def.Field = f
	}
	if o, err := models.ParseSortOrder(order); err == nil {
		def.Order = o
	}
	return def
}
