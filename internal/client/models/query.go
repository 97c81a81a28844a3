package models

import "fmt"

type DatePreset string

const (
	PresetLast7Days   DatePreset = "last_7_days"
	PresetLast30Days  DatePreset = "last_30_days"
	PresetLast3Months DatePreset = "last_3_months"
	PresetCustom      DatePreset = "custom"
)

func ParseDatePreset(s string) (DatePreset, error) {
	switch p := DatePreset(s); p {
	case PresetLast7Days, PresetLast30Days, PresetLast3Months, PresetCustom:
		return p, nil
	}
	return "", fmt.Errorf("unknown date preset %q", s)
}

func (p DatePreset) Label() string {
	switch p {
	case PresetLast7Days:
		return "Last 7 days"
	case PresetLast30Days:
		return "Last 30 days"
	case PresetLast3Months:
		return "Last 3 months"
	default:
		return "Custom range"
	}
}

type SortField string

const (
	SortByDate   SortField = "log_date"
	SortByRating SortField = "overall_rating"
)

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortByDate, SortByRating:
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case SortDesc, SortAsc:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

func (o SortOrder) Toggle() SortOrder {
	if o == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// ListQuery is the list view's filter, sort and paging position.
// Start and End are only used with PresetCustom.
type ListQuery struct {
	Preset      DatePreset
	Start       string
	End         string
	SortField   SortField
	SortOrder   SortOrder
	CurrentPage int
	PageSize    int
	TotalPages  int
	TotalLogs   int
}

// LogFilter is the resolved request sent as GET /logs query parameters.
type LogFilter struct {
	StartDate string
	EndDate   string
	Page      int
	PageSize  int
	SortField SortField
	SortOrder SortOrder
}
