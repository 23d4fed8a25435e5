package listview

import (
	"flagdeck/internal/models"
)

// Flag list sort fields.
const (
	FlagSortName        = "name"
	FlagSortEnvironment = "environment"
	FlagSortEnabled     = "enabled"
	FlagSortRollout     = "rollout"
	FlagSortCreatedAt   = "created"
	FlagSortUpdatedAt   = "updated"
)

// FlagFilterEnvironment is the categorical filter key for the environment column.
const FlagFilterEnvironment = "environment"

// DefaultFlagParams returns the initial view state for a flags list:
// name ascending, first page.
func DefaultFlagParams(pageSize int) Params {
	return Params{
		Filters:   map[string]string{FlagFilterEnvironment: FilterAll},
		SortField: FlagSortName,
		SortAsc:   true,
		Page:      1,
		PageSize:  pageSize,
	}
}

// MatchFlag reports whether a flag passes the free-text query (name and
// description) and the environment filter.
func MatchFlag(f models.FeatureFlag, p Params) bool {
	if !MatchQuery(p.Query, f.Name, f.Description) {
		return false
	}
	return MatchFilter(p.Filters[FlagFilterEnvironment], string(f.Environment))
}

// CompareFlags orders two flags by the given sort field, ascending.
func CompareFlags(a, b models.FeatureFlag, field string) int {
	switch field {
	case FlagSortEnvironment:
		return CompareStrings(string(a.Environment), string(b.Environment))
	case FlagSortEnabled:
		return CompareBools(a.Enabled, b.Enabled)
	case FlagSortRollout:
		return CompareInts(a.RolloutPercentage, b.RolloutPercentage)
	case FlagSortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case FlagSortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return CompareStrings(a.Name, b.Name)
	}
}

// ApplyFlags derives the flag page to render from the cached source list.
func ApplyFlags(src []models.FeatureFlag, p Params) Result[models.FeatureFlag] {
	return Apply(src, p,
		func(f models.FeatureFlag) bool { return MatchFlag(f, p) },
		func(a, b models.FeatureFlag) int { return CompareFlags(a, b, p.SortField) },
	)
}
