package listview

import (
	"flagdeck/internal/models"
)

// Waitlist sort fields.
const (
	WaitSortCreatedAt = "created"
	WaitSortName      = "name"
	WaitSortEmail     = "email"
	WaitSortStatus    = "status"
)

// WaitFilterStatus is the categorical filter key for the status column.
const WaitFilterStatus = "status"

// DefaultWaitListParams returns the initial view state for the waitlist:
// newest signups first.
func DefaultWaitListParams(pageSize int) Params {
	return Params{
		Filters:   map[string]string{WaitFilterStatus: FilterAll},
		SortField: WaitSortCreatedAt,
		SortAsc:   false,
		Page:      1,
		PageSize:  pageSize,
	}
}

// MatchWaitListSignup reports whether a signup passes the free-text query
// (name, email, company) and the status filter.
func MatchWaitListSignup(s models.WaitListSignup, p Params) bool {
	if !MatchQuery(p.Query, s.Name, s.Email, s.Company) {
		return false
	}
	return MatchFilter(p.Filters[WaitFilterStatus], string(s.Status))
}

// CompareWaitListSignups orders two signups by the given sort field, ascending.
func CompareWaitListSignups(a, b models.WaitListSignup, field string) int {
	switch field {
	case WaitSortName:
		return CompareStrings(a.Name, b.Name)
	case WaitSortEmail:
		return CompareStrings(a.Email, b.Email)
	case WaitSortStatus:
		return CompareStrings(string(a.Status), string(b.Status))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// ApplyWaitList derives the waitlist page to render from the cached source list.
func ApplyWaitList(src []models.WaitListSignup, p Params) Result[models.WaitListSignup] {
	return Apply(src, p,
		func(s models.WaitListSignup) bool { return MatchWaitListSignup(s, p) },
		func(a, b models.WaitListSignup) int { return CompareWaitListSignups(a, b, p.SortField) },
	)
}
