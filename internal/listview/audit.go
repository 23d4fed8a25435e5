package listview

import (
	"flagdeck/internal/models"
)

// Audit list sort fields.
const (
	AuditSortCreatedAt   = "created"
	AuditSortAction      = "action"
	AuditSortFlagName    = "flagName"
	AuditSortPerformedBy = "performedBy"
)

// AuditFilterAction is the categorical filter key for the action column.
const AuditFilterAction = "action"

// DefaultAuditParams returns the initial view state for an audit log list:
// newest first. Audit lists also default to descending when a new sort
// field is selected, unlike flag lists; see SortState.Click.
func DefaultAuditParams(pageSize int) Params {
	return Params{
		Filters:   map[string]string{AuditFilterAction: FilterAll},
		SortField: AuditSortCreatedAt,
		SortAsc:   false,
		Page:      1,
		PageSize:  pageSize,
	}
}

// MatchAuditLog reports whether a log entry passes the free-text query
// (flag name, performer, details, action) and the action filter.
func MatchAuditLog(l models.AuditLog, p Params) bool {
	if !MatchQuery(p.Query, l.FlagName, l.PerformedBy, l.Details, string(l.Action)) {
		return false
	}
	return MatchFilter(p.Filters[AuditFilterAction], string(l.Action))
}

// CompareAuditLogs orders two log entries by the given sort field, ascending.
func CompareAuditLogs(a, b models.AuditLog, field string) int {
	switch field {
	case AuditSortAction:
		return CompareStrings(string(a.Action), string(b.Action))
	case AuditSortFlagName:
		return CompareStrings(a.FlagName, b.FlagName)
	case AuditSortPerformedBy:
		return CompareStrings(a.PerformedBy, b.PerformedBy)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// ApplyAuditLogs derives the audit page to render from the cached source list.
func ApplyAuditLogs(src []models.AuditLog, p Params) Result[models.AuditLog] {
	return Apply(src, p,
		func(l models.AuditLog) bool { return MatchAuditLog(l, p) },
		func(a, b models.AuditLog) int { return CompareAuditLogs(a, b, p.SortField) },
	)
}
