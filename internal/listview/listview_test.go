package listview

import (
	"testing"
	"time"

	"flagdeck/internal/models"
)

func mkFlag(name string, env models.Environment) models.FeatureFlag {
	return models.FeatureFlag{
		ID:          "ff-" + name,
		Name:        name,
		Environment: env,
	}
}

func flagNames(items []models.FeatureFlag) []string {
	out := make([]string, len(items))
	for i, f := range items {
		out[i] = f.Name
	}
	return out
}

func TestApplyFlagsScenario(t *testing.T) {
	// Three flags, pageSize 2, environment filter Production:
	// page 1 must show Alpha and Gamma (name ascending by default).
	flags := []models.FeatureFlag{
		mkFlag("Alpha", models.EnvProduction),
		mkFlag("Beta", models.EnvDevelopment),
		mkFlag("Gamma", models.EnvProduction),
	}

	p := DefaultFlagParams(2)
	p.Filters[FlagFilterEnvironment] = string(models.EnvProduction)

	res := ApplyFlags(flags, p)

	if res.FilteredCount != 2 {
		t.Fatalf("FilteredCount = %d, want 2", res.FilteredCount)
	}
	got := flagNames(res.Items)
	want := []string{"Alpha", "Gamma"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page 1 = %v, want %v", got, want)
			break
		}
	}
}

func TestFilteredCountMatchesPredicates(t *testing.T) {
	flags := []models.FeatureFlag{
		{Name: "checkout-v2", Description: "new checkout", Environment: models.EnvProduction},
		{Name: "dark-mode", Description: "theme toggle", Environment: models.EnvStaging},
		{Name: "checkout-banner", Description: "promo", Environment: models.EnvProduction},
		{Name: "search-boost", Description: "ranking checkout tweak", Environment: models.EnvDevelopment},
	}

	tests := []struct {
		name   string
		query  string
		env    string
		expect int
	}{
		{"no filters", "", FilterAll, 4},
		{"query only", "checkout", FilterAll, 3},
		{"env filter", "", string(models.EnvProduction), 2},
		{"query and env", "checkout", string(models.EnvProduction), 2},
		{"query case-insensitive", "CHECKOUT", FilterAll, 3},
		{"no match", "nonexistent", FilterAll, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultFlagParams(10)
			p.Query = tt.query
			p.Filters[FlagFilterEnvironment] = tt.env
			res := ApplyFlags(flags, p)
			if res.FilteredCount != tt.expect {
				t.Errorf("FilteredCount = %d, want %d", res.FilteredCount, tt.expect)
			}
		})
	}
}

func TestPageSliceLength(t *testing.T) {
	// paginatedSlice.length = min(pageSize, filteredCount-(page-1)*pageSize)
	var flags []models.FeatureFlag
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		flags = append(flags, mkFlag(n, models.EnvProduction))
	}

	tests := []struct {
		page, pageSize, wantLen, wantPages int
	}{
		{1, 3, 3, 3},
		{2, 3, 3, 3},
		{3, 3, 1, 3},
		{1, 7, 7, 1},
		{1, 10, 7, 1},
		{4, 3, 1, 3}, // out of range clamps to last page
	}

	for _, tt := range tests {
		p := DefaultFlagParams(tt.pageSize)
		p.Page = tt.page
		res := ApplyFlags(flags, p)
		if len(res.Items) != tt.wantLen {
			t.Errorf("page=%d size=%d: len = %d, want %d", tt.page, tt.pageSize, len(res.Items), tt.wantLen)
		}
		if res.TotalPages != tt.wantPages {
			t.Errorf("page=%d size=%d: TotalPages = %d, want %d", tt.page, tt.pageSize, res.TotalPages, tt.wantPages)
		}
	}
}

func TestPageClampAfterFilterNarrows(t *testing.T) {
	flags := []models.FeatureFlag{
		mkFlag("a", models.EnvProduction),
		mkFlag("b", models.EnvProduction),
		mkFlag("c", models.EnvProduction),
		mkFlag("d", models.EnvStaging),
	}

	// User was on page 2 of the unfiltered list, then the filter narrows the
	// set to a single page. Never render an empty page while matches exist.
	p := DefaultFlagParams(3)
	p.Page = 2
	p.Filters[FlagFilterEnvironment] = string(models.EnvStaging)

	res := ApplyFlags(flags, p)
	if res.Page != 1 {
		t.Errorf("Page = %d, want clamp to 1", res.Page)
	}
	if len(res.Items) != 1 {
		t.Errorf("len(Items) = %d, want 1", len(res.Items))
	}
}

func TestEmptyResultPage(t *testing.T) {
	p := DefaultFlagParams(10)
	p.Query = "nothing-matches"
	res := ApplyFlags([]models.FeatureFlag{mkFlag("a", models.EnvProduction)}, p)

	if res.FilteredCount != 0 || len(res.Items) != 0 {
		t.Errorf("expected empty result, got count=%d len=%d", res.FilteredCount, len(res.Items))
	}
	if res.Page != 1 || res.TotalPages != 0 {
		t.Errorf("Page=%d TotalPages=%d, want 1/0", res.Page, res.TotalPages)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	flags := []models.FeatureFlag{
		mkFlag("delta", models.EnvProduction),
		mkFlag("alpha", models.EnvStaging),
		mkFlag("charlie", models.EnvProduction),
		mkFlag("bravo", models.EnvDevelopment),
	}

	p := DefaultFlagParams(2)
	p.SortField = FlagSortName
	p.SortAsc = false

	first := ApplyFlags(flags, p)
	second := ApplyFlags(flags, p)

	if first.FilteredCount != second.FilteredCount {
		t.Fatalf("counts differ: %d vs %d", first.FilteredCount, second.FilteredCount)
	}
	a, b := flagNames(first.Items), flagNames(second.Items)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("outputs differ at %d: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestStableOrderOnTies(t *testing.T) {
	// Equal sort keys keep source order.
	now := time.Now()
	flags := []models.FeatureFlag{
		{Name: "first", Environment: models.EnvProduction, CreatedAt: now},
		{Name: "second", Environment: models.EnvProduction, CreatedAt: now},
		{Name: "third", Environment: models.EnvProduction, CreatedAt: now},
	}

	p := DefaultFlagParams(10)
	p.SortField = FlagSortCreatedAt

	res := ApplyFlags(flags, p)
	got := flagNames(res.Items)
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tie order = %v, want %v", got, want)
			break
		}
	}
}

func TestSortStateClickPolicy(t *testing.T) {
	// Flags: a fresh field starts ascending and resets the page.
	s := SortState{Field: FlagSortName, Asc: true}

	if reset := s.Click(FlagSortRollout, true); !reset {
		t.Error("switching field should reset page")
	}
	if s.Field != FlagSortRollout || !s.Asc {
		t.Errorf("state = %+v, want rollout asc", s)
	}

	// Clicking the same field toggles direction without a page reset.
	if reset := s.Click(FlagSortRollout, true); reset {
		t.Error("same-field click should not reset page")
	}
	if s.Asc {
		t.Error("same-field click should flip to descending")
	}

	// Audit lists default new fields to descending.
	a := SortState{Field: AuditSortCreatedAt, Asc: false}
	a.Click(AuditSortFlagName, false)
	if a.Asc {
		t.Error("audit field switch should default to descending")
	}
	a.Click(AuditSortFlagName, false)
	if !a.Asc {
		t.Error("second click should toggle to ascending")
	}
}

func TestMatchFilterSentinel(t *testing.T) {
	tests := []struct {
		filter, value string
		want          bool
	}{
		{"all", "anything", true},
		{"All", "anything", true},
		{"ALL", "anything", true},
		{"", "anything", true},
		{"create", "create", true},
		{"create", "delete", false},
	}

	for _, tt := range tests {
		if got := MatchFilter(tt.filter, tt.value); got != tt.want {
			t.Errorf("MatchFilter(%q, %q) = %v, want %v", tt.filter, tt.value, got, tt.want)
		}
	}
}

func TestApplyAuditLogsDefaults(t *testing.T) {
	logs := []models.AuditLog{
		{FlagName: "old", Action: models.AuditCreate, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{FlagName: "new", Action: models.AuditUpdate, CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{FlagName: "mid", Action: models.AuditDelete, CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	res := ApplyAuditLogs(logs, DefaultAuditParams(10))
	if res.Items[0].FlagName != "new" || res.Items[2].FlagName != "old" {
		t.Errorf("default audit order should be newest first, got %q..%q",
			res.Items[0].FlagName, res.Items[2].FlagName)
	}
}

func TestAuditActionFilter(t *testing.T) {
	logs := []models.AuditLog{
		{FlagName: "a", Action: models.AuditCreate},
		{FlagName: "b", Action: models.AuditUpdate},
		{FlagName: "c", Action: models.AuditCreate},
	}

	p := DefaultAuditParams(10)
	p.Filters[AuditFilterAction] = string(models.AuditCreate)

	res := ApplyAuditLogs(logs, p)
	if res.FilteredCount != 2 {
		t.Errorf("FilteredCount = %d, want 2", res.FilteredCount)
	}
}

func TestAuditQueryFields(t *testing.T) {
	logs := []models.AuditLog{
		{FlagName: "checkout", PerformedBy: "ops@example.com", Details: "enabled for staging"},
		{FlagName: "search", PerformedBy: "dev@example.com", Details: "rollout 50"},
	}

	tests := []struct {
		query  string
		expect int
	}{
		{"checkout", 1},
		{"ops@", 1},
		{"rollout", 1},
		{"example.com", 2},
		{"", 2},
		{"zzz", 0},
	}

	for _, tt := range tests {
		p := DefaultAuditParams(10)
		p.Query = tt.query
		res := ApplyAuditLogs(logs, p)
		if res.FilteredCount != tt.expect {
			t.Errorf("query %q: FilteredCount = %d, want %d", tt.query, res.FilteredCount, tt.expect)
		}
	}
}
