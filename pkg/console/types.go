package console

import (
	"time"

	"flagdeck/internal/apiclient"
	"flagdeck/internal/models"
	"flagdeck/internal/tour"
)

// Panel represents which panel is active
type Panel int

const (
	PanelFlags Panel = iota
	PanelAudit
	PanelKeys
	PanelWaitList
)

// String returns the panel's route name
func (p Panel) String() string {
	switch p {
	case PanelAudit:
		return "audit"
	case PanelKeys:
		return "api-keys"
	case PanelWaitList:
		return "waitlist"
	default:
		return "flags"
	}
}

// Minimum dimensions for the console
const (
	MinWidth  = 60
	MinHeight = 18
)

// TickMsg triggers a data refresh
type TickMsg time.Time

// FlagsMsg carries the fetched flag list
type FlagsMsg struct {
	Flags []models.FeatureFlag
	Err   error
}

// AuditMsg carries a fetched audit page
type AuditMsg struct {
	Page *apiclient.AuditPage
	Err  error
}

// KeysMsg carries the fetched API key state
type KeysMsg struct {
	Keys *apiclient.APIKeysResponse
	Err  error
}

// WaitListMsg carries fetched waitlist signups
type WaitListMsg struct {
	Signups []models.WaitListSignup
	Err     error
}

// FlagSavedMsg is sent after a create, update or toggle round-trips
type FlagSavedMsg struct {
	Flag *models.FeatureFlag
	Err  error
}

// FlagDeletedMsg is sent after a delete round-trips
type FlagDeletedMsg struct {
	ID  string
	Err error
}

// KeyGeneratedMsg carries a freshly minted key. Key.FullKey is present
// here and nowhere else.
type KeyGeneratedMsg struct {
	Key *models.APIKey
	Err error
}

// KeyRevokedMsg is sent after a revoke round-trips
type KeyRevokedMsg struct {
	Err error
}

// WaitListUpdatedMsg is sent after a signup status change round-trips
type WaitListUpdatedMsg struct {
	ID     string
	Status models.WaitListStatus
	Err    error
}

// ExportDoneMsg is sent after a CSV export is written
type ExportDoneMsg struct {
	Filename string
	Err      error
}

// DocsRenderedMsg carries pre-rendered documentation markdown
type DocsRenderedMsg struct {
	Content string
	Err     error
}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}

// TourSavedMsg is sent when an onboarding transition failed to persist.
// Successful transitions are silent.
type TourSavedMsg struct {
	Err error
}

// stepRoute returns the route a tour step's tooltip belongs on.
func stepRoute(step tour.Step) string {
	switch step {
	case tour.StepCreateFlag:
		return "flags"
	case tour.StepDocumentation:
		return "docs"
	case tour.StepAPIKey:
		return "api-keys"
	default:
		return ""
	}
}

// stepTarget returns the name of the UI element a tour step anchors to.
func stepTarget(step tour.Step) string {
	switch step {
	case tour.StepWelcome:
		return "nav"
	case tour.StepCreateFlag:
		return "new-flag-button"
	case tour.StepDocumentation:
		return "docs-link"
	case tour.StepAPIKey:
		return "generate-key-button"
	}
	return ""
}

// RouteMatches reports whether a step's tooltip may show on a route. The
// welcome step shows anywhere; later steps are pinned to their page.
func RouteMatches(step tour.Step, route string) bool {
	want := stepRoute(step)
	return want == "" || want == route
}
