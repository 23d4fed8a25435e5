// Package console is the interactive admin console for a flagdeck backend:
// flag list with derived filtering and sorting, audit history, API key
// management, waitlist review, and a guided onboarding tour rendered as
// positioned tooltips.
package console

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"flagdeck/internal/apiclient"
	"flagdeck/internal/listview"
	"flagdeck/internal/models"
	"flagdeck/internal/overlay"
	"flagdeck/internal/statefile"
	"flagdeck/internal/tour"
	"flagdeck/internal/version"
)

// API is the backend surface the console consumes. Implemented by
// *apiclient.Client; faked in tests.
type API interface {
	ListFlags(ctx context.Context) ([]models.FeatureFlag, error)
	CreateFlag(ctx context.Context, req apiclient.CreateFlagRequest) (*models.FeatureFlag, error)
	UpdateFlag(ctx context.Context, id string, req apiclient.UpdateFlagRequest) (*models.FeatureFlag, error)
	ToggleFlag(ctx context.Context, id string, enabled bool) (*models.FeatureFlag, error)
	DeleteFlag(ctx context.Context, id string) error
	ListAuditLogs(ctx context.Context, q apiclient.AuditQuery) (*apiclient.AuditPage, error)
	GetAPIKeys(ctx context.Context) (*apiclient.APIKeysResponse, error)
	GenerateAPIKey(ctx context.Context) (*models.APIKey, error)
	RevokeAPIKey(ctx context.Context) error
	DeleteAPIKey(ctx context.Context, id string) error
	ListWaitList(ctx context.Context) ([]models.WaitListSignup, error)
	UpdateWaitListStatus(ctx context.Context, id string, status models.WaitListStatus) error
}

// Model is the main Bubble Tea model for the console TUI
type Model struct {
	// Backend and storage
	API   API
	State *statefile.File
	Tour  *tour.Machine

	// Window dimensions
	Width  int
	Height int

	// Panel data
	Flags    []models.FeatureFlag
	AuditPg  *apiclient.AuditPage
	Keys     *apiclient.APIKeysResponse
	WaitList []models.WaitListSignup

	// Whether the current key's one-time reveal happened on this machine;
	// refreshed with each key load so the panel can say when it did not.
	CurrentKeySeen bool

	// Derived flag list state
	FlagParams  listview.Params
	FlagSort    listview.SortState
	FlagDerived listview.Result[models.FeatureFlag]

	// Audit list state (server-side paging)
	AuditSort   listview.SortState
	AuditPage   int
	AuditAction string

	// Derived waitlist state
	WaitParams  listview.Params
	WaitDerived listview.Result[models.WaitListSignup]

	// UI state
	ActivePanel Panel
	Cursor      map[Panel]int
	LastRefresh time.Time
	Err         error

	// Search state
	SearchMode  bool
	SearchInput textinput.Model

	// Form modal state
	FormOpen  bool
	FormState *FormState

	// Delete confirmation state
	ConfirmOpen   bool
	ConfirmFlagID string
	ConfirmName   string

	// Docs modal state (glamour-rendered)
	DocsOpen    bool
	DocsContent string
	DocsScroll  int

	// Key reveal modal. RevealedKey holds the one-time FullKey; it is
	// dropped as soon as the modal closes.
	RevealOpen  bool
	RevealedKey *models.APIKey

	// Tooltip anchor registry (populated during render)
	Targets *overlay.Registry

	// Status message (temporary feedback, e.g., "Copied to clipboard")
	StatusMessage string
	StatusIsError bool

	// Update notice from the background release check
	UpdateNotice string

	// Refresh cancellation: superseded fetches are cancelled
	fetchCtx    context.Context
	fetchCancel context.CancelFunc

	// Configuration
	RefreshInterval time.Duration
	ExportDir       string
	Version         string

	// Clipboard function (nil = real system clipboard)
	ClipboardFn func(string) error
}

// NewModel creates a new console model
func NewModel(api API, state *statefile.File, ver string) Model {
	search := textinput.New()
	search.Placeholder = "search..."
	search.CharLimit = 120
	search.Width = 40

	flagParams := listview.DefaultFlagParams(listview.DefaultPageSize)
	waitParams := listview.DefaultWaitListParams(listview.DefaultPageSize)

	m := Model{
		API:         api,
		State:       state,
		Tour:        tour.New(state),
		Cursor:      map[Panel]int{},
		FlagParams:  flagParams,
		FlagSort:    listview.SortState{Field: flagParams.SortField, Asc: flagParams.SortAsc},
		AuditSort:   listview.SortState{Field: listview.AuditSortCreatedAt, Asc: false},
		AuditPage:   1,
		AuditAction: listview.FilterAll,
		WaitParams:  waitParams,
		SearchInput: search,
		Targets:     overlay.NewRegistry(),

		RefreshInterval: 5 * time.Second,
		Version:         ver,
		ClipboardFn:     clipboard.WriteAll,
	}

	// Reopen where the operator left off.
	if fs, err := state.GetFilterState(); err == nil {
		if fs.SearchQuery != "" {
			m.FlagParams.Query = fs.SearchQuery
			m.SearchInput.SetValue(fs.SearchQuery)
		}
		if fs.Environment != "" {
			m.FlagParams.Filters[listview.FlagFilterEnvironment] = fs.Environment
		}
		if fs.SortField != "" {
			m.FlagSort = listview.SortState{Field: fs.SortField, Asc: fs.SortAsc}
			m.FlagParams.SortField = fs.SortField
			m.FlagParams.SortAsc = fs.SortAsc
		}
		if fs.Action != "" {
			m.AuditAction = fs.Action
		}
	}

	return m
}

// Init starts the initial data load and the refresh ticker
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadFlags(),
		m.loadAudit(),
		m.loadKeys(),
		m.loadWaitList(),
		version.CheckAsync(m.Version),
		m.tick(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.LastRefresh = time.Time(msg)
		m.resetFetch()
		return m, tea.Batch(m.refreshActive(), m.tick())

	case FlagsMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Err = nil
		m.Flags = msg.Flags
		m.applyFlagList()
		return m, nil

	case AuditMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Err = nil
		m.AuditPg = msg.Page
		m.clampCursor(PanelAudit, len(msg.Page.Logs))
		return m, nil

	case KeysMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Err = nil
		m.Keys = msg.Keys
		m.CurrentKeySeen = false
		if msg.Keys.Current != nil {
			m.CurrentKeySeen, _ = m.State.KeySeen(msg.Keys.Current.ID)
		}
		return m, nil

	case WaitListMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Err = nil
		m.WaitList = msg.Signups
		m.applyWaitList()
		return m, nil

	case FlagSavedMsg:
		if msg.Err != nil {
			return m.withStatus("save failed: "+msg.Err.Error(), true)
		}
		m2, cmd := m.withStatus("Saved "+msg.Flag.Name, false)
		return m2, tea.Batch(cmd, m2.loadFlags(), m2.loadAudit())

	case FlagDeletedMsg:
		if msg.Err != nil {
			return m.withStatus("delete failed: "+msg.Err.Error(), true)
		}
		m2, cmd := m.withStatus("Flag deleted", false)
		return m2, tea.Batch(cmd, m2.loadFlags(), m2.loadAudit())

	case KeyGeneratedMsg:
		if msg.Err != nil {
			return m.withStatus("generate failed: "+msg.Err.Error(), true)
		}
		m.RevealOpen = true
		m.RevealedKey = msg.Key
		// The reveal is one-time: record it as shown immediately.
		if err := m.State.MarkKeySeen(msg.Key.ID); err != nil {
			m.StatusMessage = "warning: could not record key reveal"
			m.StatusIsError = true
		}
		return m, m.loadKeys()

	case KeyRevokedMsg:
		if msg.Err != nil {
			return m.withStatus("revoke failed: "+msg.Err.Error(), true)
		}
		m2, cmd := m.withStatus("Key revoked", false)
		return m2, tea.Batch(cmd, m2.loadKeys())

	case WaitListUpdatedMsg:
		if msg.Err != nil {
			return m.withStatus("update failed: "+msg.Err.Error(), true)
		}
		m2, cmd := m.withStatus("Signup "+string(msg.Status), false)
		return m2, tea.Batch(cmd, m2.loadWaitList())

	case ExportDoneMsg:
		if msg.Err != nil {
			return m.withStatus("export failed: "+msg.Err.Error(), true)
		}
		return m.withStatus("Exported "+msg.Filename, false)

	case DocsRenderedMsg:
		if msg.Err != nil {
			return m.withStatus("docs failed: "+msg.Err.Error(), true)
		}
		m.DocsOpen = true
		m.DocsContent = msg.Content
		m.DocsScroll = 0
		return m, nil

	case TourSavedMsg:
		if msg.Err != nil {
			return m.withStatus("could not save tour progress", true)
		}
		return m, nil

	case version.UpdateAvailableMsg:
		m.UpdateNotice = "update available: " + msg.LatestVersion
		return m, nil

	case ClearStatusMsg:
		m.StatusMessage = ""
		m.StatusIsError = false
		return m, nil
	}

	return m, nil
}

// View renders the console
func (m Model) View() string {
	return m.renderView()
}

// route returns the current page for tour visibility checks.
func (m Model) route() string {
	if m.DocsOpen {
		return "docs"
	}
	return m.ActivePanel.String()
}

// tourVisible reports whether the current tour step's tooltip should render.
func (m Model) tourVisible() bool {
	if m.FormOpen || m.ConfirmOpen || m.RevealOpen {
		return false
	}
	return m.Tour.Visible(m.route(), RouteMatches)
}

// applyFlagList recomputes the derived flag list and clamps the cursor.
func (m *Model) applyFlagList() {
	m.FlagParams.SortField = m.FlagSort.Field
	m.FlagParams.SortAsc = m.FlagSort.Asc
	m.FlagDerived = listview.ApplyFlags(m.Flags, m.FlagParams)
	m.FlagParams.Page = m.FlagDerived.Page
	m.clampCursor(PanelFlags, len(m.FlagDerived.Items))
}

// applyWaitList recomputes the derived waitlist.
func (m *Model) applyWaitList() {
	m.WaitDerived = listview.ApplyWaitList(m.WaitList, m.WaitParams)
	m.WaitParams.Page = m.WaitDerived.Page
	m.clampCursor(PanelWaitList, len(m.WaitDerived.Items))
}

func (m *Model) clampCursor(p Panel, n int) {
	if m.Cursor[p] >= n {
		m.Cursor[p] = n - 1
	}
	if m.Cursor[p] < 0 {
		m.Cursor[p] = 0
	}
}

// withStatus sets a transient status message and schedules its clear.
func (m Model) withStatus(msg string, isError bool) (Model, tea.Cmd) {
	m.StatusMessage = msg
	m.StatusIsError = isError
	return m, clearStatusAfter(3 * time.Second)
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.RefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// saveFilters persists the current filter state so the next session reopens
// where this one left off. Best effort.
func (m Model) saveFilters() {
	_ = m.State.SetFilterState(statefile.FilterState{
		SearchQuery: m.FlagParams.Query,
		Environment: m.FlagParams.Filters[listview.FlagFilterEnvironment],
		Action:      m.AuditAction,
		SortField:   m.FlagSort.Field,
		SortAsc:     m.FlagSort.Asc,
	})
}

// resetFetch cancels any in-flight fetches and opens a new fetch scope.
// A refresh that supersedes a slow one must not let the stale response
// land after the fresh one.
func (m *Model) resetFetch() {
	if m.fetchCancel != nil {
		m.fetchCancel()
	}
	m.fetchCtx, m.fetchCancel = context.WithCancel(context.Background())
}

func (m Model) fetchContext() context.Context {
	if m.fetchCtx != nil {
		return m.fetchCtx
	}
	return context.Background()
}

func (m Model) copyToClipboard(s string) error {
	if m.ClipboardFn != nil {
		return m.ClipboardFn(s)
	}
	return clipboard.WriteAll(s)
}
