package console

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"flagdeck/internal/listview"
	"flagdeck/internal/models"
)

// flagSortCycle is the column order the sort key steps through.
var flagSortCycle = []string{
	listview.FlagSortName,
	listview.FlagSortEnvironment,
	listview.FlagSortEnabled,
	listview.FlagSortRollout,
	listview.FlagSortCreatedAt,
}

// auditSortCycle is the column order for the audit panel.
var auditSortCycle = []string{
	listview.AuditSortCreatedAt,
	listview.AuditSortAction,
	listview.AuditSortFlagName,
	listview.AuditSortPerformedBy,
}

// envFilterCycle is the order the environment filter steps through.
var envFilterCycle = []string{
	listview.FilterAll,
	string(models.EnvProduction),
	string(models.EnvStaging),
	string(models.EnvDevelopment),
}

// actionFilterCycle is the order the audit action filter steps through.
var actionFilterCycle = []string{
	listview.FilterAll,
	string(models.AuditCreate),
	string(models.AuditUpdate),
	string(models.AuditDelete),
}

// statusFilterCycle is the order the waitlist status filter steps through.
var statusFilterCycle = []string{
	listview.FilterAll,
	string(models.WaitListPending),
	string(models.WaitListApproved),
	string(models.WaitListRevoked),
}

// handleKey routes a key press based on which surface currently owns input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modals take input first, innermost on top.
	switch {
	case m.FormOpen:
		return m.handleFormKey(msg)
	case m.RevealOpen:
		return m.handleRevealKey(msg)
	case m.ConfirmOpen:
		return m.handleConfirmKey(msg)
	case m.DocsOpen:
		return m.handleDocsKey(msg)
	case m.SearchMode:
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.fetchCancel != nil {
			m.fetchCancel()
		}
		m.saveFilters()
		return m, tea.Quit

	case "tab":
		m.ActivePanel = (m.ActivePanel + 1) % 4
		m.resetFetch()
		return m, m.refreshActive()

	case "shift+tab":
		m.ActivePanel = (m.ActivePanel + 3) % 4
		m.resetFetch()
		return m, m.refreshActive()

	case "1", "2", "3", "4":
		m.ActivePanel = Panel(int(msg.String()[0] - '1'))
		m.resetFetch()
		return m, m.refreshActive()

	case "up", "k":
		m.Cursor[m.ActivePanel]--
		m.clampCursor(m.ActivePanel, m.activeRowCount())
		return m, nil

	case "down", "j":
		m.Cursor[m.ActivePanel]++
		m.clampCursor(m.ActivePanel, m.activeRowCount())
		return m, nil

	case "/":
		m.SearchMode = true
		m.SearchInput.Focus()
		return m, nil

	case "s":
		return m.cycleSort()

	case "o":
		return m.toggleSortOrder()

	case "f":
		return m.cycleFilter()

	case "[":
		return m.pageBy(-1)

	case "]":
		return m.pageBy(1)

	case "e":
		switch m.ActivePanel {
		case PanelAudit:
			return m, m.exportAudit()
		case PanelFlags:
			return m, m.exportFlags()
		}
		return m, nil

	case "D":
		return m, m.renderDocs()

	case ".":
		if m.tourVisible() {
			return m, tourCmd(m.Tour.Next)
		}

	case ",":
		if m.tourVisible() {
			return m, tourCmd(m.Tour.Prev)
		}

	case "x":
		if m.tourVisible() {
			return m, tourCmd(m.Tour.Skip)
		}
	}

	switch m.ActivePanel {
	case PanelFlags:
		return m.handleFlagsKey(msg)
	case PanelKeys:
		return m.handleKeysKey(msg)
	case PanelWaitList:
		return m.handleWaitListKey(msg)
	}
	return m, nil
}

// tourCmd wraps a tour transition; persistence happens synchronously inside
// the transition, the message only surfaces failures.
func tourCmd(fn func() error) tea.Cmd {
	err := fn()
	if err == nil {
		return nil
	}
	return func() tea.Msg { return TourSavedMsg{Err: err} }
}

func (m Model) handleFlagsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c", "n":
		m.FormOpen = true
		m.FormState = NewFormState()
		return m, m.FormState.Form.Init()

	case "t", "enter":
		if flag, ok := m.selectedFlag(); ok {
			// Optimistic: flip locally now, reconcile on the reload that
			// follows FlagSavedMsg.
			for i := range m.Flags {
				if m.Flags[i].ID == flag.ID {
					m.Flags[i].Enabled = !m.Flags[i].Enabled
				}
			}
			m.applyFlagList()
			return m, m.toggleFlag(flag)
		}

	case "d":
		if flag, ok := m.selectedFlag(); ok {
			m.ConfirmOpen = true
			m.ConfirmFlagID = flag.ID
			m.ConfirmName = flag.Name
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKeysKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "g":
		return m, m.generateKey()

	case "r":
		if m.Keys != nil && m.Keys.Current != nil {
			return m, m.revokeKey()
		}
	}
	return m, nil
}

func (m Model) handleWaitListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		if s, ok := m.selectedSignup(); ok {
			return m, m.updateWaitListStatus(s.ID, models.WaitListApproved)
		}

	case "v":
		if s, ok := m.selectedSignup(); ok {
			return m, m.updateWaitListStatus(s.ID, models.WaitListRevoked)
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.SearchMode = false
		m.SearchInput.Blur()
		return m, nil

	case "enter":
		m.SearchMode = false
		m.SearchInput.Blur()
		m.FlagParams.Query = m.SearchInput.Value()
		m.WaitParams.Query = m.SearchInput.Value()
		m.FlagParams.Page = 1
		m.WaitParams.Page = 1
		m.AuditPage = 1
		m.applyFlagList()
		m.applyWaitList()
		m.saveFilters()
		if m.ActivePanel == PanelAudit {
			m.resetFetch()
			return m, m.loadAudit()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.FormOpen = false
		m.FormState = nil
		return m, nil
	}

	form, cmd := m.FormState.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.FormState.Form = f
	}

	switch m.FormState.Form.State {
	case huh.StateCompleted:
		req := m.FormState.ToRequest()
		m.FormOpen = false
		m.FormState = nil
		return m, m.createFlag(req)
	case huh.StateAborted:
		m.FormOpen = false
		m.FormState = nil
		return m, nil
	}

	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := m.ConfirmFlagID
		m.ConfirmOpen = false
		m.ConfirmFlagID = ""
		m.ConfirmName = ""
		return m, m.deleteFlag(id)

	case "n", "esc":
		m.ConfirmOpen = false
		m.ConfirmFlagID = ""
		m.ConfirmName = ""
	}
	return m, nil
}

func (m Model) handleRevealKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		if m.RevealedKey != nil && m.RevealedKey.FullKey != "" {
			if err := m.copyToClipboard(m.RevealedKey.FullKey); err != nil {
				return m.withStatus("copy failed: "+err.Error(), true)
			}
			return m.withStatus("Copied to clipboard", false)
		}

	case "esc", "enter":
		// Closing the modal drops the full key for good.
		m.RevealOpen = false
		m.RevealedKey = nil
	}
	return m, nil
}

func (m Model) handleDocsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.DocsOpen = false
		m.DocsContent = ""
		return m, nil

	case "up", "k":
		if m.DocsScroll > 0 {
			m.DocsScroll--
		}

	case "down", "j":
		m.DocsScroll++

	case ".":
		if m.tourVisible() {
			return m, tourCmd(m.Tour.Next)
		}

	case ",":
		if m.tourVisible() {
			return m, tourCmd(m.Tour.Prev)
		}

	case "x":
		if m.tourVisible() {
			return m, tourCmd(m.Tour.Skip)
		}
	}
	return m, nil
}

// cycleSort clicks the next column in the active panel's sort cycle.
func (m Model) cycleSort() (tea.Model, tea.Cmd) {
	switch m.ActivePanel {
	case PanelFlags:
		next := nextInCycle(flagSortCycle, m.FlagSort.Field)
		if m.FlagSort.Click(next, true) {
			m.FlagParams.Page = 1
		}
		m.applyFlagList()
		m.saveFilters()

	case PanelAudit:
		next := nextInCycle(auditSortCycle, m.AuditSort.Field)
		if m.AuditSort.Click(next, false) {
			m.AuditPage = 1
		}
		m.resetFetch()
		return m, m.loadAudit()
	}
	return m, nil
}

// toggleSortOrder re-clicks the active column, flipping direction in place.
func (m Model) toggleSortOrder() (tea.Model, tea.Cmd) {
	switch m.ActivePanel {
	case PanelFlags:
		m.FlagSort.Click(m.FlagSort.Field, true)
		m.applyFlagList()
		m.saveFilters()

	case PanelAudit:
		m.AuditSort.Click(m.AuditSort.Field, false)
		m.resetFetch()
		return m, m.loadAudit()
	}
	return m, nil
}

func (m Model) cycleFilter() (tea.Model, tea.Cmd) {
	switch m.ActivePanel {
	case PanelFlags:
		cur := m.FlagParams.Filters[listview.FlagFilterEnvironment]
		m.FlagParams.Filters[listview.FlagFilterEnvironment] = nextInCycle(envFilterCycle, cur)
		m.FlagParams.Page = 1
		m.applyFlagList()
		m.saveFilters()

	case PanelAudit:
		m.AuditAction = nextInCycle(actionFilterCycle, m.AuditAction)
		m.AuditPage = 1
		m.saveFilters()
		m.resetFetch()
		return m, m.loadAudit()

	case PanelWaitList:
		cur := m.WaitParams.Filters[listview.WaitFilterStatus]
		m.WaitParams.Filters[listview.WaitFilterStatus] = nextInCycle(statusFilterCycle, cur)
		m.WaitParams.Page = 1
		m.applyWaitList()
	}
	return m, nil
}

func (m Model) pageBy(delta int) (tea.Model, tea.Cmd) {
	switch m.ActivePanel {
	case PanelFlags:
		m.FlagParams.Page = m.FlagDerived.Page + delta
		m.applyFlagList()

	case PanelAudit:
		m.AuditPage += delta
		if m.AuditPage < 1 {
			m.AuditPage = 1
		}
		if m.AuditPg != nil && m.AuditPg.TotalPages > 0 && m.AuditPage > m.AuditPg.TotalPages {
			m.AuditPage = m.AuditPg.TotalPages
		}
		m.resetFetch()
		return m, m.loadAudit()

	case PanelWaitList:
		m.WaitParams.Page = m.WaitDerived.Page + delta
		m.applyWaitList()
	}
	return m, nil
}

func nextInCycle(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func (m Model) activeRowCount() int {
	switch m.ActivePanel {
	case PanelAudit:
		if m.AuditPg == nil {
			return 0
		}
		return len(m.AuditPg.Logs)
	case PanelKeys:
		n := 0
		if m.Keys != nil {
			if m.Keys.Current != nil {
				n++
			}
			n += len(m.Keys.History)
		}
		return n
	case PanelWaitList:
		return len(m.WaitDerived.Items)
	default:
		return len(m.FlagDerived.Items)
	}
}

func (m Model) selectedFlag() (models.FeatureFlag, bool) {
	idx := m.Cursor[PanelFlags]
	if idx < 0 || idx >= len(m.FlagDerived.Items) {
		return models.FeatureFlag{}, false
	}
	return m.FlagDerived.Items[idx], true
}

func (m Model) selectedSignup() (models.WaitListSignup, bool) {
	idx := m.Cursor[PanelWaitList]
	if idx < 0 || idx >= len(m.WaitDerived.Items) {
		return models.WaitListSignup{}, false
	}
	return m.WaitDerived.Items[idx], true
}
