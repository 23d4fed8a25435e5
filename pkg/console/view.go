package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"flagdeck/internal/listview"
	"flagdeck/internal/overlay"
)

// renderView renders the complete TUI view
func (m Model) renderView() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}

	if m.Width < MinWidth || m.Height < MinHeight {
		return m.renderCompact()
	}

	// The anchor highlight has to be in place before the panels render so
	// they can style the marked target. Rects come from the previous layout
	// pass; the registry drops marks for names it has never measured.
	if m.tourVisible() {
		m.Targets.Highlight(stepTarget(m.Tour.Step()))
	} else {
		m.Targets.ClearHighlight()
	}

	header := m.renderHeader()

	searchBar := m.renderSearchBar()
	searchBarHeight := 0
	if searchBar != "" {
		searchBarHeight = 1
	}

	footerHeight := 2
	panelHeight := m.Height - lipgloss.Height(header) - searchBarHeight - footerHeight

	var panel string
	switch m.ActivePanel {
	case PanelAudit:
		panel = m.renderAuditPanel(panelHeight)
	case PanelKeys:
		panel = m.renderKeysPanel(panelHeight)
	case PanelWaitList:
		panel = m.renderWaitListPanel(panelHeight)
	default:
		panel = m.renderFlagsPanel(panelHeight)
	}

	parts := []string{header}
	if searchBar != "" {
		parts = append(parts, searchBar)
	}
	parts = append(parts, panel, m.renderFooter())
	base := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Modals take the whole screen, centered.
	if m.FormOpen && m.FormState != nil {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
			modalStyle.Render(m.FormState.Form.View()),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(lipgloss.Color("0")))
	}
	if m.ConfirmOpen {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
			m.renderConfirm(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(lipgloss.Color("0")))
	}
	if m.RevealOpen && m.RevealedKey != nil {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
			m.renderReveal(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(lipgloss.Color("0")))
	}
	if m.DocsOpen {
		base = m.renderDocsModal()
	}

	// Tour tooltip composites onto whatever is underneath.
	if m.tourVisible() {
		base = m.overlayTooltip(base)
	}

	return base
}

// renderCompact renders a minimal view for small terminals
func (m Model) renderCompact() string {
	var s strings.Builder
	s.WriteString("flagdeck console (resize for full view)\n\n")
	s.WriteString(fmt.Sprintf("Flags: %d\n", len(m.Flags)))
	if m.Keys != nil && m.Keys.Current != nil {
		s.WriteString("API key: active\n")
	}
	s.WriteString("\nq:quit tab:switch")
	return s.String()
}

// renderHeader renders the nav bar and registers tooltip anchor targets.
func (m Model) renderHeader() string {
	names := []string{"FLAGS", "AUDIT", "API KEYS", "WAITLIST"}

	brand := titleStyle.Render("flagdeck")
	parts := []string{brand}
	navStart := ansi.StringWidth(brand) + 2

	navStyle := subtleStyle
	if m.Targets.Highlighted("nav") {
		navStyle = highlightStyle
	}

	x := navStart
	for i, name := range names {
		label := " " + name + " "
		if Panel(i) == m.ActivePanel {
			parts = append(parts, panelTitleStyle.Render(label))
		} else {
			parts = append(parts, navStyle.Render(label))
		}
		w := ansi.StringWidth(label)
		if Panel(i) == m.ActivePanel {
			// panelTitleStyle pads by one on each side
			w += 2
		}
		x += w + 1
	}

	docsLabel := "[D]ocs"
	docsStyle := helpStyle
	if m.Targets.Highlighted("docs-link") {
		docsStyle = highlightStyle
	}
	parts = append(parts, docsStyle.Render(docsLabel))

	header := strings.Join(parts, " ")

	// Anchor rects for the tour tooltips, measured off this layout.
	navWidth := x - navStart
	m.Targets.Register("nav", overlay.Rect{X: navStart, Y: 0, W: navWidth, H: 1})
	m.Targets.Register("docs-link", overlay.Rect{X: x, Y: 0, W: len(docsLabel), H: 1})

	return header
}

// renderSearchBar renders the search input when active or non-empty
func (m Model) renderSearchBar() string {
	if !m.SearchMode && m.SearchInput.Value() == "" {
		return ""
	}
	return "search: " + m.SearchInput.View()
}

// renderFlagsPanel renders the feature flag list
func (m Model) renderFlagsPanel(height int) string {
	var content strings.Builder

	newButton := "[c]reate flag"
	buttonStyle := helpStyle
	if m.Targets.Highlighted("new-flag-button") {
		buttonStyle = highlightStyle
	}
	content.WriteString(buttonStyle.Render(newButton))
	content.WriteString("\n\n")
	// The button sits inside the panel border at a fixed offset.
	m.Targets.Register("new-flag-button", overlay.Rect{X: 2, Y: 2, W: len(newButton), H: 1})

	if len(m.FlagDerived.Items) == 0 {
		content.WriteString(subtleStyle.Render("No flags match"))
		return m.wrapPanel(m.flagsTitle(), content.String(), height, PanelFlags)
	}

	cursor := m.Cursor[PanelFlags]
	for i, f := range m.FlagDerived.Items {
		line := fmt.Sprintf("%s  %s  %s  %3d%%  %s",
			formatEnabled(f.Enabled),
			formatEnv(f.Environment),
			titleStyle.Render(padRight(f.Name, 28)),
			f.RolloutPercentage,
			subtleStyle.Render(truncateString(f.Description, 40)),
		)
		if i == cursor && m.ActivePanel == PanelFlags {
			line = selectedRowStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	return m.wrapPanel(m.flagsTitle(), content.String(), height, PanelFlags)
}

func (m Model) flagsTitle() string {
	title := fmt.Sprintf("FLAGS %d/%d", m.FlagDerived.FilteredCount, len(m.Flags))
	title += pageIndicator(m.FlagDerived.Page, m.FlagDerived.TotalPages)
	title += subtleStyle.Render(fmt.Sprintf("  sort:%s%s",
		m.FlagSort.Field, sortIndicator(true, m.FlagSort.Asc)))
	if env := m.FlagParams.Filters[listview.FlagFilterEnvironment]; env != listview.FilterAll {
		title += subtleStyle.Render("  env:" + env)
	}
	return title
}

// renderAuditPanel renders the audit log list
func (m Model) renderAuditPanel(height int) string {
	var content strings.Builder

	if m.AuditPg == nil || len(m.AuditPg.Logs) == 0 {
		content.WriteString(subtleStyle.Render("No audit entries"))
		return m.wrapPanel("AUDIT LOG", content.String(), height, PanelAudit)
	}

	cursor := m.Cursor[PanelAudit]
	for i, l := range m.AuditPg.Logs {
		line := fmt.Sprintf("%s %s  %s  %s",
			timestampStyle.Render(l.CreatedAt.Format("01-02 15:04")),
			formatActionBadge(l.Action),
			titleStyle.Render(padRight(l.FlagName, 24)),
			subtleStyle.Render(truncateString(l.Details, 36)),
		)
		if i == cursor && m.ActivePanel == PanelAudit {
			line = selectedRowStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	title := fmt.Sprintf("AUDIT LOG (%d entries)", m.AuditPg.Total)
	title += pageIndicator(m.AuditPg.Page, m.AuditPg.TotalPages)
	if m.AuditAction != listview.FilterAll {
		title += subtleStyle.Render("  action:" + m.AuditAction)
	}
	return m.wrapPanel(title, content.String(), height, PanelAudit)
}

// renderKeysPanel renders the API key panel
func (m Model) renderKeysPanel(height int) string {
	var content strings.Builder

	genButton := "[g]enerate key"
	genStyle := helpStyle
	if m.Targets.Highlighted("generate-key-button") {
		genStyle = highlightStyle
	}
	content.WriteString(genStyle.Render(genButton))
	content.WriteString("\n\n")
	m.Targets.Register("generate-key-button", overlay.Rect{X: 2, Y: 2, W: len(genButton), H: 1})

	if m.Keys == nil || (m.Keys.Current == nil && len(m.Keys.History) == 0) {
		content.WriteString(subtleStyle.Render("No API key yet"))
		return m.wrapPanel("API KEYS", content.String(), height, PanelKeys)
	}

	if k := m.Keys.Current; k != nil {
		content.WriteString(titleStyle.Render("CURRENT"))
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("  %s  %s  created %s\n",
			k.PartialKey,
			enabledDot.Render("[active]"),
			timestampStyle.Render(k.CreatedAt.Format("2006-01-02")),
		))
		if !m.CurrentKeySeen {
			content.WriteString(subtleStyle.Render("  full key revealed elsewhere; regenerate to get a new one"))
			content.WriteString("\n")
		}
		content.WriteString(helpStyle.Render("  r:revoke"))
		content.WriteString("\n")
	}

	if len(m.Keys.History) > 0 {
		content.WriteString("\n")
		content.WriteString(subtleStyle.Render("REVOKED"))
		content.WriteString("\n")
		for _, k := range m.Keys.History {
			revoked := ""
			if k.RevokedAt != nil {
				revoked = k.RevokedAt.Format("2006-01-02")
			}
			content.WriteString(fmt.Sprintf("  %s  %s  revoked %s\n",
				subtleStyle.Render(k.PartialKey),
				errorTextStyle.Render("[revoked]"),
				timestampStyle.Render(revoked),
			))
		}
	}

	return m.wrapPanel("API KEYS", content.String(), height, PanelKeys)
}

// renderWaitListPanel renders the waitlist signups
func (m Model) renderWaitListPanel(height int) string {
	var content strings.Builder

	if len(m.WaitDerived.Items) == 0 {
		content.WriteString(subtleStyle.Render("No signups match"))
		return m.wrapPanel("WAITLIST", content.String(), height, PanelWaitList)
	}

	cursor := m.Cursor[PanelWaitList]
	for i, s := range m.WaitDerived.Items {
		line := fmt.Sprintf("%s  %s  %s  %s",
			formatWaitListStatus(s.Status),
			titleStyle.Render(padRight(s.Name, 20)),
			padRight(s.Email, 28),
			subtleStyle.Render(s.Company),
		)
		if i == cursor && m.ActivePanel == PanelWaitList {
			line = selectedRowStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	title := fmt.Sprintf("WAITLIST %d/%d", m.WaitDerived.FilteredCount, len(m.WaitList))
	title += pageIndicator(m.WaitDerived.Page, m.WaitDerived.TotalPages)
	if st := m.WaitParams.Filters[listview.WaitFilterStatus]; st != listview.FilterAll {
		title += subtleStyle.Render("  status:" + st)
	}
	return m.wrapPanel(title, content.String(), height, PanelWaitList)
}

// renderFooter renders keybindings and the status line
func (m Model) renderFooter() string {
	var keys string
	switch m.ActivePanel {
	case PanelAudit:
		keys = "tab:panel  /:search  s:sort  o:order  f:filter  [ ]:page  e:export  q:quit"
	case PanelKeys:
		keys = "tab:panel  g:generate  r:revoke  q:quit"
	case PanelWaitList:
		keys = "tab:panel  /:search  f:filter  a:approve  v:revoke  q:quit"
	default:
		keys = "tab:panel  /:search  s:sort  o:order  f:filter  [ ]:page  c:new  t:toggle  d:delete  e:export  q:quit"
	}

	status := ""
	if m.Err != nil {
		status = errorTextStyle.Render("error: " + m.Err.Error())
	} else if m.StatusMessage != "" {
		if m.StatusIsError {
			status = errorTextStyle.Render(m.StatusMessage)
		} else {
			status = statusStyle.Render(m.StatusMessage)
		}
	} else if m.UpdateNotice != "" {
		status = helpStyle.Render(m.UpdateNotice)
	}

	return helpStyle.Render(keys) + "\n" + status
}

// renderConfirm renders the delete confirmation dialog
func (m Model) renderConfirm() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Delete flag?"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Flag %q will be deleted for every environment.\n", m.ConfirmName))
	sb.WriteString(subtleStyle.Render("This cannot be undone."))
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("y:delete  n:cancel"))
	return modalStyle.Render(sb.String())
}

// renderReveal renders the one-time full key modal
func (m Model) renderReveal() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("API key generated"))
	sb.WriteString("\n\n")
	sb.WriteString("This is the only time the full key is shown.\n")
	sb.WriteString("Copy it now and store it somewhere safe.\n\n")
	sb.WriteString(keyRevealStyle.Render(m.RevealedKey.FullKey))
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("c:copy  enter:done"))
	return modalStyle.Render(sb.String())
}

// renderDocsModal renders the scrollable documentation overlay
func (m Model) renderDocsModal() string {
	lines := strings.Split(m.DocsContent, "\n")

	maxLines := m.Height - 6
	if maxLines < 1 {
		maxLines = 1
	}
	scroll := m.DocsScroll
	if scroll > len(lines)-maxLines {
		scroll = len(lines) - maxLines
	}
	if scroll < 0 {
		scroll = 0
	}
	end := scroll + maxLines
	if end > len(lines) {
		end = len(lines)
	}

	body := strings.Join(lines[scroll:end], "\n")
	body += "\n" + helpStyle.Render("j/k:scroll  esc:close")

	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
		modalStyle.Render(body),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")))
}

// wrapPanel wraps content in a panel border with a title
func (m Model) wrapPanel(title, content string, height int, panel Panel) string {
	style := panelStyle
	if panel == m.ActivePanel {
		style = activePanelStyle
	}

	titled := panelTitleStyle.Render(title) + "\n" + content
	return style.Width(m.Width - 2).Height(height - 2).Render(titled)
}

// padRight pads or truncates s to an exact display width. Measured in
// cells, not bytes, so wide and accented runes stay aligned with the
// ASCII rows around them.
func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w > width {
		return truncateString(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// truncateString cuts s down to at most maxWidth display cells, ending in
// an ellipsis when anything was dropped. Never splits a rune.
func truncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "…")
}
