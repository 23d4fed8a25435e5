package console

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"flagdeck/internal/models"
)

var (
	// Base colors
	primaryColor   = lipgloss.Color("212")
	secondaryColor = lipgloss.Color("141")
	mutedColor     = lipgloss.Color("241")
	successColor   = lipgloss.Color("42")
	warningColor   = lipgloss.Color("214")
	errorColor     = lipgloss.Color("196")

	// Panel styles
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	// Text styles
	titleStyle     = lipgloss.NewStyle().Bold(true)
	subtleStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorTextStyle = lipgloss.NewStyle().Foreground(errorColor)
	statusStyle    = lipgloss.NewStyle().Foreground(successColor)

	// Environment styles
	envStyles = map[models.Environment]lipgloss.Style{
		models.EnvProduction:  lipgloss.NewStyle().Foreground(errorColor),
		models.EnvStaging:     lipgloss.NewStyle().Foreground(warningColor),
		models.EnvDevelopment: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
	}

	// Audit action badges
	createBadge = lipgloss.NewStyle().Foreground(successColor)
	updateBadge = lipgloss.NewStyle().Foreground(warningColor)
	deleteBadge = lipgloss.NewStyle().Foreground(errorColor)

	// Waitlist status styles
	waitListStyles = map[models.WaitListStatus]lipgloss.Style{
		models.WaitListApproved: lipgloss.NewStyle().Foreground(successColor),
		models.WaitListPending:  lipgloss.NewStyle().Foreground(warningColor),
		models.WaitListRevoked:  lipgloss.NewStyle().Foreground(errorColor),
	}

	enabledDot  = lipgloss.NewStyle().Foreground(successColor)
	disabledDot = lipgloss.NewStyle().Foreground(mutedColor)

	// Selected row style - inverted colors for visibility
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("237")).
				Foreground(lipgloss.Color("255"))

	// Tooltip styles
	tooltipStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Padding(0, 1)

	tooltipTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(secondaryColor)

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("54")).
			Foreground(lipgloss.Color("255"))

	// Modal styles
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	keyRevealStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warningColor)
)

// formatEnv renders an environment with color
func formatEnv(e models.Environment) string {
	style, ok := envStyles[e]
	if !ok {
		return string(e)
	}
	return style.Render(string(e))
}

// formatEnabled renders a flag's on/off state
func formatEnabled(enabled bool) string {
	if enabled {
		return enabledDot.Render("● on ")
	}
	return disabledDot.Render("○ off")
}

// formatActionBadge renders an audit action badge
func formatActionBadge(a models.AuditAction) string {
	switch a {
	case models.AuditCreate:
		return createBadge.Render("[CRE]")
	case models.AuditUpdate:
		return updateBadge.Render("[UPD]")
	case models.AuditDelete:
		return deleteBadge.Render("[DEL]")
	default:
		return subtleStyle.Render("[???]")
	}
}

// formatWaitListStatus renders a waitlist status with color
func formatWaitListStatus(s models.WaitListStatus) string {
	style, ok := waitListStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render(string(s))
}

// sortIndicator returns the arrow suffix for a sorted column header
func sortIndicator(active bool, asc bool) string {
	if !active {
		return ""
	}
	if asc {
		return " ▲"
	}
	return " ▼"
}

// pageIndicator renders "page N/M" for a panel title
func pageIndicator(page, totalPages int) string {
	if totalPages <= 1 {
		return ""
	}
	return fmt.Sprintf(" (page %d/%d)", page, totalPages)
}
