// Package output provides styled terminal output helpers (success, error,
// warning, flag formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"flagdeck/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	enabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	envStyles    = map[models.Environment]lipgloss.Style{
		models.EnvProduction:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		models.EnvStaging:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.EnvDevelopment: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
	}
	waitListStyles = map[models.WaitListStatus]lipgloss.Style{
		models.WaitListApproved: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.WaitListPending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.WaitListRevoked:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// OutputMode determines output format
type OutputMode int

const (
	ModeShort OutputMode = iota
	ModeLong
	ModeJSON
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound     = "not_found"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeConflict     = "conflict"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNetworkError = "network_error"
	ErrCodeNoSession    = "no_session"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	fmt.Printf(`{"error":{"code":"%s","message":"%s"}}`, code, message)
	fmt.Println()
}

// FormatEnvironment formats an environment with color
func FormatEnvironment(e models.Environment) string {
	style, ok := envStyles[e]
	if !ok {
		return string(e)
	}
	return style.Render(fmt.Sprintf("[%s]", e))
}

// FormatEnabled formats a flag's enabled state
// e.g., "● on" or "○ off"
func FormatEnabled(enabled bool) string {
	if enabled {
		return enabledStyle.Render("● on")
	}
	return offStyle.Render("○ off")
}

// FormatRollout returns "N%" with a dim style when the flag is disabled
func FormatRollout(percent int, enabled bool) string {
	s := fmt.Sprintf("%d%%", percent)
	if !enabled {
		return offStyle.Render(s)
	}
	return s
}

// FormatWaitListStatus formats a waitlist status with color
func FormatWaitListStatus(s models.WaitListStatus) string {
	style, ok := waitListStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render(fmt.Sprintf("[%s]", s))
}

// FormatKeyStatus formats an API key status
func FormatKeyStatus(s models.KeyStatus) string {
	if s == models.KeyActive {
		return enabledStyle.Render("[active]")
	}
	return errorStyle.Render("[revoked]")
}

// FormatFlagShort formats a flag in short format
func FormatFlagShort(f *models.FeatureFlag) string {
	var parts []string
	parts = append(parts, titleStyle.Render(f.Name))
	parts = append(parts, FormatEnvironment(f.Environment))
	parts = append(parts, FormatEnabled(f.Enabled))
	parts = append(parts, FormatRollout(f.RolloutPercentage, f.Enabled))
	if f.Description != "" {
		parts = append(parts, subtleStyle.Render(f.Description))
	}
	return strings.Join(parts, "  ")
}

// FormatFlagLong formats a flag in long format
func FormatFlagLong(f *models.FeatureFlag) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(f.Name))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Environment: %s\n", FormatEnvironment(f.Environment)))
	sb.WriteString(fmt.Sprintf("State: %s | Rollout: %d%%\n", FormatEnabled(f.Enabled), f.RolloutPercentage))
	if f.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(subtleStyle.Render("Description:"))
		sb.WriteString("\n")
		sb.WriteString(f.Description)
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("\nCreated: %s", FormatTimeAgo(f.CreatedAt)))
	if !f.UpdatedAt.IsZero() && !f.UpdatedAt.Equal(f.CreatedAt) {
		sb.WriteString(fmt.Sprintf(" | Updated: %s", FormatTimeAgo(f.UpdatedAt)))
	}
	sb.WriteString("\n")

	return sb.String()
}

// FormatAuditLine formats an audit entry as a single line
func FormatAuditLine(l *models.AuditLog) string {
	var parts []string
	parts = append(parts, subtleStyle.Render(l.CreatedAt.Format("2006-01-02 15:04")))
	parts = append(parts, fmt.Sprintf("[%s]", l.Action))
	parts = append(parts, titleStyle.Render(l.FlagName))
	if l.Details != "" {
		parts = append(parts, l.Details)
	}
	parts = append(parts, subtleStyle.Render(l.PerformedBy))
	return strings.Join(parts, "  ")
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		return t.Format("2006-01-02")
	}
}

// MaskKey keeps the last 4 characters of a key visible
func MaskKey(partial string) string {
	if len(partial) <= 4 {
		return partial
	}
	return strings.Repeat("*", len(partial)-4) + partial[len(partial)-4:]
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nAUDIT LOG:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentLines indents each line by the specified number of spaces
func IndentLines(lines []string, spaces int) []string {
	indent := strings.Repeat(" ", spaces)
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = indent + line
	}
	return result
}
