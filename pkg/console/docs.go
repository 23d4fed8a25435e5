package console

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// IntegrationDocs is the quick-start documentation shown from the console
// and by the docs command. It mirrors what the hosted docs page covers:
// installing an SDK, wiring the API key, and evaluating a flag.
const IntegrationDocs = `# flagdeck quick start

## 1. Install an SDK

` + "```bash" + `
go get github.com/flagdeck/flagdeck-go
` + "```" + `

## 2. Configure your API key

Generate a key from the **API Keys** panel (press ` + "`g`" + `). The full key
is shown once; store it in your environment:

` + "```bash" + `
export FLAGDECK_API_KEY=fd_live_...
` + "```" + `

## 3. Evaluate a flag

` + "```go" + `
client := flagdeck.New(os.Getenv("FLAGDECK_API_KEY"))

if client.Enabled(ctx, "checkout-v2", flagdeck.User(userID)) {
    // new behavior
}
` + "```" + `

Rollout percentages bucket users deterministically: the same user keeps the
same answer until you change the percentage.

## Environments

Flags are scoped per environment (Production, Staging, Development). The
SDK picks the environment from the key you configure.

## Audit log

Every create, update and delete lands in the audit log with the acting
user. Export it as CSV from the **Audit** panel (press ` + "`e`" + `).
`

// renderDocs renders the documentation markdown for the current width.
func (m Model) renderDocs() tea.Cmd {
	width := m.Width - 8
	if width > 100 {
		width = 100
	}
	if width < 20 {
		width = 20
	}
	return func() tea.Msg {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return DocsRenderedMsg{Err: err}
		}
		out, err := r.Render(IntegrationDocs)
		if err != nil {
			return DocsRenderedMsg{Err: err}
		}
		return DocsRenderedMsg{Content: out}
	}
}
