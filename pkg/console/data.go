package console

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"flagdeck/internal/apiclient"
	"flagdeck/internal/export"
	"flagdeck/internal/listview"
	"flagdeck/internal/models"
)

const fetchTimeout = 10 * time.Second

// refreshActive reloads the data behind the active panel. Other panels keep
// their cached copy until visited.
func (m Model) refreshActive() tea.Cmd {
	switch m.ActivePanel {
	case PanelAudit:
		return m.loadAudit()
	case PanelKeys:
		return m.loadKeys()
	case PanelWaitList:
		return m.loadWaitList()
	default:
		return m.loadFlags()
	}
}

func (m Model) loadFlags() tea.Cmd {
	parent := m.fetchContext()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		flags, err := m.API.ListFlags(ctx)
		return FlagsMsg{Flags: flags, Err: err}
	}
}

// loadAudit fetches the audit page server-side: the backend applies
// sort/filter/pagination and returns totals.
func (m Model) loadAudit() tea.Cmd {
	parent := m.fetchContext()
	q := apiclient.AuditQuery{
		SortField: m.AuditSort.Field,
		SortOrder: "desc",
		Page:      m.AuditPage,
		Limit:     listview.DefaultPageSize,
		Action:    m.AuditAction,
	}
	if m.AuditSort.Asc {
		q.SortOrder = "asc"
	}
	if m.ActivePanel == PanelAudit {
		q.SearchTerm = m.FlagParams.Query
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		page, err := m.API.ListAuditLogs(ctx, q)
		return AuditMsg{Page: page, Err: err}
	}
}

func (m Model) loadKeys() tea.Cmd {
	parent := m.fetchContext()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		keys, err := m.API.GetAPIKeys(ctx)
		return KeysMsg{Keys: keys, Err: err}
	}
}

func (m Model) loadWaitList() tea.Cmd {
	parent := m.fetchContext()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, fetchTimeout)
		defer cancel()
		signups, err := m.API.ListWaitList(ctx)
		return WaitListMsg{Signups: signups, Err: err}
	}
}

func (m Model) createFlag(req apiclient.CreateFlagRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		flag, err := m.API.CreateFlag(ctx, req)
		return FlagSavedMsg{Flag: flag, Err: err}
	}
}

func (m Model) toggleFlag(flag models.FeatureFlag) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		saved, err := m.API.ToggleFlag(ctx, flag.ID, !flag.Enabled)
		return FlagSavedMsg{Flag: saved, Err: err}
	}
}

func (m Model) deleteFlag(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		err := m.API.DeleteFlag(ctx, id)
		return FlagDeletedMsg{ID: id, Err: err}
	}
}

func (m Model) generateKey() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		key, err := m.API.GenerateAPIKey(ctx)
		return KeyGeneratedMsg{Key: key, Err: err}
	}
}

func (m Model) revokeKey() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		err := m.API.RevokeAPIKey(ctx)
		return KeyRevokedMsg{Err: err}
	}
}

func (m Model) updateWaitListStatus(id string, status models.WaitListStatus) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		err := m.API.UpdateWaitListStatus(ctx, id, status)
		return WaitListUpdatedMsg{ID: id, Status: status, Err: err}
	}
}

// exportFlags writes the full derived list (all pages) as CSV, honoring the
// current query, filter and sort.
func (m Model) exportFlags() tea.Cmd {
	params := m.FlagParams
	params.Page = 1
	params.PageSize = 0 // all rows
	flags := m.Flags
	dir := m.ExportDir
	return func() tea.Msg {
		derived := listview.ApplyFlags(flags, params)
		name := filepath.Join(dir, export.FlagsFilename)
		f, err := os.Create(name)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		defer f.Close()
		if err := export.WriteFlags(f, derived.Items); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Filename: name}
	}
}

// exportAudit fetches every audit page under the current filter and writes
// the combined result as CSV.
func (m Model) exportAudit() tea.Cmd {
	api := m.API
	sortField := m.AuditSort.Field
	asc := m.AuditSort.Asc
	action := m.AuditAction
	dir := m.ExportDir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		order := "desc"
		if asc {
			order = "asc"
		}

		var all []models.AuditLog
		for page := 1; ; page++ {
			resp, err := api.ListAuditLogs(ctx, apiclient.AuditQuery{
				SortField: sortField,
				SortOrder: order,
				Page:      page,
				Limit:     100,
				Action:    action,
			})
			if err != nil {
				return ExportDoneMsg{Err: err}
			}
			all = append(all, resp.Logs...)
			if page >= resp.TotalPages || len(resp.Logs) == 0 {
				break
			}
		}

		name := filepath.Join(dir, export.AuditFilename(time.Now()))
		f, err := os.Create(name)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		defer f.Close()
		if err := export.WriteAuditLogs(f, all); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Filename: name}
	}
}
