package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"flagdeck/internal/apiclient"
	"flagdeck/internal/dateparse"
	"flagdeck/internal/export"
	"flagdeck/internal/listview"
	"flagdeck/internal/models"
	"flagdeck/internal/output"
)

var auditCmd = &cobra.Command{
	Use:     "audit",
	Aliases: []string{"log"},
	Short:   "View the flag change audit trail",
	GroupID: "flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			return fail(cmd, err)
		}

		q, err := auditQuery(cmd)
		if err != nil {
			return fail(cmd, err)
		}

		page, err := c.ListAuditLogs(context.Background(), q)
		if err != nil {
			return fail(cmd, fmt.Errorf("list audit logs: %w", err))
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(page)
		}

		for i := range page.Logs {
			fmt.Println(output.FormatAuditLine(&page.Logs[i]))
		}
		if page.TotalPages > 1 {
			output.Info("page %d/%d (%d entries)", page.Page, page.TotalPages, page.Total)
		}
		return nil
	},
}

func auditQuery(cmd *cobra.Command) (apiclient.AuditQuery, error) {
	action, _ := cmd.Flags().GetString("action")
	search, _ := cmd.Flags().GetString("search")
	sortField, _ := cmd.Flags().GetString("sort")
	asc, _ := cmd.Flags().GetBool("asc")
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")

	if action != listview.FilterAll && !models.IsValidAuditAction(models.AuditAction(action)) {
		return apiclient.AuditQuery{}, fmt.Errorf("%w: action %q (create/update/delete/all)", errInvalidInput, action)
	}

	order := "desc"
	if asc {
		order = "asc"
	}
	return apiclient.AuditQuery{
		SortField:  sortField,
		SortOrder:  order,
		Page:       page,
		Limit:      limit,
		Action:     action,
		SearchTerm: search,
	}, nil
}

var auditExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export the audit trail as CSV",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		action, _ := cmd.Flags().GetString("action")
		if action != listview.FilterAll && !models.IsValidAuditAction(models.AuditAction(action)) {
			err := fmt.Errorf("invalid action %q (create/update/delete/all)", action)
			output.Error("%v", err)
			return err
		}
		search, _ := cmd.Flags().GetString("search")
		sortField, _ := cmd.Flags().GetString("sort")
		asc, _ := cmd.Flags().GetBool("asc")

		var since time.Time
		if s, _ := cmd.Flags().GetString("since"); s != "" {
			since, err = dateparse.ParseSince(s)
			if err != nil {
				output.Error("%v", err)
				return err
			}
		}

		// Page through everything unfiltered; matching, ordering and the
		// date cutoff are applied locally so the export is derived the same
		// way the console panel is.
		q := apiclient.AuditQuery{
			SortField: listview.AuditSortCreatedAt,
			SortOrder: "desc",
			Limit:     100,
		}
		var all []models.AuditLog
		for q.Page = 1; ; q.Page++ {
			page, err := c.ListAuditLogs(context.Background(), q)
			if err != nil {
				output.Error("list audit logs: %v", err)
				return err
			}
			all = append(all, page.Logs...)
			if q.Page >= page.TotalPages || len(page.Logs) == 0 {
				break
			}
		}

		params := listview.DefaultAuditParams(0)
		params.Query = search
		params.Filters[listview.AuditFilterAction] = action
		params.SortField = sortField
		params.SortAsc = asc
		derived := listview.ApplyAuditLogs(all, params)

		logs := derived.Items
		if !since.IsZero() {
			kept := make([]models.AuditLog, 0, len(logs))
			for _, l := range logs {
				if !l.CreatedAt.Before(since) {
					kept = append(kept, l)
				}
			}
			logs = kept
		}

		path := export.AuditFilename(time.Now())
		if len(args) == 1 {
			path = args[0]
		}
		if path == "-" {
			return export.WriteAuditLogs(os.Stdout, logs)
		}

		f, err := os.Create(path)
		if err != nil {
			output.Error("create %s: %v", path, err)
			return err
		}
		defer f.Close()
		if err := export.WriteAuditLogs(f, logs); err != nil {
			output.Error("write csv: %v", err)
			return err
		}
		output.Success("Exported %d entries to %s", len(logs), path)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{auditCmd, auditExportCmd} {
		c.Flags().String("action", listview.FilterAll, "Action filter (create/update/delete/all)")
		c.Flags().String("search", "", "Free-text search")
		c.Flags().String("sort", listview.AuditSortCreatedAt, "Sort field")
		c.Flags().Bool("asc", false, "Sort ascending (default newest first)")
	}
	auditCmd.Flags().Int("page", 1, "Page number")
	auditCmd.Flags().Int("limit", 20, "Page size")
	auditCmd.Flags().Bool("json", false, "Output JSON")
	auditExportCmd.Flags().String("since", "", "Only include entries on or after a date (2026-03-01, 7d, yesterday)")

	auditCmd.AddCommand(auditExportCmd)
	rootCmd.AddCommand(auditCmd)
}
