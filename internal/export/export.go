// Package export renders flag and audit data as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"flagdeck/internal/models"
)

// FlagsFilename is the fixed download name for a flag export.
const FlagsFilename = "feature-flags.csv"

// AuditFilename returns the download name for an audit export, stamped
// with the export date.
func AuditFilename(now time.Time) string {
	return fmt.Sprintf("audit-logs-%s.csv", now.Format("2006-01-02"))
}

var flagHeader = []string{"Name", "Description", "Environment", "Enabled", "Rollout %", "Created At"}

var auditHeader = []string{"Created At", "Action", "Flag Name", "Flag ID", "Details", "Performed By"}

// WriteFlags writes the given flags as CSV. Rows follow the order of the
// slice, so callers export exactly the derived list the operator sees.
func WriteFlags(w io.Writer, flags []models.FeatureFlag) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(flagHeader); err != nil {
		return err
	}
	for _, f := range flags {
		row := []string{
			f.Name,
			f.Description,
			string(f.Environment),
			strconv.FormatBool(f.Enabled),
			strconv.Itoa(f.RolloutPercentage),
			f.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAuditLogs writes the given audit entries as CSV, preserving slice
// order.
func WriteAuditLogs(w io.Writer, logs []models.AuditLog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(auditHeader); err != nil {
		return err
	}
	for _, l := range logs {
		row := []string{
			l.CreatedAt.Format(time.RFC3339),
			string(l.Action),
			l.FlagName,
			l.FlagID,
			l.Details,
			l.PerformedBy,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
