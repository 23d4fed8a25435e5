package export

import (
	"strings"
	"testing"
	"time"

	"flagdeck/internal/models"
)

func TestWriteFlagsHeaderAndRows(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	flags := []models.FeatureFlag{
		{
			Name:              "checkout-v2",
			Description:       "New checkout flow",
			Environment:       models.EnvProduction,
			Enabled:           true,
			RolloutPercentage: 25,
			CreatedAt:         created,
		},
	}

	var b strings.Builder
	if err := WriteFlags(&b, flags); err != nil {
		t.Fatalf("WriteFlags: %v", err)
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), b.String())
	}
	if lines[0] != "Name,Description,Environment,Enabled,Rollout %,Created At" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "checkout-v2,New checkout flow,Production,true,25,2026-03-14T09:30:00Z" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWriteFlagsQuotesDescriptions(t *testing.T) {
	flags := []models.FeatureFlag{
		{Name: "a", Description: `has "quotes", and commas`, Environment: models.EnvStaging},
	}

	var b strings.Builder
	if err := WriteFlags(&b, flags); err != nil {
		t.Fatalf("WriteFlags: %v", err)
	}
	if !strings.Contains(b.String(), `"has ""quotes"", and commas"`) {
		t.Errorf("description not CSV-quoted:\n%s", b.String())
	}
}

func TestWriteFlagsEmptyListYieldsHeaderOnly(t *testing.T) {
	var b strings.Builder
	if err := WriteFlags(&b, nil); err != nil {
		t.Fatalf("WriteFlags: %v", err)
	}
	if strings.Count(b.String(), "\n") != 1 {
		t.Errorf("empty export should be header only:\n%q", b.String())
	}
}

func TestWriteAuditLogs(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	logs := []models.AuditLog{
		{
			ID:          "log-1",
			Action:      models.AuditUpdate,
			FlagID:      "flag-1",
			FlagName:    "checkout-v2",
			PerformedBy: "ops@example.com",
			Details:     "rollout 10 -> 25",
			CreatedAt:   created,
		},
	}

	var b strings.Builder
	if err := WriteAuditLogs(&b, logs); err != nil {
		t.Fatalf("WriteAuditLogs: %v", err)
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if lines[0] != "Created At,Action,Flag Name,Flag ID,Details,Performed By" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2026-03-14T09:30:00Z,update,checkout-v2,flag-1,rollout 10 -> 25,ops@example.com" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestFilenames(t *testing.T) {
	if FlagsFilename != "feature-flags.csv" {
		t.Errorf("FlagsFilename = %q", FlagsFilename)
	}
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	if got := AuditFilename(now); got != "audit-logs-2026-08-28.csv" {
		t.Errorf("AuditFilename = %q", got)
	}
}
