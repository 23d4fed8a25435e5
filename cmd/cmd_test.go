package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"flagdeck/internal/apiclient"
	"flagdeck/internal/listview"
	"flagdeck/internal/models"
	"flagdeck/internal/output"
)

func TestNameWithAliases(t *testing.T) {
	plain := &cobra.Command{Use: "audit"}
	if got := nameWithAliases(plain); got != "audit" {
		t.Errorf("got %q", got)
	}

	aliased := &cobra.Command{Use: "flags", Aliases: []string{"flag"}}
	if got := nameWithAliases(aliased); got != "flags, flag" {
		t.Errorf("got %q", got)
	}
}

func TestFlagListParams(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("search", "", "")
	cmd.Flags().String("env", "prod", "")
	cmd.Flags().String("sort", listview.FlagSortRollout, "")
	cmd.Flags().Bool("desc", true, "")
	cmd.Flags().Int("page", 3, "")
	cmd.Flags().Int("limit", 25, "")

	params, err := flagListParams(cmd)
	if err != nil {
		t.Fatalf("flagListParams: %v", err)
	}
	// Shorthand environments normalize to their canonical names.
	if params.Filters[listview.FlagFilterEnvironment] != string(models.EnvProduction) {
		t.Errorf("env = %q", params.Filters[listview.FlagFilterEnvironment])
	}
	if params.SortField != listview.FlagSortRollout || params.SortAsc {
		t.Errorf("sort = %q asc=%v", params.SortField, params.SortAsc)
	}
	if params.Page != 3 || params.PageSize != 25 {
		t.Errorf("page=%d size=%d", params.Page, params.PageSize)
	}
}

func TestFlagListParamsRejectsBadEnvironment(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("search", "", "")
	cmd.Flags().String("env", "sandbox", "")
	cmd.Flags().String("sort", "name", "")
	cmd.Flags().Bool("desc", false, "")
	cmd.Flags().Int("page", 1, "")
	cmd.Flags().Int("limit", 0, "")

	if _, err := flagListParams(cmd); err == nil {
		t.Error("unknown environment should be rejected")
	}
}

func TestAuditQueryRejectsBadAction(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("action", "rename", "")
	cmd.Flags().String("search", "", "")
	cmd.Flags().String("sort", "created", "")
	cmd.Flags().Bool("asc", false, "")
	cmd.Flags().Int("page", 1, "")
	cmd.Flags().Int("limit", 20, "")

	if _, err := auditQuery(cmd); err == nil {
		t.Error("unknown action should be rejected")
	}
}

func TestErrCodeClassification(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errNoSession, output.ErrCodeNoSession},
		{fmt.Errorf("%w: environment %q", errInvalidInput, "sandbox"), output.ErrCodeInvalidInput},
		{fmt.Errorf("list flags: %w", &apiclient.APIError{Status: http.StatusUnauthorized}), output.ErrCodeUnauthorized},
		{&apiclient.APIError{Status: http.StatusForbidden}, output.ErrCodeForbidden},
		{&apiclient.APIError{Status: http.StatusNotFound}, output.ErrCodeNotFound},
		{fmt.Errorf("create flag: %w", &apiclient.APIError{Status: http.StatusConflict}), output.ErrCodeConflict},
		{errors.New("dial tcp: connection refused"), output.ErrCodeNetworkError},
	}
	for _, tt := range tests {
		if got := errCode(tt.err); got != tt.want {
			t.Errorf("errCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestAuditExportDerivesLocally(t *testing.T) {
	logs := []models.AuditLog{
		{ID: "1", Action: models.AuditCreate, FlagName: "alpha", PerformedBy: "ops@example.com",
			CreatedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)},
		{ID: "2", Action: models.AuditUpdate, FlagName: "beta", PerformedBy: "ops@example.com",
			CreatedAt: time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC)},
		{ID: "3", Action: models.AuditCreate, FlagName: "gamma", PerformedBy: "dev@example.com",
			CreatedAt: time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC)},
	}

	// Two raw pages: filtering and ordering must happen client-side, not
	// be delegated to the server query.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := apiclient.AuditPage{Total: len(logs), TotalPages: 2}
		if r.URL.Query().Get("page") == "2" {
			resp.Page = 2
			resp.Logs = logs[2:]
		} else {
			resp.Page = 1
			resp.Logs = logs[:2]
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	t.Setenv("FLAGDECK_API_URL", srv.URL)
	t.Setenv("FLAGDECK_TOKEN", "tok")
	baseDir = t.TempDir()

	if err := auditExportCmd.Flags().Set("action", "create"); err != nil {
		t.Fatal(err)
	}
	defer auditExportCmd.Flags().Set("action", listview.FilterAll)

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := auditExportCmd.RunE(auditExportCmd, []string{path}); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	if !strings.Contains(body, "alpha") || !strings.Contains(body, "gamma") {
		t.Errorf("create entries missing:\n%s", body)
	}
	if strings.Contains(body, "beta") {
		t.Errorf("update entry should be filtered out:\n%s", body)
	}
	if strings.Index(body, "gamma") > strings.Index(body, "alpha") {
		t.Errorf("rows not newest-first:\n%s", body)
	}
}

func TestInvitePersistsOnlyValidTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		valid := body["token"] == "good123"
		json.NewEncoder(w).Encode(apiclient.InviteVerification{Valid: valid, Email: "dana@example.com"})
	}))
	defer srv.Close()

	t.Setenv("FLAGDECK_API_URL", srv.URL)
	baseDir = t.TempDir()

	// Invalid token: error, and nothing persisted.
	if err := inviteCmd.RunE(inviteCmd, []string{"bad999"}); err == nil {
		t.Fatal("invalid token should error")
	}
	ok, err := stateFile().BetaApproved()
	if err != nil || ok {
		t.Fatalf("invalid token must not persist: approved=%v err=%v", ok, err)
	}

	// Valid token persists and unlocks beta.
	if err := inviteCmd.RunE(inviteCmd, []string{"good123"}); err != nil {
		t.Fatalf("valid token: %v", err)
	}
	ok, _ = stateFile().BetaApproved()
	if !ok {
		t.Error("valid token should unlock beta")
	}
	st, _ := stateFile().Load()
	if st.InviteToken != "good123" {
		t.Errorf("persisted token = %q", st.InviteToken)
	}
}

func TestClientTokenPrecedence(t *testing.T) {
	baseDir = t.TempDir()
	if err := stateFile().SetSession(models.Session{Token: "session-token"}); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FLAGDECK_TOKEN", "env-token")
	c, err := client()
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if c.Token != "env-token" {
		t.Errorf("token = %q, env must win", c.Token)
	}

	t.Setenv("FLAGDECK_TOKEN", "")
	c, err = client()
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if c.Token != "session-token" {
		t.Errorf("token = %q, want stored session", c.Token)
	}
}
