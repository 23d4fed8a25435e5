package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"flagdeck/internal/apiclient"
	"flagdeck/internal/output"
	"flagdeck/internal/statefile"
)

const defaultAPIURL = "https://api.flagdeck.io/v1"

var (
	// errNoSession is returned by requireClient when no token is available.
	errNoSession = errors.New("not logged in: run 'flagdeck login <token>' or set FLAGDECK_TOKEN")

	// errInvalidInput marks client-side validation failures so fail can
	// classify them without string matching.
	errInvalidInput = errors.New("invalid input")
)

var (
	version    string
	baseDir    string
	apiURLFlag string
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "flagdeck",
	Short: "Admin console for a flagdeck feature-flag backend",
	Long: `flagdeck - terminal admin console for a flagdeck feature-flag backend.

Manage flags, review the audit trail, rotate API keys and work the beta
waitlist, from scripts or from the interactive console (flagdeck console).`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// nameWithAliases returns "name, alias1, alias2" if aliases exist, else just "name"
func nameWithAliases(cmd *cobra.Command) string {
	if len(cmd.Aliases) > 0 {
		return cmd.Name() + ", " + strings.Join(cmd.Aliases, ", ")
	}
	return cmd.Name()
}

func init() {
	cobra.OnInitialize(initBaseDir)

	// Add custom template function for showing aliases
	cobra.AddTemplateFunc("nameWithAliases", nameWithAliases)
	cobra.AddTemplateFunc("add", func(a, b int) int { return a + b })

	// Custom usage template that shows aliases inline
	usageTemplate := `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

Available Commands:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad (nameWithAliases .) (add .NamePadding 8)}} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad (nameWithAliases .) (add .NamePadding 8)}} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

Additional Commands:{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad (nameWithAliases .) (add .NamePadding 8)}} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
	rootCmd.SetUsageTemplate(usageTemplate)

	// Define command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: "flags", Title: "Flag Commands:"},
		&cobra.Group{ID: "account", Title: "Account Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)

	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")

	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Backend base URL (overrides FLAGDECK_API_URL)")
}

func initBaseDir() {
	if baseDir != "" {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine home directory: %v\n", err)
		os.Exit(1)
	}
	baseDir = home
}

// getBaseDir returns the base directory for local state
func getBaseDir() string {
	return baseDir
}

// stateFile returns the local state document
func stateFile() *statefile.File {
	return statefile.New(getBaseDir())
}

// apiURL returns the backend base URL. Precedence: --api-url flag,
// FLAGDECK_API_URL env, built-in default.
func apiURL() string {
	if apiURLFlag != "" {
		return strings.TrimRight(apiURLFlag, "/")
	}
	if u := os.Getenv("FLAGDECK_API_URL"); u != "" {
		return strings.TrimRight(u, "/")
	}
	return defaultAPIURL
}

// client builds an API client from the stored session. Token precedence:
// FLAGDECK_TOKEN env, then the saved login session.
func client() (*apiclient.Client, error) {
	token := os.Getenv("FLAGDECK_TOKEN")
	if token == "" {
		s, err := stateFile().GetSession()
		if err != nil {
			return nil, fmt.Errorf("read session: %w", err)
		}
		token = s.Token
	}
	return apiclient.New(apiURL(), token), nil
}

// requireClient is client() plus a login check for authenticated commands.
func requireClient() (*apiclient.Client, error) {
	c, err := client()
	if err != nil {
		return nil, err
	}
	if c.Token == "" {
		return nil, errNoSession
	}
	return c, nil
}

// fail reports a command failure. When the command was asked for --json the
// error goes out as a structured object with a stable code, otherwise as
// the styled error line. Returns err so Execute exits non-zero.
func fail(cmd *cobra.Command, err error) error {
	if jsonOut, flagErr := cmd.Flags().GetBool("json"); flagErr == nil && jsonOut {
		output.JSONError(errCode(err), err.Error())
	} else {
		output.Error("%v", err)
	}
	return err
}

// errCode maps an error to its structured output code.
func errCode(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, errNoSession):
		return output.ErrCodeNoSession
	case errors.Is(err, errInvalidInput):
		return output.ErrCodeInvalidInput
	case errors.Is(err, apiclient.ErrUnauthorized):
		return output.ErrCodeUnauthorized
	case errors.Is(err, apiclient.ErrForbidden):
		return output.ErrCodeForbidden
	case errors.Is(err, apiclient.ErrNotFound):
		return output.ErrCodeNotFound
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict:
		return output.ErrCodeConflict
	default:
		return output.ErrCodeNetworkError
	}
}
