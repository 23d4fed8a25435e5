package console

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"flagdeck/internal/apiclient"
	"flagdeck/internal/models"
)

var (
	errNameRequired  = errors.New("name is required")
	errRolloutNumber = errors.New("rollout must be a number between 0 and 100")
)

// FormState holds the state for the create-flag form modal
type FormState struct {
	Form *huh.Form

	// Bound form values
	Name        string
	Description string
	Environment string
	Enabled     bool
	Rollout     string // String for input validation; parsed on submit
}

// NewFormState creates a new form state for creating a flag
func NewFormState() *FormState {
	state := &FormState{
		Environment: string(models.EnvDevelopment),
		Rollout:     "100",
	}
	state.buildForm()
	return state
}

// buildForm constructs the huh.Form based on current state
func (fs *FormState) buildForm() {
	envOptions := []huh.Option[string]{
		huh.NewOption("Development", string(models.EnvDevelopment)),
		huh.NewOption("Staging", string(models.EnvStaging)),
		huh.NewOption("Production", string(models.EnvProduction)),
	}

	group := huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Value(&fs.Name).
			Placeholder("checkout-v2").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errNameRequired
				}
				return nil
			}),
		huh.NewText().
			Title("Description").
			Value(&fs.Description).
			Placeholder("Optional description...").
			Lines(3),
		huh.NewSelect[string]().
			Title("Environment").
			Options(envOptions...).
			Value(&fs.Environment),
		huh.NewConfirm().
			Title("Enabled").
			Value(&fs.Enabled),
		huh.NewInput().
			Title("Rollout %").
			Value(&fs.Rollout).
			Placeholder("0-100").
			Validate(validateRollout),
	).Title("New Flag")

	fs.Form = huh.NewForm(group)
	fs.Form.WithTheme(huh.ThemeDracula())
}

func validateRollout(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 100 {
		return errRolloutNumber
	}
	return nil
}

// ToRequest converts form values to a create request. Rollout falls back to
// 100 if the field somehow bypassed validation.
func (fs *FormState) ToRequest() apiclient.CreateFlagRequest {
	rollout, err := strconv.Atoi(strings.TrimSpace(fs.Rollout))
	if err != nil {
		rollout = 100
	}
	return apiclient.CreateFlagRequest{
		Name:              strings.TrimSpace(fs.Name),
		Description:       strings.TrimSpace(fs.Description),
		Environment:       models.Environment(fs.Environment),
		Enabled:           fs.Enabled,
		RolloutPercentage: models.ClampRollout(rollout),
	}
}
