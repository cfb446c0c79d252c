package tui

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/text/language/display"

	"github.com/theirongolddev/budgetsync/internal/config"
	"github.com/theirongolddev/budgetsync/internal/i18n"
	"github.com/theirongolddev/budgetsync/internal/tui/theme"
)

// setupValues holds what the setup wizard collects.
type setupValues struct {
	APIURL   string
	UserID   string
	Language string
	Theme    string
}

func newSetupValues(cfg config.Config) *setupValues {
	v := &setupValues{
		APIURL:   cfg.API.BaseURL,
		Language: cfg.General.Language,
		Theme:    cfg.Appearance.Theme,
	}
	if cfg.User.ID > 0 {
		v.UserID = strconv.FormatInt(cfg.User.ID, 10)
	}
	if !theme.Known(v.Theme) {
		v.Theme = theme.FlexokiDark.Name
	}
	return v
}

// apply copies the collected values onto cfg.
func (v setupValues) apply(cfg *config.Config) error {
	id, err := parseUserID(v.UserID)
	if err != nil {
		return err
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(v.APIURL), "/")
	cfg.User.ID = id
	cfg.General.Language = v.Language
	cfg.Appearance.Theme = v.Theme
	return nil
}

func newSetupForm(v *setupValues) *huh.Form {
	langs := make([]huh.Option[string], 0, len(i18n.Supported))
	for _, tag := range i18n.Supported {
		langs = append(langs, huh.NewOption(display.Self.Name(tag), tag.String()))
	}

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budgetsync").
				Description("Point the dashboard at your budget service and pick a user."),
			huh.NewInput().
				Title("Service URL").
				Placeholder("http://localhost:8080").
				Value(&v.APIURL).
				Validate(validateServiceURL),
			huh.NewInput().
				Title("User ID").
				Description("The numeric id your budgets are stored under.").
				Value(&v.UserID).
				Validate(func(s string) error {
					_, err := parseUserID(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language").
				Options(langs...).
				Value(&v.Language),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	).WithShowHelp(true)
}

// RunSetup runs the setup wizard on the terminal and saves the result.
func RunSetup(cfg config.Config) (config.Config, error) {
	vals := newSetupValues(cfg)
	if err := newSetupForm(vals).Run(); err != nil {
		return cfg, fmt.Errorf("setup: %w", err)
	}
	if err := vals.apply(&cfg); err != nil {
		return cfg, fmt.Errorf("setup: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := config.Save(cfg); err != nil {
		return cfg, fmt.Errorf("setup: saving config: %w", err)
	}
	return cfg, nil
}

func validateServiceURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" {
		return errors.New("enter a full URL such as http://localhost:8080")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("the URL must start with http:// or https://")
	}
	return nil
}

func parseUserID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("a user id is required")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid user id", s)
	}
	return id, nil
}
