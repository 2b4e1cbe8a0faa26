package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/tabnav/internal/app"
	"github.com/atomicstack/tabnav/internal/markup"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Layout  string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// Layout is the YAML layout file.
type Layout struct {
	Tabs       []app.TabSpec    `yaml:"tabs"`
	Selected   string           `yaml:"selected"`
	Transition string           `yaml:"transition"`
	Selectors  markup.Selectors `yaml:"selectors"`
	Viewport   Viewport         `yaml:"viewport"`
}

type Viewport struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Footer bool `yaml:"footer"`
}

const (
	envLayout     = "TABNAV_LAYOUT"
	envTabs       = "TABNAV_TABS"
	envSelected   = "TABNAV_SELECTED"
	envBaseURL    = "TABNAV_BASE_URL"
	envTimeout    = "TABNAV_TIMEOUT"
	envInsecure   = "TABNAV_INSECURE"
	envWidth      = "TABNAV_WIDTH"
	envHeight     = "TABNAV_HEIGHT"
	envShowFooter = "TABNAV_FOOTER"
	envTrace      = "TABNAV_TRACE"
	envLogFile    = "TABNAV_LOG_FILE"
	envTransition = "TABNAV_TRANSITION"
	envPacing     = "TABNAV_MIN_INTERVAL"
)

const defaultTransition = 150 * time.Millisecond

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Flags win over
// the environment, which wins over the layout file.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := pflag.NewFlagSet("tabnav", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	layoutPath := fs.String("layout", envOrDefault(env, envLayout, ""), "path to a YAML layout file")
	tabs := fs.StringArray("tab", envOrList(env, envTabs), "tab as id=locator (repeatable, replaces layout tabs)")
	selected := fs.String("selected", envOrDefault(env, envSelected, ""), "id of the initially selected tab")
	baseURL := fs.String("base-url", envOrDefault(env, envBaseURL, ""), "base URL for relative locators")
	timeout := fs.Duration("timeout", envOrDuration(env, envTimeout, 0), "per-request timeout (0 uses the client default)")
	pacing := fs.Duration("min-interval", envOrDuration(env, envPacing, 0), "minimum spacing between requests")
	insecure := fs.Bool("insecure", envOrBool(env, envInsecure, false), "skip TLS certificate verification")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	transition := fs.Duration("transition", envOrDuration(env, envTransition, defaultTransition), "advisory show/hide transition duration")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var layout Layout
	if strings.TrimSpace(*layoutPath) != "" {
		loaded, err := LoadLayout(*layoutPath)
		if err != nil {
			return Config{}, err
		}
		layout = loaded
	}
	// explicit reports whether a flag or its environment variable was set, in
	// which case the layout file value is ignored.
	explicit := func(name, key string) bool {
		if fs.Changed(name) {
			return true
		}
		_, ok := env[key]
		return ok
	}

	specs := layout.Tabs
	if explicit("tab", envTabs) {
		parsed, err := parseTabs(*tabs)
		if err != nil {
			return Config{}, err
		}
		specs = parsed
	}
	if !explicit("selected", envSelected) && layout.Selected != "" {
		*selected = layout.Selected
	}
	if !explicit("transition", envTransition) && layout.Transition != "" {
		d, err := time.ParseDuration(layout.Transition)
		if err != nil {
			return Config{}, fmt.Errorf("layout transition: %w", err)
		}
		*transition = d
	}
	if !explicit("width", envWidth) && layout.Viewport.Width != 0 {
		*width = layout.Viewport.Width
	}
	if !explicit("height", envHeight) && layout.Viewport.Height != 0 {
		*height = layout.Viewport.Height
	}
	if !explicit("footer", envShowFooter) && layout.Viewport.Footer {
		*footer = true
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *timeout < 0 {
		return Config{}, fmt.Errorf("timeout must be >= 0 (got %s)", *timeout)
	}
	if *pacing < 0 {
		return Config{}, fmt.Errorf("min-interval must be >= 0 (got %s)", *pacing)
	}
	if *transition < 0 {
		return Config{}, fmt.Errorf("transition must be >= 0 (got %s)", *transition)
	}

	cfg := Config{
		App: app.Config{
			Tabs:        specs,
			Selected:    *selected,
			BaseURL:     *baseURL,
			Timeout:     *timeout,
			MinInterval: *pacing,
			Insecure:    *insecure,
			Width:       *width,
			Height:      *height,
			ShowFooter:  *footer,
			Transition:  *transition,
			Selectors:   layout.Selectors.WithDefaults(),
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Layout: *layoutPath,
		Flags: map[string]string{
			"layout":      *layoutPath,
			"tabs":        strconv.Itoa(len(specs)),
			"selected":    *selected,
			"baseURL":     *baseURL,
			"timeout":     timeout.String(),
			"minInterval": pacing.String(),
			"insecure":    strconv.FormatBool(*insecure),
			"width":       strconv.Itoa(*width),
			"height":      strconv.Itoa(*height),
			"footer":      strconv.FormatBool(*footer),
			"trace":       strconv.FormatBool(*trace),
			"logFile":     *logFile,
			"transition":  transition.String(),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// LoadLayout reads and decodes a YAML layout file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("parse layout %s: %w", path, err)
	}
	return layout, nil
}

func parseTabs(values []string) ([]app.TabSpec, error) {
	specs := make([]app.TabSpec, 0, len(values))
	for _, value := range values {
		id, locator, ok := strings.Cut(value, "=")
		id = strings.TrimSpace(id)
		locator = strings.TrimSpace(locator)
		if !ok || id == "" || locator == "" {
			return nil, fmt.Errorf("tab %q must be id=locator", value)
		}
		specs = append(specs, app.TabSpec{ID: id, Title: id, Locator: locator})
	}
	return specs, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// envOrList splits a comma separated variable.
func envOrList(env map[string]string, key string) []string {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if len(cfg.App.Tabs) == 0 {
		return errors.New("no tabs configured (use --tab id=locator or a layout file)")
	}
	seen := make(map[string]struct{}, len(cfg.App.Tabs))
	for i, tab := range cfg.App.Tabs {
		if strings.TrimSpace(tab.ID) == "" {
			return fmt.Errorf("tab %d has an empty id", i)
		}
		if strings.TrimSpace(tab.Locator) == "" {
			return fmt.Errorf("tab %q has an empty locator", tab.ID)
		}
		if _, dup := seen[tab.ID]; dup {
			return fmt.Errorf("duplicate tab id %q", tab.ID)
		}
		seen[tab.ID] = struct{}{}
	}
	if cfg.App.Selected != "" {
		if _, ok := seen[cfg.App.Selected]; !ok {
			return fmt.Errorf("selected tab %q is not configured", cfg.App.Selected)
		}
	}
	return nil
}
