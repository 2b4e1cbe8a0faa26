package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/tabnav/internal/fetch"
	"github.com/atomicstack/tabnav/internal/logging/events"
	"github.com/atomicstack/tabnav/internal/markup"
	"github.com/atomicstack/tabnav/internal/nav"
	"github.com/atomicstack/tabnav/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// TabSpec names one tab and the locator of its root screen.
type TabSpec struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Locator string `yaml:"locator"`
}

// Config describes user-provided application options.
type Config struct {
	Tabs        []TabSpec
	Selected    string
	BaseURL     string
	Timeout     time.Duration
	MinInterval time.Duration
	Insecure    bool
	Width       int
	Height      int
	ShowFooter  bool
	Transition  time.Duration
	Selectors   markup.Selectors
}

// Build wires the fetch client, tabs and UI model without starting a
// program. Cancelling ctx aborts in-flight requests.
func Build(ctx context.Context, cfg Config, blink bool) (*ui.Model, error) {
	if len(cfg.Tabs) == 0 {
		return nil, nav.ErrNoTabs
	}
	client, err := fetch.New(fetch.Options{
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		Insecure:    cfg.Insecure,
		MinInterval: cfg.MinInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("build fetch client: %w", err)
	}
	tabs := make([]*nav.Tab, 0, len(cfg.Tabs))
	for _, spec := range cfg.Tabs {
		tabs = append(tabs, nav.NewTab(spec.ID, spec.Locator, client,
			nav.WithTitle(spec.Title),
			nav.WithSelectors(cfg.Selectors),
			nav.WithContext(ctx),
		))
	}
	model, err := ui.New(tabs, cfg.Selected, ui.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Transition: cfg.Transition,
		Blink:      blink,
	})
	if err != nil {
		return nil, fmt.Errorf("build ui: %w", err)
	}
	return model, nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) (err error) {
	defer func() { events.App.Stop(err) }()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	model, err := Build(ctx, cfg, true)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
