package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/atomicstack/tabnav/internal/app"
	"github.com/atomicstack/tabnav/internal/config"
	"github.com/atomicstack/tabnav/internal/logging"
	"github.com/atomicstack/tabnav/internal/logging/events"
	"github.com/atomicstack/tabnav/internal/nav"
	"golang.org/x/term"
)

const (
	exitRuntime = 1
	exitLayout  = 2
)

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "tabnav: invalid layout: %v\n", err)
		os.Exit(exitLayout)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	events.App.Start(startupTracePayload(cfg, probeTerminal()))

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "tabnav: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps tab bar construction errors to the layout exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, nav.ErrNoTabs), errors.Is(err, nav.ErrDuplicateTab), errors.Is(err, nav.ErrUnknownTab):
		return exitLayout
	}
	return exitRuntime
}

type tabEntry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Locator string `json:"locator"`
}

type viewportSize struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Source string `json:"source"`
}

// startupTracePayload records the resolved tab layout and where the viewport
// size comes from.
func startupTracePayload(cfg config.Config, terminal terminalInfo) map[string]interface{} {
	tabs := make([]tabEntry, len(cfg.App.Tabs))
	for i, spec := range cfg.App.Tabs {
		tabs[i] = tabEntry{ID: spec.ID, Title: spec.Title, Locator: spec.Locator}
	}
	selected := cfg.App.Selected
	if selected == "" && len(tabs) > 0 {
		selected = tabs[0].ID
	}
	payload := map[string]interface{}{
		"argv":       cfg.Args,
		"layout":     cfg.Layout,
		"tabs":       tabs,
		"selected":   selected,
		"baseURL":    cfg.App.BaseURL,
		"selectors":  cfg.App.Selectors,
		"transition": cfg.App.Transition.String(),
		"viewport":   resolveViewport(cfg.App, terminal),
		"terminal":   terminal,
		"logFile":    logging.Path(),
		"trace":      logging.TraceEnabled(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}

// resolveViewport reports the size the UI starts with: configured dimensions
// win, the first terminal descriptor fills the rest.
func resolveViewport(cfg app.Config, terminal terminalInfo) viewportSize {
	size := viewportSize{Width: cfg.Width, Height: cfg.Height, Source: "config"}
	if size.Width > 0 && size.Height > 0 {
		return size
	}
	d := terminal.Detected
	if d == nil {
		size.Source = "unknown"
		return size
	}
	if size.Width == 0 {
		size.Width = d.Width
	}
	if size.Height == 0 {
		size.Height = d.Height
	}
	size.Source = d.Name
	return size
}

type terminalInfo struct {
	Detected    *descriptor  `json:"detected,omitempty"`
	Descriptors []descriptor `json:"descriptors"`
}

type descriptor struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// probeTerminal checks stdout first since that is where the UI renders.
func probeTerminal() terminalInfo {
	return probeDescriptors([]namedFD{
		{"stdout", os.Stdout.Fd()},
		{"stdin", os.Stdin.Fd()},
		{"stderr", os.Stderr.Fd()},
	})
}

type namedFD struct {
	name string
	fd   uintptr
}

func probeDescriptors(fds []namedFD) terminalInfo {
	info := terminalInfo{Descriptors: make([]descriptor, 0, len(fds))}
	for _, nfd := range fds {
		d := descriptor{Name: nfd.name}
		fd := int(nfd.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			d.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				d.Width, d.Height = width, height
				if info.Detected == nil {
					detected := d
					info.Detected = &detected
				}
			} else {
				d.Error = err.Error()
			}
		}
		info.Descriptors = append(info.Descriptors, d)
	}
	return info
}
