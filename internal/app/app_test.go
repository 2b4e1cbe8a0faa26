package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/tabnav/internal/logging"
	"github.com/atomicstack/tabnav/internal/nav"
	"github.com/atomicstack/tabnav/internal/ui"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "tabnav-app")
	if err == nil {
		logging.Configure(filepath.Join(dir, "tabnav.log"))
	}
	code := m.Run()
	if dir != "" {
		os.RemoveAll(dir)
	}
	os.Exit(code)
}

func writePage(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return "file://" + path
}

func TestBuildRejectsEmptyLayout(t *testing.T) {
	if _, err := Build(context.Background(), Config{}, false); !errors.Is(err, nav.ErrNoTabs) {
		t.Fatalf("expected ErrNoTabs, got %v", err)
	}
}

func TestBuildRejectsRelativeBaseURL(t *testing.T) {
	cfg := Config{
		Tabs:    []TabSpec{{ID: "home", Locator: "/index.json"}},
		BaseURL: "not-absolute",
	}
	if _, err := Build(context.Background(), cfg, false); err == nil {
		t.Fatalf("expected base url error")
	}
}

func TestBuildRendersFileTabs(t *testing.T) {
	dir := t.TempDir()
	second := writePage(t, dir, "second.json", `{"title":"Second","body":"second page"}`)
	home := writePage(t, dir, "home.json", `{"title":"Home","body":"welcome home","regions":[{"kind":"go","label":"Next","target":"`+second+`"}]}`)
	other := writePage(t, dir, "other.json", `{"title":"Other","body":"other tab"}`)

	cfg := Config{
		Tabs: []TabSpec{
			{ID: "main", Title: "Main", Locator: home},
			{ID: "aux", Title: "Aux", Locator: other},
		},
		Width:  80,
		Height: 24,
	}
	model, err := Build(context.Background(), cfg, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	h := ui.NewHarness(model)
	h.Start()
	if view := h.View(); !strings.Contains(view, "welcome home") {
		t.Fatalf("expected home body in view, got:\n%s", view)
	}
	if got := model.TabBar().SelectedID(); got != "main" {
		t.Fatalf("expected main selected, got %q", got)
	}

	h.Key("enter")
	if view := h.View(); !strings.Contains(view, "second page") {
		t.Fatalf("expected second page after enter, got:\n%s", view)
	}

	h.Key("tab")
	if view := h.View(); !strings.Contains(view, "other tab") {
		t.Fatalf("expected aux tab body, got:\n%s", view)
	}
}
