package markup

import (
	"reflect"
	"testing"
)

const samplePage = `<!doctype html>
<html><head><title>Home</title><style>.x{}</style></head>
<body>
  <h1>Welcome</h1>
  <p>Hello   there,
     traveller.</p>
  <a class="btn nav-go" href="page2">Next page</a>
  <a class="nav-replace" href="/login">Log in</a>
  <button class="nav-back">Back</button>
  <span class="nav-refresh" title="Reload"></span>
  <a href="plain">not a region</a>
  <form class="nav-submit" action="save.endpoint" method="post">
    <input name="x" value="1">
    <input type="checkbox" name="skip">
    <input type="checkbox" name="keep" value="on" checked>
    <textarea name="note">hi</textarea>
    <select name="size"><option value="s">S</option><option value="m" selected>M</option></select>
    <input type="submit" value="Save">
  </form>
  <script>ignored()</script>
</body></html>`

func TestParseHTMLExtractsRegions(t *testing.T) {
	doc, err := Parse("text/html; charset=utf-8", []byte(samplePage), DefaultSelectors())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Title != "Home" {
		t.Fatalf("expected title Home, got %q", doc.Title)
	}
	if doc.ContentType != TypeHTML {
		t.Fatalf("expected %s content type, got %q", TypeHTML, doc.ContentType)
	}
	if len(doc.Regions) != 5 {
		t.Fatalf("expected 5 regions, got %d: %#v", len(doc.Regions), doc.Regions)
	}
	want := []struct {
		kind   Kind
		label  string
		target string
	}{
		{KindGo, "Next page", "page2"},
		{KindReplace, "Log in", "/login"},
		{KindBack, "Back", ""},
		{KindRefresh, "Reload", ""},
		{KindSubmit, "Save", "save.endpoint"},
	}
	for i, w := range want {
		got := doc.Regions[i]
		if got.Kind != w.kind || got.Label != w.label || got.Target != w.target {
			t.Fatalf("region %d: expected %v/%q/%q, got %v/%q/%q", i, w.kind, w.label, w.target, got.Kind, got.Label, got.Target)
		}
	}
	submit := doc.Regions[4]
	if submit.Method != "POST" {
		t.Fatalf("expected POST method, got %q", submit.Method)
	}
	values := EncodeFields(submit.Fields)
	if values.Encode() != "keep=on&note=hi&size=m&x=1" {
		t.Fatalf("unexpected encoded fields %q", values.Encode())
	}
}

func TestParseHTMLCollapsesText(t *testing.T) {
	doc, err := Parse("text/html", []byte(samplePage), DefaultSelectors())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Lines) < 2 {
		t.Fatalf("expected body lines, got %#v", doc.Lines)
	}
	if doc.Lines[0] != "Welcome" {
		t.Fatalf("expected heading line, got %q", doc.Lines[0])
	}
	if doc.Lines[1] != "Hello there, traveller." {
		t.Fatalf("expected collapsed paragraph, got %q", doc.Lines[1])
	}
	for _, line := range doc.Lines {
		if line == "ignored()" {
			t.Fatalf("script text should be skipped, lines = %#v", doc.Lines)
		}
	}
}

func TestParseHTMLCustomSelectors(t *testing.T) {
	sel := Selectors{Go: "go-link"}
	body := `<p><a class="go-link" href="a">A</a><a class="nav-go" href="b">B</a><a class="nav-back">Up</a></p>`
	doc, err := Parse("text/html", []byte(body), sel)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Regions) != 2 || doc.Regions[0].Kind != KindGo || doc.Regions[1].Kind != KindBack {
		t.Fatalf("expected custom go and default back selectors to match, got %#v", doc.Regions)
	}

	sel = Selectors{Go: "go-link", Back: "x", Replace: "y", Submit: "z", Refresh: "w"}
	doc, err = Parse("text/html", []byte(body), sel)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Regions) != 1 || doc.Regions[0].Target != "a" {
		t.Fatalf("expected only the custom selector to match, got %#v", doc.Regions)
	}
}

func TestParseHTMLSubmitButtonInsideForm(t *testing.T) {
	body := `<form action="/q"><input name="term" placeholder="Search"><button class="nav-submit">Find</button></form>`
	doc, err := Parse("text/html", []byte(body), DefaultSelectors())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var regions []Region
	for _, r := range doc.Regions {
		if r.Kind == KindSubmit {
			regions = append(regions, r)
		}
	}
	if len(regions) != 1 {
		t.Fatalf("expected one submit region, got %#v", doc.Regions)
	}
	r := regions[0]
	if r.Label != "Find" || r.Target != "/q" || r.Method != "GET" {
		t.Fatalf("unexpected submit region %#v", r)
	}
	if !reflect.DeepEqual(r.Fields, []Field{{Name: "term", Label: "Search", Type: "text"}}) {
		t.Fatalf("unexpected fields %#v", r.Fields)
	}
}

func TestParseJSONDocument(t *testing.T) {
	body := `{
  "title": "Settings",
  "body": "line one\nline two",
  "regions": [
    {"kind": "go", "label": "Profile", "target": "profile"},
    {"kind": "go-and-replace", "target": "login"},
    {"kind": "submit", "label": "Save", "target": "save", "method": "post", "fields": [{"name": "x", "value": "1"}]},
    {"kind": "back"}
  ]
}`
	doc, err := Parse("", []byte(body), DefaultSelectors())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.ContentType != TypeJSON {
		t.Fatalf("expected sniffed json, got %q", doc.ContentType)
	}
	if doc.Title != "Settings" || len(doc.Lines) != 2 {
		t.Fatalf("unexpected document %#v", doc)
	}
	if doc.Regions[1].Kind != KindReplace || doc.Regions[1].DisplayLabel() != "login" {
		t.Fatalf("unexpected replace region %#v", doc.Regions[1])
	}
	if doc.Regions[2].Method != "POST" {
		t.Fatalf("expected method normalised, got %q", doc.Regions[2].Method)
	}
	if doc.Regions[3].DisplayLabel() != "Back" {
		t.Fatalf("expected fallback label Back, got %q", doc.Regions[3].DisplayLabel())
	}
}

func TestParseJSONRejectsMissingTarget(t *testing.T) {
	_, err := Parse(TypeJSON, []byte(`{"regions":[{"kind":"go"}]}`), DefaultSelectors())
	if err == nil {
		t.Fatalf("expected error for go region without a target")
	}
	_, err = Parse(TypeJSON, []byte(`{"regions":[{"kind":"teleport"}]}`), DefaultSelectors())
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestParsePlainText(t *testing.T) {
	doc, err := Parse("text/plain", []byte("a\r\nb\n"), DefaultSelectors())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(doc.Lines, []string{"a", "b"}) {
		t.Fatalf("unexpected lines %#v", doc.Lines)
	}
	if len(doc.Regions) != 0 {
		t.Fatalf("plain text has no regions, got %#v", doc.Regions)
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{KindGo, KindBack, KindReplace, KindSubmit, KindRefresh} {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil || back != k {
			t.Fatalf("expected %v after unmarshal, got %v (err=%v)", k, back, err)
		}
	}
	if Kind(42).String() != "unknown" {
		t.Fatalf("expected unknown for out-of-range kind")
	}
}
