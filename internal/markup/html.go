package markup

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parseHTML(body []byte, sel Selectors) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	w := &walker{sel: sel, forms: make(map[*html.Node]struct{})}
	w.walk(root)
	w.flush()
	title := w.title
	if title == "" {
		title = w.heading
	}
	return &Document{Title: title, Lines: w.lines, Regions: w.regions}, nil
}

type walker struct {
	sel     Selectors
	title   string
	heading string
	lines   []string
	line    strings.Builder
	pre     int
	regions []Region
	forms   map[*html.Node]struct{}
}

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true, atom.Fieldset: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true,
	atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true,
	atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true, atom.Tr: true,
	atom.Ul: true,
}

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		case atom.Title:
			w.title = textContent(n)
			return
		case atom.Br:
			w.flush()
			return
		case atom.H1:
			if w.heading == "" {
				w.heading = textContent(n)
			}
		case atom.Pre:
			w.pre++
			defer func() { w.pre-- }()
		}
		if kind, ok := w.sel.Match(classList(n)); ok {
			w.region(kind, n)
		}
		if blockElements[n.DataAtom] {
			w.flush()
			defer w.flush()
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *walker) text(data string) {
	if w.pre > 0 {
		parts := strings.Split(data, "\n")
		for i, part := range parts {
			if i > 0 {
				w.flush()
			}
			w.line.WriteString(part)
		}
		return
	}
	collapsed := strings.Join(strings.Fields(data), " ")
	if collapsed == "" {
		return
	}
	if w.line.Len() > 0 {
		w.line.WriteByte(' ')
	}
	w.line.WriteString(collapsed)
}

func (w *walker) flush() {
	if w.line.Len() == 0 {
		return
	}
	line := w.line.String()
	if w.pre == 0 {
		line = strings.TrimSpace(line)
	}
	w.line.Reset()
	if line == "" {
		return
	}
	w.lines = append(w.lines, line)
}

func (w *walker) region(kind Kind, n *html.Node) {
	label := textContent(n)
	if label == "" {
		label = firstAttr(n, "aria-label", "title", "value")
	}
	switch kind {
	case KindGo, KindReplace:
		target := firstAttr(n, "href", "data-href", "data-target")
		if target == "" {
			return
		}
		w.regions = append(w.regions, Region{Kind: kind, Label: label, Target: target})
	case KindBack, KindRefresh:
		w.regions = append(w.regions, Region{Kind: kind, Label: label})
	case KindSubmit:
		form := n
		if n.DataAtom != atom.Form {
			form = enclosingForm(n)
		}
		if form == nil {
			return
		}
		if _, seen := w.forms[form]; seen {
			return
		}
		w.forms[form] = struct{}{}
		if form == n {
			label = submitLabel(form)
		}
		w.regions = append(w.regions, Region{
			Kind:   KindSubmit,
			Label:  label,
			Target: attr(form, "action"),
			Method: normalizeMethod(attr(form, "method")),
			Fields: collectFields(form),
		})
	}
}

func enclosingForm(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Form {
			return p
		}
	}
	return nil
}

func submitLabel(form *html.Node) string {
	var label string
	visit(form, func(n *html.Node) bool {
		if label != "" {
			return false
		}
		if n.Type != html.ElementNode {
			return true
		}
		switch {
		case n.DataAtom == atom.Button:
			label = textContent(n)
		case n.DataAtom == atom.Input && strings.EqualFold(attr(n, "type"), "submit"):
			label = attr(n, "value")
		}
		return label == ""
	})
	if label == "" {
		label = firstAttr(form, "title", "aria-label")
	}
	if label == "" {
		label = "Submit"
	}
	return label
}

func collectFields(form *html.Node) []Field {
	var fields []Field
	visit(form, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		name := attr(n, "name")
		switch n.DataAtom {
		case atom.Input:
			typ := strings.ToLower(attr(n, "type"))
			switch typ {
			case "submit", "button", "reset", "image", "file":
				return false
			case "checkbox", "radio":
				if !hasAttr(n, "checked") {
					return false
				}
			}
			if name == "" {
				return false
			}
			if typ == "" {
				typ = "text"
			}
			fields = append(fields, Field{Name: name, Value: attr(n, "value"), Label: fieldLabel(n), Type: typ})
			return false
		case atom.Textarea:
			if name != "" {
				fields = append(fields, Field{Name: name, Value: rawText(n), Label: fieldLabel(n), Type: "textarea"})
			}
			return false
		case atom.Select:
			if name != "" {
				fields = append(fields, Field{Name: name, Value: selectedOption(n), Label: fieldLabel(n), Type: "select"})
			}
			return false
		}
		return true
	})
	return fields
}

func fieldLabel(n *html.Node) string {
	if label := firstAttr(n, "placeholder", "aria-label", "title"); label != "" {
		return label
	}
	return attr(n, "name")
}

func selectedOption(sel *html.Node) string {
	var first, chosen string
	found := false
	visit(sel, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Option {
			return true
		}
		value := attr(n, "value")
		if !hasAttr(n, "value") {
			value = textContent(n)
		}
		if !found {
			first = value
			found = true
		}
		if hasAttr(n, "selected") && chosen == "" {
			chosen = value
		}
		return false
	})
	if chosen != "" {
		return chosen
	}
	return first
}

// visit walks the descendants of n depth first; fn returning false skips the
// children of the node it was called with.
func visit(n *html.Node, fn func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if fn(c) {
			visit(c, fn)
		}
	}
}

func textContent(n *html.Node) string {
	return strings.Join(strings.Fields(rawText(n)), " ")
}

func rawText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(b.String())
}

func classList(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

func firstAttr(n *html.Node, keys ...string) string {
	for _, key := range keys {
		if v := attr(n, key); v != "" {
			return v
		}
	}
	return ""
}
