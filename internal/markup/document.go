// Package markup turns fetched screen content into a Document: display lines
// plus the explicit list of interactive regions a screen can bind.
package markup

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind identifies the navigation behaviour of an interactive region.
type Kind int

const (
	KindGo Kind = iota
	KindBack
	KindReplace
	KindSubmit
	KindRefresh
)

var kindNames = [...]string{"go", "back", "replace", "submit", "refresh"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind maps a textual kind onto a Kind. "go-and-replace" is accepted as
// an alias for "replace".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "go":
		return KindGo, nil
	case "back":
		return KindBack, nil
	case "replace", "go-and-replace":
		return KindReplace, nil
	case "submit":
		return KindSubmit, nil
	case "refresh":
		return KindRefresh, nil
	}
	return 0, fmt.Errorf("unknown region kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown region kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Field is one named value carried by a submit region.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Region is a control inside rendered content that emits a navigation intent.
// Target holds the destination for go/replace and the action for submit.
type Region struct {
	Kind   Kind    `json:"kind"`
	Label  string  `json:"label,omitempty"`
	Target string  `json:"target,omitempty"`
	Method string  `json:"method,omitempty"`
	Fields []Field `json:"fields,omitempty"`
}

// DisplayLabel returns the label, falling back to something derived from the
// region kind and target.
func (r Region) DisplayLabel() string {
	if label := strings.TrimSpace(r.Label); label != "" {
		return label
	}
	switch r.Kind {
	case KindBack:
		return "Back"
	case KindRefresh:
		return "Refresh"
	case KindSubmit:
		if r.Target != "" {
			return "Submit " + r.Target
		}
		return "Submit"
	}
	return r.Target
}

// Document is the parsed form of one screen's content.
type Document struct {
	Title       string
	ContentType string
	Lines       []string
	Regions     []Region
}

// EncodeFields serialises field values for a form submission. Fields without
// a name are skipped; repeated names keep their order.
func EncodeFields(fields []Field) url.Values {
	values := url.Values{}
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		values.Add(name, f.Value)
	}
	return values
}
