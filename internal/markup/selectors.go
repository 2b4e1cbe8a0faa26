package markup

import "strings"

// Selectors are the class terms that mark controls in HTML content.
type Selectors struct {
	Go      string `yaml:"go"`
	Back    string `yaml:"back"`
	Replace string `yaml:"replace"`
	Submit  string `yaml:"submit"`
	Refresh string `yaml:"refresh"`
}

// DefaultSelectors returns the built-in class terms.
func DefaultSelectors() Selectors {
	return Selectors{
		Go:      "nav-go",
		Back:    "nav-back",
		Replace: "nav-replace",
		Submit:  "nav-submit",
		Refresh: "nav-refresh",
	}
}

// WithDefaults fills blank terms from DefaultSelectors.
func (s Selectors) WithDefaults() Selectors {
	def := DefaultSelectors()
	if strings.TrimSpace(s.Go) == "" {
		s.Go = def.Go
	}
	if strings.TrimSpace(s.Back) == "" {
		s.Back = def.Back
	}
	if strings.TrimSpace(s.Replace) == "" {
		s.Replace = def.Replace
	}
	if strings.TrimSpace(s.Submit) == "" {
		s.Submit = def.Submit
	}
	if strings.TrimSpace(s.Refresh) == "" {
		s.Refresh = def.Refresh
	}
	return s
}

// Match returns the kind of the first class that names a selector term.
func (s Selectors) Match(classes []string) (Kind, bool) {
	s = s.WithDefaults()
	terms := map[string]Kind{
		strings.TrimSpace(s.Go):      KindGo,
		strings.TrimSpace(s.Back):    KindBack,
		strings.TrimSpace(s.Replace): KindReplace,
		strings.TrimSpace(s.Submit):  KindSubmit,
		strings.TrimSpace(s.Refresh): KindRefresh,
	}
	for _, class := range classes {
		if kind, ok := terms[class]; ok {
			return kind, true
		}
	}
	return 0, false
}
