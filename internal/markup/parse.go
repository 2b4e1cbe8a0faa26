package markup

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

const (
	TypeHTML  = "text/html"
	TypePlain = "text/plain"
	TypeJSON  = "application/json"
)

// Parse decodes body according to its content type. An empty content type is
// sniffed from the body.
func Parse(contentType string, body []byte, sel Selectors) (*Document, error) {
	mediaType := MediaType(contentType, body)
	var (
		doc *Document
		err error
	)
	switch {
	case mediaType == TypeJSON || strings.HasSuffix(mediaType, "+json"):
		doc, err = parseJSON(body)
	case mediaType == TypePlain:
		doc = parsePlain(body)
	default:
		doc, err = parseHTML(body, sel.WithDefaults())
	}
	if err != nil {
		return nil, err
	}
	doc.ContentType = mediaType
	return doc, nil
}

// MediaType normalises a Content-Type header value, sniffing the body when
// the header is empty.
func MediaType(contentType string, body []byte) string {
	if strings.TrimSpace(contentType) == "" {
		contentType = http.DetectContentType(body)
		if contentType == "text/plain; charset=utf-8" && looksLikeJSON(body) {
			return TypeJSON
		}
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		head, _, _ := strings.Cut(contentType, ";")
		return strings.ToLower(strings.TrimSpace(head))
	}
	return mediaType
}

func looksLikeJSON(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "{") && json.Valid(body)
}

type jsonDocument struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Lines   []string `json:"lines"`
	Regions []Region `json:"regions"`
}

func parseJSON(body []byte) (*Document, error) {
	var raw jsonDocument
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode screen document: %w", err)
	}
	doc := &Document{Title: strings.TrimSpace(raw.Title)}
	if raw.Body != "" {
		doc.Lines = splitLines(raw.Body)
	}
	doc.Lines = append(doc.Lines, raw.Lines...)
	for i, region := range raw.Regions {
		switch region.Kind {
		case KindGo, KindReplace, KindSubmit:
			if strings.TrimSpace(region.Target) == "" {
				return nil, fmt.Errorf("region %d (%s): missing target", i, region.Kind)
			}
		}
		if region.Kind == KindSubmit {
			region.Method = normalizeMethod(region.Method)
		}
		doc.Regions = append(doc.Regions, region)
	}
	return doc, nil
}

func parsePlain(body []byte) *Document {
	return &Document{Lines: splitLines(string(body))}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func normalizeMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return http.MethodGet
	}
	return method
}
