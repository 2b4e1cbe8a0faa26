package nav

import (
	"net/url"

	"github.com/atomicstack/tabnav/internal/markup"
)

// IntentKind enumerates the navigation intents a screen can emit.
type IntentKind int

const (
	IntentGo IntentKind = iota
	IntentBack
	IntentReplace
	IntentSubmit
	IntentRefresh
)

func (k IntentKind) String() string {
	switch k {
	case IntentGo:
		return "go"
	case IntentBack:
		return "back"
	case IntentReplace:
		return "replace"
	case IntentSubmit:
		return "submit"
	case IntentRefresh:
		return "refresh"
	}
	return "unknown"
}

// Intent is one navigation request. Destination is the target locator for
// go/replace and the action for submit.
type Intent struct {
	Kind        IntentKind
	Destination string
	Method      string
	Fields      url.Values
}

// Go, Back, GoAndReplace and Refresh build the intent of the matching kind.
func Go(dest string) Intent           { return Intent{Kind: IntentGo, Destination: dest} }
func Back() Intent                    { return Intent{Kind: IntentBack} }
func GoAndReplace(dest string) Intent { return Intent{Kind: IntentReplace, Destination: dest} }
func Refresh() Intent                 { return Intent{Kind: IntentRefresh} }

// Submit sends fields to action with method.
func Submit(action, method string, fields url.Values) Intent {
	return Intent{Kind: IntentSubmit, Destination: action, Method: method, Fields: fields}
}

// IntentFor builds the intent a region emits, using fields in place of the
// region's own values when non-nil.
func IntentFor(region markup.Region, fields []markup.Field) Intent {
	switch region.Kind {
	case markup.KindBack:
		return Back()
	case markup.KindReplace:
		return GoAndReplace(region.Target)
	case markup.KindSubmit:
		if fields == nil {
			fields = region.Fields
		}
		return Submit(region.Target, region.Method, markup.EncodeFields(fields))
	case markup.KindRefresh:
		return Refresh()
	}
	return Go(region.Target)
}
