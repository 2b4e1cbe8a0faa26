package fetch

import (
	"errors"
	"fmt"
)

// TransportError reports a rejected or failed request. Status is zero when no
// response was received.
type TransportError struct {
	Method  string
	Locator string
	Status  int
	Reason  string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Locator, e.Status, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Locator, e.Reason)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusOf extracts transport diagnostics from err.
func StatusOf(err error) (status int, reason string, ok bool) {
	var te *TransportError
	if !errors.As(err, &te) {
		return 0, "", false
	}
	return te.Status, te.Reason, true
}
