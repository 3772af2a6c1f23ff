package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error carries the upstream status and raw body of a failed ledger
// call. A zero StatusCode means the request never reached the ledger
// (transport failure). Callers decide recoverability; the client never
// retries.
type Error struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("ledger: transport failure: %s", trimBody(e.Body))
	}
	return fmt.Sprintf("ledger: upstream status %d: %s", e.StatusCode, trimBody(e.Body))
}

// Details returns the upstream payload for operator diagnosis, or nil
// when none was captured. Non-JSON bodies (a proxy's HTML error page)
// come back as a plain string so the payload always survives response
// encoding.
func (e *Error) Details() any {
	if len(e.Body) == 0 {
		return nil
	}
	if json.Valid(e.Body) {
		return e.Body
	}
	return string(e.Body)
}

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

func trimBody(b []byte) string {
	const max = 256
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}
