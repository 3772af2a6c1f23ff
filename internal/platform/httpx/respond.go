// Package httpx provides JSON request/response helpers for the API
// surface.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/ledgerbridge/ledgerbridge/internal/shared"
)

// Envelope is the generic response body: a status discriminator, a
// human-readable message, and the raw upstream error payload when one
// is available.
type Envelope struct {
	Status  shared.Status `json:"status"`
	Message string        `json:"message,omitempty"`
	Details any           `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code. Encoding is
// done before the header is written so a failure degrades to an error
// envelope instead of an empty 200 body.
func JSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"status":"error","message":"response encoding failed"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error sends an error envelope.
func Error(w http.ResponseWriter, status int, message string, details any) {
	JSON(w, status, Envelope{Status: shared.StatusError, Message: message, Details: details})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
