package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerbridge/ledgerbridge/internal/shared"
)

func TestJSONWritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, Envelope{Status: shared.StatusSuccess, Message: "ok"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, shared.StatusSuccess, envelope.Status)
}

func TestJSONDegradesWhenEncodingFails(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, Envelope{Status: shared.StatusError, Details: make(chan int)})

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// The body must still be a parseable error envelope, never empty.
	var envelope Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, shared.StatusError, envelope.Status)
	require.NotEmpty(t, envelope.Message)
}
