package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearchByReferenceSendsAPIKeyAndExactMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.Header.Get("API-KEY"))
		require.Equal(t, "/invoices", r.URL.Path)
		require.Equal(t, "INV-100", r.URL.Query().Get("q[reference_eq]"))
		_, _ = w.Write([]byte(`{"invoices":[{"id":42,"reference":"INV-100","status":"Unpaid","due_amount":"150.00"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	records, err := c.SearchByReference(context.Background(), ResourceInvoices, "INV-100")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, ID("42"), records[0].ID)
	require.Equal(t, "150", records[0].DueAmount.String())
}

func TestSearchByReferenceBillsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bills", r.URL.Path)
		_, _ = w.Write([]byte(`{"bills":[{"id":"7","reference":"BILL-9"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	records, err := c.SearchByReference(context.Background(), ResourceBills, "BILL-9")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, ID("7"), records[0].ID)
}

func TestGetDetailDecodesEitherEnvelopeKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bills/7", r.URL.Path)
		_, _ = w.Write([]byte(`{"bill":{"id":7,"reference":"BILL-9","line_items":[{"product_id":1,"quantity":"2","unit_price":"10.5","unit_type":"box"}]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	rec, err := c.GetDetail(context.Background(), ResourceBills, "7")
	require.NoError(t, err)
	require.Len(t, rec.LineItems, 1)
	require.Equal(t, "box", rec.LineItems[0].UnitType)
	require.Equal(t, "10.5", rec.LineItems[0].UnitPrice.String())
}

func TestNon2xxBecomesLedgerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"inventory_id":["can't be blank"]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	_, err := c.CreateCreditNote(context.Background(), CreditNoteInput{Reference: "CRN1-X"})
	require.Error(t, err)

	le, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnprocessableEntity, le.StatusCode)
	require.Contains(t, string(le.Body), "inventory_id")
}

func TestTransportFailureBecomesLedgerError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "secret", 500*time.Millisecond)
	_, err := c.ListAccounts(context.Background())
	require.Error(t, err)

	le, ok := AsError(err)
	require.True(t, ok)
	require.Zero(t, le.StatusCode)
}

func TestCreateCreditNoteDecodesAlternateShapes(t *testing.T) {
	shapes := map[string]string{
		"credit_note": `{"credit_note":{"id":9,"reference":"CRN1-INV-100","total_amount":"120.00"}}`,
		"note":        `{"note":{"id":9,"reference":"CRN1-INV-100","total":"120.00"}}`,
		"bare":        `{"id":9,"reference":"CRN1-INV-100","total_amount":120.0}`,
	}
	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var payload map[string]json.RawMessage
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				require.Contains(t, payload, "credit_note")
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "secret", 5*time.Second)
			note, err := c.CreateCreditNote(context.Background(), CreditNoteInput{Reference: "CRN1-INV-100"})
			require.NoError(t, err)
			require.Equal(t, ID("9"), note.ID)
			require.Equal(t, "120", note.ComputedTotal().String())
		})
	}
}

func TestCreateAllocationPostsUnderCreditNote(t *testing.T) {
	var gotPath string
	var gotBody map[string]map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"allocation":{"id":3,"amount":"120.00"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	alloc, err := c.CreateAllocation(context.Background(), "9", "42", "120.00", "2026-09-01")
	require.NoError(t, err)
	require.Equal(t, ID("3"), alloc.ID)
	require.Equal(t, "/credit_notes/9/allocations", gotPath)
	require.Equal(t, "42", gotBody["allocation"]["invoice_id"])
	require.Equal(t, "120.00", gotBody["allocation"]["amount"])
}

func TestIDUnmarshalAcceptsAllForms(t *testing.T) {
	var out struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"12","c":null}`), &out))
	require.Equal(t, ID("12"), out.A)
	require.Equal(t, ID("12"), out.B)
	require.True(t, out.C.IsZero())
}
