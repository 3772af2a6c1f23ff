// Package ledger is a typed HTTP facade over the external accounting
// API that owns all invoices, bills, credit notes, and accounts. The
// client performs no retries; callers own retry policy.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client wraps interactions with the ledger API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a new client. The timeout bounds every call,
// since workflows impose no cancellation of their own.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SearchByReference returns records whose business reference matches
// exactly. The ledger keys the result list by resource name.
func (c *Client) SearchByReference(ctx context.Context, res Resource, ref string) ([]Record, error) {
	params := url.Values{}
	params.Set("q[reference_eq]", ref)
	var envelope struct {
		Invoices []Record `json:"invoices"`
		Bills    []Record `json:"bills"`
	}
	if err := c.get(ctx, "/"+string(res), params, &envelope); err != nil {
		return nil, err
	}
	if res == ResourceBills {
		return envelope.Bills, nil
	}
	return envelope.Invoices, nil
}

// GetDetail fetches the full record view. Line items are only reliable
// here; the search view may omit them.
func (c *Client) GetDetail(ctx context.Context, res Resource, id ID) (*Record, error) {
	var envelope struct {
		Invoice *Record `json:"invoice"`
		Bill    *Record `json:"bill"`
	}
	if err := c.get(ctx, fmt.Sprintf("/%s/%s", res, id), nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Invoice != nil {
		return envelope.Invoice, nil
	}
	if envelope.Bill != nil {
		return envelope.Bill, nil
	}
	return nil, &Error{StatusCode: http.StatusOK, Body: json.RawMessage(`"detail response missing record"`)}
}

// ListAccounts returns the full chart of accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var envelope struct {
		Accounts []Account `json:"accounts"`
	}
	if err := c.get(ctx, "/accounts", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Accounts, nil
}

// GetCustomer fetches a sales counterparty by id.
func (c *Client) GetCustomer(ctx context.Context, id ID) (*Contact, error) {
	return c.getContact(ctx, "/customers/"+id.String())
}

// GetVendor fetches a purchase counterparty by id.
func (c *Client) GetVendor(ctx context.Context, id ID) (*Contact, error) {
	return c.getContact(ctx, "/vendors/"+id.String())
}

func (c *Client) getContact(ctx context.Context, path string) (*Contact, error) {
	var envelope struct {
		Customer *Contact `json:"customer"`
		Vendor   *Contact `json:"vendor"`
		Contact  *Contact `json:"contact"`
	}
	if err := c.get(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}
	switch {
	case envelope.Customer != nil:
		return envelope.Customer, nil
	case envelope.Vendor != nil:
		return envelope.Vendor, nil
	case envelope.Contact != nil:
		return envelope.Contact, nil
	}
	return nil, &Error{StatusCode: http.StatusOK, Body: json.RawMessage(`"contact response missing record"`)}
}

// CreateInvoicePayment submits a payment against a sales invoice.
func (c *Client) CreateInvoicePayment(ctx context.Context, in PaymentInput) (*Payment, error) {
	payload := map[string]any{
		"invoice_payment": map[string]string{
			"reference":  in.Reference,
			"invoice_id": in.RecordID.String(),
			"account_id": in.AccountID,
			"date":       in.Date,
			"amount":     in.Amount,
		},
	}
	var envelope struct {
		InvoicePayment *Payment `json:"invoice_payment"`
	}
	if err := c.post(ctx, "/invoice_payments", payload, &envelope); err != nil {
		return nil, err
	}
	return orEmpty(envelope.InvoicePayment), nil
}

// CreateBillPayment submits a payment against a purchase bill.
func (c *Client) CreateBillPayment(ctx context.Context, in PaymentInput) (*Payment, error) {
	payload := map[string]any{
		"bill_payment": map[string]string{
			"reference":  in.Reference,
			"bill_id":    in.RecordID.String(),
			"account_id": in.AccountID,
			"date":       in.Date,
			"amount":     in.Amount,
		},
	}
	var envelope struct {
		BillPayment *Payment `json:"bill_payment"`
	}
	if err := c.post(ctx, "/bill_payments", payload, &envelope); err != nil {
		return nil, err
	}
	return orEmpty(envelope.BillPayment), nil
}

// ListCreditNotes returns every existing credit note. Used by the
// reference sequencer; failures there degrade, they never abort.
func (c *Client) ListCreditNotes(ctx context.Context) ([]CreditNote, error) {
	var envelope struct {
		CreditNotes []CreditNote `json:"credit_notes"`
	}
	if err := c.get(ctx, "/credit_notes", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.CreditNotes, nil
}

// CreateCreditNote posts a new credit note. Older ledger versions key
// the response as note or return the bare object, so all three shapes
// decode.
func (c *Client) CreateCreditNote(ctx context.Context, in CreditNoteInput) (*CreditNote, error) {
	payload := map[string]any{"credit_note": in}
	raw, err := c.postRaw(ctx, "/credit_notes", payload)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		CreditNote *CreditNote `json:"credit_note"`
		Note       *CreditNote `json:"note"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.CreditNote != nil {
			return envelope.CreditNote, nil
		}
		if envelope.Note != nil {
			return envelope.Note, nil
		}
	}
	var bare CreditNote
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, &Error{StatusCode: http.StatusOK, Body: raw}
	}
	return &bare, nil
}

// CreateAllocation links a credit note to an invoice for the given
// amount.
func (c *Client) CreateAllocation(ctx context.Context, creditNoteID, invoiceID ID, amount, date string) (*Allocation, error) {
	payload := map[string]any{
		"allocation": map[string]string{
			"invoice_id": invoiceID.String(),
			"amount":     amount,
			"date":       date,
		},
	}
	var envelope struct {
		Allocation *Allocation `json:"allocation"`
	}
	if err := c.post(ctx, fmt.Sprintf("/credit_notes/%s/allocations", creditNoteID), payload, &envelope); err != nil {
		return nil, err
	}
	if envelope.Allocation != nil {
		return envelope.Allocation, nil
	}
	return &Allocation{}, nil
}

// CreateRefundPayment posts a cash refund of a credit note to the given
// account.
func (c *Client) CreateRefundPayment(ctx context.Context, creditNoteID ID, accountID, amount, date, reference string) (*Payment, error) {
	payload := map[string]any{
		"credit_note_payment": map[string]string{
			"reference":      reference,
			"credit_note_id": creditNoteID.String(),
			"account_id":     accountID,
			"amount":         amount,
			"date":           date,
		},
	}
	var envelope struct {
		CreditNotePayment *Payment `json:"credit_note_payment"`
	}
	if err := c.post(ctx, "/credit_note_payments", payload, &envelope); err != nil {
		return nil, err
	}
	return orEmpty(envelope.CreditNotePayment), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &Error{Body: json.RawMessage(fmt.Sprintf("%q", err.Error()))}
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	raw, err := c.postRaw(ctx, path, payload)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{StatusCode: http.StatusOK, Body: raw}
	}
	return nil
}

func (c *Client) postRaw(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Body: json.RawMessage(fmt.Sprintf("%q", err.Error()))}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Body: json.RawMessage(fmt.Sprintf("%q", err.Error()))}
	}
	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Body: json.RawMessage(fmt.Sprintf("%q", err.Error()))}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{StatusCode: resp.StatusCode, Body: json.RawMessage(fmt.Sprintf("%q", err.Error()))}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Body: body}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{StatusCode: resp.StatusCode, Body: body}
	}
	return nil
}

func orEmpty(p *Payment) *Payment {
	if p == nil {
		return &Payment{}
	}
	return p
}
