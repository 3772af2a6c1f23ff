package ledger

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Resource selects which ledger collection an operation targets.
type Resource string

const (
	ResourceInvoices Resource = "invoices"
	ResourceBills    Resource = "bills"
)

// StatusPaid is the ledger's sentinel for a fully settled record.
const StatusPaid = "Paid"

// ID is a ledger identifier. The API emits ids both as JSON numbers and
// as strings depending on the endpoint, so the type accepts either.
type ID string

// UnmarshalJSON accepts string, numeric, and null identifier forms.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON always emits the string form, which every ledger write
// endpoint accepts.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(id))), nil
}

func (id ID) String() string { return string(id) }

// IsZero reports whether no identifier was present.
func (id ID) IsZero() bool { return id == "" }

// Contact is the embedded or separately fetched counterparty record.
type Contact struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
}

// User is the ledger user that created a record.
type User struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// NamedRef is a minimal id/name pair used for embedded inventory and
// location references.
type NamedRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// LineItem is a single invoice or bill line as the ledger returns it.
// Amount fields arrive as strings or numbers; decimal accepts both.
type LineItem struct {
	ProductID       ID              `json:"product_id"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	UnitType        string          `json:"unit_type"`
	UnitTypeID      ID              `json:"unit_type_id"`
	UnitID          ID              `json:"unit_id"`
	InventoryID     ID              `json:"inventory_id"`
}

// Record is an invoice or bill. Search results may omit line items and
// embedded objects; the detail view carries the full shape.
type Record struct {
	ID          ID              `json:"id"`
	Reference   string          `json:"reference"`
	ContactID   ID              `json:"contact_id"`
	ContactName string          `json:"contact_name"`
	Contact     *Contact        `json:"contact"`
	User        *User           `json:"user"`
	Inventory   *NamedRef       `json:"inventory"`
	Location    *NamedRef       `json:"location"`
	InventoryID ID              `json:"inventory_id"`
	LocationID  ID              `json:"location_id"`
	IssueDate   string          `json:"issue_date"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	DueAmount   decimal.Decimal `json:"due_amount"`
	LineItems   []LineItem      `json:"line_items"`
}

// Account is a chart-of-accounts entry used to select where funds post.
type Account struct {
	ID         ID              `json:"id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	NameAr     string          `json:"name_ar"`
	NameEn     string          `json:"name_en"`
	CategoryID ID              `json:"category_id"`
	Balance    decimal.Decimal `json:"balance"`
	Currency   string          `json:"currency"`
}

// CreditNote is the ledger's view of a created credit note. The total is
// computed upstream from the submitted line items; depending on the API
// version it comes back as total_amount or total.
type CreditNote struct {
	ID          ID              `json:"id"`
	Reference   string          `json:"reference"`
	ContactID   ID              `json:"contact_id"`
	IssueDate   string          `json:"issue_date"`
	Status      string          `json:"status"`
	InventoryID ID              `json:"inventory_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Total       decimal.Decimal `json:"total"`
}

// ComputedTotal returns the ledger-computed credit note total, whichever
// field it was delivered in.
func (n CreditNote) ComputedTotal() decimal.Decimal {
	if !n.TotalAmount.IsZero() {
		return n.TotalAmount
	}
	return n.Total
}

// CreditNoteItem is a credit note line in the write shape the ledger
// expects: every amount serialised as a string, discount expressed as
// either an amount or a percentage but never both.
type CreditNoteItem struct {
	ProductID    string `json:"product_id"`
	Description  string `json:"description"`
	Quantity     string `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	TaxPercent   string `json:"tax_percent"`
	Discount     string `json:"discount"`
	DiscountType string `json:"discount_type"`
	UnitType     string `json:"unit_type,omitempty"`
}

// CreditNoteInput is the creation payload for POST /credit_notes.
type CreditNoteInput struct {
	ContactID   string           `json:"contact_id"`
	Reference   string           `json:"reference"`
	IssueDate   string           `json:"issue_date"`
	Status      string           `json:"status"`
	InventoryID string           `json:"inventory_id"`
	ParentID    string           `json:"parent_id,omitempty"`
	LineItems   []CreditNoteItem `json:"line_items"`
}

// PaymentInput is the creation payload for invoice and bill payments.
// RecordID lands under invoice_id or bill_id depending on the resource.
type PaymentInput struct {
	Reference string
	RecordID  ID
	AccountID string
	Date      string
	Amount    string
}

// Allocation links a credit note to an invoice.
type Allocation struct {
	ID     ID              `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// Payment is the ledger's acknowledgment of a submitted payment.
type Payment struct {
	ID        ID              `json:"id"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
}
