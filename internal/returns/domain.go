// Package returns executes the sales-return saga: build a credit note
// mirroring an invoice's line items, submit it, then refund cash or
// allocate the note against the invoice, classifying the outcome.
package returns

import (
	"github.com/ledgerbridge/ledgerbridge/internal/ledger"
	"github.com/ledgerbridge/ledgerbridge/internal/shared"
)

// State names a step of the return saga.
type State string

const (
	StateLookupInvoice     State = "lookup_invoice"
	StateResolveInventory  State = "resolve_inventory"
	StateBuildLineItems    State = "build_line_items"
	StateGenerateReference State = "generate_reference"
	StateSubmitCreditNote  State = "submit_credit_note"
	StateRefund            State = "refund"
	StateAllocate          State = "allocate"
	StateDone              State = "done"
)

// ReturnType selects the post-credit-note branch.
type ReturnType string

const (
	ReturnRefund   ReturnType = "refund"
	ReturnAllocate ReturnType = "allocate"
)

// Input identifies the invoice to return and how to settle the credit.
type Input struct {
	Ref        string     `json:"ref" validate:"required"`
	ReturnType ReturnType `json:"returnType" validate:"required,oneof=refund allocate"`
	AccountID  string     `json:"accountId" validate:"required"`
}

// Result is the saga outcome. Partial means the credit note exists but
// the dependent refund or allocation failed; Reference and Details give
// an operator enough to finish manually.
type Result struct {
	Status       shared.Status `json:"status"`
	Message      string        `json:"message,omitempty"`
	Reference    string        `json:"reference,omitempty"`
	CreditNoteID ledger.ID     `json:"credit_note_id,omitempty"`
	Details      any           `json:"details,omitempty"`
}
