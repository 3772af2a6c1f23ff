// Package payments applies payments against invoices and bills and
// serves record previews.
package payments

import (
	"github.com/ledgerbridge/ledgerbridge/internal/ledger"
	"github.com/ledgerbridge/ledgerbridge/internal/shared"
)

// BusinessTypeSales selects invoices; BusinessTypePurchase selects
// bills.
const (
	BusinessTypeSales    = "sales"
	BusinessTypePurchase = "purchase"
)

// PreviewInput identifies a record to summarise.
type PreviewInput struct {
	Type string `json:"type" validate:"required,oneof=sales purchase"`
	Ref  string `json:"ref" validate:"required"`
}

// PayInput identifies a record and how to pay it. ForceAmount and
// ForceDate override the record's due amount and today's date when
// supplied.
type PayInput struct {
	Type        string `json:"type" validate:"required,oneof=sales purchase"`
	Ref         string `json:"ref" validate:"required"`
	AccountID   string `json:"accountId" validate:"required"`
	ForceAmount string `json:"forceAmount"`
	ForceDate   string `json:"forceDate"`
}

// Result is the payment workflow outcome.
type Result struct {
	Status  shared.Status `json:"status"`
	Message string        `json:"message,omitempty"`
	Amount  string        `json:"amount,omitempty"`
	Date    string        `json:"date,omitempty"`
	Details any           `json:"details,omitempty"`
}

// PreviewResult is the normalized record summary.
type PreviewResult struct {
	Status        shared.Status `json:"status"`
	Message       string        `json:"message,omitempty"`
	ID            ledger.ID     `json:"id,omitempty"`
	Ref           string        `json:"ref,omitempty"`
	Contact       string        `json:"contact,omitempty"`
	IssueDate     string        `json:"issue_date,omitempty"`
	Total         string        `json:"total,omitempty"`
	Due           string        `json:"due,omitempty"`
	RecordStatus  string        `json:"inv_status,omitempty"`
	UserName      string        `json:"user_name,omitempty"`
	InventoryName string        `json:"inventory_name,omitempty"`
	Details       any           `json:"details,omitempty"`
}

func resourceFor(businessType string) ledger.Resource {
	if businessType == BusinessTypePurchase {
		return ledger.ResourceBills
	}
	return ledger.ResourceInvoices
}
