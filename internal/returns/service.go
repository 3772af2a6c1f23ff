package returns

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerbridge/ledgerbridge/internal/ledger"
	"github.com/ledgerbridge/ledgerbridge/internal/resolve"
	"github.com/ledgerbridge/ledgerbridge/internal/shared"
)

// creditNoteStatus is the approved/posted state a credit note is
// created in.
const creditNoteStatus = "Approved"

// LedgerPort defines the ledger operations the return saga needs.
type LedgerPort interface {
	SearchByReference(ctx context.Context, res ledger.Resource, ref string) ([]ledger.Record, error)
	GetDetail(ctx context.Context, res ledger.Resource, id ledger.ID) (*ledger.Record, error)
	ListCreditNotes(ctx context.Context) ([]ledger.CreditNote, error)
	CreateCreditNote(ctx context.Context, in ledger.CreditNoteInput) (*ledger.CreditNote, error)
	CreateAllocation(ctx context.Context, creditNoteID, invoiceID ledger.ID, amount, date string) (*ledger.Allocation, error)
	CreateRefundPayment(ctx context.Context, creditNoteID ledger.ID, accountID, amount, date, reference string) (*ledger.Payment, error)
}

// Service runs the return saga as an explicit state machine so that
// partial completion is a first-class outcome, not a catch-block side
// effect.
type Service struct {
	ledger LedgerPort
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service instance.
func NewService(ledgerClient LedgerPort, logger *slog.Logger) *Service {
	return &Service{ledger: ledgerClient, logger: logger, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Process executes the saga for one return request. Every path ends in
// a structured Result; upstream failures never escape as faults.
func (s *Service) Process(ctx context.Context, in Input) Result {
	r := &run{
		svc: s,
		in:  in,
		log: s.logger.With(
			slog.String("run", uuid.NewString()),
			slog.String("ref", in.Ref),
			slog.String("return_type", string(in.ReturnType)),
		),
	}
	for state := StateLookupInvoice; state != StateDone; {
		switch state {
		case StateLookupInvoice:
			state = r.lookupInvoice(ctx)
		case StateResolveInventory:
			state = r.resolveInventory()
		case StateBuildLineItems:
			state = r.buildLineItems()
		case StateGenerateReference:
			state = r.generateReference(ctx)
		case StateSubmitCreditNote:
			state = r.submitCreditNote(ctx)
		case StateRefund:
			state = r.refund(ctx)
		case StateAllocate:
			state = r.allocate(ctx)
		default:
			state = StateDone
		}
	}
	return r.result
}

// run carries one saga execution through its states.
type run struct {
	svc *Service
	in  Input
	log *slog.Logger

	invoice     *ledger.Record
	inventoryID ledger.ID
	items       []ledger.CreditNoteItem
	reference   string
	note        *ledger.CreditNote

	result Result
}

func (r *run) lookupInvoice(ctx context.Context) State {
	records, err := r.svc.ledger.SearchByReference(ctx, ledger.ResourceInvoices, r.in.Ref)
	if err != nil {
		return r.fail("ledger lookup failed", err)
	}
	if len(records) == 0 {
		r.result = Result{Status: shared.StatusError, Message: "invoice not found"}
		return StateDone
	}

	// Line items require the detail view; the search view may omit
	// them, so this fetch is mandatory here.
	detail, err := r.svc.ledger.GetDetail(ctx, ledger.ResourceInvoices, records[0].ID)
	if err != nil {
		return r.fail("invoice detail fetch failed", err)
	}
	r.invoice = detail
	return StateResolveInventory
}

func (r *run) resolveInventory() State {
	r.inventoryID = resolve.InventoryID(r.invoice)
	if r.inventoryID.IsZero() {
		// A credit note cannot exist without an inventory; defaulting
		// to some fixed warehouse would silently misattribute stock.
		r.result = Result{Status: shared.StatusError, Message: "no inventory resolvable for credit note"}
		return StateDone
	}
	return StateBuildLineItems
}

func (r *run) buildLineItems() State {
	r.items = buildCreditItems(r.invoice.LineItems)
	return StateGenerateReference
}

func (r *run) generateReference(ctx context.Context) State {
	var seq int64
	notes, err := r.svc.ledger.ListCreditNotes(ctx)
	if err != nil {
		seq = timestampSequence(r.svc.now())
		r.log.Warn("credit note listing failed, using timestamp sequence",
			slog.Int64("sequence", seq), slog.Any("error", err))
	} else {
		seq = NextSequence(notes)
	}
	r.reference = fmt.Sprintf("CRN%d-%s", seq, r.invoice.Reference)
	return StateSubmitCreditNote
}

func (r *run) submitCreditNote(ctx context.Context) State {
	input := ledger.CreditNoteInput{
		ContactID:   r.invoice.ContactID.String(),
		Reference:   r.reference,
		IssueDate:   shared.CivilDate(r.svc.now()),
		Status:      creditNoteStatus,
		InventoryID: r.inventoryID.String(),
		ParentID:    r.invoice.ID.String(),
		LineItems:   r.items,
	}
	note, err := r.svc.ledger.CreateCreditNote(ctx, input)
	if err != nil {
		return r.fail("credit note creation failed", err)
	}
	if note.ID.IsZero() {
		// Nothing downstream can proceed without the id, so this is a
		// hard failure rather than a partial one.
		r.result = Result{Status: shared.StatusError, Message: "credit note creation returned no id", Details: note}
		return StateDone
	}
	r.note = note
	r.log.Info("credit note created",
		slog.String("credit_note_id", note.ID.String()),
		slog.String("reference", r.reference))

	if r.in.ReturnType == ReturnRefund {
		return StateRefund
	}
	return StateAllocate
}

func (r *run) refund(ctx context.Context) State {
	amount := r.note.ComputedTotal().String()
	date := shared.CivilDate(r.svc.now())
	_, err := r.svc.ledger.CreateRefundPayment(ctx, r.note.ID, r.in.AccountID, amount, date, "REFUND-"+r.reference)
	if err != nil {
		return r.partial("refund failed", err)
	}
	r.result = Result{
		Status:       shared.StatusSuccess,
		Message:      "credit note created and refunded",
		Reference:    r.reference,
		CreditNoteID: r.note.ID,
	}
	return StateDone
}

func (r *run) allocate(ctx context.Context) State {
	amount := r.note.ComputedTotal().String()
	date := shared.CivilDate(r.svc.now())
	_, err := r.svc.ledger.CreateAllocation(ctx, r.note.ID, r.invoice.ID, amount, date)
	if err != nil {
		return r.partial("allocation failed", err)
	}
	r.result = Result{
		Status:       shared.StatusSuccess,
		Message:      "credit note created and allocated to invoice",
		Reference:    r.reference,
		CreditNoteID: r.note.ID,
	}
	return StateDone
}

// fail finishes the run before or at the primary mutating step.
func (r *run) fail(message string, err error) State {
	r.log.Error(message, slog.Any("error", err))
	r.result = Result{Status: shared.StatusError, Message: message, Details: upstreamDetails(err)}
	return StateDone
}

// partial finishes the run after the credit note exists but a dependent
// step failed. The operator completes the remainder manually from the
// surfaced reference and details.
func (r *run) partial(message string, err error) State {
	r.log.Error(message,
		slog.String("credit_note_id", r.note.ID.String()),
		slog.String("reference", r.reference),
		slog.Any("error", err))
	r.result = Result{
		Status:       shared.StatusPartial,
		Message:      fmt.Sprintf("credit note %s created but %s", r.reference, message),
		Reference:    r.reference,
		CreditNoteID: r.note.ID,
		Details:      upstreamDetails(err),
	}
	return StateDone
}

// buildCreditItems mirrors the invoice lines into credit-note write
// shape. The discount keeps the representation of its source: a
// positive amount wins over a percentage, never both. The unit type is
// propagated verbatim through its fallback chain.
func buildCreditItems(items []ledger.LineItem) []ledger.CreditNoteItem {
	out := make([]ledger.CreditNoteItem, 0, len(items))
	for _, li := range items {
		description := li.Description
		if description == "" {
			description = "return"
		}
		item := ledger.CreditNoteItem{
			ProductID:   li.ProductID.String(),
			Description: description,
			Quantity:    li.Quantity.String(),
			UnitPrice:   li.UnitPrice.String(),
			TaxPercent:  percentString(li.TaxPercent),
			UnitType:    resolve.UnitType(li),
		}
		if li.DiscountAmount.IsPositive() {
			item.Discount = li.DiscountAmount.String()
			item.DiscountType = "amount"
		} else {
			item.Discount = percentString(li.DiscountPercent)
			item.DiscountType = "percentage"
		}
		out = append(out, item)
	}
	return out
}

func percentString(d decimal.Decimal) string {
	if d.IsZero() {
		return "0.0"
	}
	return d.String()
}

func upstreamDetails(err error) any {
	if le, ok := ledger.AsError(err); ok {
		if d := le.Details(); d != nil {
			return d
		}
	}
	return err.Error()
}
