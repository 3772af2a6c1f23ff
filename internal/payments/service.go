package payments

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

// LedgerPort defines the ledger operations the payment workflow needs.
type LedgerPort interface {
	SearchByReference(ctx context.Context, res ledger.Resource, ref string) ([]ledger.Record, error)
	GetDetail(ctx context.Context, res ledger.Resource, id ledger.ID) (*ledger.Record, error)
	CreateInvoicePayment(ctx context.Context, in ledger.PaymentInput) (*ledger.Payment, error)
	CreateBillPayment(ctx context.Context, in ledger.PaymentInput) (*ledger.Payment, error)
}

// Service runs the payment workflow.
type Service struct {
	ledger   LedgerPort
	resolver *resolve.Resolver
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds Service instance.
func NewService(ledgerClient LedgerPort, resolver *resolve.Resolver, logger *slog.Logger) *Service {
	return &Service{ledger: ledgerClient, resolver: resolver, logger: logger, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Apply looks up the referenced record, checks the paid-state guard,
// and submits a payment. Repeat invocation after success yields skipped
// and issues no payment call.
func (s *Service) Apply(ctx context.Context, in PayInput) Result {
	log := s.logger.With(
		slog.String("run", uuid.NewString()),
		slog.String("type", in.Type),
		slog.String("ref", in.Ref),
	)
	res := resourceFor(in.Type)

	records, err := s.ledger.SearchByReference(ctx, res, in.Ref)
	if err != nil {
		log.Error("reference lookup failed", slog.Any("error", err))
		return errorResult("ledger lookup failed", err)
	}
	if len(records) == 0 {
		return Result{Status: shared.StatusNotFound, Message: "no record matches reference"}
	}
	rec := records[0]

	if rec.Status == ledger.StatusPaid {
		log.Info("record already settled, skipping")
		return Result{Status: shared.StatusSkipped, Message: "record already paid"}
	}

	amount := resolveAmount(in.ForceAmount, rec.DueAmount)
	date := in.ForceDate
	if date == "" {
		date = shared.CivilDate(s.now())
	}

	input := ledger.PaymentInput{
		Reference: fmt.Sprintf("PAY-%d", s.now().UnixMilli()),
		RecordID:  rec.ID,
		AccountID: in.AccountID,
		Date:      date,
		Amount:    amount,
	}
	if res == ledger.ResourceBills {
		_, err = s.ledger.CreateBillPayment(ctx, input)
	} else {
		_, err = s.ledger.CreateInvoicePayment(ctx, input)
	}
	if err != nil {
		log.Error("payment rejected", slog.Any("error", err))
		return errorResult("payment rejected by ledger", err)
	}

	log.Info("payment applied", slog.String("amount", amount), slog.String("date", date))
	return Result{Status: shared.StatusSuccess, Message: "payment applied", Amount: amount, Date: date}
}

// Preview returns the normalized summary of the referenced record,
// enriched with display names through the fallback chains. Enrichment
// never fails the preview.
func (s *Service) Preview(ctx context.Context, in PreviewInput) PreviewResult {
	res := resourceFor(in.Type)

	records, err := s.ledger.SearchByReference(ctx, res, in.Ref)
	if err != nil {
		s.logger.Error("preview lookup failed", slog.String("ref", in.Ref), slog.Any("error", err))
		return PreviewResult{Status: shared.StatusError, Message: "ledger lookup failed", Details: upstreamDetails(err)}
	}
	if len(records) == 0 {
		return PreviewResult{Status: shared.StatusNotFound, Message: "no record matches reference"}
	}
	rec := &records[0]

	// The search view may omit line items and embedded objects; the
	// detail view is best-effort enrichment here.
	if detail, err := s.ledger.GetDetail(ctx, res, rec.ID); err == nil {
		rec = detail
	} else {
		s.logger.Debug("detail enrichment failed", slog.String("id", rec.ID.String()), slog.Any("error", err))
	}

	return PreviewResult{
		Status:        shared.StatusFound,
		ID:            rec.ID,
		Ref:           rec.Reference,
		Contact:       s.resolver.ContactName(ctx, rec, res),
		IssueDate:     rec.IssueDate,
		Total:         rec.TotalAmount.String(),
		Due:           rec.DueAmount.String(),
		RecordStatus:  rec.Status,
		UserName:      s.resolver.UserName(rec),
		InventoryName: s.resolver.InventoryName(rec),
	}
}

// resolveAmount prefers a strictly positive forced amount, falling back
// to the record's outstanding due amount. Output follows the ledger's
// decimal-as-string convention.
func resolveAmount(forced string, due decimal.Decimal) string {
	if forced != "" {
		if d, err := decimal.NewFromString(forced); err == nil && d.IsPositive() {
			return d.String()
		}
	}
	return due.String()
}

func errorResult(message string, err error) Result {
	return Result{Status: shared.StatusError, Message: message, Details: upstreamDetails(err)}
}

func upstreamDetails(err error) any {
	if le, ok := ledger.AsError(err); ok {
		if d := le.Details(); d != nil {
			return d
		}
	}
	return err.Error()
}
