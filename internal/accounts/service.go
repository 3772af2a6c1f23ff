// Package accounts lists the ledger accounts eligible to receive or
// refund payments, and hosts the upstream liveness probe.
package accounts

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"

	"github.com/ledgerbridge/ledgerbridge/internal/ledger"
)

const accountsCacheKey = "accounts:payment"

// Payment-account heuristics: bank/cash keywords in English and Arabic,
// plus the conventional current-asset account codes.
var (
	includeKeywords = []string{"1101", "1102", "bank", "cash", "نقد", "بنك", "صندوق", "عهدة"}
	excludeKeywords = []string{"مخزون", "مدينون"}
)

var folder = cases.Fold()

// LedgerPort is the slice of the ledger client this service consumes.
type LedgerPort interface {
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
}

// View is the wire shape returned to the frontend account picker.
type View struct {
	ID       ledger.ID `json:"id"`
	Name     string    `json:"name"`
	Balance  string    `json:"balance,omitempty"`
	Currency string    `json:"currency,omitempty"`
}

// Service filters the chart of accounts down to payment-eligible
// entries.
type Service struct {
	ledger LedgerPort
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService builds Service instance.
func NewService(ledgerClient LedgerPort, cache *Cache, logger *slog.Logger) *Service {
	return &Service{ledger: ledgerClient, cache: cache, logger: logger}
}

// PaymentAccounts returns the filtered account list. Concurrent callers
// share a single upstream fetch, and results are cached for the
// configured TTL; the ledger remains the source of truth.
func (s *Service) PaymentAccounts(ctx context.Context) ([]View, error) {
	v, err, _ := s.group.Do(accountsCacheKey, func() (interface{}, error) {
		var views []View
		err := s.cache.FetchJSON(ctx, accountsCacheKey, &views, func(ctx context.Context) (any, error) {
			return s.fetchPaymentAccounts(ctx)
		})
		return views, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]View), nil
}

// Ping probes the ledger API and reports how many accounts it can see.
func (s *Service) Ping(ctx context.Context) (int, error) {
	accounts, err := s.ledger.ListAccounts(ctx)
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}

func (s *Service) fetchPaymentAccounts(ctx context.Context) ([]View, error) {
	accounts, err := s.ledger.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]View, 0, len(accounts))
	filtered := make([]View, 0, len(accounts))
	for _, acc := range accounts {
		view := View{
			ID:       acc.ID,
			Name:     displayName(acc),
			Currency: acc.Currency,
		}
		if !acc.Balance.IsZero() {
			view.Balance = acc.Balance.String()
		}
		all = append(all, view)
		if eligible(view.Name) {
			filtered = append(filtered, view)
		}
	}
	// The heuristics matching nothing usually means an unusually named
	// chart of accounts; returning everything keeps the tool usable.
	if len(filtered) == 0 {
		s.logger.Warn("no accounts matched payment heuristics, returning full list",
			slog.Int("accounts", len(all)))
		return all, nil
	}
	return filtered, nil
}

// displayName resolves the account label through the name_ar, name,
// name_en fallback chain and prefixes the account code when present.
func displayName(acc ledger.Account) string {
	name := acc.NameAr
	if name == "" {
		name = acc.Name
	}
	if name == "" {
		name = acc.NameEn
	}
	if name == "" {
		name = "unnamed"
	}
	if acc.Code != "" {
		return acc.Code + " - " + name
	}
	return name
}

func eligible(name string) bool {
	folded := folder.String(name)
	for _, kw := range excludeKeywords {
		if strings.Contains(folded, kw) {
			return false
		}
	}
	for _, kw := range includeKeywords {
		if strings.Contains(folded, folder.String(kw)) {
			return true
		}
	}
	return false
}
