package accounts

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbridge/ledgerbridge/internal/ledger"
)

type fakeLedger struct {
	accounts []ledger.Account
	err      error
	calls    int
}

func (f *fakeLedger) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts, nil
}

func TestPaymentAccountsKeywordFilter(t *testing.T) {
	lg := &fakeLedger{accounts: []ledger.Account{
		{ID: "1", Code: "1101", NameAr: "نقد في الصندوق"},
		{ID: "2", Name: "Main Bank Account"},
		{ID: "3", NameAr: "مخزون رئيسي"},
		{ID: "4", Name: "Receivables"},
		{ID: "5", Name: "CASH drawer"},
	}}
	svc := NewService(lg, NewCache(nil, 0), slog.New(slog.NewTextHandler(io.Discard, nil)))

	views, err := svc.PaymentAccounts(context.Background())
	require.NoError(t, err)

	var ids []ledger.ID
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	require.Equal(t, []ledger.ID{"1", "2", "5"}, ids)
	require.Equal(t, "1101 - نقد في الصندوق", views[0].Name)
}

func TestPaymentAccountsFallsBackToFullList(t *testing.T) {
	lg := &fakeLedger{accounts: []ledger.Account{
		{ID: "1", Name: "Equity"},
		{ID: "2", Name: "Loans"},
	}}
	svc := NewService(lg, NewCache(nil, 0), slog.New(slog.NewTextHandler(io.Discard, nil)))

	views, err := svc.PaymentAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
}

func TestPaymentAccountsNameFallbackChain(t *testing.T) {
	lg := &fakeLedger{accounts: []ledger.Account{
		{ID: "1", NameEn: "Cash Box", Balance: decimal.RequireFromString("12.50"), Currency: "SAR"},
	}}
	svc := NewService(lg, NewCache(nil, 0), slog.New(slog.NewTextHandler(io.Discard, nil)))

	views, err := svc.PaymentAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "Cash Box", views[0].Name)
	require.Equal(t, "12.5", views[0].Balance)
	require.Equal(t, "SAR", views[0].Currency)
}

func TestPaymentAccountsServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() {
		_ = client.Close()
	}()

	lg := &fakeLedger{accounts: []ledger.Account{{ID: "1", Name: "Bank"}}}
	svc := NewService(lg, NewCache(client, time.Minute), slog.New(slog.NewTextHandler(io.Discard, nil)))

	first, err := svc.PaymentAccounts(context.Background())
	require.NoError(t, err)
	second, err := svc.PaymentAccounts(context.Background())
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, lg.calls)
}

func TestPingReportsAccountCount(t *testing.T) {
	lg := &fakeLedger{accounts: []ledger.Account{{ID: "1"}, {ID: "2"}}}
	svc := NewService(lg, NewCache(nil, 0), slog.New(slog.NewTextHandler(io.Discard, nil)))

	count, err := svc.Ping(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)

	lg.err = &ledger.Error{StatusCode: 503}
	_, err = svc.Ping(context.Background())
	require.Error(t, err)
}
