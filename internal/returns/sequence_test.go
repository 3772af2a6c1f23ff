package returns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerbridge/ledgerbridge/internal/ledger"
)

func TestNextSequenceMaxPlusOne(t *testing.T) {
	notes := []ledger.CreditNote{
		{Reference: "CRN3-X"},
		{Reference: "CRN7-Y"},
	}
	require.Equal(t, int64(8), NextSequence(notes))
}

func TestNextSequenceIgnoresForeignReferences(t *testing.T) {
	notes := []ledger.CreditNote{
		{Reference: "CN-2024-001"},
		{Reference: "CRN5-A"},
		{Reference: "XCRN9-B"},
		{Reference: "CRN-NONUMERIC"},
	}
	require.Equal(t, int64(6), NextSequence(notes))
}

func TestNextSequenceCountFallback(t *testing.T) {
	notes := []ledger.CreditNote{
		{Reference: "CN-1"},
		{Reference: "CN-2"},
		{Reference: "CN-3"},
	}
	require.Equal(t, int64(4), NextSequence(notes))
}

func TestNextSequenceEmptyLedgerStartsAtOne(t *testing.T) {
	require.Equal(t, int64(1), NextSequence(nil))
}

func TestTimestampSequenceBounded(t *testing.T) {
	seq := timestampSequence(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	require.GreaterOrEqual(t, seq, int64(0))
	require.Less(t, seq, int64(100000))
}
