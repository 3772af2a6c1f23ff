package returns

import (
	"regexp"
	"strconv"
	"time"

	"github.com/ledgerbridge/ledgerbridge/internal/ledger"
)

var crnPattern = regexp.MustCompile(`^CRN(\d+)-`)

// NextSequence derives the next credit-note sequence number from the
// existing notes: one more than the highest CRN<n>- prefix seen. When
// no reference matches the scheme but notes exist, count+1 keeps the
// number moving forward. An empty ledger starts at 1.
//
// This is best-effort monotonicity only: two concurrent returns can
// list the same notes and compute the same number, since nothing
// coordinates the read and the later submit.
func NextSequence(notes []ledger.CreditNote) int64 {
	max := int64(-1)
	for _, note := range notes {
		m := crnPattern.FindStringSubmatch(note.Reference)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseInt(m[1], 10, 64); err == nil && v > max {
			max = v
		}
	}
	if max >= 0 {
		return max + 1
	}
	if len(notes) > 0 {
		return int64(len(notes)) + 1
	}
	return 1
}

// timestampSequence is the fallback when the listing call itself fails:
// a low-collision-risk value derived from the current instant.
func timestampSequence(t time.Time) int64 {
	return t.UnixMilli() % 100000
}
