package shared

import "time"

// LedgerZone is the ledger's local civil-time offset. Dates submitted
// upstream are civil dates in this zone regardless of server locale.
var LedgerZone = time.FixedZone("UTC+3", 3*60*60)

// CivilDate formats an instant as the ledger's YYYY-MM-DD civil date.
func CivilDate(t time.Time) string {
	return t.In(LedgerZone).Format("2006-01-02")
}
