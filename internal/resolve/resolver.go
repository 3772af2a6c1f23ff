// Package resolve normalizes the heterogeneous record shapes the ledger
// returns. Fields arrive under several possible names or embedded
// objects; each canonical value is produced by an ordered fallback
// chain, optionally finished by one best-effort secondary lookup.
package resolve

import (
	"context"
	"log/slog"

	"github.com/ledgerbridge/ledgerbridge/internal/ledger"
)

// Unknown is the sentinel returned when no strategy in a chain yields a
// value.
const Unknown = "unknown"

// Step produces a candidate value for a field; empty means try the next
// step.
type Step func(r *ledger.Record) string

// Chain is an ordered list of field-access strategies tried in sequence
// until one yields a non-empty value.
type Chain []Step

// Resolve runs the chain and reports whether any step matched.
func (c Chain) Resolve(r *ledger.Record) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, step := range c {
		if v := step(r); v != "" {
			return v, true
		}
	}
	return "", false
}

// ContactNameChain covers the in-record contact name variants. A
// contact_id-based lookup is appended by Resolver.ContactName.
var ContactNameChain = Chain{
	func(r *ledger.Record) string { return r.ContactName },
	func(r *ledger.Record) string {
		if r.Contact == nil {
			return ""
		}
		if r.Contact.Name != "" {
			return r.Contact.Name
		}
		return r.Contact.Organization
	},
}

// UserNameChain resolves the creator's display name.
var UserNameChain = Chain{
	func(r *ledger.Record) string {
		if r.User == nil {
			return ""
		}
		return r.User.Name
	},
	func(r *ledger.Record) string {
		if r.User == nil {
			return ""
		}
		return r.User.FullName
	},
}

// InventoryNameChain resolves the warehouse display name.
var InventoryNameChain = Chain{
	func(r *ledger.Record) string {
		if r.Inventory == nil {
			return ""
		}
		return r.Inventory.Name
	},
	func(r *ledger.Record) string {
		if r.Location == nil {
			return ""
		}
		return r.Location.Name
	},
}

// ContactLookup is the slice of the ledger client the resolver needs for
// secondary contact lookups.
type ContactLookup interface {
	GetCustomer(ctx context.Context, id ledger.ID) (*ledger.Contact, error)
	GetVendor(ctx context.Context, id ledger.ID) (*ledger.Contact, error)
}

// Resolver produces canonical display values from partially populated
// records.
type Resolver struct {
	contacts ContactLookup
	logger   *slog.Logger
}

// NewResolver builds Resolver instance.
func NewResolver(contacts ContactLookup, logger *slog.Logger) *Resolver {
	return &Resolver{contacts: contacts, logger: logger}
}

// ContactName resolves the counterparty display name. When the in-record
// chain fails and a contact id exists, one lookup is attempted against
// customers (sales) or vendors (purchases). Lookup failures are
// swallowed: enrichment must never fail the primary operation.
func (rv *Resolver) ContactName(ctx context.Context, rec *ledger.Record, res ledger.Resource) string {
	if name, ok := ContactNameChain.Resolve(rec); ok {
		return name
	}
	if rec == nil || rec.ContactID.IsZero() || rv.contacts == nil {
		return Unknown
	}

	var contact *ledger.Contact
	var err error
	if res == ledger.ResourceBills {
		contact, err = rv.contacts.GetVendor(ctx, rec.ContactID)
	} else {
		contact, err = rv.contacts.GetCustomer(ctx, rec.ContactID)
	}
	if err != nil {
		if rv.logger != nil {
			rv.logger.Debug("contact enrichment failed", slog.String("contact_id", rec.ContactID.String()), slog.Any("error", err))
		}
		return Unknown
	}
	if contact.Name != "" {
		return contact.Name
	}
	if contact.Organization != "" {
		return contact.Organization
	}
	return Unknown
}

// UserName resolves the creator display name.
func (rv *Resolver) UserName(rec *ledger.Record) string {
	if name, ok := UserNameChain.Resolve(rec); ok {
		return name
	}
	return Unknown
}

// InventoryName resolves the warehouse display name.
func (rv *Resolver) InventoryName(rec *ledger.Record) string {
	if name, ok := InventoryNameChain.Resolve(rec); ok {
		return name
	}
	return Unknown
}

// UnitType returns the first non-empty of the unit-of-measure variants
// on a line item. The value must survive into generated credit note
// lines unchanged; dropping it causes unit mismatches downstream.
func UnitType(li ledger.LineItem) string {
	if li.UnitType != "" {
		return li.UnitType
	}
	if !li.UnitTypeID.IsZero() {
		return li.UnitTypeID.String()
	}
	return li.UnitID.String()
}

// InventoryID picks the credit-note inventory in priority order:
// record-level inventory id, then location id, then the first line
// item's inventory id. The empty result means the caller must fail
// before any mutating call; a credit note cannot exist without one.
func InventoryID(rec *ledger.Record) ledger.ID {
	if rec == nil {
		return ""
	}
	if !rec.InventoryID.IsZero() {
		return rec.InventoryID
	}
	if !rec.LocationID.IsZero() {
		return rec.LocationID
	}
	if len(rec.LineItems) > 0 {
		return rec.LineItems[0].InventoryID
	}
	return ""
}
