// Package ident generates the human-facing reference codes printed on
// confirmations, receipts and staff dashboards.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

const (
	PrefixBooking      = "GIN"
	PrefixWalkIn       = "BOOK"
	PrefixOrder        = "ORD"
	PrefixReservation  = "AG"
	PrefixHousekeeping = "HK"
	PrefixInvoice      = "INV"
)

const suffixLen = 10

// NewReference returns prefix-XXXXXXXXXX using random uuid bits, uppercased.
func NewReference(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:suffixLen])
}

// HasPrefix reports whether ref was produced by NewReference with prefix.
func HasPrefix(ref, prefix string) bool {
	return strings.HasPrefix(ref, prefix+"-") && len(ref) == len(prefix)+1+suffixLen
}
