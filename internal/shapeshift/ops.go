// Package shapeshift implements a client for the shapeshift.io REST API,
// translating between the API's inconsistent wire format and a canonical
// representation (dash-separated lowercase keys, uppercase currency codes,
// parsed decimal numbers).
package shapeshift

import "strings"

// Wire-level operation names as the remote API spells them. The casing is
// the API's own and is deliberately inconsistent.
const (
	OpRate            = "rate"
	OpLimit           = "limit"
	OpMarketInfo      = "marketinfo"
	OpRecentTx        = "recenttx"
	OpTxStat          = "txStat"
	OpTimeRemaining   = "timeRemaining"
	OpGetCoins        = "getcoins"
	OpValidateAddress = "validateAddress"
	OpShift           = "shift"
	OpSendAmount      = "sendamount"
	OpCancelPending   = "cancelpending"
	OpMail            = "mail"
	OpTxByAddress     = "txbyaddress"
)

// TagSet is a bitmask of category tags attached to an operation. Tags drive
// request building and response classification; they are not mutually
// exclusive.
type TagSet uint8

// Category tags.
const (
	// TagPairwise marks operations keyed by a currency pair. The pair
	// argument may be omitted to request the all-pairs variant.
	TagPairwise TagSet = 1 << iota
	// TagPost marks operations that submit their argument as a JSON body.
	TagPost
	// TagNumericResponse marks operations whose response is a single
	// numeric field named after the operation.
	TagNumericResponse
)

// Has reports whether every tag in t is present in the set.
func (s TagSet) Has(t TagSet) bool { return s&t == t }

// opTags is the closed taxonomy table. Operations absent from it get
// default handling; nothing is inferred from naming.
var opTags = map[string]TagSet{
	OpRate:          TagPairwise | TagNumericResponse,
	OpLimit:         TagPairwise | TagNumericResponse,
	OpMarketInfo:    TagPairwise,
	OpShift:         TagPost,
	OpSendAmount:    TagPost,
	OpCancelPending: TagPost,
	OpMail:          TagPost,
}

// OpTags returns the category tags for a wire operation name. Unknown
// operations return the empty set.
func OpTags(op string) TagSet { return opTags[op] }

// noCamelAliases lists the hyphenated aliases whose wire name is produced
// by hyphen removal alone. The remote API spells these all-lowercase, so
// camelCasing them would produce a wrong endpoint. Hand-maintained; extend
// it if the API grows another lowercase multi-word endpoint.
var noCamelAliases = map[string]struct{}{
	"market-info":    {},
	"get-coins":      {},
	"send-amount":    {},
	"cancel-pending": {},
	"tx-by-address":  {},
	"recent-tx":      {},
}

// ResolveOp maps a caller-supplied operation identifier to its wire name.
// Identifiers without hyphens are assumed to already be wire names and pass
// through unchanged. Hyphenated aliases either have their hyphens stripped
// (for the noCamelAliases set) or are camelCased: first word as-is, each
// later word capitalized.
func ResolveOp(identifier string) string {
	if !strings.Contains(identifier, "-") {
		return identifier
	}
	if _, ok := noCamelAliases[identifier]; ok {
		return strings.ReplaceAll(identifier, "-", "")
	}

	parts := strings.Split(identifier, "-")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
