package shapeshift

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numericLikeRe is the exact grammar for numeric strings on the wire:
// optional leading minus, digits, optional single decimal point with
// trailing digits. Anything else stays a string.
var numericLikeRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// IsNumericLike reports whether s matches the wire numeric-string grammar.
func IsNumericLike(s string) bool { return numericLikeRe.MatchString(s) }

var currencyLikeRe = regexp.MustCompile(`^[A-Za-z]{3,6}$`)

// IsCurrencyLike reports whether s looks like a currency code: 3 to 6
// letters, checked case-insensitively.
func IsCurrencyLike(s string) bool { return currencyLikeRe.MatchString(s) }

// NumericParser converts a numeric-like wire string into its canonical
// value. One parser is applied uniformly to every numeric-like string in a
// single response pass.
type NumericParser func(s string) any

// ParseDecimal is the default numeric parser: an arbitrary-precision
// decimal parse. Strings the grammar admitted always parse, so the
// original string is kept on the (unreachable) failure path.
func ParseDecimal(s string) any {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d
}

// ParseString is an identity parser for callers who want numeric strings
// left untouched.
func ParseString(s string) any { return s }

// EncodePair converts a canonical currency pair to its wire form:
// lowercase codes joined by an underscore.
func EncodePair(pair [2]string) string {
	return strings.ToLower(pair[0]) + "_" + strings.ToLower(pair[1])
}

// DecodePair parses a wire pair string into its canonical form, two
// uppercase codes. ok is false when s is not a two-part underscore join.
// Decoding is idempotent over casing: any casing of the same pair decodes
// to the same canonical value.
func DecodePair(s string) (pair [2]string, ok bool) {
	left, right, found := strings.Cut(s, "_")
	if !found || left == "" || right == "" || strings.Contains(right, "_") {
		return pair, false
	}
	return [2]string{strings.ToUpper(left), strings.ToUpper(right)}, true
}

// CurrencyValueKeys lists the wire keys whose string value is itself a
// currency code and gets uppercased on the way in. Hand-maintained, like
// noCamelAliases: the remote key set is not formally specified.
var CurrencyValueKeys = map[string]struct{}{
	"depositType":    {},
	"withdrawalType": {},
	"incomingType":   {},
	"outgoingType":   {},
	"symbol":         {},
	"curIn":          {},
	"curOut":         {},
}

// kebabCase converts a camelCase or snake_case token to dash-separated
// lowercase: "incomingType" -> "incoming-type", "no_deposits" ->
// "no-deposits".
func kebabCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_':
			b.WriteByte('-')
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// camelCase converts a dash-separated canonical key back to wire camelCase:
// "incoming-type" -> "incomingType".
func camelCase(s string) string {
	parts := strings.Split(s, "-")
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

// canonicalKey converts a wire key to canonical casing. Keys that look
// like currency codes are preserved unchanged so that maps keyed by coin
// symbols (the coin listing) are not mangled.
func canonicalKey(k string) string {
	if IsCurrencyLike(k) {
		return k
	}
	return kebabCase(k)
}

// tidyIn converts a decoded wire value to canonical form: keys to
// canonical casing, pair strings to pairs, statuses to dashed lowercase,
// currency codes to uppercase, numeric-like strings through parse. The
// walk is depth-first and total; unrecognized shapes pass through.
func tidyIn(v any, parse NumericParser) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[canonicalKey(k)] = tidyInValue(k, elem, parse)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = tidyIn(elem, parse)
		}
		return out
	default:
		return v
	}
}

// tidyInValue applies the per-key value rules, dispatching on the original
// wire key. Rules only fire for string values; everything else recurses or
// passes through.
func tidyInValue(wireKey string, v any, parse NumericParser) any {
	if s, ok := v.(string); ok {
		switch {
		case wireKey == "pair":
			if pair, ok := DecodePair(s); ok {
				return pair
			}
			return s
		case wireKey == "status":
			return kebabCase(s)
		default:
			if _, ok := CurrencyValueKeys[wireKey]; ok {
				return strings.ToUpper(s)
			}
			if IsNumericLike(s) {
				return parse(s)
			}
			return s
		}
	}
	return tidyIn(v, parse)
}

// tidyOut converts a canonical value to wire form: keys to camelCase and
// pair fields to joined strings. Values are otherwise left alone; the
// remote accepts numbers and strings interchangeably.
func tidyOut(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			if k == "pair" {
				if pair, ok := asPair(elem); ok {
					out[k] = EncodePair(pair)
					continue
				}
			}
			out[camelCase(k)] = tidyOut(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = tidyOut(elem)
		}
		return out
	default:
		return v
	}
}

// asPair normalizes the accepted canonical pair representations.
func asPair(v any) ([2]string, bool) {
	switch p := v.(type) {
	case [2]string:
		return p, true
	case []string:
		if len(p) == 2 {
			return [2]string{p[0], p[1]}, true
		}
	case []any:
		if len(p) == 2 {
			l, lok := p[0].(string)
			r, rok := p[1].(string)
			if lok && rok {
				return [2]string{l, r}, true
			}
		}
	}
	return [2]string{}, false
}
