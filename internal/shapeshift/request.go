package shapeshift

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request is a transport-agnostic descriptor of one API call: ordered path
// segments (already percent-encoded where free-form), an HTTP method, and
// an optional wire-form JSON body.
type Request struct {
	Method string
	Path   []string
	Body   any
}

// URL joins the descriptor's path segments onto a base URL.
func (r Request) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.Join(r.Path, "/")
}

// AddressValidation is the argument for the validateAddress operation.
type AddressValidation struct {
	Address  string
	Currency string
}

// TxByAddress is the argument for the txbyaddress operation.
type TxByAddress struct {
	Address string
	APIKey  string
}

// BuildRequest turns an operation plus optional argument into a Request.
// Dispatch order, most specific first: per-operation overrides, then the
// Pairwise tag, then the Post tag, then default single-segment handling.
// The builder is pure and never rejects: a malformed argument yields a
// descriptor the transport will fail on, not an error here.
func BuildRequest(op string, arg any) Request {
	switch op {
	case OpValidateAddress:
		v, _ := arg.(AddressValidation)
		return Request{
			Method: http.MethodGet,
			Path:   []string{op, url.PathEscape(v.Address), strings.ToUpper(v.Currency)},
		}
	case OpTxByAddress:
		v, _ := arg.(TxByAddress)
		return Request{
			Method: http.MethodGet,
			Path:   []string{op, url.PathEscape(v.Address), url.PathEscape(v.APIKey)},
		}
	}

	tags := OpTags(op)
	switch {
	case tags.Has(TagPairwise):
		path := []string{op}
		if arg != nil {
			path = append(path, pairSegment(arg))
		}
		return Request{Method: http.MethodGet, Path: path}

	case tags.Has(TagPost):
		return Request{
			Method: http.MethodPost,
			Path:   []string{op},
			Body:   tidyOut(arg),
		}

	default:
		path := []string{op}
		if arg != nil {
			path = append(path, url.PathEscape(argSegment(arg)))
		}
		return Request{Method: http.MethodGet, Path: path}
	}
}

// pairSegment renders a pair argument as the wire "lhs_rhs" segment.
// An already-encoded wire string is lowercased and passed through.
func pairSegment(arg any) string {
	if pair, ok := asPair(arg); ok {
		return EncodePair(pair)
	}
	if s, ok := arg.(string); ok {
		return strings.ToLower(s)
	}
	return fmt.Sprint(arg)
}

// argSegment renders a default-operation argument (an address, a count) as
// a single path segment.
func argSegment(arg any) string {
	if s, ok := arg.(string); ok {
		return s
	}
	return fmt.Sprint(arg)
}
