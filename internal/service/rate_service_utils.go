package service

import (
	"errors"
	"strings"

	"shiftservice/internal/shapeshift"
)

func normalizePair(base, quote string) (normBase, normQuote string, err error) {
	if !shapeshift.IsCurrencyLike(base) || !shapeshift.IsCurrencyLike(quote) {
		return "", "", ErrInvalidPairFormat
	}
	return strings.ToUpper(base), strings.ToUpper(quote), nil
}

// ErrInvalidPairFormat indicates the coin pair format is invalid.
var ErrInvalidPairFormat = errors.New("invalid coin code format")

// ErrInvalidUpdateID indicates the update ID format is invalid.
var ErrInvalidUpdateID = errors.New("invalid update_id")

// ErrInvalidAddress indicates a missing or malformed address argument.
var ErrInvalidAddress = errors.New("invalid address")

// ErrNotFound indicates the requested resource was not found.
var ErrNotFound = errors.New("not found")

// ErrInternal indicates an internal server error.
var ErrInternal = errors.New("internal error")

// ErrInternalQueue indicates an internal queue error.
var ErrInternalQueue = errors.New("internal queue error")

// ErrUpstream indicates the exchange API call failed.
var ErrUpstream = errors.New("upstream error")

// ParsePair splits a "BASE/QUOTE" string into its components and validates
// them. Coin codes are 3 to 6 letters; the exchange trades altcoins, so
// there is no fixed length-3 assumption.
func ParsePair(pair string) (base, quote string, err error) {
	parts := strings.Split(pair, "/")
	if len(parts) != 2 {
		return "", "", ErrInvalidPairFormat
	}
	return normalizePair(parts[0], parts[1])
}
