package service

import (
	"errors"
	"strings"

	"shiftservice/internal/shapeshift"
)

// ErrUnsupportedCurrency is returned when a coin is not in the supported list.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Validator defines the interface for coin code validation.
type Validator interface {
	Validate(code string) error
	IsSupported(code string) bool
}

type validator struct {
	// coins limits the accepted codes when non-empty. The exchange lists
	// its tradable coins at runtime, so the set is supplied by the caller
	// rather than hardcoded here.
	coins map[string]struct{}
}

// NewValidator creates a coin validator. With no arguments any
// well-formed coin code is accepted; passing coin codes restricts
// validation to that set.
func NewValidator(coins ...string) Validator {
	v := &validator{}
	if len(coins) > 0 {
		v.coins = make(map[string]struct{}, len(coins))
		for _, c := range coins {
			v.coins[strings.ToUpper(c)] = struct{}{}
		}
	}
	return v
}

// Validate checks if the coin code is supported (case-insensitive).
func (v *validator) Validate(code string) error {
	if v.IsSupported(code) {
		return nil
	}
	return ErrUnsupportedCurrency
}

// IsSupported returns true if the coin code is supported (case-insensitive).
func (v *validator) IsSupported(code string) bool {
	if !shapeshift.IsCurrencyLike(code) {
		return false
	}
	if v.coins == nil {
		return true
	}
	_, ok := v.coins[strings.ToUpper(code)]
	return ok
}
