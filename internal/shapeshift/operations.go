package shapeshift

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Per-operation convenience methods. Each is a passthrough to Call with
// the operation's natural argument and result shapes.

// Rate returns the market rate for one pair.
func (c *Client) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	return c.callDecimal(ctx, OpRate, [2]string{from, to})
}

// RateAll returns the rates for every pair the service trades.
func (c *Client) RateAll(ctx context.Context) (any, error) {
	return c.Call(ctx, OpRate, nil)
}

// Limit returns the deposit limit for one pair.
func (c *Client) Limit(ctx context.Context, from, to string) (decimal.Decimal, error) {
	return c.callDecimal(ctx, OpLimit, [2]string{from, to})
}

// MarketInfo returns rate, limits and fee for one pair, or for all pairs
// when the pair is omitted.
func (c *Client) MarketInfo(ctx context.Context, pair ...[2]string) (any, error) {
	var arg any
	if len(pair) > 0 {
		arg = pair[0]
	}
	return c.Call(ctx, OpMarketInfo, arg)
}

// GetCoins returns the coin listing keyed by currency code.
func (c *Client) GetCoins(ctx context.Context) (map[string]any, error) {
	return c.callMap(ctx, OpGetCoins, nil)
}

// RecentTx returns up to max recent transactions.
func (c *Client) RecentTx(ctx context.Context, max int) (any, error) {
	return c.Call(ctx, OpRecentTx, max)
}

// TxStat returns the status of the transaction at a deposit address.
func (c *Client) TxStat(ctx context.Context, address string) (map[string]any, error) {
	return c.callMap(ctx, OpTxStat, address)
}

// TimeRemaining returns the seconds left on a fixed-amount transaction
// window.
func (c *Client) TimeRemaining(ctx context.Context, address string) (map[string]any, error) {
	return c.callMap(ctx, OpTimeRemaining, address)
}

// ValidateAddress asks the service whether address is valid for the given
// currency. A verdict is returned even when the service also sets its
// error marker.
func (c *Client) ValidateAddress(ctx context.Context, address, currency string) (bool, error) {
	v, err := c.Call(ctx, OpValidateAddress, AddressValidation{Address: address, Currency: currency})
	if err != nil {
		return false, err
	}
	valid, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("shapeshift %s: unexpected verdict type %T", OpValidateAddress, v)
	}
	return valid, nil
}

// Shift opens a transaction. params is a canonical mapping (withdrawal,
// pair, return-address, ...); keys are camelCased on the way out.
func (c *Client) Shift(ctx context.Context, params map[string]any) (map[string]any, error) {
	return c.callMap(ctx, OpShift, params)
}

// SendAmount requests a fixed-amount transaction quote. The nested success
// payload is unwrapped before normalization.
func (c *Client) SendAmount(ctx context.Context, params map[string]any) (map[string]any, error) {
	return c.callMap(ctx, OpSendAmount, params)
}

// CancelPending cancels the pending transaction at a deposit address.
func (c *Client) CancelPending(ctx context.Context, address string) (map[string]any, error) {
	return c.callMap(ctx, OpCancelPending, map[string]any{"address": address})
}

// Mail requests an email receipt. The response payload is opaque free text
// and is passed through untyped.
func (c *Client) Mail(ctx context.Context, params map[string]any) (any, error) {
	return c.Call(ctx, OpMail, params)
}

// TxByAddressKey returns transactions involving an address, authorized by
// the supplied key.
func (c *Client) TxByAddressKey(ctx context.Context, address, apiKey string) (any, error) {
	return c.Call(ctx, OpTxByAddress, TxByAddress{Address: address, APIKey: apiKey})
}

// TxByAddress is TxByAddressKey with the client's configured API key.
func (c *Client) TxByAddress(ctx context.Context, address string) (any, error) {
	return c.TxByAddressKey(ctx, address, c.apiKey)
}

func (c *Client) callDecimal(ctx context.Context, op string, arg any) (decimal.Decimal, error) {
	v, err := c.Call(ctx, op, arg)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, ok := v.(decimal.Decimal)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("shapeshift %s: unexpected value type %T", op, v)
	}
	return d, nil
}

func (c *Client) callMap(ctx context.Context, op string, arg any) (map[string]any, error) {
	v, err := c.Call(ctx, op, arg)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("shapeshift %s: unexpected response shape %T", op, v)
	}
	return m, nil
}
