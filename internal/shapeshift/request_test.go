package shapeshift

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRequest_Pairwise(t *testing.T) {
	t.Run("with pair", func(t *testing.T) {
		req := BuildRequest(OpRate, [2]string{"ltc", "btc"})
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, []string{"rate", "ltc_btc"}, req.Path)
		assert.Nil(t, req.Body)
	})

	t.Run("without pair requests all pairs", func(t *testing.T) {
		req := BuildRequest(OpMarketInfo, nil)
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, []string{"marketinfo"}, req.Path)
	})

	t.Run("uppercase canonical pair is lowercased", func(t *testing.T) {
		req := BuildRequest(OpLimit, [2]string{"BTC", "LTC"})
		assert.Equal(t, []string{"limit", "btc_ltc"}, req.Path)
	})

	t.Run("pre-encoded wire pair passes through", func(t *testing.T) {
		req := BuildRequest(OpRate, "Doge_LTC")
		assert.Equal(t, []string{"rate", "doge_ltc"}, req.Path)
	})
}

func TestBuildRequest_Post(t *testing.T) {
	req := BuildRequest(OpShift, map[string]any{
		"withdrawal":     "LabcDEF",
		"pair":           []string{"BTC", "LTC"},
		"return-address": "1XyZ",
	})

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, []string{"shift"}, req.Path)

	body, ok := req.Body.(map[string]any)
	if !ok {
		t.Fatalf("expected map body, got %T", req.Body)
	}
	assert.Equal(t, "btc_ltc", body["pair"])
	assert.Equal(t, "1XyZ", body["returnAddress"])
	assert.Equal(t, "LabcDEF", body["withdrawal"])
}

func TestBuildRequest_Default(t *testing.T) {
	t.Run("address lookup", func(t *testing.T) {
		req := BuildRequest(OpTxStat, "xxy")
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, []string{"txStat", "xxy"}, req.Path)
	})

	t.Run("numeric count", func(t *testing.T) {
		req := BuildRequest(OpRecentTx, 5)
		assert.Equal(t, []string{"recenttx", "5"}, req.Path)
	})

	t.Run("no argument", func(t *testing.T) {
		req := BuildRequest(OpGetCoins, nil)
		assert.Equal(t, []string{"getcoins"}, req.Path)
	})

	t.Run("free-form segments are escaped", func(t *testing.T) {
		req := BuildRequest(OpTimeRemaining, "ad/dr?x")
		assert.Equal(t, []string{"timeRemaining", "ad%2Fdr%3Fx"}, req.Path)
	})
}

func TestBuildRequest_Overrides(t *testing.T) {
	t.Run("validateAddress uppercases the currency", func(t *testing.T) {
		req := BuildRequest(OpValidateAddress, AddressValidation{
			Address:  "1XyZ",
			Currency: "btc",
		})
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, []string{"validateAddress", "1XyZ", "BTC"}, req.Path)
	})

	t.Run("txbyaddress carries the api key", func(t *testing.T) {
		req := BuildRequest(OpTxByAddress, TxByAddress{
			Address: "1XyZ",
			APIKey:  "secret key",
		})
		assert.Equal(t, []string{"txbyaddress", "1XyZ", "secret%20key"}, req.Path)
	})
}

func TestRequestURL(t *testing.T) {
	req := BuildRequest(OpRate, [2]string{"ltc", "btc"})
	assert.Equal(t, "https://shapeshift.io/rate/ltc_btc", req.URL("https://shapeshift.io"))
	assert.Equal(t, "https://shapeshift.io/rate/ltc_btc", req.URL("https://shapeshift.io/"))
}
