package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeShiftProvider_GetRate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rate/ltc_btc", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"pair":"ltc_btc","rate":"0.0062122"}`))
		}))
		defer srv.Close()

		p := NewShapeShiftProvider(srv.URL, 5)
		rate, ts, err := p.GetRate(context.Background(), "LTC", "BTC")

		assert.NoError(t, err)
		assert.Equal(t, "0.0062122", rate)
		assert.False(t, ts.IsZero())
	})

	t.Run("remote error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"error":"Unknown pair"}`))
		}))
		defer srv.Close()

		p := NewShapeShiftProvider(srv.URL, 5)
		_, _, err := p.GetRate(context.Background(), "LTC", "XYZ")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown pair")
	})
}
