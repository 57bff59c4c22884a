package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"shiftservice/internal/service"
)

// UpdateRequest represents the request body for a rate update
type UpdateRequest struct {
	Pair string `json:"pair" example:"LTC/BTC"`
}

// UpdateResponse represents the response for a rate update request
type UpdateResponse struct {
	UpdateID string `json:"update_id" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// RateResponse represents the response for a rate update by ID
type RateResponse struct {
	UpdateID  string  `json:"update_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Pair      string  `json:"pair" example:"LTC/BTC"`
	Status    string  `json:"status" example:"SUCCESS"`
	Rate      *string `json:"rate,omitempty" example:"0.02115794"`
	UpdatedAt *string `json:"updated_at,omitempty" example:"2026-08-01T10:15:30Z"`
	Error     *string `json:"error,omitempty" example:"upstream error"`
}

// LatestResponse represents the response for the latest rate
type LatestResponse struct {
	Pair      string `json:"pair" example:"LTC/BTC"`
	Rate      string `json:"rate" example:"0.02115794"`
	UpdatedAt string `json:"updated_at" example:"2026-08-01T10:15:30Z"`
}

// HandleRequestUpdate initiates an asynchronous rate update for a coin pair.
// It returns immediately with an update_id for tracking and never blocks on
// the external fetch.
func HandleRequestUpdate(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Pair string `json:"pair"`
		}
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
			return
		}
		pair := strings.TrimSpace(req.Pair)
		if pair == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "pair is required"})
			return
		}
		updateID, _, err := svc.RequestRateUpdate(r.Context(), pair)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidPairFormat), errors.Is(err, service.ErrUnsupportedCurrency):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		resp := UpdateResponse{UpdateID: updateID}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleGetRateByID retrieves the status and result of a rate update request
// by its update_id.
func HandleGetRateByID(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updateID := chi.URLParam(r, "update_id")
		if updateID == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "update_id is required"})
			return
		}

		res, err := svc.GetRateResult(r.Context(), updateID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidUpdateID):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			case errors.Is(err, service.ErrNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Unknown update_id"})
			default:
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, RateResponse{
			UpdateID:  res.UpdateID,
			Pair:      res.Pair,
			Status:    res.Status,
			Rate:      res.Rate,
			UpdatedAt: formatTime(res.UpdatedAt),
			Error:     res.Error,
		})
	}
}

// HandleGetLatestRate returns the most recent successful rate for the given
// coin pair. It does not trigger a new fetch, only cached/stored data.
func HandleGetLatestRate(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := r.URL.Query().Get("base")
		quote := r.URL.Query().Get("quote")
		if base == "" || quote == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "base and quote query params are required"})
			return
		}
		latest, err := svc.GetLatestRate(r.Context(), base, quote)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidPairFormat), errors.Is(err, service.ErrUnsupportedCurrency):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			case errors.Is(err, service.ErrNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "No rate available for " + strings.ToUpper(base) + "/" + strings.ToUpper(quote)})
			default:
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, LatestResponse{
			Pair:      latest.Pair,
			Rate:      derefStr(latest.Rate),
			UpdatedAt: derefStr(formatTime(latest.UpdatedAt)),
		})
	}
}

// HandleGetCoins returns the exchange's tradable coin directory. The payload
// shape is defined by the upstream API and passed through as-is.
func HandleGetCoins(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coins, err := svc.Coins(r.Context())
		if err != nil {
			writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Upstream error"})
			return
		}
		writeJSON(w, http.StatusOK, coins)
	}
}

// HandleGetMarketInfo returns market limits and fees for a coin pair given as
// "BASE-QUOTE", or for all markets when the pair segment is omitted.
func HandleGetMarketInfo(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var base, quote string
		if pair := chi.URLParam(r, "pair"); pair != "" {
			var ok bool
			base, quote, ok = strings.Cut(pair, "-")
			if !ok {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "pair must be in BASE-QUOTE form"})
				return
			}
		}

		info, err := svc.MarketInfo(r.Context(), base, quote)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidPairFormat):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Upstream error"})
			}
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// HandleGetTxStatus reports the deposit status of an exchange deposit address.
func HandleGetTxStatus(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := chi.URLParam(r, "address")
		if address == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "address is required"})
			return
		}

		stat, err := svc.TxStatus(r.Context(), address)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidAddress):
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			default:
				writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Upstream error"})
			}
			return
		}
		writeJSON(w, http.StatusOK, stat)
	}
}
