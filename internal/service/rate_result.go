package service

import (
	"time"

	"shiftservice/internal/repository"
)

// RateResult is the client-facing view of a rate update.
type RateResult struct {
	UpdateID  string     `json:"update_id"`
	Pair      string     `json:"pair"`
	Status    string     `json:"status"`
	Rate      *string    `json:"rate,omitempty"`
	Error     *string    `json:"error,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func resultFromUpdate(u *repository.RateUpdate) *RateResult {
	res := &RateResult{
		UpdateID: u.ID,
		Pair:     u.Base + "/" + u.Quote,
		Status:   string(u.Status),
	}
	switch u.Status {
	case repository.StatusSuccess:
		res.Rate = u.Rate
		res.UpdatedAt = u.UpdatedAt
	case repository.StatusFailed:
		res.Error = u.ErrorMsg
		res.UpdatedAt = u.UpdatedAt
	}
	return res
}
