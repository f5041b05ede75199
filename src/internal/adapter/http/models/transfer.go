package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type TransferRequest struct {
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Validate checks the shape of the request. Amount rules are enforced by
// the transfer itself so they can be reported with their own code.
func (r TransferRequest) Validate() error {
	if strings.TrimSpace(r.To) == "" {
		return errors.New("to is required")
	}
	return nil
}

type TransferResponse struct {
	To      string      `json:"to"`
	Amount  Money       `json:"amount"`
	Timer   string      `json:"timer"`
	Account AccountView `json:"account"`
}
