package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const LoanStatusPending = "pending"

type LoanRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type LoanResponse struct {
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	CreditAt time.Time       `json:"creditAt"`
	Timer    string          `json:"timer"`
}
