package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Movement is one signed entry in an account history: positive for a deposit,
// negative for a withdrawal.
type Movement struct {
	Amount decimal.Decimal
	Date   time.Time
}

type Account struct {
	Owner        string
	Username     string
	Movements    []Movement
	InterestRate decimal.Decimal
	PinHash      string
	Locale       string
	Currency     string
}

// Amounts returns the movement amounts in insertion order.
func (a Account) Amounts() []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(a.Movements))
	for _, mov := range a.Movements {
		out = append(out, mov.Amount)
	}
	return out
}

func (a Account) FirstName() string {
	fields := strings.Fields(a.Owner)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Clone returns a copy that shares no movement storage with a.
func (a Account) Clone() Account {
	cp := a
	cp.Movements = append([]Movement(nil), a.Movements...)
	return cp
}
