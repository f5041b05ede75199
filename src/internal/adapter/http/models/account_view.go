package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Money struct {
	Value     decimal.Decimal `json:"value"`
	Formatted string          `json:"formatted"`
}

// MovementRow is one line of the movement list. Index is the 1-based
// position in display order; rows are listed newest first.
type MovementRow struct {
	Index         int       `json:"index"`
	Type          string    `json:"type"`
	Amount        Money     `json:"amount"`
	Date          time.Time `json:"date"`
	FormattedDate string    `json:"formattedDate"`
}

type SummaryView struct {
	In       Money `json:"in"`
	Out      Money `json:"out"`
	Interest Money `json:"interest"`
}

type AccountView struct {
	Owner     string        `json:"owner"`
	Username  string        `json:"username"`
	Locale    string        `json:"locale"`
	Currency  string        `json:"currency"`
	Sorted    bool          `json:"sorted"`
	Balance   Money         `json:"balance"`
	Summary   SummaryView   `json:"summary"`
	Movements []MovementRow `json:"movements"`
}

type MovementsResponse struct {
	Sorted    bool          `json:"sorted"`
	Movements []MovementRow `json:"movements"`
}
