// Package seed holds the starting accounts and turns seed records into
// domain accounts with generated usernames and hashed pins.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/api-sage/bankist/src/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Record struct {
	Owner        string            `json:"owner"`
	Movements    []decimal.Decimal `json:"movements"`
	InterestRate decimal.Decimal   `json:"interestRate"`
	Pin          int               `json:"pin"`
	Locale       string            `json:"locale"`
	Currency     string            `json:"currency"`
}

func ints(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.NewFromInt(v))
	}
	return out
}

func Defaults() []Record {
	return []Record{
		{
			Owner:        "Jonas Schmedtmann",
			Movements:    ints(200, 450, -400, 3000, -650, -130, 70, 1300),
			InterestRate: decimal.RequireFromString("1.2"),
			Pin:          1111,
			Locale:       "de-DE",
			Currency:     "EUR",
		},
		{
			Owner:        "Umar Ibn",
			Movements:    ints(5000, 3400, -150, -790, -3210, -1000, 8500, -30),
			InterestRate: decimal.RequireFromString("1.5"),
			Pin:          2222,
			Locale:       "ar-SY",
			Currency:     "SAR",
		},
		{
			Owner:        "Steven Thomas Williams",
			Movements:    ints(200, -200, 340, -300, -20, 50, 400, -460),
			InterestRate: decimal.RequireFromString("0.7"),
			Pin:          3333,
			Locale:       "en-GB",
			Currency:     "GBP",
		},
		{
			Owner:        "Asilbek Saidov",
			Movements:    ints(430, 1000, 700, 50, 90),
			InterestRate: decimal.NewFromInt(1),
			Pin:          4444,
			Locale:       "en-US",
			Currency:     "USD",
		},
	}
}

// LoadFile reads a JSON array of records.
func LoadFile(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %q: %w", path, err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode seed file %q: %w", path, err)
	}
	for i, r := range records {
		if strings.TrimSpace(r.Owner) == "" {
			return nil, fmt.Errorf("seed record %d: owner is required", i)
		}
		if strings.TrimSpace(r.Currency) == "" {
			return nil, fmt.Errorf("seed record %d: currency is required", i)
		}
	}
	return records, nil
}

// Build converts records into accounts. Movement i of n is dated n-1-i days
// before now, so the newest movement is dated now. A cost of zero uses the
// bcrypt default.
func Build(records []Record, now time.Time, cost int) ([]domain.Account, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	accounts := make([]domain.Account, 0, len(records))
	for _, r := range records {
		hash, err := bcrypt.GenerateFromPassword([]byte(domain.CanonicalPin(r.Pin)), cost)
		if err != nil {
			return nil, fmt.Errorf("hash pin for %q: %w", r.Owner, err)
		}

		n := len(r.Movements)
		movements := make([]domain.Movement, 0, n)
		for i, amount := range r.Movements {
			movements = append(movements, domain.Movement{
				Amount: amount,
				Date:   now.AddDate(0, 0, -(n - 1 - i)),
			})
		}

		locale := strings.TrimSpace(r.Locale)
		if locale == "" {
			locale = "en-US"
		}

		accounts = append(accounts, domain.Account{
			Owner:        strings.TrimSpace(r.Owner),
			Movements:    movements,
			InterestRate: r.InterestRate,
			PinHash:      string(hash),
			Locale:       locale,
			Currency:     strings.ToUpper(strings.TrimSpace(r.Currency)),
		})
	}

	domain.GenerateUsernames(accounts)
	return accounts, nil
}
