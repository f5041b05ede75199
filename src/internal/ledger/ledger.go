// Package ledger computes balances and summaries from a sequence of signed
// movement amounts. Every function is pure and leaves its input untouched.
package ledger

import (
	"slices"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	Deposit    MovementType = "deposit"
	Withdrawal MovementType = "withdrawal"
)

var (
	hundred = decimal.NewFromInt(100)

	// interest earned on a single deposit only counts from this amount up
	interestThreshold = decimal.NewFromInt(1)

	// a loan needs one movement worth at least this share of the request
	loanCoverRatio = decimal.NewFromFloat(0.1)
)

type Summary struct {
	Balance  decimal.Decimal
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Interest decimal.Decimal
}

func Classify(mov decimal.Decimal) MovementType {
	if mov.IsPositive() {
		return Deposit
	}
	return Withdrawal
}

func Balance(movs []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, mov := range movs {
		total = total.Add(mov)
	}
	return total
}

func TotalIncome(movs []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, mov := range movs {
		if mov.IsPositive() {
			total = total.Add(mov)
		}
	}
	return total
}

// TotalExpense sums the withdrawals and keeps their sign, so the result is
// zero or negative and Balance == TotalIncome + TotalExpense.
func TotalExpense(movs []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, mov := range movs {
		if mov.IsNegative() {
			total = total.Add(mov)
		}
	}
	return total
}

// QualifyingInterest sums deposit*rate/100 over the deposits whose own
// interest reaches the minimum accrual of 1.
func QualifyingInterest(movs []decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, mov := range movs {
		if !mov.IsPositive() {
			continue
		}
		term := mov.Mul(rate).Div(hundred)
		if term.LessThan(interestThreshold) {
			continue
		}
		total = total.Add(term)
	}
	return total
}

func Summarize(movs []decimal.Decimal, rate decimal.Decimal) Summary {
	return Summary{
		Balance:  Balance(movs),
		Income:   TotalIncome(movs),
		Expense:  TotalExpense(movs),
		Interest: QualifyingInterest(movs, rate),
	}
}

// DisplayIndices returns the positions of movs in display order: insertion
// order, or ascending by amount when sorted is set. Equal amounts keep their
// insertion order.
func DisplayIndices(movs []decimal.Decimal, sorted bool) []int {
	idx := make([]int, len(movs))
	for i := range idx {
		idx[i] = i
	}
	if sorted {
		slices.SortStableFunc(idx, func(a, b int) int {
			return movs[a].Cmp(movs[b])
		})
	}
	return idx
}

// DisplayOrder returns a copy of movs in display order.
func DisplayOrder(movs []decimal.Decimal, sorted bool) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(movs))
	for _, i := range DisplayIndices(movs, sorted) {
		out = append(out, movs[i])
	}
	return out
}

// QualifiesForLoan reports whether any movement covers a tenth of amount.
func QualifiesForLoan(movs []decimal.Decimal, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	floor := amount.Mul(loanCoverRatio)
	for _, mov := range movs {
		if mov.GreaterThanOrEqual(floor) {
			return true
		}
	}
	return false
}
