package ledger

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amounts(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.NewFromInt(v))
	}
	return out
}

func strs(movs []decimal.Decimal) []string {
	out := make([]string, 0, len(movs))
	for _, mov := range movs {
		out = append(out, mov.String())
	}
	return out
}

func randomMovements(r *rand.Rand) []decimal.Decimal {
	n := 1 + r.Intn(20)
	out := make([]decimal.Decimal, 0, n)
	for i := 0; i < n; i++ {
		cents := r.Int63n(1_000_000) - 500_000
		out = append(out, decimal.New(cents, -2))
	}
	return out
}

func TestBalanceOfSeedAccount(t *testing.T) {
	movs := amounts(200, 450, -400, 3000, -650, -130, 70, 1300)

	assert.Equal(t, "3840", Balance(movs).String())
	assert.Equal(t, "5020", TotalIncome(movs).String())
	assert.Equal(t, "-1180", TotalExpense(movs).String())
}

func TestEmptyMovementsYieldZero(t *testing.T) {
	assert.True(t, Balance(nil).IsZero())
	assert.True(t, TotalIncome(nil).IsZero())
	assert.True(t, TotalExpense(nil).IsZero())
	assert.True(t, QualifyingInterest(nil, decimal.NewFromInt(1)).IsZero())
}

func TestBalanceEqualsIncomePlusExpense(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		movs := randomMovements(r)
		got := TotalIncome(movs).Add(TotalExpense(movs))
		require.True(t, Balance(movs).Equal(got), "movements %v", strs(movs))
		require.False(t, TotalExpense(movs).IsPositive())
	}
}

func TestQualifyingInterestSkipsSmallTermsAndWithdrawals(t *testing.T) {
	// at 1.2%: 200 -> 2.4, 450 -> 5.4, 3000 -> 36, 70 -> 0.84 (dropped), 1300 -> 15.6
	movs := amounts(200, 450, -400, 3000, -650, -130, 70, 1300)

	got := QualifyingInterest(movs, decimal.NewFromFloat(1.2))

	assert.Equal(t, "59.4", got.String())
}

func TestQualifyingInterestThresholdIsInclusive(t *testing.T) {
	got := QualifyingInterest(amounts(100, 99), decimal.NewFromInt(1))

	assert.Equal(t, "1", got.String())
}

func TestQualifyingInterestNeverCountsNonDeposits(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	rate := decimal.NewFromFloat(1.5)
	for i := 0; i < 200; i++ {
		movs := randomMovements(r)

		want := decimal.Zero
		for _, mov := range movs {
			term := mov.Mul(rate).Div(decimal.NewFromInt(100))
			if mov.IsPositive() && term.GreaterThanOrEqual(decimal.NewFromInt(1)) {
				want = want.Add(term)
			}
		}

		require.True(t, want.Equal(QualifyingInterest(movs, rate)), "movements %v", strs(movs))
	}
}

func TestDisplayOrderUnsortedIsIdentity(t *testing.T) {
	movs := amounts(200, -200, 340, -300, -20, 50, 400, -460)

	got := DisplayOrder(movs, false)

	assert.Equal(t, movs, got)
}

func TestDisplayOrderSortedAscendingWithoutMutatingSource(t *testing.T) {
	movs := amounts(200, -200, 340, -300, -20, 50, 400, -460)
	before := strs(movs)

	got := DisplayOrder(movs, true)

	assert.Equal(t, []string{"-460", "-300", "-200", "-20", "50", "200", "340", "400"}, strs(got))
	assert.Equal(t, before, strs(movs))
}

func TestDisplayOrderSortedIsSameMultiset(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for i := 0; i < 100; i++ {
		movs := randomMovements(r)
		got := DisplayOrder(movs, true)

		require.True(t, sort.SliceIsSorted(got, func(a, b int) bool { return got[a].LessThan(got[b]) }))
		assert.ElementsMatch(t, strs(movs), strs(got))
	}
}

func TestDisplayIndicesStableForEqualAmounts(t *testing.T) {
	movs := amounts(5, 1, 5, 1)

	assert.Equal(t, []int{1, 3, 0, 2}, DisplayIndices(movs, true))
	assert.Equal(t, []int{0, 1, 2, 3}, DisplayIndices(movs, false))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Deposit, Classify(decimal.NewFromInt(1)))
	assert.Equal(t, Withdrawal, Classify(decimal.NewFromInt(-1)))
	assert.Equal(t, Withdrawal, Classify(decimal.Zero))
}

func TestQualifiesForLoan(t *testing.T) {
	movs := amounts(430, 1000, 700, 50, 90)

	assert.True(t, QualifiesForLoan(movs, decimal.NewFromInt(10000)))
	assert.False(t, QualifiesForLoan(movs, decimal.NewFromInt(10001)))
	assert.False(t, QualifiesForLoan(movs, decimal.Zero))
	assert.False(t, QualifiesForLoan(nil, decimal.NewFromInt(1)))
}

func TestSummarize(t *testing.T) {
	movs := amounts(430, 1000, 700, 50, 90)

	s := Summarize(movs, decimal.NewFromInt(1))

	assert.Equal(t, "2270", s.Balance.String())
	assert.Equal(t, "2270", s.Income.String())
	assert.True(t, s.Expense.IsZero())
	// 430 -> 4.3, 1000 -> 10, 700 -> 7; 50 and 90 fall under the threshold
	assert.Equal(t, "21.3", s.Interest.String())
}
