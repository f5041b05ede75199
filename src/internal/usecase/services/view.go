package services

import (
	"slices"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/domain"
	"github.com/api-sage/bankist/src/internal/format"
	"github.com/api-sage/bankist/src/internal/ledger"
	"github.com/shopspring/decimal"
)

func money(f format.Formatter, account domain.Account, amount decimal.Decimal) models.Money {
	return models.Money{
		Value:     amount,
		Formatted: f.FormatCurrency(amount, account.Locale, account.Currency),
	}
}

// movementRows lists the movements newest first. Index numbers follow the
// display order, so the top row carries the highest index.
func movementRows(f format.Formatter, account domain.Account, sorted bool) []models.MovementRow {
	order := ledger.DisplayIndices(account.Amounts(), sorted)

	rows := make([]models.MovementRow, 0, len(order))
	for pos, i := range order {
		mov := account.Movements[i]
		rows = append(rows, models.MovementRow{
			Index:         pos + 1,
			Type:          string(ledger.Classify(mov.Amount)),
			Amount:        money(f, account, mov.Amount),
			Date:          mov.Date,
			FormattedDate: f.FormatMovementDate(mov.Date),
		})
	}
	slices.Reverse(rows)
	return rows
}

func buildAccountView(f format.Formatter, account domain.Account, sorted bool) models.AccountView {
	summary := ledger.Summarize(account.Amounts(), account.InterestRate)

	return models.AccountView{
		Owner:    account.Owner,
		Username: account.Username,
		Locale:   account.Locale,
		Currency: account.Currency,
		Sorted:   sorted,
		Balance:  money(f, account, summary.Balance),
		Summary: models.SummaryView{
			In:       money(f, account, summary.Income),
			Out:      money(f, account, summary.Expense),
			Interest: money(f, account, summary.Interest),
		},
		Movements: movementRows(f, account, sorted),
	}
}
