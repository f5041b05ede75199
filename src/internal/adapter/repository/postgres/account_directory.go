package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/domain"
	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type AccountDirectory struct {
	db *sql.DB
}

func NewAccountDirectory(db *sql.DB) *AccountDirectory {
	return &AccountDirectory{db: db}
}

const firstAccountID = `
SELECT id
FROM accounts
WHERE username = $1
ORDER BY id
LIMIT 1`

func (r *AccountDirectory) FindByUsername(ctx context.Context, username string) (domain.Account, error) {
	const query = `
SELECT id, owner, username, interest_rate, pin_hash, locale, currency
FROM accounts
WHERE username = $1
ORDER BY id
LIMIT 1`

	var id int64
	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, username).Scan(
		&id,
		&account.Owner,
		&account.Username,
		&account.InterestRate,
		&account.PinHash,
		&account.Locale,
		&account.Currency,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account directory find failed", err, logger.Fields{"username": username})
		return domain.Account{}, fmt.Errorf("find account by username: %w", err)
	}

	movements, err := r.movementsFor(ctx, []int64{id})
	if err != nil {
		return domain.Account{}, err
	}
	account.Movements = movements[id]

	return account, nil
}

func (r *AccountDirectory) RemoveAccount(ctx context.Context, username string) error {
	query := `DELETE FROM accounts WHERE id = (` + firstAccountID + `)`

	result, err := r.db.ExecContext(ctx, query, username)
	if err != nil {
		logger.Error("account directory remove failed", err, logger.Fields{"username": username})
		return fmt.Errorf("remove account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove account rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("remove account %q: %w", username, commons.ErrRecordNotFound)
	}

	logger.Info("account directory remove success", logger.Fields{"username": username})
	return nil
}

func (r *AccountDirectory) AppendMovement(ctx context.Context, username string, mov domain.Movement) error {
	query := `
INSERT INTO movements (account_id, amount, occurred_at)
SELECT id, $2::numeric, $3 FROM (` + firstAccountID + `) AS target`

	result, err := r.db.ExecContext(ctx, query, username, mov.Amount.String(), movementTime(mov.Date))
	if err != nil {
		logger.Error("account directory append movement failed", err, logger.Fields{
			"username": username,
			"amount":   mov.Amount.String(),
		})
		return fmt.Errorf("append movement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("append movement rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("append movement to %q: %w", username, commons.ErrRecordNotFound)
	}
	return nil
}

// Transfer locks both account rows in id order, re-reads the sender balance
// and writes the debit and credit in one transaction.
func (r *AccountDirectory) Transfer(ctx context.Context, from string, to string, amount decimal.Decimal, at time.Time) error {
	if !amount.IsPositive() {
		return commons.ErrInvalidAmount
	}
	if from == to {
		return commons.ErrSameAccount
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	fromID, err := lookupID(ctx, tx, from)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("transfer from %q: %w", from, commons.ErrRecordNotFound)
		}
		return err
	}
	toID, err := lookupID(ctx, tx, to)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("transfer to %q: %w", to, commons.ErrRecipientNotFound)
		}
		return err
	}

	rows, err := tx.QueryContext(ctx, `SELECT id FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`, pq.Array([]int64{fromID, toID}))
	if err != nil {
		return fmt.Errorf("lock transfer accounts: %w", err)
	}
	locked := 0
	for rows.Next() {
		locked++
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("lock transfer accounts: %w", err)
	}
	if locked != 2 {
		return fmt.Errorf("transfer %q to %q: %w", from, to, commons.ErrRecordNotFound)
	}

	var balance decimal.Decimal
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM movements WHERE account_id = $1`, fromID).Scan(&balance); err != nil {
		return fmt.Errorf("read sender balance: %w", err)
	}
	if balance.LessThan(amount) {
		return commons.ErrInsufficientBalance
	}

	const insert = `INSERT INTO movements (account_id, amount, occurred_at) VALUES ($1, $2::numeric, $3)`
	if _, err := tx.ExecContext(ctx, insert, fromID, amount.Neg().String(), movementTime(at)); err != nil {
		return fmt.Errorf("debit sender: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insert, toID, amount.String(), movementTime(at)); err != nil {
		return fmt.Errorf("credit recipient: %w", err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("account directory transfer commit failed", err, logger.Fields{"from": from, "to": to})
		return fmt.Errorf("commit transfer: %w", err)
	}

	logger.Info("account directory transfer success", logger.Fields{
		"from":   from,
		"to":     to,
		"amount": amount.String(),
	})
	return nil
}

func (r *AccountDirectory) List(ctx context.Context) ([]domain.Account, error) {
	const query = `
SELECT id, owner, username, interest_rate, pin_hash, locale, currency
FROM accounts
ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var ids []int64
	var accounts []domain.Account
	for rows.Next() {
		var id int64
		var account domain.Account
		if err := rows.Scan(&id, &account.Owner, &account.Username, &account.InterestRate, &account.PinHash, &account.Locale, &account.Currency); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		ids = append(ids, id)
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	movements, err := r.movementsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		accounts[i].Movements = movements[id]
	}
	return accounts, nil
}

func (r *AccountDirectory) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

// Load inserts accounts in order when the table is empty.
func (r *AccountDirectory) Load(ctx context.Context, accounts []domain.Account) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE accounts IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock accounts for seed: %w", err)
	}

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts`).Scan(&existing); err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if existing > 0 {
		logger.Info("account directory already seeded", logger.Fields{"accounts": existing})
		return nil
	}

	const insertAccount = `
INSERT INTO accounts (owner, username, interest_rate, pin_hash, locale, currency)
VALUES ($1, $2, $3::numeric, $4, $5, $6)
RETURNING id`
	const insertMovement = `INSERT INTO movements (account_id, amount, occurred_at) VALUES ($1, $2::numeric, $3)`

	for _, account := range accounts {
		var id int64
		if err := tx.QueryRowContext(ctx, insertAccount,
			account.Owner,
			account.Username,
			account.InterestRate.String(),
			account.PinHash,
			account.Locale,
			account.Currency,
		).Scan(&id); err != nil {
			return fmt.Errorf("seed account %q: %w", account.Username, err)
		}

		for _, mov := range account.Movements {
			if _, err := tx.ExecContext(ctx, insertMovement, id, mov.Amount.String(), movementTime(mov.Date)); err != nil {
				return fmt.Errorf("seed movement for %q: %w", account.Username, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	logger.Info("account directory seeded", logger.Fields{"accounts": len(accounts)})
	return nil
}

func (r *AccountDirectory) movementsFor(ctx context.Context, ids []int64) (map[int64][]domain.Movement, error) {
	out := make(map[int64][]domain.Movement, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	const query = `
SELECT account_id, amount, occurred_at
FROM movements
WHERE account_id = ANY($1)
ORDER BY account_id, id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var mov domain.Movement
		if err := rows.Scan(&id, &mov.Amount, &mov.Date); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		mov.Date = mov.Date.UTC()
		out[id] = append(out[id], mov)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return out, nil
}

func lookupID(ctx context.Context, tx *sql.Tx, username string) (int64, error) {
	var id int64
	if err := tx.QueryRowContext(ctx, firstAccountID, username).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("look up account %q: %w", username, err)
	}
	return id, nil
}

func movementTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
