package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/domain"
	"github.com/api-sage/bankist/src/internal/ledger"
	"github.com/shopspring/decimal"
)

type AccountDirectory struct {
	mu       sync.RWMutex
	accounts []domain.Account
}

func NewAccountDirectory(accounts ...domain.Account) *AccountDirectory {
	d := &AccountDirectory{}
	for _, account := range accounts {
		d.accounts = append(d.accounts, account.Clone())
	}
	return d
}

func (d *AccountDirectory) FindByUsername(_ context.Context, username string) (domain.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i := d.indexOf(username)
	if i < 0 {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return d.accounts[i].Clone(), nil
}

func (d *AccountDirectory) RemoveAccount(_ context.Context, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(username)
	if i < 0 {
		return fmt.Errorf("remove account %q: %w", username, commons.ErrRecordNotFound)
	}
	d.accounts = append(d.accounts[:i], d.accounts[i+1:]...)
	return nil
}

func (d *AccountDirectory) AppendMovement(_ context.Context, username string, mov domain.Movement) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(username)
	if i < 0 {
		return fmt.Errorf("append movement to %q: %w", username, commons.ErrRecordNotFound)
	}
	d.accounts[i].Movements = append(d.accounts[i].Movements, mov)
	return nil
}

// Transfer debits from and credits to under a single lock, re-checking the
// sender's balance against the current movements.
func (d *AccountDirectory) Transfer(_ context.Context, from string, to string, amount decimal.Decimal, at time.Time) error {
	if !amount.IsPositive() {
		return commons.ErrInvalidAmount
	}
	if from == to {
		return commons.ErrSameAccount
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	src := d.indexOf(from)
	if src < 0 {
		return fmt.Errorf("transfer from %q: %w", from, commons.ErrRecordNotFound)
	}
	dst := d.indexOf(to)
	if dst < 0 {
		return fmt.Errorf("transfer to %q: %w", to, commons.ErrRecipientNotFound)
	}

	if ledger.Balance(d.accounts[src].Amounts()).LessThan(amount) {
		return commons.ErrInsufficientBalance
	}

	d.accounts[src].Movements = append(d.accounts[src].Movements, domain.Movement{Amount: amount.Neg(), Date: at})
	d.accounts[dst].Movements = append(d.accounts[dst].Movements, domain.Movement{Amount: amount, Date: at})
	return nil
}

func (d *AccountDirectory) List(_ context.Context) ([]domain.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]domain.Account, 0, len(d.accounts))
	for _, account := range d.accounts {
		out = append(out, account.Clone())
	}
	return out, nil
}

func (d *AccountDirectory) Count(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.accounts), nil
}

// Load appends accounts when the directory is empty and does nothing
// otherwise.
func (d *AccountDirectory) Load(_ context.Context, accounts []domain.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.accounts) > 0 {
		return nil
	}
	for _, account := range accounts {
		d.accounts = append(d.accounts, account.Clone())
	}
	return nil
}

func (d *AccountDirectory) indexOf(username string) int {
	username = strings.TrimSpace(username)
	if username == "" {
		return -1
	}
	for i := range d.accounts {
		if d.accounts[i].Username == username {
			return i
		}
	}
	return -1
}
