package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/bankist/src/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountDirectory is the ordered collection of accounts. Usernames are not
// unique: lookups and removals act on the first account inserted with the
// name.
type AccountDirectory interface {
	FindByUsername(ctx context.Context, username string) (domain.Account, error)
	RemoveAccount(ctx context.Context, username string) error
	AppendMovement(ctx context.Context, username string, mov domain.Movement) error
	Transfer(ctx context.Context, from string, to string, amount decimal.Decimal, at time.Time) error
	List(ctx context.Context) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
	Load(ctx context.Context, accounts []domain.Account) error
}
