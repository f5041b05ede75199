package service_interfaces

import (
	"context"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/session"
)

type AccountService interface {
	GetAccountView(ctx context.Context, s *session.Session) (commons.Response[models.AccountView], error)
	GetMovements(ctx context.Context, s *session.Session) (commons.Response[models.MovementsResponse], error)
	ToggleSort(ctx context.Context, s *session.Session) (commons.Response[models.MovementsResponse], error)
	CloseAccount(ctx context.Context, s *session.Session, req models.CloseAccountRequest) (commons.Response[models.CloseAccountResponse], error)
	ListDirectory(ctx context.Context) (commons.Response[models.DirectoryResponse], error)
}
