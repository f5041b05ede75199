package service_interfaces

import (
	"context"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/session"
)

type TransferService interface {
	Transfer(ctx context.Context, s *session.Session, req models.TransferRequest) (commons.Response[models.TransferResponse], error)
}
