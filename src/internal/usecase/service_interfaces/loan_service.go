package service_interfaces

import (
	"context"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/session"
)

type LoanService interface {
	RequestLoan(ctx context.Context, s *session.Session, req models.LoanRequest) (commons.Response[models.LoanResponse], error)
}
