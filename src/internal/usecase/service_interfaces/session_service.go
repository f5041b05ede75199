package service_interfaces

import (
	"context"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/session"
)

type SessionService interface {
	Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error)
	Logout(ctx context.Context, s *session.Session) (commons.Response[models.LogoutResponse], error)
	TimerStatus(ctx context.Context, s *session.Session) (commons.Response[models.TimerResponse], error)
}
