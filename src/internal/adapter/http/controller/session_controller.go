package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/usecase/service_interfaces"
)

type SessionController struct {
	service      service_interfaces.SessionService
	loginLimiter func(http.Handler) http.Handler
}

func NewSessionController(service service_interfaces.SessionService, loginLimiter func(http.Handler) http.Handler) *SessionController {
	return &SessionController{service: service, loginLimiter: loginLimiter}
}

func (c *SessionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/login", protect(c.login, c.loginLimiter))
	mux.Handle("/logout", protect(c.logout, authMiddleware))
	mux.Handle("/session/timer", protect(c.timer, authMiddleware))
}

func (c *SessionController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		methodNotAllowed[models.LoginResponse](w, r, start)
		return
	}

	var req models.LoginRequest
	if !decodeBody[models.LoginResponse](w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.service.Login(r.Context(), req)
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *SessionController) logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		methodNotAllowed[models.LogoutResponse](w, r, start)
		return
	}
	logRequest(r, nil)

	response, err := c.service.Logout(r.Context(), currentSession(r))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *SessionController) timer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodGet {
		methodNotAllowed[models.TimerResponse](w, r, start)
		return
	}

	response, err := c.service.TimerStatus(r.Context(), currentSession(r))
	respond(w, r, start, http.StatusOK, response, err)
}
