package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/account", protect(c.account, authMiddleware))
	mux.Handle("/movements", protect(c.movements, authMiddleware))
	mux.Handle("/movements/sort", protect(c.toggleSort, authMiddleware))
	mux.Handle("/close-account", protect(c.closeAccount, authMiddleware))
}

func (c *AccountController) account(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodGet {
		methodNotAllowed[models.AccountView](w, r, start)
		return
	}

	response, err := c.service.GetAccountView(r.Context(), currentSession(r))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) movements(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodGet {
		methodNotAllowed[models.MovementsResponse](w, r, start)
		return
	}

	response, err := c.service.GetMovements(r.Context(), currentSession(r))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) toggleSort(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		methodNotAllowed[models.MovementsResponse](w, r, start)
		return
	}
	logRequest(r, nil)

	response, err := c.service.ToggleSort(r.Context(), currentSession(r))
	respond(w, r, start, http.StatusOK, response, err)
}

func (c *AccountController) closeAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		methodNotAllowed[models.CloseAccountResponse](w, r, start)
		return
	}

	var req models.CloseAccountRequest
	if !decodeBody[models.CloseAccountResponse](w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.service.CloseAccount(r.Context(), currentSession(r), req)
	respond(w, r, start, http.StatusOK, response, err)
}
