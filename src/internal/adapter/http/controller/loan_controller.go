package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/usecase/service_interfaces"
)

type LoanController struct {
	service service_interfaces.LoanService
}

func NewLoanController(service service_interfaces.LoanService) *LoanController {
	return &LoanController{service: service}
}

func (c *LoanController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/loan", protect(c.requestLoan, authMiddleware))
}

// requestLoan answers 202 on approval since the credit lands later.
func (c *LoanController) requestLoan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		methodNotAllowed[models.LoanResponse](w, r, start)
		return
	}

	var req models.LoanRequest
	if !decodeBody[models.LoanResponse](w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.service.RequestLoan(r.Context(), currentSession(r), req)
	respond(w, r, start, http.StatusAccepted, response, err)
}
