package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/usecase/service_interfaces"
)

type TransferController struct {
	service service_interfaces.TransferService
}

func NewTransferController(service service_interfaces.TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/transfer", protect(c.transfer, authMiddleware))
}

func (c *TransferController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		methodNotAllowed[models.TransferResponse](w, r, start)
		return
	}

	var req models.TransferRequest
	if !decodeBody[models.TransferResponse](w, r, start, &req) {
		return
	}
	logRequest(r, req)

	response, err := c.service.Transfer(r.Context(), currentSession(r), req)
	respond(w, r, start, http.StatusOK, response, err)
}
