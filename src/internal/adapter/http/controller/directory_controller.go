package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/usecase/service_interfaces"
)

// DirectoryController serves the operator listing of all accounts. It is
// registered behind the channel BasicAuth middleware.
type DirectoryController struct {
	service service_interfaces.AccountService
}

func NewDirectoryController(service service_interfaces.AccountService) *DirectoryController {
	return &DirectoryController{service: service}
}

func (c *DirectoryController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/admin/accounts", protect(c.list, authMiddleware))
}

func (c *DirectoryController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodGet {
		methodNotAllowed[models.DirectoryResponse](w, r, start)
		return
	}
	logRequest(r, nil)

	response, err := c.service.ListDirectory(r.Context())
	respond(w, r, start, http.StatusOK, response, err)
}
