package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/api-sage/bankist/src/internal/session"
)

const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFor maps a failure reason code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case commons.CodeValidationFailed, commons.CodeInvalidAmount, commons.CodeSelfTransfer:
		return http.StatusBadRequest
	case commons.CodeInvalidCredentials, commons.CodeSessionNotFound:
		return http.StatusUnauthorized
	case commons.CodeRecipientNotFound:
		return http.StatusNotFound
	case commons.CodeInsufficientBalance, commons.CodeLoanRejected, commons.CodeCloseMismatch:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respond writes a service result. Failed results use the status of their
// reason code; successful ones use okStatus.
func respond[T any](w http.ResponseWriter, r *http.Request, start time.Time, okStatus int, response commons.Response[T], err error) {
	if err != nil || !response.Success {
		if err != nil {
			logError(r, err, logger.Fields{"code": response.Code, "message": response.Message})
		}
		status := statusFor(response.Code)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, okStatus, response)
	logResponse(r, okStatus, response, start)
}

func methodNotAllowed[T any](w http.ResponseWriter, r *http.Request, start time.Time) {
	response := commons.ErrorResponse[T]("method not allowed")
	writeJSON(w, http.StatusMethodNotAllowed, response)
	logResponse(r, http.StatusMethodNotAllowed, response, start)
}

// decodeBody reads a JSON body into req. An empty body leaves req zero. On
// failure it writes a Response[T] and reports false.
func decodeBody[T any, Q any](w http.ResponseWriter, r *http.Request, start time.Time, req *Q) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(req); err != nil && !errors.Is(err, io.EOF) {
		logError(r, err, nil)
		response := commons.FailureResponse[T](commons.CodeValidationFailed, "invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}
	return true
}

func currentSession(r *http.Request) *session.Session {
	s, _ := session.FromContext(r.Context())
	return s
}

func protect(handler http.HandlerFunc, mw func(http.Handler) http.Handler) http.Handler {
	if mw == nil {
		return handler
	}
	return mw(handler)
}
