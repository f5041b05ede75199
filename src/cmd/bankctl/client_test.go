package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/session/timer", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(commons.FailureResponse[struct{}](commons.CodeSessionNotFound, "session not found"))
			return
		}
		_ = json.NewEncoder(w).Encode(commons.SuccessResponse("timer fetched", models.TimerResponse{Remaining: "04:59", Seconds: 299, State: "running"}))
	})
	mux.HandleFunc("/transfer", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(commons.FailureResponse[struct{}](commons.CodeInsufficientBalance, "insufficient balance"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCall_DecodesSuccess(t *testing.T) {
	srv := fakeServer(t)
	c := newClient(srv.URL+"/", "good")

	timer, err := authed[models.TimerResponse](context.Background(), c, http.MethodGet, "/session/timer", nil)
	require.NoError(t, err)
	assert.Equal(t, "04:59", timer.Remaining)
	assert.Equal(t, 299, timer.Seconds)
}

func TestCall_ReturnsReasonCode(t *testing.T) {
	srv := fakeServer(t)

	_, err := authed[models.TimerResponse](context.Background(), newClient(srv.URL, "bad"), http.MethodGet, "/session/timer", nil)
	var apiErr *apiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, commons.CodeSessionNotFound, apiErr.Code)

	_, err = authed[models.TransferResponse](context.Background(), newClient(srv.URL, "good"), http.MethodPost, "/transfer", models.TransferRequest{To: "ui"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, commons.CodeInsufficientBalance, apiErr.Code)
	assert.Contains(t, err.Error(), "http 422")
}

func TestAuthed_RequiresToken(t *testing.T) {
	_, err := authed[models.TimerResponse](context.Background(), newClient("http://127.0.0.1:1", ""), http.MethodGet, "/session/timer", nil)
	assert.ErrorIs(t, err, errNoToken)
}

func TestTimerCommand(t *testing.T) {
	srv := fakeServer(t)

	var out bytes.Buffer
	prevOut, prevAddr, prevToken := stdout, *serverAddr, *tokenFlag
	stdout, *serverAddr, *tokenFlag = &out, srv.URL, "good"
	t.Cleanup(func() { stdout, *serverAddr, *tokenFlag = prevOut, prevAddr, prevToken })

	status := (&timerCmd{}).Execute(context.Background(), flag.NewFlagSet("timer", flag.ContinueOnError))
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "04:59 (running)\n", out.String())
}

func TestPrintMovements(t *testing.T) {
	var out bytes.Buffer
	printMovements(&out, []models.MovementRow{
		{Index: 2, Type: "deposit", FormattedDate: "16 October 2026, 09:00", Amount: models.Money{Formatted: "$1,300.00"}},
		{Index: 1, Type: "withdrawal", FormattedDate: "15 October 2026, 09:00", Amount: models.Money{Formatted: "-$70.00"}},
	})

	assert.Contains(t, out.String(), "2 DEPOSIT")
	assert.Contains(t, out.String(), "1 WITHDRAWAL")
	assert.Contains(t, out.String(), "$1,300.00")
}
