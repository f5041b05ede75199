package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/api-sage/bankist/src/internal/config"
	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_MemoryDirectory(t *testing.T) {
	cfg := config.Default()
	cfg.Seed.BcryptCost = 4

	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.close)
	assert.Equal(t, "memory", a.storage)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"js","pin":1111}`))
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/admin/accounts", nil)
	req.SetBasicAuth(cfg.Auth.ChannelID, cfg.Auth.ChannelKey)
	rr = httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"count":4`)
}

func TestNewApp_BadSeedFile(t *testing.T) {
	cfg := config.Default()
	cfg.Seed.File = "does-not-exist.json"

	_, err := newApp(context.Background(), cfg)
	assert.Error(t, err)
}

func TestWarnInsecureDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.Configure("info", false) })

	cfg := config.Default()
	assert.Equal(t, 1, warnInsecureDefaults(cfg))
	assert.Contains(t, buf.String(), "development secret")
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	cfg.Auth.JWTSecret = "rotated-secret"
	assert.Equal(t, 0, warnInsecureDefaults(cfg))
	assert.Empty(t, buf.String())
}
