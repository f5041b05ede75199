package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinInputAcceptsNumberOrString(t *testing.T) {
	var req LoginRequest

	require.NoError(t, json.Unmarshal([]byte(`{"username":"js","pin":1111}`), &req))
	assert.Equal(t, "1111", req.Pin.String())

	require.NoError(t, json.Unmarshal([]byte(`{"username":"js","pin":"01111"}`), &req))
	assert.Equal(t, "01111", req.Pin.String())

	require.NoError(t, json.Unmarshal([]byte(`{"username":"js","pin":null}`), &req))
	assert.Equal(t, "", req.Pin.String())

	assert.Error(t, json.Unmarshal([]byte(`{"pin":true}`), &req))
}

func TestTransferRequestValidate(t *testing.T) {
	assert.Error(t, TransferRequest{}.Validate())
	assert.NoError(t, TransferRequest{To: "ui"}.Validate())
}

func TestCloseAccountRequestValidate(t *testing.T) {
	err := CloseAccountRequest{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username is required")
	assert.Contains(t, err.Error(), "pin is required")

	assert.NoError(t, CloseAccountRequest{Username: "js", Pin: "1111"}.Validate())
}
