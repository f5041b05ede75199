package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLines(t *testing.T, fn func()) []map[string]any {
	t.Helper()

	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { Configure("info", false) })

	fn()

	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestSanitizePayloadRedactsNestedSecrets(t *testing.T) {
	payload := map[string]any{
		"username": "js",
		"pin":      "1111",
		"nested": map[string]any{
			"Token":     "abc",
			"close-pin": 2222,
		},
		"list": []any{map[string]any{"password": "x", "ok": true}},
	}

	got := SanitizePayload(payload).(map[string]any)

	assert.Equal(t, "js", got["username"])
	assert.Equal(t, "******", got["pin"])
	nested := got["nested"].(map[string]any)
	assert.Equal(t, "******", nested["Token"])
	assert.Equal(t, "******", nested["close-pin"])
	item := got["list"].([]any)[0].(map[string]any)
	assert.Equal(t, "******", item["password"])
	assert.Equal(t, true, item["ok"])
}

func TestSanitizePayloadUnmarshalableValue(t *testing.T) {
	assert.Equal(t, "<unavailable>", SanitizePayload(func() {}))
}

func TestInfoWritesRedactedFields(t *testing.T) {
	lines := captureLines(t, func() {
		Info("login attempt", Fields{"username": "js", "pin": "1111"})
	})

	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "login attempt", lines[0]["message"])
	assert.Equal(t, "js", lines[0]["username"])
	assert.Equal(t, "******", lines[0]["pin"])
}

func TestErrorIncludesCause(t *testing.T) {
	lines := captureLines(t, func() {
		Error("transfer failed", errors.New("boom"), Fields{"from": "js"})
		Warn("slow", nil)
		Debug("detail", Fields{})
	})

	require.Len(t, lines, 3)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Equal(t, "boom", lines[0]["error"])
	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "debug", lines[2]["level"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "warn", parseLevel("WARN").String())
	assert.Equal(t, "debug", parseLevel(" debug ").String())
	assert.Equal(t, "info", parseLevel("nonsense").String())
}
