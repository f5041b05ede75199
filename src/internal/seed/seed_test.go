package seed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/api-sage/bankist/src/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var now = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

func TestBuildDefaults(t *testing.T) {
	accounts, err := Build(Defaults(), now, bcrypt.MinCost)
	require.NoError(t, err)
	require.Len(t, accounts, 4)

	usernames := make([]string, 0, len(accounts))
	for _, a := range accounts {
		usernames = append(usernames, a.Username)
	}
	assert.Equal(t, []string{"js", "ui", "stw", "as"}, usernames)

	js := accounts[0]
	assert.Equal(t, "3840", ledger.Balance(js.Amounts()).String())
	assert.Equal(t, "1.2", js.InterestRate.String())
	assert.Equal(t, "de-DE", js.Locale)
	assert.Equal(t, "EUR", js.Currency)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(js.PinHash), []byte("1111")))
	assert.NotContains(t, js.PinHash, "1111")
}

func TestBuildDatesEndAtNow(t *testing.T) {
	accounts, err := Build(Defaults()[3:], now, bcrypt.MinCost)
	require.NoError(t, err)

	movs := accounts[0].Movements
	require.Len(t, movs, 5)
	assert.Equal(t, now.AddDate(0, 0, -4), movs[0].Date)
	assert.Equal(t, now, movs[4].Date)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	content := `[{"owner":"Ada  Lovelace","movements":[100,-25.5,"10"],"interestRate":2,"pin":1234,"locale":"en-GB","currency":"gbp"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	records, err := LoadFile(path)
	require.NoError(t, err)

	accounts, err := Build(records, now, bcrypt.MinCost)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "al", accounts[0].Username)
	assert.Equal(t, "GBP", accounts[0].Currency)
	assert.Equal(t, "84.5", ledger.Balance(accounts[0].Amounts()).String())
}

func TestLoadFileRejectsInvalidRecords(t *testing.T) {
	dir := t.TempDir()

	missingOwner := filepath.Join(dir, "owner.json")
	require.NoError(t, os.WriteFile(missingOwner, []byte(`[{"currency":"USD"}]`), 0o600))
	_, err := LoadFile(missingOwner)
	assert.ErrorContains(t, err, "owner is required")

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o600))
	_, err = LoadFile(broken)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
