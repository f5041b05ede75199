package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/adapter/repository/memory"
	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/format"
	"github.com/api-sage/bankist/src/internal/ledger"
	"github.com/api-sage/bankist/src/internal/seed"
	"github.com/api-sage/bankist/src/internal/session"
	"github.com/api-sage/bankist/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	directory *memory.AccountDirectory
	sessions  *session.Manager
	auth      *services.SessionService
	accounts  *services.AccountService
	transfers *services.TransferService
	loans     *services.LoanService
}

func newFixture(t *testing.T, tick time.Duration) fixture {
	t.Helper()

	accounts, err := seed.Build(seed.Defaults(), time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC), bcrypt.MinCost)
	require.NoError(t, err)

	directory := memory.NewAccountDirectory(accounts...)
	sessions := session.NewManager(
		session.Config{Ticks: 300, TickInterval: tick},
		session.NewTokens("test-secret", "bankist", time.Hour),
		session.NewHub(),
	)
	t.Cleanup(sessions.Shutdown)

	f := format.Default()
	return fixture{
		directory: directory,
		sessions:  sessions,
		auth:      services.NewSessionService(directory, sessions, f),
		accounts:  services.NewAccountService(directory, sessions, f),
		transfers: services.NewTransferService(directory, f),
		loans:     services.NewLoanService(directory, 20*time.Millisecond),
	}
}

func (f fixture) login(t *testing.T, username string, pin string) *session.Session {
	t.Helper()

	resp, err := f.auth.Login(context.Background(), models.LoginRequest{Username: username, Pin: models.PinInput(pin)})
	require.NoError(t, err)
	require.True(t, resp.Success)

	sess, err := f.sessions.Authenticate(resp.Data.Token)
	require.NoError(t, err)
	return sess
}

func (f fixture) balance(t *testing.T, username string) string {
	t.Helper()
	account, err := f.directory.FindByUsername(context.Background(), username)
	require.NoError(t, err)
	return ledger.Balance(account.Amounts()).String()
}

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t, time.Hour)

	resp, err := f.auth.Login(context.Background(), models.LoginRequest{Username: "js", Pin: "1111"})

	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, "Welcome back, Jonas", resp.Data.Welcome)
	assert.Equal(t, "05:00", resp.Data.Timer)
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, "3840", resp.Data.Account.Balance.Value.String())
	assert.Contains(t, resp.Data.Account.Balance.Formatted, "3.840,00")
	assert.Contains(t, resp.Data.Account.Balance.Formatted, "€")
	assert.Len(t, resp.Data.Account.Movements, 8)
	assert.Equal(t, 1, f.sessions.Count())
}

func TestLoginCoercesPinToNumber(t *testing.T) {
	f := newFixture(t, time.Hour)

	resp, err := f.auth.Login(context.Background(), models.LoginRequest{Username: "js", Pin: "01111"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t, time.Hour)

	badPin, err := f.auth.Login(context.Background(), models.LoginRequest{Username: "js", Pin: "2222"})
	require.Error(t, err)
	unknown, err := f.auth.Login(context.Background(), models.LoginRequest{Username: "zz", Pin: "1111"})
	require.Error(t, err)
	garbage, err := f.auth.Login(context.Background(), models.LoginRequest{Username: "js", Pin: "abc"})
	require.Error(t, err)

	for _, resp := range []commons.Response[models.LoginResponse]{badPin, unknown, garbage} {
		assert.False(t, resp.Success)
		assert.Equal(t, commons.CodeInvalidCredentials, resp.Code)
		assert.Equal(t, unknown.Message, resp.Message)
	}
	assert.Equal(t, 0, f.sessions.Count())
}

func TestLogoutEndsSession(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess := f.login(t, "js", "1111")

	resp, err := f.auth.Logout(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, sess.Active())

	again, err := f.auth.Logout(context.Background(), sess)
	assert.ErrorIs(t, err, commons.ErrSessionNotFound)
	assert.Equal(t, commons.CodeSessionNotFound, again.Code)
}

func TestTimerStatus(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess := f.login(t, "js", "1111")

	resp, err := f.auth.TimerStatus(context.Background(), sess)

	require.NoError(t, err)
	assert.Equal(t, "05:00", resp.Data.Remaining)
	assert.Equal(t, 300, resp.Data.Seconds)
	assert.Equal(t, "running", resp.Data.State)
}

func TestTransferSuccessResetsTimer(t *testing.T) {
	f := newFixture(t, 5*time.Millisecond)
	sess := f.login(t, "js", "1111")
	require.Eventually(t, func() bool { return sess.TimerRemaining() < 295 }, time.Second, time.Millisecond)

	resp, err := f.transfers.Transfer(context.Background(), sess, models.TransferRequest{To: "ui", Amount: decimal.NewFromInt(100)})

	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.GreaterOrEqual(t, sess.TimerRemaining(), 295)
	assert.Equal(t, "3740", resp.Data.Account.Balance.Value.String())
	assert.Equal(t, "3740", f.balance(t, "js"))
	assert.Equal(t, "11820", f.balance(t, "ui"))
}

func TestTransferFailuresAreTypedAndKeepTimer(t *testing.T) {
	tests := []struct {
		name string
		req  models.TransferRequest
		code string
	}{
		{name: "missing recipient field", req: models.TransferRequest{Amount: decimal.NewFromInt(1)}, code: commons.CodeValidationFailed},
		{name: "zero amount", req: models.TransferRequest{To: "ui"}, code: commons.CodeInvalidAmount},
		{name: "negative amount", req: models.TransferRequest{To: "ui", Amount: decimal.NewFromInt(-10)}, code: commons.CodeInvalidAmount},
		{name: "self", req: models.TransferRequest{To: "js", Amount: decimal.NewFromInt(10)}, code: commons.CodeSelfTransfer},
		{name: "unknown recipient", req: models.TransferRequest{To: "zz", Amount: decimal.NewFromInt(10)}, code: commons.CodeRecipientNotFound},
		{name: "insufficient", req: models.TransferRequest{To: "ui", Amount: decimal.NewFromInt(3841)}, code: commons.CodeInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 5*time.Millisecond)
			sess := f.login(t, "js", "1111")
			require.Eventually(t, func() bool { return sess.TimerRemaining() < 295 }, time.Second, time.Millisecond)

			resp, err := f.transfers.Transfer(context.Background(), sess, tt.req)

			require.Error(t, err)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Code)
			assert.Less(t, sess.TimerRemaining(), 295)
			assert.Equal(t, "3840", f.balance(t, "js"))
			assert.Equal(t, "11720", f.balance(t, "ui"))
		})
	}
}

func TestLoanApprovedIsCreditedAfterDelay(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess := f.login(t, "as", "4444")

	resp, err := f.loans.RequestLoan(context.Background(), sess, models.LoanRequest{Amount: decimal.RequireFromString("9999.5")})

	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, models.LoanStatusPending, resp.Data.Status)
	assert.Equal(t, "10000", resp.Data.Amount.String())
	assert.Equal(t, "2270", f.balance(t, "as"))

	assert.Eventually(t, func() bool { return f.balance(t, "as") == "12270" }, time.Second, 5*time.Millisecond)
}

func TestLoanRejectedWhenNoMovementCoversTenPercent(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess := f.login(t, "as", "4444")

	resp, err := f.loans.RequestLoan(context.Background(), sess, models.LoanRequest{Amount: decimal.NewFromInt(10001)})

	require.Error(t, err)
	assert.Equal(t, commons.CodeLoanRejected, resp.Code)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, "2270", f.balance(t, "as"))
}

func TestLoanNonPositiveAmount(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess := f.login(t, "as", "4444")

	resp, err := f.loans.RequestLoan(context.Background(), sess, models.LoanRequest{Amount: decimal.RequireFromString("0.4")})

	require.Error(t, err)
	assert.Equal(t, commons.CodeInvalidAmount, resp.Code)
}

func TestLoanCreditDroppedWhenSessionEnds(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess := f.login(t, "as", "4444")

	resp, err := f.loans.RequestLoan(context.Background(), sess, models.LoanRequest{Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	require.True(t, resp.Success)

	_, err = f.auth.Logout(context.Background(), sess)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, "2270", f.balance(t, "as"))
}

func TestToggleSortFlipsOrderWithoutMutating(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess := f.login(t, "stw", "3333")

	resp, err := f.accounts.ToggleSort(context.Background(), sess)
	require.NoError(t, err)
	require.True(t, resp.Data.Sorted)

	rows := resp.Data.Movements
	require.Len(t, rows, 8)
	assert.Equal(t, "400", rows[0].Amount.Value.String())
	assert.Equal(t, 8, rows[0].Index)
	assert.Equal(t, "-460", rows[7].Amount.Value.String())
	assert.Equal(t, 1, rows[7].Index)

	account, _ := f.directory.FindByUsername(context.Background(), "stw")
	assert.Equal(t, "200", account.Movements[0].Amount.String())

	back, err := f.accounts.ToggleSort(context.Background(), sess)
	require.NoError(t, err)
	assert.False(t, back.Data.Sorted)
	assert.Equal(t, "-460", back.Data.Movements[0].Amount.Value.String())
	assert.Equal(t, "withdrawal", back.Data.Movements[0].Type)
}

func TestGetAccountViewSummary(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess := f.login(t, "as", "4444")

	resp, err := f.accounts.GetAccountView(context.Background(), sess)

	require.NoError(t, err)
	view := resp.Data
	assert.Equal(t, "$2,270.00", view.Balance.Formatted)
	assert.Equal(t, "$2,270.00", view.Summary.In.Formatted)
	assert.Equal(t, "$0.00", view.Summary.Out.Formatted)
	assert.Equal(t, "$21.30", view.Summary.Interest.Formatted)
}

func TestCloseAccountMismatch(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess := f.login(t, "js", "1111")

	for _, req := range []models.CloseAccountRequest{
		{Username: "ui", Pin: "1111"},
		{Username: "js", Pin: "2222"},
	} {
		resp, err := f.accounts.CloseAccount(context.Background(), sess, req)
		require.Error(t, err)
		assert.Equal(t, commons.CodeCloseMismatch, resp.Code)
	}

	assert.True(t, sess.Active())
	count, _ := f.directory.Count(context.Background())
	assert.Equal(t, 4, count)
}

func TestCloseAccountRemovesAccountAndEndsSessions(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess := f.login(t, "as", "4444")
	other := f.login(t, "as", "4444")

	_, err := f.loans.RequestLoan(context.Background(), sess, models.LoanRequest{Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	resp, err := f.accounts.CloseAccount(context.Background(), sess, models.CloseAccountRequest{Username: "as", Pin: "4444"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, sess.Active())
	assert.False(t, other.Active())
	assert.Equal(t, session.Cancelled, sess.TimerState())
	assert.Equal(t, 0, sess.PendingCount())

	_, err = f.directory.FindByUsername(context.Background(), "as")
	assert.ErrorIs(t, err, commons.ErrRecordNotFound)

	login, err := f.auth.Login(context.Background(), models.LoginRequest{Username: "as", Pin: "4444"})
	require.Error(t, err)
	assert.Equal(t, commons.CodeInvalidCredentials, login.Code)
}

func TestListDirectory(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.login(t, "js", "1111")

	resp, err := f.accounts.ListDirectory(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, resp.Data.Count)
	assert.Equal(t, 1, resp.Data.ActiveSessions)
	assert.Equal(t, "stw", resp.Data.Accounts[2].Username)
	assert.Equal(t, "10", resp.Data.Accounts[2].Balance.Value.String())
}

func TestOperationsRequireLiveSession(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess := f.login(t, "js", "1111")
	f.sessions.End(sess.ID, session.ReasonLogout)

	view, err := f.accounts.GetAccountView(context.Background(), sess)
	assert.ErrorIs(t, err, commons.ErrSessionNotFound)
	assert.Equal(t, commons.CodeSessionNotFound, view.Code)

	transfer, err := f.transfers.Transfer(context.Background(), sess, models.TransferRequest{To: "ui", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, commons.ErrSessionNotFound)
	assert.Equal(t, commons.CodeSessionNotFound, transfer.Code)
}

// endingDirectory ends the caller's session right after the transfer is
// committed, before the service gets to reset the timer.
type endingDirectory struct {
	*memory.AccountDirectory
	onTransfer func()
}

func (d endingDirectory) Transfer(ctx context.Context, from string, to string, amount decimal.Decimal, at time.Time) error {
	if err := d.AccountDirectory.Transfer(ctx, from, to, amount, at); err != nil {
		return err
	}
	d.onTransfer()
	return nil
}

func TestTransferSessionEndingMidwayLeavesTimerStopped(t *testing.T) {
	f := newFixture(t, 5*time.Millisecond)
	sess := f.login(t, "js", "1111")

	dir := endingDirectory{
		AccountDirectory: f.directory,
		onTransfer:       func() { f.sessions.End(sess.ID, session.ReasonLogout) },
	}
	transfers := services.NewTransferService(dir, format.Default())

	resp, err := transfers.Transfer(context.Background(), sess, models.TransferRequest{To: "ui", Amount: decimal.NewFromInt(100)})

	assert.ErrorIs(t, err, commons.ErrSessionNotFound)
	assert.Equal(t, commons.CodeSessionNotFound, resp.Code)
	assert.Equal(t, "3740", f.balance(t, "js"))

	remaining := sess.TimerRemaining()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, session.Cancelled, sess.TimerState())
	assert.Equal(t, remaining, sess.TimerRemaining())
	assert.Equal(t, 0, f.sessions.Count())
}
