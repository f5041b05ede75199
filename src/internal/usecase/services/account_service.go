package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/domain"
	"github.com/api-sage/bankist/src/internal/format"
	"github.com/api-sage/bankist/src/internal/ledger"
	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/api-sage/bankist/src/internal/session"
)

var errCloseMismatch = errors.New("username and pin do not match the logged in account")

type AccountService struct {
	directory repo_interfaces.AccountDirectory
	sessions  *session.Manager
	formatter format.Formatter
}

func NewAccountService(directory repo_interfaces.AccountDirectory, sessions *session.Manager, formatter format.Formatter) *AccountService {
	if formatter == nil {
		formatter = format.Default()
	}
	return &AccountService{directory: directory, sessions: sessions, formatter: formatter}
}

func (s *AccountService) GetAccountView(ctx context.Context, sess *session.Session) (commons.Response[models.AccountView], error) {
	account, resp, err := loadSessionAccount[models.AccountView](ctx, s.directory, sess)
	if err != nil {
		return resp, err
	}

	return commons.SuccessResponse("account retrieved", buildAccountView(s.formatter, account, sess.Sorted())), nil
}

func (s *AccountService) GetMovements(ctx context.Context, sess *session.Session) (commons.Response[models.MovementsResponse], error) {
	account, resp, err := loadSessionAccount[models.MovementsResponse](ctx, s.directory, sess)
	if err != nil {
		return resp, err
	}

	sorted := sess.Sorted()
	return commons.SuccessResponse("movements retrieved", models.MovementsResponse{
		Sorted:    sorted,
		Movements: movementRows(s.formatter, account, sorted),
	}), nil
}

// ToggleSort flips the session's ordering and returns the movements in the
// new order. The stored movements are never reordered.
func (s *AccountService) ToggleSort(ctx context.Context, sess *session.Session) (commons.Response[models.MovementsResponse], error) {
	account, resp, err := loadSessionAccount[models.MovementsResponse](ctx, s.directory, sess)
	if err != nil {
		return resp, err
	}

	sorted := sess.ToggleSort()
	logger.Info("account service sort toggled", logger.Fields{
		"username": sess.Username,
		"sorted":   sorted,
	})

	return commons.SuccessResponse("movements retrieved", models.MovementsResponse{
		Sorted:    sorted,
		Movements: movementRows(s.formatter, account, sorted),
	}), nil
}

// CloseAccount removes the logged-in account when the typed username and pin
// both match it, then ends every session of that account.
func (s *AccountService) CloseAccount(ctx context.Context, sess *session.Session, req models.CloseAccountRequest) (commons.Response[models.CloseAccountResponse], error) {
	logger.Info("account service close account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.FailureResponse[models.CloseAccountResponse](commons.CodeValidationFailed, "validation failed", err.Error()), err
	}

	account, resp, err := loadSessionAccount[models.CloseAccountResponse](ctx, s.directory, sess)
	if err != nil {
		return resp, err
	}

	if strings.TrimSpace(req.Username) != account.Username {
		return closeMismatch(), errCloseMismatch
	}
	ok, err := verifyPin(account.PinHash, req.Pin.String())
	if err != nil {
		logger.Error("account service close pin compare failed", err, logger.Fields{"username": account.Username})
		return commons.FailureResponse[models.CloseAccountResponse](commons.CodeInternal, "failed to close account", "Unable to close account right now"), err
	}
	if !ok {
		return closeMismatch(), errCloseMismatch
	}

	if err := s.directory.RemoveAccount(ctx, account.Username); err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.FailureResponse[models.CloseAccountResponse](commons.CodeSessionNotFound, "account not found"), err
		}
		logger.Error("account service remove account failed", err, logger.Fields{"username": account.Username})
		return commons.FailureResponse[models.CloseAccountResponse](commons.CodeInternal, "failed to close account", "Unable to close account right now"), err
	}

	ended := s.sessions.EndForUsername(account.Username, session.ReasonClosed)
	logger.Info("account service close account success", logger.Fields{
		"username":      account.Username,
		"sessionsEnded": ended,
	})

	return commons.SuccessResponse("account closed", models.CloseAccountResponse{
		Username: account.Username,
		Message:  "Log in to get started",
	}), nil
}

func (s *AccountService) ListDirectory(ctx context.Context) (commons.Response[models.DirectoryResponse], error) {
	accounts, err := s.directory.List(ctx)
	if err != nil {
		logger.Error("account service list directory failed", err, nil)
		return commons.FailureResponse[models.DirectoryResponse](commons.CodeInternal, "failed to list accounts", "Unable to list accounts right now"), err
	}

	entries := make([]models.DirectoryEntry, 0, len(accounts))
	for _, account := range accounts {
		entries = append(entries, models.DirectoryEntry{
			Owner:     account.Owner,
			Username:  account.Username,
			Locale:    account.Locale,
			Currency:  account.Currency,
			Movements: len(account.Movements),
			Balance:   money(s.formatter, account, ledger.Balance(account.Amounts())),
		})
	}

	return commons.SuccessResponse("accounts retrieved", models.DirectoryResponse{
		Count:          len(entries),
		ActiveSessions: s.sessions.Count(),
		Accounts:       entries,
	}), nil
}

func closeMismatch() commons.Response[models.CloseAccountResponse] {
	return commons.FailureResponse[models.CloseAccountResponse](commons.CodeCloseMismatch, "Sorry the username and pin you entered are not correct")
}

// loadSessionAccount resolves the account behind a live session.
func loadSessionAccount[T any](ctx context.Context, directory repo_interfaces.AccountDirectory, sess *session.Session) (domain.Account, commons.Response[T], error) {
	if sess == nil || !sess.Active() {
		return domain.Account{}, commons.FailureResponse[T](commons.CodeSessionNotFound, "session not found"), commons.ErrSessionNotFound
	}

	account, err := directory.FindByUsername(ctx, sess.Username)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return domain.Account{}, commons.FailureResponse[T](commons.CodeSessionNotFound, "account no longer exists"), commons.ErrSessionNotFound
		}
		logger.Error("account lookup for session failed", err, logger.Fields{"username": sess.Username})
		return domain.Account{}, commons.FailureResponse[T](commons.CodeInternal, "failed to load account", "Unable to load account right now"), err
	}
	return account, commons.Response[T]{}, nil
}
