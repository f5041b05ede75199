package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/format"
	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/api-sage/bankist/src/internal/session"
)

type TransferService struct {
	directory repo_interfaces.AccountDirectory
	formatter format.Formatter
	now       func() time.Time
}

func NewTransferService(directory repo_interfaces.AccountDirectory, formatter format.Formatter) *TransferService {
	if formatter == nil {
		formatter = format.Default()
	}
	return &TransferService{directory: directory, formatter: formatter, now: time.Now}
}

// Transfer moves funds from the session's account to req.To. Only a
// successful transfer resets the logout timer.
func (s *TransferService) Transfer(ctx context.Context, sess *session.Session, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.FailureResponse[models.TransferResponse](commons.CodeValidationFailed, "validation failed", err.Error()), err
	}

	sender, resp, err := loadSessionAccount[models.TransferResponse](ctx, s.directory, sess)
	if err != nil {
		return resp, err
	}

	to := strings.TrimSpace(req.To)
	if !req.Amount.IsPositive() {
		return commons.FailureResponse[models.TransferResponse](commons.CodeInvalidAmount, "amount must be greater than zero"), commons.ErrInvalidAmount
	}
	if to == sender.Username {
		return commons.FailureResponse[models.TransferResponse](commons.CodeSelfTransfer, "cannot transfer to your own account"), commons.ErrSameAccount
	}

	if err := s.directory.Transfer(ctx, sender.Username, to, req.Amount, s.now().UTC()); err != nil {
		logger.Info("transfer service transfer rejected", logger.Fields{
			"from":   sender.Username,
			"to":     to,
			"reason": err.Error(),
		})
		return transferFailure(err), err
	}

	if !sess.ResetTimer() {
		logger.Warn("transfer service session ended during transfer", logger.Fields{
			"from": sender.Username,
			"to":   to,
		})
		return commons.FailureResponse[models.TransferResponse](commons.CodeSessionNotFound, "session not found"), commons.ErrSessionNotFound
	}

	account, resp, err := loadSessionAccount[models.TransferResponse](ctx, s.directory, sess)
	if err != nil {
		return resp, err
	}
	sess.Publish(session.EventRefresh)

	logger.Info("transfer service transfer success", logger.Fields{
		"from":   sender.Username,
		"to":     to,
		"amount": req.Amount.String(),
	})

	return commons.SuccessResponse("transfer successful", models.TransferResponse{
		To:      to,
		Amount:  money(s.formatter, account, req.Amount),
		Timer:   sess.TimerDisplay(),
		Account: buildAccountView(s.formatter, account, sess.Sorted()),
	}), nil
}

func transferFailure(err error) commons.Response[models.TransferResponse] {
	switch {
	case errors.Is(err, commons.ErrInvalidAmount):
		return commons.FailureResponse[models.TransferResponse](commons.CodeInvalidAmount, "amount must be greater than zero")
	case errors.Is(err, commons.ErrSameAccount):
		return commons.FailureResponse[models.TransferResponse](commons.CodeSelfTransfer, "cannot transfer to your own account")
	case errors.Is(err, commons.ErrRecipientNotFound):
		return commons.FailureResponse[models.TransferResponse](commons.CodeRecipientNotFound, "recipient not found")
	case errors.Is(err, commons.ErrInsufficientBalance):
		return commons.FailureResponse[models.TransferResponse](commons.CodeInsufficientBalance, "insufficient balance")
	case errors.Is(err, commons.ErrRecordNotFound):
		return commons.FailureResponse[models.TransferResponse](commons.CodeSessionNotFound, "account no longer exists")
	default:
		return commons.FailureResponse[models.TransferResponse](commons.CodeInternal, "failed to process transfer", "Unable to process transfer right now")
	}
}
