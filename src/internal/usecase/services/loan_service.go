package services

import (
	"context"
	"errors"
	"time"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/domain"
	"github.com/api-sage/bankist/src/internal/ledger"
	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/api-sage/bankist/src/internal/session"
	"github.com/shopspring/decimal"
)

var (
	half            = decimal.NewFromFloat(0.5)
	errLoanRejected = errors.New("loan rejected")
)

type LoanService struct {
	directory repo_interfaces.AccountDirectory
	delay     time.Duration
	now       func() time.Time
}

func NewLoanService(directory repo_interfaces.AccountDirectory, approvalDelay time.Duration) *LoanService {
	return &LoanService{directory: directory, delay: approvalDelay, now: time.Now}
}

// RequestLoan approves a loan when some movement is at least a tenth of the
// rounded amount. Approval resets the timer at once; the credit is applied
// after the approval delay unless the session has ended by then.
func (s *LoanService) RequestLoan(ctx context.Context, sess *session.Session, req models.LoanRequest) (commons.Response[models.LoanResponse], error) {
	account, resp, err := loadSessionAccount[models.LoanResponse](ctx, s.directory, sess)
	if err != nil {
		return resp, err
	}

	amount := roundHalfUp(req.Amount)
	logger.Info("loan service loan request", logger.Fields{
		"username": account.Username,
		"amount":   amount.String(),
	})

	if !amount.IsPositive() {
		return commons.FailureResponse[models.LoanResponse](commons.CodeInvalidAmount, "amount must be greater than zero"), commons.ErrInvalidAmount
	}
	if !ledger.QualifiesForLoan(account.Amounts(), amount) {
		logger.Info("loan service loan rejected", logger.Fields{
			"username": account.Username,
			"amount":   amount.String(),
		})
		return commons.FailureResponse[models.LoanResponse](commons.CodeLoanRejected, "Sorry we cannot give you such amount of loan!"), errLoanRejected
	}

	username := account.Username
	scheduled := sess.Defer(s.delay, func() {
		mov := domain.Movement{Amount: amount, Date: s.now().UTC()}
		if err := s.directory.AppendMovement(context.Background(), username, mov); err != nil {
			logger.Error("loan service credit failed", err, logger.Fields{
				"username": username,
				"amount":   amount.String(),
			})
			return
		}
		logger.Info("loan service loan credited", logger.Fields{
			"username": username,
			"amount":   amount.String(),
		})
		sess.Publish(session.EventRefresh)
	})
	if !scheduled {
		return commons.FailureResponse[models.LoanResponse](commons.CodeSessionNotFound, "session not found"), commons.ErrSessionNotFound
	}

	if !sess.ResetTimer() {
		return commons.FailureResponse[models.LoanResponse](commons.CodeSessionNotFound, "session not found"), commons.ErrSessionNotFound
	}

	return commons.SuccessResponse("loan approved", models.LoanResponse{
		Status:   models.LoanStatusPending,
		Amount:   amount,
		CreditAt: s.now().Add(s.delay).UTC(),
		Timer:    sess.TimerDisplay(),
	}), nil
}

// roundHalfUp rounds to a whole number with halves going up, so 2.5 becomes
// 3 and -2.5 becomes -2.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}
