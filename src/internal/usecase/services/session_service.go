package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/domain"
	"github.com/api-sage/bankist/src/internal/format"
	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/api-sage/bankist/src/internal/session"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = errors.New("invalid credentials")

type SessionService struct {
	directory repo_interfaces.AccountDirectory
	sessions  *session.Manager
	formatter format.Formatter
	now       func() time.Time
}

func NewSessionService(directory repo_interfaces.AccountDirectory, sessions *session.Manager, formatter format.Formatter) *SessionService {
	if formatter == nil {
		formatter = format.Default()
	}
	return &SessionService{
		directory: directory,
		sessions:  sessions,
		formatter: formatter,
		now:       time.Now,
	}
}

func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error) {
	username := strings.TrimSpace(req.Username)
	logger.Info("session service login request", logger.Fields{
		"username": username,
	})

	account, err := s.directory.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			logger.Info("session service login unknown username", logger.Fields{"username": username})
			return invalidCredentials(), errInvalidCredentials
		}
		logger.Error("session service login lookup failed", err, logger.Fields{"username": username})
		return commons.FailureResponse[models.LoginResponse](commons.CodeInternal, "failed to log in", "Unable to log in right now"), err
	}

	ok, err := verifyPin(account.PinHash, req.Pin.String())
	if err != nil {
		logger.Error("session service login pin compare failed", err, logger.Fields{"username": username})
		return commons.FailureResponse[models.LoginResponse](commons.CodeInternal, "failed to log in", "Unable to log in right now"), err
	}
	if !ok {
		logger.Info("session service login pin mismatch", logger.Fields{"username": username})
		return invalidCredentials(), errInvalidCredentials
	}

	sess, token, err := s.sessions.Open(account.Username)
	if err != nil {
		logger.Error("session service open session failed", err, logger.Fields{"username": username})
		return commons.FailureResponse[models.LoginResponse](commons.CodeInternal, "failed to log in", "Unable to log in right now"), err
	}

	now := s.now()
	response := models.LoginResponse{
		Token:     token,
		SessionID: sess.ID,
		ExpiresAt: now.Add(s.sessions.Duration()).UTC(),
		Welcome:   fmt.Sprintf("Welcome back, %s", account.FirstName()),
		Date:      s.formatter.FormatDateTime(now, account.Locale),
		Timer:     sess.TimerDisplay(),
		Account:   buildAccountView(s.formatter, account, sess.Sorted()),
	}

	logger.Info("session service login success", logger.Fields{
		"username":  account.Username,
		"sessionId": sess.ID,
	})
	return commons.SuccessResponse("login successful", response), nil
}

func (s *SessionService) Logout(_ context.Context, sess *session.Session) (commons.Response[models.LogoutResponse], error) {
	if sess == nil || !s.sessions.End(sess.ID, session.ReasonLogout) {
		return commons.FailureResponse[models.LogoutResponse](commons.CodeSessionNotFound, "session not found"), commons.ErrSessionNotFound
	}

	return commons.SuccessResponse("logged out", models.LogoutResponse{
		Username: sess.Username,
		Message:  "Log in to get started",
	}), nil
}

func (s *SessionService) TimerStatus(_ context.Context, sess *session.Session) (commons.Response[models.TimerResponse], error) {
	if sess == nil || !sess.Active() {
		return commons.FailureResponse[models.TimerResponse](commons.CodeSessionNotFound, "session not found"), commons.ErrSessionNotFound
	}

	return commons.SuccessResponse("timer retrieved", models.TimerResponse{
		Remaining: sess.TimerDisplay(),
		Seconds:   sess.TimerRemaining(),
		State:     sess.TimerState().String(),
	}), nil
}

func invalidCredentials() commons.Response[models.LoginResponse] {
	return commons.FailureResponse[models.LoginResponse](commons.CodeInvalidCredentials, "user not found")
}

// verifyPin reports whether raw, read as a number, matches the stored hash.
// Input that is not a whole number never matches.
func verifyPin(hash string, raw string) (bool, error) {
	pin, ok := domain.NormalizePin(raw)
	if !ok {
		return false, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("verify pin: %w", err)
	}
	return true, nil
}
