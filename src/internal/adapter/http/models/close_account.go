package models

import (
	"errors"
	"strings"
)

type CloseAccountRequest struct {
	Username string   `json:"username"`
	Pin      PinInput `json:"pin"`
}

func (r CloseAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(r.Pin.String()) == "" {
		errs = append(errs, "pin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type CloseAccountResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}
