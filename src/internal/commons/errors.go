package commons

import "errors"

var ErrRecordNotFound = errors.New("record not found")
var ErrInsufficientBalance = errors.New("insufficient balance")
var ErrInvalidAmount = errors.New("amount must be greater than zero")
var ErrSameAccount = errors.New("sender and recipient are the same account")
var ErrSessionNotFound = errors.New("session not found")
var ErrRecipientNotFound = errors.New("recipient not found")
