package commons

// Reason codes carried by failed responses.
const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeRecipientNotFound   = "RECIPIENT_NOT_FOUND"
	CodeSelfTransfer        = "SELF_TRANSFER"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeLoanRejected        = "LOAN_REJECTED"
	CodeCloseMismatch       = "CLOSE_MISMATCH"
	CodeSessionNotFound     = "SESSION_NOT_FOUND"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL"
)
