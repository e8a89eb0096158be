package model

import "errors"

var (
	// ErrInvalidTransaction wraps every input validation failure.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrTransactionNotFound is returned when a record id is unknown.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrRateUnavailable means no settlement rate could be obtained, so the
	// transaction cannot be scored.
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrDuplicateTransaction is returned when a transaction id is reused.
	ErrDuplicateTransaction = errors.New("transaction already exists")
)
