package txnlog

import "errors"

var (
	// ErrConfiguration indicates an invalid construction parameter or an
	// unknown severity level passed to SetLevel.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidPayload indicates Log was given a nil transaction.
	ErrInvalidPayload = errors.New("invalid payload")
)
