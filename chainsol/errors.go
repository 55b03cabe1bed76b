package chainsol

import "github.com/pkg/errors"

var (
	ErrInvalidKeypairFile  = errors.New("invalid keypair file")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrAccountNotFound     = errors.New("account not found")
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")
	ErrTransactionFailed   = errors.New("transaction failed")
)
