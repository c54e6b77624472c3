package errors

import "errors"

// Storage level errors returned by repositories.
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

// Use case errors surfaced to callers.
var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrIncorrectCredentials = errors.New("incorrect email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrStatementNotFound    = errors.New("statement not found")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidOperationType = errors.New("invalid operation type")
	ErrInvalidInput         = errors.New("invalid input")
)

// Kind classifies use case failures so callers can switch on them.
type Kind int

const (
	KindUnknown Kind = iota
	KindUserAlreadyExists
	KindIncorrectCredentials
	KindUserNotFound
	KindInsufficientFunds
	KindStatementNotFound
	KindInvalidInput
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown",
	KindUserAlreadyExists:    "user_already_exists",
	KindIncorrectCredentials: "incorrect_credentials",
	KindUserNotFound:         "user_not_found",
	KindInsufficientFunds:    "insufficient_funds",
	KindStatementNotFound:    "statement_not_found",
	KindInvalidInput:         "invalid_input",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// KindOf reports the failure kind carried by err. Errors outside the
// taxonomy, including nil, yield KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrUserAlreadyExists):
		return KindUserAlreadyExists
	case errors.Is(err, ErrIncorrectCredentials):
		return KindIncorrectCredentials
	case errors.Is(err, ErrUserNotFound):
		return KindUserNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrStatementNotFound):
		return KindStatementNotFound
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidOperationType), errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindUnknown
	}
}
