package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Rules reported by InvalidInputError.
const (
	RuleEncoding = "encoding"
	RuleEmpty    = "empty"
	RuleTooLong  = "too_long"
	RuleCharset  = "charset"
)

// InvalidInputError carries the validation rule a search query broke.
type InvalidInputError struct {
	Rule    string
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

func invalidInput(rule, msg string) error {
	return &InvalidInputError{Rule: rule, Message: msg}
}
