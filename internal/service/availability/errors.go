package availability

import "errors"

var (
	ErrInvalidDataSource = errors.New("invalid data source")
	ErrInvalidProcessor  = errors.New("invalid processor")
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}
