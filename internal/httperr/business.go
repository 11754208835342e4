package httperr

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindTooLate
	KindInvalidState
	KindForbidden
)

type BusinessError struct {
	Code string
	Kind Kind
}

func (e BusinessError) Error() string {
	return e.Code
}

// ErrBusiness is the validation shorthand used across the use cases.
func ErrBusiness(code string) error {
	return BusinessError{Code: code, Kind: KindValidation}
}

func ErrValidation(code string) error {
	return BusinessError{Code: code, Kind: KindValidation}
}

func ErrNotFound(code string) error {
	return BusinessError{Code: code, Kind: KindNotFound}
}

func ErrConflict(code string) error {
	return BusinessError{Code: code, Kind: KindConflict}
}

func ErrTooLate(code string) error {
	return BusinessError{Code: code, Kind: KindTooLate}
}

func ErrInvalidState(code string) error {
	return BusinessError{Code: code, Kind: KindInvalidState}
}

func ErrForbidden(code string) error {
	return BusinessError{Code: code, Kind: KindForbidden}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns 0 for errors that are not business errors.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}

func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
