package types

import (
	"errors"
	"fmt"
)

var (
	// ErrContract marks programming errors: wrong kinds passed to a
	// kind-specific accessor, illegal modifier sets, a second assignment of a
	// one-time back-link, mismatched formal/actual lists.
	ErrContract = errors.New("contract violation")
	// ErrUnsupported marks operations that are not defined for the input.
	ErrUnsupported = errors.New("not supported")
)

// Contractf panics with an error wrapping ErrContract.
func Contractf(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrContract, fmt.Sprintf(format, args...)))
}

// Unsupportedf panics with an error wrapping ErrUnsupported.
func Unsupportedf(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...)))
}

// Recover converts a panic raised by Contractf or Unsupportedf into an
// error stored in *errp. Other panics are re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if err, ok := r.(error); ok && (errors.Is(err, ErrContract) || errors.Is(err, ErrUnsupported)) {
		*errp = err
		return
	}
	panic(r)
}
