package gotaylor

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Errors returned while evaluating coefficients. They are always wrapped with
// the operator and order that failed, so match them with errors.Is.
var (
	// ErrDomain is returned when an operand leaves the domain of a function,
	// such as the square root or logarithm of a non-positive value.
	ErrDomain = errors.New("gotaylor: domain error")

	// ErrDivisionByZero is returned by Div, and by Pow with a constant
	// exponent, when the order-0 denominator or base is zero.
	ErrDivisionByZero = errors.New("gotaylor: division by zero")

	// ErrOutOfRange is returned for a negative order index.
	ErrOutOfRange = errors.New("gotaylor: order out of range")
)

// opError annotates a sentinel with the operator and the order being computed.
func opError(sentinel error, op Op, k int, format string, args ...interface{}) error {
	return errors.Wrapf(errors.Wrapf(sentinel, format, args...), "%s at order %d", op, k)
}

// appendErr safely appends err onto reterr. Either may be nil.
func appendErr(reterr, err error) error {
	if reterr == nil {
		return err
	}
	if err == nil {
		return reterr
	}
	return multierror.Append(reterr, err)
}

// ErrorCode classifies err into a stable code suitable for tool responses.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDomain):
		return "DOMAIN_ERROR"
	case errors.Is(err, ErrDivisionByZero):
		return "DIVISION_BY_ZERO"
	case errors.Is(err, ErrOutOfRange):
		return "OUT_OF_RANGE"
	}
	return "INVALID_REQUEST"
}
