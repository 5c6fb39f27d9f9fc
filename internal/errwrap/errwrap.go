// Package errwrap contains the error helpers used across this module. It
// keeps fatal-error construction consistent between the kernel, the
// arbitration layer and the interconnect.
package errwrap

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Wrapf annotates err with a formatted message, keeping err as the cause.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Errorf builds a new error, in the same style as fmt.Errorf.
func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Append safely appends an error onto an existing one. A nil on either side
// passes the other through unchanged, so this is safe to use as a running
// `reterr = Append(reterr, err)` accumulator.
func Append(reterr, err error) error {
	if reterr == nil {
		return err
	}
	if err == nil {
		return reterr
	}
	return multierror.Append(reterr, err)
}

// String returns a string representation of the error, or the empty string
// if the error is nil.
func String(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
