package core

import (
	"fmt"

	"github.com/gravitational/trace"
)

// FormatError reports a line whose marker or separator structure does not
// match the MSP layout.
func FormatError(format string, args ...interface{}) error {
	return trace.BadParameter(format, args...)
}

// MissingError reports a required metadata key absent from a record.
func MissingError(key string) error {
	return trace.NotFound("required comment key %q is missing", key)
}

// IsFormatError reports whether err is (or wraps) a format error.
func IsFormatError(err error) bool {
	return trace.IsBadParameter(err)
}

// IsMissingError reports whether err is (or wraps) a missing-metadata error.
func IsMissingError(err error) bool {
	return trace.IsNotFound(err)
}

// IsRecordError reports whether err only invalidates the current record,
// i.e. whether a lenient run may skip it and continue.
func IsRecordError(err error) bool {
	return IsFormatError(err) || IsMissingError(err)
}

// AtLine annotates err with the input line it was raised on.
func AtLine(err error, line int) error {
	if err == nil {
		return nil
	}
	return trace.Wrap(err, fmt.Sprintf("line %d", line))
}
