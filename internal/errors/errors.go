// SPDX-License-Identifier: AGPL-3.0-only
package errors

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Dispatch-level kinds (unknown tool, malformed
// arguments, unsupported currency pair) are recoverable: the conversation
// loop reports them back to the model as failed tool results and continues.
// Provider errors are fatal and abort the run.
var (
	ErrUnknownTool             = errors.New("unknown tool")
	ErrMalformedArguments      = errors.New("malformed tool arguments")
	ErrUnsupportedCurrencyPair = errors.New("unsupported currency pair")
	ErrProvider                = errors.New("provider error")
)

// UnknownTool creates an error for a tool name with no registered handler.
func UnknownTool(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

// MalformedArguments creates an error for a tool-call argument payload that
// failed to decode.
func MalformedArguments(tool string, cause error) error {
	return fmt.Errorf("%w for %s: %v", ErrMalformedArguments, tool, cause)
}

// UnsupportedCurrencyPair creates an error for a conversion with no rate
// table entry.
func UnsupportedCurrencyPair(from, to string) error {
	return fmt.Errorf("%w: %s_%s", ErrUnsupportedCurrencyPair, from, to)
}

// Provider wraps a completion-endpoint failure.
func Provider(cause error) error {
	return fmt.Errorf("%w: %v", ErrProvider, cause)
}

// InvalidInput creates a formatted "invalid input" error
func InvalidInput(reason string) error {
	return fmt.Errorf("invalid input: %s", reason)
}

// Internal creates a formatted "internal error" error
func Internal(err error) error {
	return fmt.Errorf("internal error: %v", err)
}

// IsRecoverable reports whether err is a tool-dispatch-level failure that
// should be fed back into the conversation rather than aborting the run.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrUnknownTool) ||
		errors.Is(err, ErrMalformedArguments) ||
		errors.Is(err, ErrUnsupportedCurrencyPair)
}

// Kind returns the machine-readable kind tag for err, or "internal" if the
// error matches no known kind.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownTool):
		return "unknown_tool"
	case errors.Is(err, ErrMalformedArguments):
		return "malformed_arguments"
	case errors.Is(err, ErrUnsupportedCurrencyPair):
		return "unsupported_currency_pair"
	case errors.Is(err, ErrProvider):
		return "provider_error"
	default:
		return "internal"
	}
}
