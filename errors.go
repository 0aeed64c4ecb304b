package pdfstract

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Converter].
	ErrClosed = errors.New("pdfstract: converter is closed")

	// ErrEmptyLibraries is returned when a comparison request names no
	// extraction libraries.
	ErrEmptyLibraries = errors.New("pdfstract: no extraction libraries requested")

	// ErrUnknownLibrary is returned when a requested library identifier is
	// not present in the registry.
	ErrUnknownLibrary = errors.New("pdfstract: unknown extraction library")

	// ErrLibraryUnavailable is returned when a requested library is
	// registered but its native dependencies failed the availability probe.
	ErrLibraryUnavailable = errors.New("pdfstract: extraction library unavailable")

	// ErrUnknownChunker is returned for an unregistered chunker identifier.
	ErrUnknownChunker = errors.New("pdfstract: unknown chunker")

	// ErrTaskNotFound is returned when retrieving or deleting a task
	// identifier that was never stored (or was already deleted).
	ErrTaskNotFound = errors.New("pdfstract: task not found")
)

// RequestError marks a request that was rejected before any unit of work
// started: an empty or unknown library set, an unreadable input document,
// an invalid option. It is surfaced synchronously and no report is produced.
//
// Per-library failures inside a comparison are not RequestErrors; they are
// recorded in the report with status "failed" or "timeout".
type RequestError struct {
	Reason string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdfstract: invalid request: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("pdfstract: invalid request: %s", e.Reason)
}

func (e *RequestError) Unwrap() error { return e.Err }

// requestErr builds a RequestError wrapping err.
func requestErr(err error, format string, args ...any) error {
	return &RequestError{Reason: fmt.Sprintf(format, args...), Err: err}
}
