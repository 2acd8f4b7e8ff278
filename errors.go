package main

import (
	"errors"
	"fmt"
)

// Process exit codes. They are the only machine-checkable interface of the
// tool and must not change.
const (
	exitOK          = 0
	exitUsage       = 1
	exitNoDevices   = 2
	exitNotFound    = 3
	exitOperation   = 4
	exitUnavailable = 5
)

// ErrNoDevices reports an empty device directory.
var ErrNoDevices = errors.New("no screen sharing capable devices detected")

// UsageError is a malformed command line. The usage text is printed with it.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usageErrorf(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError means no reachable device carries the requested name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s is not in the list of available devices.\n"+
		"Verify the device name. For example \"Joe's iPad\" is different from \"Joe‘s iPad\" (notice the apostrophe).\n"+
		"For accuracy, list the available devices and copy paste the device name.", e.Name)
}

// OperationError is a connect or disconnect that completed with a failure,
// or whose completion never arrived.
type OperationError struct {
	Op  Command
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// UnavailableError means the service could not be reached or refused to
// enumerate devices.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("screen sharing service unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var (
		usage       *UsageError
		notFound    *NotFoundError
		op          *OperationError
		unavailable *UnavailableError
	)
	switch {
	case errors.As(err, &usage):
		return exitUsage
	case errors.Is(err, ErrNoDevices):
		return exitNoDevices
	case errors.As(err, &notFound):
		return exitNotFound
	case errors.As(err, &op):
		return exitOperation
	case errors.As(err, &unavailable):
		return exitUnavailable
	}
	return exitUsage
}
