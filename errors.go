package vending

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRow is returned for row 0.
	ErrInvalidRow = errors.New("vending: invalid row number")
	// ErrNoData indicates the device answered a command with zero bytes.
	// It is an expected outcome (busy unit, empty slot, jammed motor) rather
	// than a transport fault.
	ErrNoData = errors.New("vending: no data received")
	// ErrEmptyCommand indicates a configured command has no hex digits.
	ErrEmptyCommand = errors.New("vending: empty command")
	// ErrOddLength indicates a hex command with an odd number of digits.
	ErrOddLength = errors.New("vending: odd length hex command")
	// ErrFrameTooLarge indicates a command frame exceeding frameMaxSize.
	ErrFrameTooLarge = errors.New("vending: frame too large")

	// ErrNotOpen is returned by Session.Write and Session.Read before Open.
	ErrNotOpen = errors.New("serial: session not open")
	// ErrClosed is returned when a closed session is reused.
	ErrClosed = errors.New("serial: session closed")
)

// DeviceError reports a failure while configuring or opening the device.
type DeviceError struct {
	Device string
	Step   string
	Err    error
}

// Error implements error.
func (e *DeviceError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("serial: %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("serial: %s %s: %v", e.Step, e.Device, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeviceError) Unwrap() error { return e.Err }

// WriteError reports a frame rejected by the transport.
type WriteError struct {
	Device string
	Err    error
}

// Error implements error.
func (e *WriteError) Error() string {
	return fmt.Sprintf("serial: write %s: %v", e.Device, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error { return e.Err }

// LookupError reports a row without a configured command.
type LookupError struct {
	Row int
}

// Error implements error.
func (e *LookupError) Error() string {
	return fmt.Sprintf("vending: no command configured for row %d", e.Row)
}

// DecodeError reports a command string that is not valid hex.
type DecodeError struct {
	Command string
	Err     error
}

// Error implements error.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("vending: decode command %q: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Err }
