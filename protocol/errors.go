package protocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for protocol handling.
var (
	// ErrAuthRequired is returned when a command is sent without credentials
	// to a device that demanded authentication in its greeting.
	ErrAuthRequired = errors.New("protocol: device requires authentication")

	// ErrConnectionRefusedByDevice is returned when the greeting is
	// "PJLINK ERRA": the device refused the session outright (another
	// controller holds it, or authentication is locked out).
	ErrConnectionRefusedByDevice = errors.New("protocol: device refused connection")
)

// ErrorCode is one of the five documented PJLink error codes.
type ErrorCode string

const (
	// ErrCodeUndefined (ERR1): the device does not implement the command.
	ErrCodeUndefined ErrorCode = "ERR1"
	// ErrCodeBadParameter (ERR2): the parameter is out of range or malformed.
	ErrCodeBadParameter ErrorCode = "ERR2"
	// ErrCodeUnavailable (ERR3): the device cannot act right now
	// (busy, warming up, cooling down). Transient by protocol definition.
	ErrCodeUnavailable ErrorCode = "ERR3"
	// ErrCodeDeviceFailure (ERR4): projector or display failure.
	ErrCodeDeviceFailure ErrorCode = "ERR4"
	// ErrCodeAuthFailure (ERRA): the authentication digest was wrong.
	ErrCodeAuthFailure ErrorCode = "ERRA"
)

// valid reports whether the code is one of the documented five.
func (c ErrorCode) valid() bool {
	switch c {
	case ErrCodeUndefined, ErrCodeBadParameter, ErrCodeUnavailable,
		ErrCodeDeviceFailure, ErrCodeAuthFailure:
		return true
	}
	return false
}

// DeviceError is an error response (ERR1-ERR4, ERRA) from the device. The
// device answered, so a DeviceError says nothing about network health.
type DeviceError struct {
	// Code is the PJLink error code.
	Code ErrorCode

	// Command is the four-character command the device rejected.
	Command string
}

func (e *DeviceError) Error() string {
	switch e.Code {
	case ErrCodeUndefined:
		return fmt.Sprintf("protocol: %s: undefined command (ERR1)", e.Command)
	case ErrCodeBadParameter:
		return fmt.Sprintf("protocol: %s: bad parameter (ERR2)", e.Command)
	case ErrCodeUnavailable:
		return fmt.Sprintf("protocol: %s: device busy or unavailable (ERR3)", e.Command)
	case ErrCodeDeviceFailure:
		return fmt.Sprintf("protocol: %s: device failure (ERR4)", e.Command)
	case ErrCodeAuthFailure:
		return fmt.Sprintf("protocol: %s: authentication failed (ERRA)", e.Command)
	default:
		return fmt.Sprintf("protocol: %s: device error %s", e.Command, e.Code)
	}
}

// Transient reports whether the error is transient by protocol definition
// (only ERR3 is: the device is warming up, cooling down or busy).
func (e *DeviceError) Transient() bool {
	return e.Code == ErrCodeUnavailable
}

// MalformedResponseError is returned by Parse when a line does not follow
// the PJLink response grammar. A malformed response means the remote speaks
// a broken dialect, not that the network blinked.
type MalformedResponseError struct {
	// Raw is the offending line, without the trailing CR if one was present.
	Raw string

	// Reason describes which part of the grammar was violated.
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("protocol: malformed response %q: %s", e.Raw, e.Reason)
}

// IsMalformed reports whether err is (or wraps) a MalformedResponseError.
func IsMalformed(err error) bool {
	var m *MalformedResponseError
	return errors.As(err, &m)
}

// IsAuthFailure reports whether err is an ERRA device error or an ERRA
// greeting rejection.
func IsAuthFailure(err error) bool {
	if errors.Is(err, ErrConnectionRefusedByDevice) {
		return true
	}
	var d *DeviceError
	return errors.As(err, &d) && d.Code == ErrCodeAuthFailure
}
