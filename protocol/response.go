package protocol

import "strings"

// okValue is the acknowledgement value for set commands.
const okValue = "OK"

// Response is a parsed PJLink response line.
type Response struct {
	// Class is the protocol class echoed by the device.
	Class Class

	// Command is the four-character command code echoed by the device.
	Command string

	// Value is everything after '='. For set commands this is "OK"; for
	// queries it is the value string; for rejections it is an error code.
	Value string

	// Raw is the response line as received, without the trailing CR.
	Raw string
}

// Parse decodes a single response line. The line may include the trailing CR;
// anything that does not follow the %<class><NAME>=<value> grammar yields a
// MalformedResponseError.
func Parse(line []byte) (Response, error) {
	raw := string(line)
	if strings.HasSuffix(raw, "\r") {
		raw = raw[:len(raw)-1]
	} else {
		return Response{}, &MalformedResponseError{Raw: raw, Reason: "missing CR terminator"}
	}

	if len(raw) < 7 {
		return Response{}, &MalformedResponseError{Raw: raw, Reason: "line too short"}
	}
	if raw[0] != '%' {
		return Response{}, &MalformedResponseError{Raw: raw, Reason: "missing % header"}
	}

	var class Class
	switch raw[1] {
	case '1':
		class = Class1
	case '2':
		class = Class2
	default:
		return Response{}, &MalformedResponseError{Raw: raw, Reason: "unknown class marker"}
	}

	name := raw[2:6]
	for i := 0; i < len(name); i++ {
		if name[i] < 'A' || name[i] > 'Z' {
			return Response{}, &MalformedResponseError{Raw: raw, Reason: "command code is not uppercase ASCII"}
		}
	}

	if raw[6] != '=' {
		return Response{}, &MalformedResponseError{Raw: raw, Reason: "missing = separator"}
	}

	return Response{
		Class:   class,
		Command: name,
		Value:   raw[7:],
		Raw:     raw,
	}, nil
}

// OK reports whether the response is a plain acknowledgement.
func (r Response) OK() bool {
	return r.Value == okValue
}

// Err returns the DeviceError carried by the response, or nil when the
// response is an acknowledgement or a value.
func (r Response) Err() error {
	code := ErrorCode(r.Value)
	if !code.valid() {
		return nil
	}
	return &DeviceError{Code: code, Command: r.Command}
}

// Matches reports whether the response echoes the given command. A mismatch
// is a protocol violation: the device answered a different command than the
// one on the wire.
func (r Response) Matches(cmd Command) bool {
	return r.Command == cmd.Name && r.Class == cmd.Class
}
