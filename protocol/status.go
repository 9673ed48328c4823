package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// PowerState is the POWR query answer.
type PowerState int

const (
	PowerStateOff     PowerState = 0
	PowerStateOn      PowerState = 1
	PowerStateCooling PowerState = 2
	PowerStateWarming PowerState = 3
)

// String returns the human-readable power state.
func (s PowerState) String() string {
	switch s {
	case PowerStateOff:
		return "off"
	case PowerStateOn:
		return "on"
	case PowerStateCooling:
		return "cooling"
	case PowerStateWarming:
		return "warming"
	default:
		return "unknown"
	}
}

// ParsePowerState decodes a POWR query value.
func ParsePowerState(v string) (PowerState, error) {
	switch v {
	case "0":
		return PowerStateOff, nil
	case "1":
		return PowerStateOn, nil
	case "2":
		return PowerStateCooling, nil
	case "3":
		return PowerStateWarming, nil
	default:
		return 0, &MalformedResponseError{Raw: v, Reason: "invalid power state"}
	}
}

// AVMuteState is the AVMT query answer.
type AVMuteState struct {
	Video bool
	Audio bool
}

// ParseAVMute decodes an AVMT query value ("11", "21", "31" or "30").
func ParseAVMute(v string) (AVMuteState, error) {
	switch v {
	case "30":
		return AVMuteState{}, nil
	case "11":
		return AVMuteState{Video: true}, nil
	case "21":
		return AVMuteState{Audio: true}, nil
	case "31":
		return AVMuteState{Video: true, Audio: true}, nil
	default:
		return AVMuteState{}, &MalformedResponseError{Raw: v, Reason: "invalid mute state"}
	}
}

// LampStatus is one lamp's entry in a LAMP query answer.
type LampStatus struct {
	// Hours is the cumulative lighting time.
	Hours int

	// On is true when the lamp is currently lit.
	On bool
}

// ParseLampStatus decodes a LAMP query value: space-separated
// "<hours> <status>" pairs, one pair per lamp.
func ParseLampStatus(v string) ([]LampStatus, error) {
	fields := strings.Fields(v)
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil, &MalformedResponseError{Raw: v, Reason: "lamp status is not hour/state pairs"}
	}

	lamps := make([]LampStatus, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		hours, err := strconv.Atoi(fields[i])
		if err != nil || hours < 0 {
			return nil, &MalformedResponseError{Raw: v, Reason: fmt.Sprintf("invalid lamp hours %q", fields[i])}
		}
		var on bool
		switch fields[i+1] {
		case "0":
			on = false
		case "1":
			on = true
		default:
			return nil, &MalformedResponseError{Raw: v, Reason: fmt.Sprintf("invalid lamp state %q", fields[i+1])}
		}
		lamps = append(lamps, LampStatus{Hours: hours, On: on})
	}
	return lamps, nil
}

// Severity is one component's digit in an ERST answer.
type Severity int

const (
	SeverityOK      Severity = 0
	SeverityWarning Severity = 1
	SeverityError   Severity = 2
)

// String returns the human-readable severity.
func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "ok"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrorStatus is the ERST query answer: six fixed-position component digits.
type ErrorStatus struct {
	Fan         Severity
	Lamp        Severity
	Temperature Severity
	Cover       Severity
	Filter      Severity
	Other       Severity
}

// Healthy reports whether every component is at SeverityOK.
func (e ErrorStatus) Healthy() bool {
	return e == ErrorStatus{}
}

// ParseErrorStatus decodes an ERST query value: exactly six digits, each
// 0 (ok), 1 (warning) or 2 (error).
func ParseErrorStatus(v string) (ErrorStatus, error) {
	if len(v) != 6 {
		return ErrorStatus{}, &MalformedResponseError{Raw: v, Reason: "error status is not 6 digits"}
	}
	var digits [6]Severity
	for i := 0; i < 6; i++ {
		switch v[i] {
		case '0':
			digits[i] = SeverityOK
		case '1':
			digits[i] = SeverityWarning
		case '2':
			digits[i] = SeverityError
		default:
			return ErrorStatus{}, &MalformedResponseError{Raw: v, Reason: fmt.Sprintf("invalid severity digit %q", v[i])}
		}
	}
	return ErrorStatus{
		Fan:         digits[0],
		Lamp:        digits[1],
		Temperature: digits[2],
		Cover:       digits[3],
		Filter:      digits[4],
		Other:       digits[5],
	}, nil
}

// InputFamily is the source family encoded in an input code's first digit.
type InputFamily int

const (
	InputRGB     InputFamily = 1
	InputVideo   InputFamily = 2
	InputDigital InputFamily = 3
	InputStorage InputFamily = 4
	InputNetwork InputFamily = 5
)

// String returns the human-readable input family.
func (f InputFamily) String() string {
	switch f {
	case InputRGB:
		return "rgb"
	case InputVideo:
		return "video"
	case InputDigital:
		return "digital"
	case InputStorage:
		return "storage"
	case InputNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Input is one selectable input terminal.
type Input struct {
	// Code is the two-digit input code used with InputSelect.
	Code string
}

// Family returns the source family of the input.
func (in Input) Family() InputFamily {
	if len(in.Code) != 2 {
		return 0
	}
	return InputFamily(in.Code[0] - '0')
}

// ParseInputList decodes an INST query value: a space-separated list of
// two-digit input codes.
func ParseInputList(v string) ([]Input, error) {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return nil, &MalformedResponseError{Raw: v, Reason: "empty input list"}
	}
	inputs := make([]Input, 0, len(fields))
	for _, f := range fields {
		if len(f) != 2 || f[0] < '1' || f[0] > '5' || f[1] < '0' || f[1] > '9' {
			return nil, &MalformedResponseError{Raw: v, Reason: fmt.Sprintf("invalid input code %q", f)}
		}
		inputs = append(inputs, Input{Code: f})
	}
	return inputs, nil
}
