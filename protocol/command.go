package protocol

import "fmt"

// Class identifies the PJLink protocol class of a command.
type Class int

const (
	// Class1 is the base command set supported by every PJLink device.
	Class1 Class = 1
	// Class2 is the extended command set (freeze, filter, resolution, ...).
	Class2 Class = 2
)

// Command names used by the factories below.
const (
	NamePower       = "POWR"
	NameInput       = "INPT"
	NameAVMute      = "AVMT"
	NameErrorStatus = "ERST"
	NameLamp        = "LAMP"
	NameInputList   = "INST"
	NameDeviceName  = "NAME"
	NameMaker       = "INF1"
	NameModel       = "INF2"
	NameInfo        = "INFO"
	NameClass       = "CLSS"
	NameSerial      = "SNUM"
	NameVersion     = "SVER"
	NameInputName   = "INNM"
	NameInputRes    = "IRES"
	NameRecommRes   = "RRES"
	NameFilter      = "FILT"
	NameFreeze      = "FREZ"
)

// queryParam marks a command as a query rather than a set.
const queryParam = "?"

// Command is a single PJLink command. Commands are immutable values;
// construct them through the named factories (PowerOn, InputSelect, ...).
type Command struct {
	// Class is the protocol class, 1 or 2.
	Class Class

	// Name is the four-character command code, e.g. "POWR".
	Name string

	// Param is the parameter string, "?" for queries.
	Param string
}

// IsQuery reports whether the command is a status query.
func (c Command) IsQuery() bool {
	return c.Param == queryParam
}

// Validate checks that the command can be framed on the wire. A command that
// fails validation is a caller bug, never a transient condition.
func (c Command) Validate() error {
	if c.Class != Class1 && c.Class != Class2 {
		return fmt.Errorf("protocol: invalid class %d", int(c.Class))
	}
	if len(c.Name) != 4 {
		return fmt.Errorf("protocol: command name %q must be 4 characters", c.Name)
	}
	for i := 0; i < len(c.Name); i++ {
		if c.Name[i] < 'A' || c.Name[i] > 'Z' {
			return fmt.Errorf("protocol: command name %q must be uppercase ASCII", c.Name)
		}
	}
	if c.Param == "" {
		return fmt.Errorf("protocol: command %s has empty parameter", c.Name)
	}
	if len(c.Param) > 128 {
		return fmt.Errorf("protocol: parameter exceeds 128 bytes")
	}
	for i := 0; i < len(c.Param); i++ {
		if c.Param[i] == '\r' || c.Param[i] == '\n' || c.Param[i] == '%' {
			return fmt.Errorf("protocol: parameter contains reserved byte %q", c.Param[i])
		}
	}
	return nil
}

// Encode serializes the command to its wire form, including the trailing CR.
// Encode is deterministic and does not validate; call Validate first when the
// command was not produced by a factory.
func (c Command) Encode() []byte {
	// %<class><NAME> <param>\r
	b := make([]byte, 0, 8+len(c.Param))
	b = append(b, '%')
	b = append(b, byte('0'+int(c.Class)))
	b = append(b, c.Name...)
	b = append(b, ' ')
	b = append(b, c.Param...)
	b = append(b, '\r')
	return b
}

// String returns the wire form without the trailing CR, for logs.
func (c Command) String() string {
	return fmt.Sprintf("%%%d%s %s", int(c.Class), c.Name, c.Param)
}

// PowerOn builds a class 1 power-on command.
func PowerOn() Command {
	return Command{Class: Class1, Name: NamePower, Param: "1"}
}

// PowerOff builds a class 1 power-off (standby) command.
func PowerOff() Command {
	return Command{Class: Class1, Name: NamePower, Param: "0"}
}

// PowerQuery builds a class 1 power status query.
func PowerQuery() Command {
	return Command{Class: Class1, Name: NamePower, Param: queryParam}
}

// InputSelect builds a class 1 input switch command for the given two-digit
// input code (e.g. "31" for the first digital input).
func InputSelect(code string) Command {
	return Command{Class: Class1, Name: NameInput, Param: code}
}

// InputQuery builds a class 1 current-input query.
func InputQuery() Command {
	return Command{Class: Class1, Name: NameInput, Param: queryParam}
}

// AVMute builds a class 1 audio/video mute command. video and audio select
// which channels to mute; both false releases the mute.
func AVMute(video, audio bool) Command {
	var param string
	switch {
	case video && audio:
		param = "31"
	case video:
		param = "11"
	case audio:
		param = "21"
	default:
		param = "30"
	}
	return Command{Class: Class1, Name: NameAVMute, Param: param}
}

// AVMuteQuery builds a class 1 mute status query.
func AVMuteQuery() Command {
	return Command{Class: Class1, Name: NameAVMute, Param: queryParam}
}

// LampQuery builds a class 1 lamp hours/status query.
func LampQuery() Command {
	return Command{Class: Class1, Name: NameLamp, Param: queryParam}
}

// ErrorStatusQuery builds a class 1 error status (ERST) query.
func ErrorStatusQuery() Command {
	return Command{Class: Class1, Name: NameErrorStatus, Param: queryParam}
}

// InputListQuery builds a class 1 available-inputs (INST) query.
func InputListQuery() Command {
	return Command{Class: Class1, Name: NameInputList, Param: queryParam}
}

// NameQuery builds a class 1 device name query.
func NameQuery() Command {
	return Command{Class: Class1, Name: NameDeviceName, Param: queryParam}
}

// MakerQuery builds a class 1 manufacturer name query.
func MakerQuery() Command {
	return Command{Class: Class1, Name: NameMaker, Param: queryParam}
}

// ModelQuery builds a class 1 product name query.
func ModelQuery() Command {
	return Command{Class: Class1, Name: NameModel, Param: queryParam}
}

// InfoQuery builds a class 1 free-form information query.
func InfoQuery() Command {
	return Command{Class: Class1, Name: NameInfo, Param: queryParam}
}

// ClassQuery builds a class 1 supported-class query.
func ClassQuery() Command {
	return Command{Class: Class1, Name: NameClass, Param: queryParam}
}

// SerialQuery builds a class 2 serial number query.
func SerialQuery() Command {
	return Command{Class: Class2, Name: NameSerial, Param: queryParam}
}

// VersionQuery builds a class 2 software version query.
func VersionQuery() Command {
	return Command{Class: Class2, Name: NameVersion, Param: queryParam}
}

// FilterQuery builds a class 2 filter usage query.
func FilterQuery() Command {
	return Command{Class: Class2, Name: NameFilter, Param: queryParam}
}

// Freeze builds a class 2 screen freeze command.
func Freeze(on bool) Command {
	param := "0"
	if on {
		param = "1"
	}
	return Command{Class: Class2, Name: NameFreeze, Param: param}
}

// FreezeQuery builds a class 2 freeze status query.
func FreezeQuery() Command {
	return Command{Class: Class2, Name: NameFreeze, Param: queryParam}
}

// InputNameQuery builds a class 2 input terminal name query for an input code.
func InputNameQuery(code string) Command {
	return Command{Class: Class2, Name: NameInputName, Param: code}
}

// InputResolutionQuery builds a class 2 current input resolution query.
func InputResolutionQuery() Command {
	return Command{Class: Class2, Name: NameInputRes, Param: queryParam}
}

// RecommendedResolutionQuery builds a class 2 recommended resolution query.
func RecommendedResolutionQuery() Command {
	return Command{Class: Class2, Name: NameRecommRes, Param: queryParam}
}
