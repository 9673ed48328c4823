package client

import (
	"context"

	"github.com/jonwraymond/pjlink/protocol"
)

// Connect verifies the device is reachable and speaking PJLink by asking
// for its supported class. It is the cheapest full round trip the protocol
// offers.
func (c *Controller) Connect(ctx context.Context) Result {
	return c.Execute(ctx, protocol.ClassQuery())
}

// Ping checks liveness with a power status query.
func (c *Controller) Ping(ctx context.Context) Result {
	return c.Execute(ctx, protocol.PowerQuery())
}

// PowerOn turns the projector on.
func (c *Controller) PowerOn(ctx context.Context) Result {
	return c.Execute(ctx, protocol.PowerOn())
}

// PowerOff puts the projector into standby.
func (c *Controller) PowerOff(ctx context.Context) Result {
	return c.Execute(ctx, protocol.PowerOff())
}

// GetPowerState queries and decodes the power state. The zero PowerState
// accompanies a failed Result.
func (c *Controller) GetPowerState(ctx context.Context) (protocol.PowerState, Result) {
	res := c.Execute(ctx, protocol.PowerQuery())
	if !res.Success {
		return 0, res
	}
	state, err := protocol.ParsePowerState(res.Value)
	if err != nil {
		return 0, failure(res.Attempts, err, res.Elapsed)
	}
	return state, res
}

// SelectInput switches to the given two-digit input code.
func (c *Controller) SelectInput(ctx context.Context, code string) Result {
	return c.Execute(ctx, protocol.InputSelect(code))
}

// GetInput queries the current input code.
func (c *Controller) GetInput(ctx context.Context) (string, Result) {
	res := c.Execute(ctx, protocol.InputQuery())
	return res.Value, res
}

// SetAVMute mutes or unmutes video and audio.
func (c *Controller) SetAVMute(ctx context.Context, video, audio bool) Result {
	return c.Execute(ctx, protocol.AVMute(video, audio))
}

// GetAVMute queries and decodes the mute state.
func (c *Controller) GetAVMute(ctx context.Context) (protocol.AVMuteState, Result) {
	res := c.Execute(ctx, protocol.AVMuteQuery())
	if !res.Success {
		return protocol.AVMuteState{}, res
	}
	state, err := protocol.ParseAVMute(res.Value)
	if err != nil {
		return protocol.AVMuteState{}, failure(res.Attempts, err, res.Elapsed)
	}
	return state, res
}

// GetLampStatus queries and decodes lamp hours and states, one entry per
// lamp.
func (c *Controller) GetLampStatus(ctx context.Context) ([]protocol.LampStatus, Result) {
	res := c.Execute(ctx, protocol.LampQuery())
	if !res.Success {
		return nil, res
	}
	lamps, err := protocol.ParseLampStatus(res.Value)
	if err != nil {
		return nil, failure(res.Attempts, err, res.Elapsed)
	}
	return lamps, res
}

// GetErrorStatus queries and decodes the six-component error report.
func (c *Controller) GetErrorStatus(ctx context.Context) (protocol.ErrorStatus, Result) {
	res := c.Execute(ctx, protocol.ErrorStatusQuery())
	if !res.Success {
		return protocol.ErrorStatus{}, res
	}
	status, err := protocol.ParseErrorStatus(res.Value)
	if err != nil {
		return protocol.ErrorStatus{}, failure(res.Attempts, err, res.Elapsed)
	}
	return status, res
}

// GetInputList queries and decodes the selectable inputs.
func (c *Controller) GetInputList(ctx context.Context) ([]protocol.Input, Result) {
	res := c.Execute(ctx, protocol.InputListQuery())
	if !res.Success {
		return nil, res
	}
	inputs, err := protocol.ParseInputList(res.Value)
	if err != nil {
		return nil, failure(res.Attempts, err, res.Elapsed)
	}
	return inputs, res
}

// GetName queries the device's configured name.
func (c *Controller) GetName(ctx context.Context) (string, Result) {
	res := c.Execute(ctx, protocol.NameQuery())
	return res.Value, res
}

// GetClass queries the highest PJLink class the device supports.
func (c *Controller) GetClass(ctx context.Context) (string, Result) {
	res := c.Execute(ctx, protocol.ClassQuery())
	return res.Value, res
}

// Freeze freezes or unfreezes the projected image (class 2).
func (c *Controller) Freeze(ctx context.Context, on bool) Result {
	return c.Execute(ctx, protocol.Freeze(on))
}
