package client

import (
	"context"
	"testing"

	"github.com/jonwraymond/pjlink/cache"
	"github.com/jonwraymond/pjlink/pjlinktest"
	"github.com/jonwraymond/pjlink/protocol"
)

func TestController_InputHelpers(t *testing.T) {
	srv := pjlinktest.NewServer(pjlinktest.Config{Inputs: "11 31 32"})
	defer srv.Close()

	ctrl := newTestController(t, srv, nil)
	ctx := context.Background()

	if res := ctrl.SelectInput(ctx, "32"); !res.Success {
		t.Fatalf("SelectInput() failed: %s", res.Error)
	}

	code, res := ctrl.GetInput(ctx)
	if !res.Success {
		t.Fatalf("GetInput() failed: %s", res.Error)
	}
	if code != "32" {
		t.Errorf("GetInput() = %q, want 32", code)
	}

	inputs, res := ctrl.GetInputList(ctx)
	if !res.Success {
		t.Fatalf("GetInputList() failed: %s", res.Error)
	}
	if len(inputs) != 3 {
		t.Fatalf("GetInputList() returned %d inputs, want 3", len(inputs))
	}
	if inputs[1].Family() != protocol.InputDigital {
		t.Errorf("input %q family = %v, want digital", inputs[1].Code, inputs[1].Family())
	}

	// The device rejects codes outside its input list.
	if res := ctrl.SelectInput(ctx, "55"); res.Success {
		t.Error("SelectInput(55) succeeded, want ERR2")
	}
}

func TestController_AVMuteHelpers(t *testing.T) {
	srv := pjlinktest.NewServer(pjlinktest.Config{})
	defer srv.Close()

	ctrl := newTestController(t, srv, nil)
	ctx := context.Background()

	if res := ctrl.SetAVMute(ctx, true, true); !res.Success {
		t.Fatalf("SetAVMute() failed: %s", res.Error)
	}

	state, res := ctrl.GetAVMute(ctx)
	if !res.Success {
		t.Fatalf("GetAVMute() failed: %s", res.Error)
	}
	if !state.Video || !state.Audio {
		t.Errorf("GetAVMute() = %+v, want both muted", state)
	}
}

func TestController_StatusHelpers(t *testing.T) {
	srv := pjlinktest.NewServer(pjlinktest.Config{})
	defer srv.Close()

	ctrl := newTestController(t, srv, nil)
	ctx := context.Background()

	lamps, res := ctrl.GetLampStatus(ctx)
	if !res.Success {
		t.Fatalf("GetLampStatus() failed: %s", res.Error)
	}
	if len(lamps) != 1 || lamps[0].Hours != 812 || !lamps[0].On {
		t.Errorf("GetLampStatus() = %+v, want one lit lamp at 812 hours", lamps)
	}

	status, res := ctrl.GetErrorStatus(ctx)
	if !res.Success {
		t.Fatalf("GetErrorStatus() failed: %s", res.Error)
	}
	if !status.Healthy() {
		t.Errorf("GetErrorStatus() = %+v, want healthy", status)
	}

	name, res := ctrl.GetName(ctx)
	if !res.Success || name != "Test Projector" {
		t.Errorf("GetName() = (%q, %s)", name, res.Error)
	}

	class, res := ctrl.GetClass(ctx)
	if !res.Success || class != "2" {
		t.Errorf("GetClass() = (%q, %s)", class, res.Error)
	}
}

func TestController_Freeze(t *testing.T) {
	srv := pjlinktest.NewServer(pjlinktest.Config{})
	defer srv.Close()

	ctrl := newTestController(t, srv, nil)

	if res := ctrl.Freeze(context.Background(), true); !res.Success {
		t.Errorf("Freeze() failed: %s", res.Error)
	}
}

func TestController_MalformedValueFailsHelper(t *testing.T) {
	srv := pjlinktest.NewServer(pjlinktest.Config{})
	defer srv.Close()

	ctrl := newTestController(t, srv, nil)

	srv.SetResponse("POWR", "9")
	if _, res := ctrl.GetPowerState(context.Background()); res.Success {
		t.Error("GetPowerState() succeeded on invalid value, want decode failure")
	}
}

func TestController_StatusCacheServesRepeatQueries(t *testing.T) {
	srv := pjlinktest.NewServer(pjlinktest.Config{})
	defer srv.Close()

	ctrl := newTestController(t, srv, func(c *Config) {
		c.CachePolicy = cache.DefaultPolicy()
	})
	ctx := context.Background()

	first := ctrl.Ping(ctx)
	if !first.Success || first.Cached {
		t.Fatalf("first Ping() = %+v, want uncached success", first)
	}

	second := ctrl.Ping(ctx)
	if !second.Success {
		t.Fatalf("second Ping() failed: %s", second.Error)
	}
	if !second.Cached {
		t.Error("second Ping() not served from cache")
	}
	if second.Attempts != 0 {
		t.Errorf("cached Attempts = %d, want 0", second.Attempts)
	}
	if got := srv.Commands(); got != 1 {
		t.Errorf("server received %d commands, want 1", got)
	}
}

func TestController_SetCommandInvalidatesCache(t *testing.T) {
	srv := pjlinktest.NewServer(pjlinktest.Config{})
	defer srv.Close()

	ctrl := newTestController(t, srv, func(c *Config) {
		c.CachePolicy = cache.DefaultPolicy()
	})
	ctx := context.Background()

	state, res := ctrl.GetPowerState(ctx)
	if !res.Success || state != protocol.PowerStateOff {
		t.Fatalf("GetPowerState() = (%v, %s)", state, res.Error)
	}

	if res := ctrl.PowerOn(ctx); !res.Success {
		t.Fatalf("PowerOn() failed: %s", res.Error)
	}

	// The cached "off" must not survive the power-on.
	state, res = ctrl.GetPowerState(ctx)
	if !res.Success {
		t.Fatalf("GetPowerState() failed: %s", res.Error)
	}
	if state != protocol.PowerStateOn {
		t.Errorf("power state after PowerOn = %v, want on (stale cache?)", state)
	}
}
