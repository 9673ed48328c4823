package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/pjlink/client"
	"github.com/jonwraymond/pjlink/resilience"
)

// ProjectorChecker reports one projector's health through its controller.
// The verdict combines circuit state with a live power query: an open
// circuit is unhealthy without touching the wire, a half-open circuit or
// a ping that needed retries is degraded.
type ProjectorChecker struct {
	name string
	ctrl *client.Controller
}

// NewProjectorChecker wraps a controller as a health checker. An empty
// name falls back to the controller's target address.
func NewProjectorChecker(name string, ctrl *client.Controller) *ProjectorChecker {
	if name == "" {
		name = ctrl.Target()
	}
	return &ProjectorChecker{name: name, ctrl: ctrl}
}

// Name identifies this projector in aggregate reports.
func (p *ProjectorChecker) Name() string {
	return p.name
}

// Check probes the projector.
func (p *ProjectorChecker) Check(ctx context.Context) Result {
	h := p.ctrl.GetHealth()

	if h.Circuit == resilience.StateOpen {
		return Unhealthy("circuit open", ErrCheckFailed).WithDetails(p.details(h, 0))
	}

	res := p.ctrl.Ping(ctx)
	h = p.ctrl.GetHealth()

	if !res.Success {
		return Unhealthy(
			fmt.Sprintf("ping failed: %s", res.Error),
			ErrCheckFailed,
		).WithDetails(p.details(h, res.Attempts))
	}

	if h.Circuit == resilience.StateHalfOpen || res.Attempts > 1 {
		return Degraded(
			fmt.Sprintf("ping succeeded after %d attempts", res.Attempts),
		).WithDetails(p.details(h, res.Attempts))
	}

	return Healthy("projector responding").WithDetails(p.details(h, res.Attempts))
}

func (p *ProjectorChecker) details(h client.Health, attempts int) map[string]any {
	return map[string]any{
		"target":           h.Target,
		"circuit":          h.Circuit.String(),
		"attempts":         attempts,
		"total_failures":   h.Breaker.TotalFailures,
		"connections_idle": h.Pool.Idle,
		"connections_used": h.Pool.InUse,
	}
}
