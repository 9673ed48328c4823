package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/pjlink/cache"
	"github.com/jonwraymond/pjlink/observe"
	"github.com/jonwraymond/pjlink/pool"
	"github.com/jonwraymond/pjlink/resilience"
	"github.com/jonwraymond/pjlink/secret"
)

// DefaultPort is the port PJLink devices listen on.
const DefaultPort = 4352

// Config configures a Controller. Host is required; every other field has
// a usable default.
type Config struct {
	// Host is the projector's address.
	Host string

	// Port is the projector's PJLink port.
	// Default: 4352
	Port int

	// Name labels the device in logs, traces and health reports. Optional.
	Name string

	// Password authenticates against devices that demand it. The value may
	// be a secretref (resolved through Secrets) or a plain string. Empty
	// means unauthenticated; commands against a device that demands
	// authentication then fail with an auth error.
	Password string

	// Secrets resolves secret references in Password.
	// Default: secret.NewDefaultResolver()
	Secrets *secret.Resolver

	// CommandTimeout bounds each wire attempt (write plus response read).
	// The clock starts once a connection is in hand; waiting for pool
	// capacity is bounded separately by Pool.AcquireTimeout.
	// Default: 5 seconds
	CommandTimeout time.Duration

	// Pool configures the connection pool for this target.
	Pool pool.Config

	// Breaker configures the controller's circuit breaker. IsFailure and
	// ExcludeErrors defaults encode the controller's error policy; override
	// them only deliberately.
	Breaker resilience.CircuitBreakerConfig

	// Retry configures the retry policy around each operation.
	// Default strategy: exponential backoff with jitter.
	Retry resilience.RetryConfig

	// RateLimit paces commands to the device. Projectors are slow serial
	// endpoints; the zero value disables pacing.
	RateLimit resilience.RateLimiterConfig

	// CachePolicy enables the TTL status cache for queries. The zero value
	// disables caching.
	CachePolicy cache.Policy

	// Logger, Tracer and Metrics default to no-ops.
	Logger  observe.Logger
	Tracer  observe.Tracer
	Metrics observe.Metrics
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("client: host is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("client: invalid port %d", c.Port)
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("client: CommandTimeout must not be negative")
	}
	return nil
}

func (c Config) withDefaults() (Config, error) {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = 5 * time.Second
	}
	if c.Secrets == nil {
		c.Secrets = secret.NewDefaultResolver()
	}
	if c.Password != "" {
		resolved, err := c.Secrets.ResolveValue(context.Background(), c.Password)
		if err != nil {
			return c, fmt.Errorf("client: resolving password: %w", err)
		}
		c.Password = resolved
	}
	if c.Retry.Strategy == resilience.StrategyNone && c.Retry.MaxRetries == 0 {
		c.Retry.Strategy = resilience.StrategyExponentialJitter
		c.Retry.JitterFactor = 0.5
	}
	if c.Logger == nil {
		c.Logger = observe.NewNoopLogger()
	}
	if c.Tracer == nil {
		c.Tracer = observe.NewNoopTracer()
	}
	if c.Metrics == nil {
		c.Metrics = observe.NewNoopMetrics()
	}
	return c, nil
}
