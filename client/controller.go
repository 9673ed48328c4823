package client

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/jonwraymond/pjlink/cache"
	"github.com/jonwraymond/pjlink/observe"
	"github.com/jonwraymond/pjlink/pool"
	"github.com/jonwraymond/pjlink/protocol"
	"github.com/jonwraymond/pjlink/resilience"
)

// Controller drives one projector through the full resilience stack:
// rate limiter around circuit breaker around retry around a pooled wire
// exchange. All methods are safe for concurrent use.
type Controller struct {
	host     string
	port     int
	target   string
	name     string
	password string

	commandTimeout time.Duration

	pool     *pool.Pool
	breaker  *resilience.CircuitBreaker
	executor *resilience.Executor
	cache    *cache.StatusCache

	logger  observe.Logger
	tracer  observe.Tracer
	metrics observe.Metrics
}

// Health is a read-only snapshot of the controller's failure-handling
// state, suitable for status displays.
type Health struct {
	Target  string
	Circuit resilience.State
	Breaker resilience.CircuitBreakerStats
	Pool    pool.Stats
}

// New creates a controller for one projector. It fails only on impossible
// configuration; an unreachable device is an operation failure, not a
// construction failure.
func New(config Config) (*Controller, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config, err := config.withDefaults()
	if err != nil {
		return nil, err
	}

	c := &Controller{
		host:           config.Host,
		port:           config.Port,
		target:         net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		name:           config.Name,
		password:       config.Password,
		commandTimeout: config.CommandTimeout,
		logger:         config.Logger,
		tracer:         config.Tracer,
		metrics:        config.Metrics,
	}

	c.pool, err = pool.New(config.Pool)
	if err != nil {
		return nil, err
	}

	breakerConfig := config.Breaker
	if breakerConfig.IsFailure == nil {
		breakerConfig.IsFailure = isBreakerFailure
	}
	// Pool exhaustion is local resource pressure, not target ill-health.
	breakerConfig.ExcludeErrors = append(breakerConfig.ExcludeErrors, pool.ErrPoolExhausted)
	if breakerConfig.OnStateChange == nil {
		breakerConfig.OnStateChange = func(from, to resilience.State) {
			c.logger.Warn(context.Background(), "circuit state changed",
				observe.Field{Key: "target", Value: c.target},
				observe.Field{Key: "from", Value: from.String()},
				observe.Field{Key: "to", Value: to.String()},
			)
		}
	}
	c.breaker = resilience.NewCircuitBreaker(breakerConfig)

	retryConfig := config.Retry
	if retryConfig.RetryIf == nil {
		retryConfig.RetryIf = isRetryable
	}

	// No executor timeout layer: CommandTimeout is enforced by socket
	// deadlines set after the borrow, so waiting for pool capacity is
	// governed only by the pool's acquire timeout and exhaustion always
	// surfaces as ErrPoolExhausted.
	opts := []resilience.ExecutorOption{
		resilience.WithCircuitBreaker(c.breaker),
		resilience.WithRetry(resilience.NewRetry(retryConfig)),
	}
	if config.RateLimit.Rate > 0 {
		opts = append(opts, resilience.WithRateLimiter(resilience.NewRateLimiter(config.RateLimit)))
	}
	c.executor = resilience.NewExecutor(opts...)

	if config.CachePolicy.ShouldCache() {
		c.cache = cache.NewStatusCache(cache.NewMemoryCache(), nil, config.CachePolicy)
	}

	return c, nil
}

// isBreakerFailure decides which errors count against the circuit. ERR1,
// ERR2 and ERR3 mean the device answered and rejected the command at the
// protocol level; the target is reachable and sane, so the circuit stays
// untouched. ERR4 (device failure), ERRA (auth failure), malformed
// responses and transport errors all count.
func isBreakerFailure(err error) bool {
	var derr *protocol.DeviceError
	if errors.As(err, &derr) {
		switch derr.Code {
		case protocol.ErrCodeUndefined, protocol.ErrCodeBadParameter, protocol.ErrCodeUnavailable:
			return false
		}
	}
	return true
}

// isRetryable decides which errors earn another attempt. ERR3 is transient
// by protocol definition; transport errors may be a blip. Everything the
// device deterministically rejects is futile to repeat.
func isRetryable(err error) bool {
	var derr *protocol.DeviceError
	if errors.As(err, &derr) {
		return derr.Transient()
	}
	if protocol.IsMalformed(err) {
		return false
	}
	// The pool already waited its full acquire budget.
	if errors.Is(err, pool.ErrPoolExhausted) {
		return false
	}
	return true
}

// Target returns the host:port this controller drives.
func (c *Controller) Target() string {
	return c.target
}

// Execute runs one command through the resilience stack and returns the
// uniform Result. Queries may be served from the status cache when one is
// configured; a successful set command invalidates the matching cached
// query.
func (c *Controller) Execute(ctx context.Context, cmd protocol.Command) Result {
	start := time.Now()

	if err := cmd.Validate(); err != nil {
		return failure(0, err, time.Since(start))
	}

	meta := observe.DeviceMeta{
		Target:  c.target,
		Name:    c.name,
		Command: cmd.Name,
		Class:   int(cmd.Class),
	}
	ctx, span := c.tracer.StartSpan(ctx, meta)

	attempts := 0
	wired := false
	fetch := func(ctx context.Context) (string, error) {
		wired = true
		var value string
		n, err := c.executor.Execute(ctx, func(ctx context.Context) error {
			got, err := c.exchange(ctx, cmd)
			if err != nil {
				return err
			}
			value = got
			return nil
		})
		attempts = n
		return value, err
	}

	var value string
	var err error
	if c.cache != nil {
		value, _, err = c.cache.GetValue(ctx, c.target, cmd, fetch)
	} else {
		value, err = fetch(ctx)
	}
	cached := !wired

	elapsed := time.Since(start)
	c.tracer.EndSpan(span, err)
	c.metrics.RecordCommand(ctx, meta, elapsed, attempts, err)

	if err != nil {
		c.logger.WithDevice(meta).Warn(ctx, "command failed",
			observe.Field{Key: "attempts", Value: attempts},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return failure(attempts, err, elapsed)
	}

	if c.cache != nil && !cmd.IsQuery() {
		c.cache.Invalidate(ctx, c.target, cmd)
	}

	c.logger.WithDevice(meta).Debug(ctx, "command completed",
		observe.Field{Key: "attempts", Value: attempts},
		observe.Field{Key: "cached", Value: cached},
	)
	return success(attempts, value, cached, elapsed)
}

// exchange performs one wire attempt: borrow, write, read, parse, release
// or discard. The connection goes back to the idle set only after a fully
// clean exchange; any doubt about wire state destroys it.
func (c *Controller) exchange(ctx context.Context, cmd protocol.Command) (string, error) {
	conn, err := c.pool.Get(ctx, c.host, c.port)
	if err != nil {
		return "", err
	}

	deadline := time.Now().Add(c.commandTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	line := cmd.Encode()
	if challenge := conn.Challenge(); challenge.RequiresAuth {
		prefix, err := challenge.Prefix(c.password)
		if err != nil {
			// Missing password is a configuration problem; the connection
			// itself is still clean.
			_ = c.pool.Release(conn)
			return "", resilience.Permanent(err)
		}
		line = append([]byte(prefix), line...)
	}

	if err := conn.WriteLine(line, deadline); err != nil {
		_ = c.pool.Discard(conn)
		return "", err
	}
	raw, err := conn.ReadLine(deadline)
	if err != nil {
		_ = c.pool.Discard(conn)
		return "", err
	}

	resp, err := protocol.Parse(raw)
	if err != nil {
		_ = c.pool.Discard(conn)
		return "", resilience.Permanent(err)
	}
	if !resp.Matches(cmd) {
		_ = c.pool.Discard(conn)
		return "", resilience.Permanent(&protocol.MalformedResponseError{
			Raw:    resp.Raw,
			Reason: "response does not echo the command",
		})
	}

	if derr := resp.Err(); derr != nil {
		// The device answered; the connection completed a clean exchange.
		_ = c.pool.Release(conn)
		var devErr *protocol.DeviceError
		if errors.As(derr, &devErr) && !devErr.Transient() {
			return "", resilience.Permanent(derr)
		}
		return "", derr
	}

	_ = c.pool.Release(conn)
	return resp.Value, nil
}

// GetHealth returns the circuit state and pool statistics for status
// displays. It never touches the device.
func (c *Controller) GetHealth() Health {
	return Health{
		Target:  c.target,
		Circuit: c.breaker.State(),
		Breaker: c.breaker.Stats(),
		Pool:    c.pool.Stats(),
	}
}

// ResetCircuit forces the breaker closed, for operator-triggered recovery
// after a device is fixed.
func (c *Controller) ResetCircuit() {
	c.breaker.Reset()
	c.logger.Info(context.Background(), "circuit manually reset",
		observe.Field{Key: "target", Value: c.target},
	)
}

// Close releases every pooled connection. The controller must not be used
// afterwards.
func (c *Controller) Close() error {
	return c.pool.Close()
}
