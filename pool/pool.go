package pool

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/pjlink/protocol"
)

// DialFunc opens the raw transport to a target. It exists so tests can
// substitute in-process endpoints for real sockets.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Config configures a Pool. The zero value of each field selects its
// default; negative values are rejected at construction.
type Config struct {
	// MaxConnections is the cap on live connections per target, idle and
	// borrowed together.
	// Default: 4
	MaxConnections int

	// ConnectTimeout bounds the TCP handshake plus the PJLink greeting.
	// Default: 5 seconds
	ConnectTimeout time.Duration

	// AcquireTimeout is how long Get waits for a connection to be released
	// when the target is at capacity.
	// Default: 10 seconds
	AcquireTimeout time.Duration

	// ValidateOnBorrow probes each borrowed connection for a silent remote
	// close. Off by default: command bursts prefer the lower latency, and a
	// stale socket costs at most one failed round trip.
	ValidateOnBorrow bool

	// IdleTimeout is how long an idle connection may sit before eviction.
	// Default: 60 seconds
	IdleTimeout time.Duration

	// SweepInterval is how often the background sweep evicts idle
	// connections. Idle connections are also checked lazily on borrow.
	// Default: 30 seconds
	SweepInterval time.Duration

	// Dial opens raw transports.
	// Default: net.Dialer
	Dial DialFunc
}

func (c Config) validate() error {
	if c.MaxConnections < 0 {
		return fmt.Errorf("pool: MaxConnections must not be negative, got %d", c.MaxConnections)
	}
	if c.ConnectTimeout < 0 || c.AcquireTimeout < 0 || c.IdleTimeout < 0 || c.SweepInterval < 0 {
		return fmt.Errorf("pool: timeouts must not be negative")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.MaxConnections == 0 {
		c.MaxConnections = 4
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.AcquireTimeout == 0 {
		c.AcquireTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = 30 * time.Second
	}
	if c.Dial == nil {
		var d net.Dialer
		c.Dial = d.DialContext
	}
	return c
}

// Stats is a read-only snapshot of pool counters. The totals are
// monotonically increasing and safe to read concurrently with pool mutation.
type Stats struct {
	TotalBorrows              int64
	TotalConnectionsCreated   int64
	TotalConnectionsDestroyed int64
	InUse                     int
	Idle                      int
}

// Pool owns every pooled connection. All methods are safe for concurrent
// use.
type Pool struct {
	config Config

	mu      sync.Mutex
	targets map[string]*targetPool
	closed  bool

	borrows   atomic.Int64
	created   atomic.Int64
	destroyed atomic.Int64

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// targetPool holds the connections for one host:port. The slot channel
// bounds live connections: every borrowed connection holds one slot, and a
// slot frees when its connection is released or destroyed.
type targetPool struct {
	slots chan struct{}

	mu   sync.Mutex
	idle []*Conn
	all  map[*Conn]struct{}
}

// New creates a connection pool and starts its idle sweep.
func New(config Config) (*Pool, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	p := &Pool{
		config:    config.withDefaults(),
		targets:   make(map[string]*targetPool),
		sweepStop: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
	go p.sweep()
	return p, nil
}

// Get borrows a connection to host:port, dialing a new one when the target
// is under capacity and no idle connection passes inspection. When the
// target is at capacity Get blocks until a connection frees, failing with
// ErrPoolExhausted after the acquire timeout.
func (p *Pool) Get(ctx context.Context, host string, port int) (*Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	tp, ok := p.targets[addr]
	if !ok {
		tp = &targetPool{
			slots: make(chan struct{}, p.config.MaxConnections),
			all:   make(map[*Conn]struct{}),
		}
		p.targets[addr] = tp
	}
	p.mu.Unlock()

	if err := tp.acquireSlot(ctx, p.config.AcquireTimeout); err != nil {
		return nil, err
	}

	// Slot held from here: either hand out a connection or free the slot.
	for {
		conn := tp.popIdle()
		if conn == nil {
			break
		}
		if p.idleExpired(conn) || (p.config.ValidateOnBorrow && !conn.validate()) {
			tp.forget(conn)
			_ = conn.close()
			p.destroyed.Add(1)
			continue
		}
		tp.markBorrowed(conn)
		p.borrows.Add(1)
		return conn, nil
	}

	conn, err := p.dial(ctx, addr)
	if err != nil {
		tp.releaseSlot()
		return nil, err
	}

	tp.mu.Lock()
	conn.inUse = true
	tp.all[conn] = struct{}{}
	tp.mu.Unlock()

	p.created.Add(1)
	p.borrows.Add(1)
	return conn, nil
}

// Release returns a borrowed connection to the idle set. Only connections
// that completed their last exchange cleanly may be released; after any
// error use Discard.
func (p *Pool) Release(conn *Conn) error {
	return p.giveBack(conn, false)
}

// Discard destroys a borrowed connection whose wire state is unknown (I/O
// error, timeout, protocol violation). The freed capacity lets the next
// borrower dial fresh.
func (p *Pool) Discard(conn *Conn) error {
	return p.giveBack(conn, true)
}

func (p *Pool) giveBack(conn *Conn, destroy bool) error {
	p.mu.Lock()
	closed := p.closed
	tp := p.targets[conn.target]
	p.mu.Unlock()

	if tp == nil {
		return ErrConnNotBorrowed
	}

	tp.mu.Lock()
	if !conn.inUse {
		tp.mu.Unlock()
		return ErrConnNotBorrowed
	}
	conn.inUse = false
	conn.lastUsedAt = time.Now()

	// A connection Close already swept out of the tracked set must not be
	// touched again.
	_, tracked := tp.all[conn]
	switch {
	case !tracked:
		tp.mu.Unlock()
	case destroy || closed:
		delete(tp.all, conn)
		tp.mu.Unlock()
		_ = conn.close()
		p.destroyed.Add(1)
	default:
		tp.idle = append(tp.idle, conn)
		tp.mu.Unlock()
	}

	tp.releaseSlot()
	return nil
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	stats := Stats{
		TotalBorrows:              p.borrows.Load(),
		TotalConnectionsCreated:   p.created.Load(),
		TotalConnectionsDestroyed: p.destroyed.Load(),
	}

	p.mu.Lock()
	targets := make([]*targetPool, 0, len(p.targets))
	for _, tp := range p.targets {
		targets = append(targets, tp)
	}
	p.mu.Unlock()

	for _, tp := range targets {
		tp.mu.Lock()
		stats.Idle += len(tp.idle)
		stats.InUse += len(tp.all) - len(tp.idle)
		tp.mu.Unlock()
	}
	return stats
}

// Close terminates every tracked connection, borrowed ones included, and
// stops the idle sweep. Close is idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	targets := make([]*targetPool, 0, len(p.targets))
	for _, tp := range p.targets {
		targets = append(targets, tp)
	}
	p.mu.Unlock()

	close(p.sweepStop)
	<-p.sweepDone

	for _, tp := range targets {
		tp.mu.Lock()
		for conn := range tp.all {
			_ = conn.close()
			p.destroyed.Add(1)
		}
		tp.all = make(map[*Conn]struct{})
		tp.idle = nil
		tp.mu.Unlock()
	}
	return nil
}

func (p *Pool) idleExpired(conn *Conn) bool {
	return time.Since(conn.lastUsedAt) > p.config.IdleTimeout
}

func (p *Pool) dial(ctx context.Context, addr string) (*Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, p.config.ConnectTimeout)
	defer cancel()

	netConn, err := p.config.Dial(dialCtx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("pool: dialing %s: %w", addr, err)
	}

	// The device speaks first; the greeting shares the connect budget.
	if err := netConn.SetReadDeadline(time.Now().Add(p.config.ConnectTimeout)); err != nil {
		_ = netConn.Close()
		return nil, err
	}
	reader := bufio.NewReader(netConn)
	line, err := reader.ReadBytes('\r')
	if err != nil {
		_ = netConn.Close()
		return nil, fmt.Errorf("pool: reading greeting from %s: %w", addr, err)
	}
	challenge, err := protocol.ParseGreeting(line)
	if err != nil {
		_ = netConn.Close()
		return nil, err
	}

	now := time.Now()
	return &Conn{
		id:         uuid.New(),
		netConn:    netConn,
		reader:     reader,
		target:     addr,
		challenge:  challenge,
		createdAt:  now,
		lastUsedAt: now,
	}, nil
}

// sweep periodically evicts connections idle beyond IdleTimeout.
func (p *Pool) sweep() {
	defer close(p.sweepDone)

	ticker := time.NewTicker(p.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.sweepStop:
			return
		case <-ticker.C:
			p.evictIdle()
		}
	}
}

func (p *Pool) evictIdle() {
	p.mu.Lock()
	targets := make([]*targetPool, 0, len(p.targets))
	for _, tp := range p.targets {
		targets = append(targets, tp)
	}
	p.mu.Unlock()

	for _, tp := range targets {
		tp.mu.Lock()
		kept := tp.idle[:0]
		for _, conn := range tp.idle {
			if p.idleExpired(conn) {
				delete(tp.all, conn)
				_ = conn.close()
				p.destroyed.Add(1)
			} else {
				kept = append(kept, conn)
			}
		}
		tp.idle = kept
		tp.mu.Unlock()
	}
}

func (tp *targetPool) acquireSlot(ctx context.Context, timeout time.Duration) error {
	select {
	case tp.slots <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case tp.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrPoolExhausted
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (tp *targetPool) releaseSlot() {
	<-tp.slots
}

func (tp *targetPool) popIdle() *Conn {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	if len(tp.idle) == 0 {
		return nil
	}
	conn := tp.idle[len(tp.idle)-1]
	tp.idle = tp.idle[:len(tp.idle)-1]
	return conn
}

func (tp *targetPool) markBorrowed(conn *Conn) {
	tp.mu.Lock()
	conn.inUse = true
	conn.lastUsedAt = time.Now()
	tp.mu.Unlock()
}

func (tp *targetPool) forget(conn *Conn) {
	tp.mu.Lock()
	delete(tp.all, conn)
	tp.mu.Unlock()
}
