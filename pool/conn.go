package pool

import (
	"bufio"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/pjlink/protocol"
)

// Conn is a pooled connection to one PJLink device. It is owned exclusively
// by the pool and lent to at most one borrower at a time.
type Conn struct {
	id        uuid.UUID
	netConn   net.Conn
	reader    *bufio.Reader
	target    string
	challenge protocol.Challenge

	// Mutated only under the owning pool's lock.
	createdAt  time.Time
	lastUsedAt time.Time
	inUse      bool
}

// ID identifies the connection in logs and traces.
func (c *Conn) ID() uuid.UUID {
	return c.id
}

// Target returns the host:port the connection is bound to.
func (c *Conn) Target() string {
	return c.target
}

// Challenge returns the authentication challenge from this connection's
// greeting. The challenge is only valid for commands on this connection.
func (c *Conn) Challenge() protocol.Challenge {
	return c.challenge
}

// CreatedAt returns when the connection was dialed.
func (c *Conn) CreatedAt() time.Time {
	return c.createdAt
}

// WriteLine writes one wire line, observing the deadline.
func (c *Conn) WriteLine(line []byte, deadline time.Time) error {
	if err := c.netConn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	_, err := c.netConn.Write(line)
	return err
}

// ReadLine reads one CR-terminated wire line (including the CR), observing
// the deadline.
func (c *Conn) ReadLine(deadline time.Time) ([]byte, error) {
	if err := c.netConn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	return c.reader.ReadBytes('\r')
}

// validate probes the socket for a silent remote close. It never blocks
// beyond an immediate-deadline read.
func (c *Conn) validate() bool {
	// Anything buffered outside a request/response exchange is a protocol
	// violation; the connection is not trustworthy.
	if c.reader.Buffered() > 0 {
		return false
	}
	if err := c.netConn.SetReadDeadline(time.Now()); err != nil {
		return false
	}
	var probe [1]byte
	n, err := c.netConn.Read(probe[:])
	if n > 0 {
		return false
	}
	if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
		// Nothing to read and the peer has not closed: healthy.
		return true
	}
	return false
}

func (c *Conn) close() error {
	return c.netConn.Close()
}
