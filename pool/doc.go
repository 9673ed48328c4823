// Package pool maintains a bounded set of live TCP connections to PJLink
// devices, keyed by host:port, so repeated commands do not pay the TCP and
// greeting handshake every time.
//
// Connections are lent to exactly one borrower at a time:
//
//	p, _ := pool.New(pool.Config{MaxConnections: 2})
//	defer p.Close()
//
//	conn, err := p.Get(ctx, "10.0.0.17", 4352)
//	if err != nil {
//	    return err
//	}
//	// write a command, read the response...
//	p.Release(conn)
//
// A borrower that hits any error mid-exchange must call Discard instead of
// Release: the connection's wire state is unknown and it must never be
// handed out again.
//
// The pool reads the PJLink greeting while dialing, so a borrowed connection
// always carries its authentication challenge (Conn.Challenge) and is ready
// for its first command. Idle connections are evicted by a background sweep
// and checked again lazily on borrow; with ValidateOnBorrow set, each borrow
// also probes the socket for silent remote closes at the cost of a little
// latency.
package pool
