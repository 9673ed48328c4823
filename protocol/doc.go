// Package protocol implements the PJLink wire protocol.
//
// It is a pure codec: no sockets, no timeouts, no shared state. Higher layers
// (connection pooling, retries, circuit breaking) live in the pool, resilience
// and client packages and feed bytes through this one.
//
// # Commands and Responses
//
// A command is encoded as a single CR-terminated line:
//
//	%1POWR 1    -> "%1POWR 1\r"
//	%1POWR ?    -> "%1POWR ?\r"
//
// and a response echoes the command name:
//
//	"%1POWR=OK\r"    acknowledgement of a set command
//	"%1POWR=1\r"     value answer to a query
//	"%1POWR=ERR3\r"  device rejection
//
// Commands are immutable values built by named factories:
//
//	cmd := protocol.PowerOn()
//	line := cmd.Encode()
//
// and responses are parsed with Parse, which returns a
// MalformedResponseError when the line does not follow the grammar above.
//
// # Authentication
//
// On connect a PJLink device sends a greeting line. ParseGreeting recognizes
// the three forms ("PJLINK 0", "PJLINK 1 <key>", "PJLINK ERRA") and
// DigestHash computes the MD5 digest that must prefix every command line of
// an authenticated session. The random key changes on every connection, so
// the digest must be recomputed per connection.
package protocol
