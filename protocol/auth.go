package protocol

import (
	"crypto/md5" // #nosec G501 -- MD5 is mandated by the PJLink specification.
	"encoding/hex"
	"strings"
)

// Greeting prefixes sent by a device when a TCP session opens.
const (
	greetingNoAuth  = "PJLINK 0"
	greetingAuth    = "PJLINK 1 "
	greetingRefused = "PJLINK ERRA"
	randomKeyLength = 8

	// DigestHexLength is the length of the digest prefix on authenticated
	// command lines.
	DigestHexLength = 32
)

// Challenge is the authentication challenge carried by the device greeting.
// It is produced once per connection and consumed before the first command
// on that connection.
type Challenge struct {
	// RequiresAuth is true when the device demanded digest authentication.
	RequiresAuth bool

	// Key is the 8-digit random key from the greeting; empty when
	// RequiresAuth is false. The key changes on every connection.
	Key string
}

// ParseGreeting decodes the greeting line a device sends on connect. The
// line may include the trailing CR. A "PJLINK ERRA" greeting yields
// ErrConnectionRefusedByDevice; any other shape yields a
// MalformedResponseError.
func ParseGreeting(line []byte) (Challenge, error) {
	raw := strings.TrimSuffix(string(line), "\r")

	switch {
	case raw == greetingNoAuth:
		return Challenge{}, nil

	case raw == greetingRefused:
		return Challenge{}, ErrConnectionRefusedByDevice

	case strings.HasPrefix(raw, greetingAuth):
		key := raw[len(greetingAuth):]
		if len(key) != randomKeyLength {
			return Challenge{}, &MalformedResponseError{Raw: raw, Reason: "random key is not 8 characters"}
		}
		for i := 0; i < len(key); i++ {
			c := key[i]
			if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
				return Challenge{}, &MalformedResponseError{Raw: raw, Reason: "random key contains invalid characters"}
			}
		}
		return Challenge{RequiresAuth: true, Key: key}, nil

	default:
		return Challenge{}, &MalformedResponseError{Raw: raw, Reason: "not a PJLINK greeting"}
	}
}

// DigestHash computes the digest that prefixes every command line of an
// authenticated session: md5(key + password) as 32 lowercase hex characters.
// The key is per-connection, so a digest must never be reused across
// connections.
func DigestHash(key, password string) string {
	sum := md5.Sum([]byte(key + password)) // #nosec G401 -- mandated by PJLink.
	return hex.EncodeToString(sum[:])
}

// Prefix returns the line prefix for commands on this connection: the digest
// when the device demanded authentication, otherwise the empty string.
// Prefix returns ErrAuthRequired when the device demanded authentication but
// no password is configured.
func (c Challenge) Prefix(password string) (string, error) {
	if !c.RequiresAuth {
		return "", nil
	}
	if password == "" {
		return "", ErrAuthRequired
	}
	return DigestHash(c.Key, password), nil
}
