package cache

import (
	"fmt"

	"github.com/jonwraymond/pjlink/protocol"
)

// Keyer generates deterministic cache keys for status queries.
//
// Contract:
// - Determinism: the same target and command must produce the same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key for a query against a target.
	Key(target string, cmd protocol.Command) string
}

// DefaultKeyer keys entries by target, class and command name.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: status:<target>:<class><NAME>
//
// The query parameter is always "?", so it carries no information and is
// left out of the key.
func (k *DefaultKeyer) Key(target string, cmd protocol.Command) string {
	return fmt.Sprintf("status:%s:%d%s", target, cmd.Class, cmd.Name)
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
