package reactor

import "fmt"

// Validate enforces the one structural invariant a reactor's configuration
// must satisfy: a reactor cannot safely commit to publishing an observation
// a tick before it can possibly know the agent will still honor it, so
// Latency must not exceed LookAhead.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("reactor config: name is required")
	}
	if c.Latency > c.LookAhead {
		return fmt.Errorf("reactor %q: latency (%d) exceeds lookAhead (%d)", c.Name, c.Latency, c.LookAhead)
	}
	return nil
}
