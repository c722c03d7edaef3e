package reactor

import (
	"fmt"
	"time"
)

// StatsSink receives per-call timing for a reactor's synchronize and resume
// passes. It is a small structural interface so pkg/reactor never has to
// import the metrics backend: pkg/agentstats.Metrics satisfies it without
// either package importing the other.
type StatsSink interface {
	ObserveSync(reactorName string, d time.Duration)
	ObserveResume(reactorName string, d time.Duration)
}

type noopSink struct{}

func (noopSink) ObserveSync(string, time.Duration)   {}
func (noopSink) ObserveResume(string, time.Duration) {}

// Instrumented wraps a Reactor so that every call into it that the original
// treated as "an uncaught exception terminates the agent" instead reports
// failure through the ordinary false-return channel, and so that the time
// spent in each call is recorded. The agent's tick loop calls DoSynchronize
// and DoResume instead of Synchronize and Resume directly; everything else
// passes through unwrapped.
type Instrumented struct {
	Reactor
	name  string
	stats StatsSink
}

// NewInstrumented wraps r. A nil sink records nothing.
func NewInstrumented(name string, r Reactor, sink StatsSink) *Instrumented {
	if sink == nil {
		sink = noopSink{}
	}
	return &Instrumented{Reactor: r, name: name, stats: sink}
}

// DoSynchronize calls Synchronize, converting a panic into a false return
// (the Go analogue of the original's "uncaught exception during
// synchronization is a fatal agent error").
func (i *Instrumented) DoSynchronize() (ok bool) {
	start := time.Now()
	defer func() {
		i.stats.ObserveSync(i.name, time.Since(start))
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return i.Reactor.Synchronize()
}

// DoResume calls Resume with the same panic-to-failure conversion and
// timing as DoSynchronize.
func (i *Instrumented) DoResume() (ok bool) {
	start := time.Now()
	defer func() {
		i.stats.ObserveResume(i.name, time.Since(start))
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return i.Reactor.Resume()
}

// Name returns the configured name this wrapper reports timing under.
func (i *Instrumented) Name() string { return i.name }

func (i *Instrumented) String() string {
	return fmt.Sprintf("Instrumented(%s)", i.name)
}
