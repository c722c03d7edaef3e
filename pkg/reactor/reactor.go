// Package reactor declares the contract a deliberative unit must satisfy to
// participate in the agent's tick loop, plus the small set of types (timeline
// modes, per-reactor configuration, the init-time context) the contract is
// expressed in terms of.
//
// Reactor itself is a capability set, not a base class: the §9 redesign note
// calls for trait/interface capability sets in place of the original's
// inheritance hierarchy, and this is exactly that — any type satisfying the
// interface below can be scheduled by pkg/agent, whether or not it shares an
// implementation with any other reactor kind.
package reactor

import (
	"log/slog"

	"github.com/automenta/trex-autonomy/pkg/domain"
	"github.com/automenta/trex-autonomy/pkg/goal"
	"github.com/automenta/trex-autonomy/pkg/tick"
)

// Mode classifies a timeline from one reactor's point of view.
type Mode int

const (
	// Internal timelines are owned and updated by this reactor; observations
	// on them originate here.
	Internal Mode = iota
	// External timelines are read-only views of another reactor's Internal
	// timeline.
	External
	// Ignore timelines are declared but not connected to anything.
	Ignore
)

func (m Mode) String() string {
	switch m {
	case Internal:
		return "internal"
	case External:
		return "external"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Observer is notified synchronously when a reactor publishes an
// observation on one of its internal timelines. The agent fans a single
// publish out to every reactor subscribed (as External) to that timeline.
type Observer interface {
	Notify(o domain.Observation)
}

// Server is the per-reactor adapter a client reactor dispatches goal
// requests and recalls through. The agent resolves Timeline -> Server at
// assembly time from the timeline -> owner map; a reactor never talks to
// another reactor directly.
type Server interface {
	Request(g goal.Goal) error
	Recall(id goal.ID) error
	Latency() tick.Tick
	LookAhead() tick.Tick
}

// Config is a reactor's static configuration, fixed for the agent's
// lifetime once assembled.
type Config struct {
	Name      string
	Latency   tick.Tick
	LookAhead tick.Tick
	Log       bool
}

// Context is handed to a reactor exactly once, at HandleInit, before tick 0.
// The reactor is expected to cache whatever it needs from it — the servers
// map to dispatch goals to peers, the observer sink to publish its own
// observations, the clock to read the current tick — since it will not be
// passed again. Context takes the place the original gave a process-wide
// Agent singleton: whatever a reactor needs of the agent arrives explicitly
// here instead of through a package-level accessor.
type Context struct {
	InitialTick tick.Tick
	// Clock lets a reactor read the current tick without reaching for
	// agent-global state. It is deliberately the narrow tick.Reader view,
	// not the full tick.Clock: a reactor has no business advancing the
	// agent's clock.
	Clock tick.Reader
	// ServersByTimeline holds, for every timeline this reactor declared
	// External, the Server of the reactor that owns it.
	ServersByTimeline map[string]Server
	// Observer is this reactor's own publish sink: calling Notify on it
	// fans the observation out to every reactor subscribed to the timeline
	// the observation names.
	Observer Observer
	// Log is pre-tagged with this reactor's name; reactors should log
	// through it rather than through the slog default logger so every line
	// is attributable.
	Log *slog.Logger
}

// Reactor is the public contract every concrete reactor kind implements.
//
// QueryTimelineModes must be stable across the agent's lifetime: the agent
// calls it once, at assembly time, to build the ownership graph and compute
// priorities.
type Reactor interface {
	// QueryTimelineModes reports which timelines this reactor reads
	// (externals) and which it owns (internals).
	QueryTimelineModes() (externals, internals []string)

	// HandleInit is called once, before tick 0.
	HandleInit(ctx Context) error

	// HandleTickStart is invoked at the start of every tick, before
	// synchronization.
	HandleTickStart()

	// Synchronize reconciles this reactor's state with every observation
	// received since the previous tick, then publishes any observations on
	// its internal timelines for the current tick. It returns false iff the
	// reactor has entered an unrecoverable inconsistent state.
	Synchronize() bool

	// Resume performs one bounded quantum of deliberation work. It may be
	// called many times per tick. It returns false iff unrecoverable, and
	// true either when more work remains or when the reactor is quiescent
	// for this tick (the agent distinguishes the two via Quiescent).
	Resume() bool

	// Quiescent reports whether this reactor has no more deliberation work
	// to do for the current tick. The scheduler uses it to stop calling
	// Resume on a reactor that has nothing left to do without waiting for
	// the reactor to say so through a false return (which would be fatal).
	Quiescent() bool

	// HandleObservation delivers an observation published on a timeline
	// this reactor declared External. The agent calls it as soon as the
	// owning reactor publishes; the receiving reactor is expected to buffer
	// it and consume it on its next Synchronize, not react immediately.
	HandleObservation(o domain.Observation)

	// HandleRequest is called only on the reactor owning g's timeline.
	HandleRequest(g goal.Goal)

	// HandleRecall is called only on the reactor owning the timeline of the
	// goal identified by id.
	HandleRecall(id goal.ID)
}
