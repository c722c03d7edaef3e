// Package agent is the scheduling kernel: it assembles a set of reactors
// into a priority-ordered tick loop, routes goal and observation traffic
// between them, and enforces the failure semantics a misbehaving reactor
// triggers.
//
// There is deliberately no process-wide Agent singleton (the original's
// Agent::instance()); everything a reactor needs of the agent arrives
// through reactor.Context at HandleInit, and everything the agent needs of
// a reactor goes through the reactor.Reactor interface. Agent itself holds
// no package-level state.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/automenta/trex-autonomy/pkg/agentjournal"
	"github.com/automenta/trex-autonomy/pkg/domain"
	"github.com/automenta/trex-autonomy/pkg/goal"
	"github.com/automenta/trex-autonomy/pkg/reactor"
	"github.com/automenta/trex-autonomy/pkg/tick"
)

// maxDeliberationRoundsPerTick is a safety backstop, not a normal exit
// condition: a correctly behaving reactor set quiesces or exhausts its
// tick's time budget long before this many round-robin passes occur. It
// exists only to bound a pathological reactor that never reports quiescent
// on an unpaced clock.
const maxDeliberationRoundsPerTick = 10_000

// Agent runs the assembled reactor set's tick loop. The zero value is not
// usable; construct with Assemble.
type Agent struct {
	specs   []Spec
	slots   []*slot
	ownerOf map[string]int
	order   []int // slot indices, ascending priority
	clock   tick.Clock
	stats   reactor.StatsSink
	journal agentjournal.Journal
	log     *slog.Logger
	final   tick.Tick

	mu      sync.Mutex
	running bool
	current tick.Tick
}

// Run drives the tick loop until ctx is cancelled, the configured final
// tick is reached, or a reactor fails unrecoverably. A non-nil error other
// than context.Canceled means a reactor failure; callers should treat that
// as fatal, matching the original's "an uncaught exception terminates the
// agent" semantics, now surfaced through an ordinary Go error instead of a
// crash.
func (a *Agent) Run(ctx context.Context) error {
	if rt, ok := a.clock.(*tick.RealTime); ok {
		rt.Start()
	}

	a.mu.Lock()
	a.running = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := a.clock.NextTick()
		a.mu.Lock()
		a.current = t
		a.mu.Unlock()

		if err := a.runTick(t); err != nil {
			return err
		}

		if a.final != 0 && t >= a.final {
			return nil
		}

		if left := a.clock.TimeLeft(); left > 0 {
			a.clock.Sleep(left)
		}
	}
}

// CurrentTick reports the tick the loop is on, the last tick it processed
// once Run has returned, or zero before Run is first called. Safe to call
// from another goroutine (a status query) while Run is executing.
func (a *Agent) CurrentTick() tick.Tick {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Running reports whether Run is currently executing the loop.
func (a *Agent) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

func (a *Agent) runTick(t tick.Tick) error {
	start := time.Now()
	if a.stats != nil {
		if withTick, ok := a.stats.(interface{ ObserveTick(time.Duration) }); ok {
			defer func() { withTick.ObserveTick(time.Since(start)) }()
		}
	}

	for _, i := range a.order {
		a.slots[i].inst.HandleTickStart()
		a.slots[i].quiescent = false
	}

	for _, i := range a.order {
		s := a.slots[i]
		if !s.inst.DoSynchronize() {
			a.recordFailure(t, s.name, "synchronize")
			return fmt.Errorf("%w: reactor %q at tick %d", ErrSynchronizeFailed, s.name, t)
		}
	}

	_ = a.journal.RecordTickBoundary(t, time.Now())

	return a.deliberate(t)
}

// deliberate calls Resume on every non-quiescent reactor, round-robin in
// priority order, until every reactor is quiescent or the tick's time
// budget (on a paced clock) is exhausted. Reactors left non-quiescent
// carry their unfinished deliberation into the next tick's Resume calls —
// HandleTickStart never resets anything Resume itself was in the middle
// of, only the per-tick quiescence bookkeeping above.
func (a *Agent) deliberate(t tick.Tick) error {
	for round := 0; round < maxDeliberationRoundsPerTick; round++ {
		anyActive := false
		for _, i := range a.order {
			s := a.slots[i]
			if s.inst.Quiescent() {
				s.quiescent = true
				continue
			}
			anyActive = true
			if !s.inst.DoResume() {
				a.recordFailure(t, s.name, "resume")
				return fmt.Errorf("%w: reactor %q at tick %d", ErrResumeFailed, s.name, t)
			}
		}
		if !anyActive {
			return nil
		}
		if a.clock.Paced() && a.clock.TimeLeft() <= 0 {
			return nil
		}
	}
	a.log.Warn("deliberation round cap reached without quiescence", "tick", t)
	return nil
}

func (a *Agent) recordFailure(t tick.Tick, reactorName, phase string) {
	if a.stats != nil {
		if withFailure, ok := a.stats.(interface{ IncFailure(string, string) }); ok {
			withFailure.IncFailure(reactorName, phase)
		}
	}
	if err := a.journal.RecordFailure(t, reactorName, phase, ""); err != nil {
		a.log.Error("failed to journal reactor failure", "reactor", reactorName, "phase", phase, "error", err)
	}
	a.log.Error("reactor failed", "reactor", reactorName, "phase", phase, "tick", t)
}

// Request routes g to the reactor owning its timeline. It is the entry
// point an external client (the CLI, a wire-protocol listener) uses to
// inject a goal; a reactor wanting to request a goal of a peer instead
// goes through the reactor.Server it was handed in its Context.
func (a *Agent) Request(g goal.Goal) error {
	owner, ok := a.ownerOf[g.Timeline]
	if !ok {
		return fmt.Errorf("agent: no reactor owns timeline %q", g.Timeline)
	}
	a.DispatchRequest(owner, g)
	return nil
}

// Recall routes a recall of id, known to target timeline, to its owning
// reactor.
func (a *Agent) Recall(timeline string, id goal.ID) error {
	owner, ok := a.ownerOf[timeline]
	if !ok {
		return fmt.Errorf("agent: no reactor owns timeline %q", timeline)
	}
	a.DispatchRecall(owner, id)
	return nil
}

// DispatchRequest implements server.Dispatcher: it is called by every
// TimelineServer a subscribing reactor holds, and by Request above.
func (a *Agent) DispatchRequest(slot int, g goal.Goal) {
	s := a.slots[slot]
	a.log.Debug("dispatching goal request", "goal", g.ID, "timeline", g.Timeline, "reactor", s.name)
	s.inst.HandleRequest(g)
	if a.stats != nil {
		if withReq, ok := a.stats.(interface{ IncRequest(string) }); ok {
			withReq.IncRequest(g.Timeline)
		}
	}
	if err := a.journal.RecordRequest(a.CurrentTick(), g); err != nil {
		a.log.Error("failed to journal goal request", "goal", g.ID, "error", err)
	}
}

// DispatchRecall implements server.Dispatcher.
func (a *Agent) DispatchRecall(slot int, id goal.ID) {
	s := a.slots[slot]
	a.log.Debug("dispatching goal recall", "goal", id, "reactor", s.name)
	s.inst.HandleRecall(id)
	if a.stats != nil {
		if withRecall, ok := a.stats.(interface{ IncRecall(string) }); ok {
			withRecall.IncRecall(s.name)
		}
	}
	if err := a.journal.RecordRecall(a.CurrentTick(), id, s.name); err != nil {
		a.log.Error("failed to journal goal recall", "goal", id, "error", err)
	}
}

// DeliverObservation implements server.Notifier: it is called by every
// PublishObserver an owning reactor holds.
func (a *Agent) DeliverObservation(slot int, o domain.Observation) {
	a.slots[slot].inst.HandleObservation(o)
}

// Topology returns, for each reactor in priority order, its name and
// declared timeline modes — used by the CLI's introspection command and
// by tests asserting assembly produced the expected ordering.
func (a *Agent) Topology() []TopologyEntry {
	entries := make([]TopologyEntry, len(a.order))
	for rank, i := range a.order {
		s := a.slots[i]
		entries[rank] = TopologyEntry{
			Name:      s.name,
			Priority:  s.priority,
			Externals: append([]string(nil), s.externals...),
			Internals: append([]string(nil), s.internals...),
		}
	}
	return entries
}

// TopologyEntry describes one assembled reactor's place in the priority
// order.
type TopologyEntry struct {
	Name      string
	Priority  int
	Externals []string
	Internals []string
}

// QuiescentReactors lists the reactors that reported no remaining
// deliberation work as of the most recently completed tick.
func (a *Agent) QuiescentReactors() []string {
	var names []string
	for _, i := range a.order {
		if a.slots[i].quiescent {
			names = append(names, a.slots[i].name)
		}
	}
	return names
}

// IsFailure reports whether err is one of the reactor-failure sentinels
// (as opposed to, say, context.Canceled from Run's ctx).
func IsFailure(err error) bool {
	return errors.Is(err, ErrSynchronizeFailed) || errors.Is(err, ErrResumeFailed)
}
