// Package server provides the concrete adapters the agent injects into a
// reactor's Context at HandleInit: a reactor.Server per external timeline
// that forwards goal traffic to the owning reactor, and a reactor.Observer
// that fans a publish out to every reactor subscribed to a timeline.
//
// Both adapters reference the owning/subscribed reactors by a stable index
// into the agent's reactor slice rather than by a raw pointer or interface
// value captured at assembly time — the agent is free to, e.g., rebuild its
// Instrumented wrappers without invalidating an adapter a third reactor is
// already holding.
package server

import (
	"fmt"

	"github.com/automenta/trex-autonomy/pkg/domain"
	"github.com/automenta/trex-autonomy/pkg/goal"
	"github.com/automenta/trex-autonomy/pkg/reactor"
	"github.com/automenta/trex-autonomy/pkg/tick"
)

// Dispatcher is the minimal slice of the agent a TimelineServer needs: the
// ability to route a request or recall to the reactor owning a given slot.
type Dispatcher interface {
	DispatchRequest(slot int, g goal.Goal)
	DispatchRecall(slot int, id goal.ID)
}

// TimelineServer implements reactor.Server for a single external timeline,
// forwarding every Request/Recall to the reactor at ownerSlot via d.
type TimelineServer struct {
	d         Dispatcher
	ownerSlot int
	latency   tick.Tick
	lookAhead tick.Tick
}

// NewTimelineServer builds the Server a subscribing reactor will use to
// reach the reactor at ownerSlot, configured with that owner's latency and
// lookAhead.
func NewTimelineServer(d Dispatcher, ownerSlot int, latency, lookAhead tick.Tick) *TimelineServer {
	return &TimelineServer{d: d, ownerSlot: ownerSlot, latency: latency, lookAhead: lookAhead}
}

func (s *TimelineServer) Request(g goal.Goal) error {
	if s.d == nil {
		return fmt.Errorf("server: dispatcher not wired")
	}
	s.d.DispatchRequest(s.ownerSlot, g)
	return nil
}

func (s *TimelineServer) Recall(id goal.ID) error {
	if s.d == nil {
		return fmt.Errorf("server: dispatcher not wired")
	}
	s.d.DispatchRecall(s.ownerSlot, id)
	return nil
}

func (s *TimelineServer) Latency() tick.Tick   { return s.latency }
func (s *TimelineServer) LookAhead() tick.Tick { return s.lookAhead }

var _ reactor.Server = (*TimelineServer)(nil)

// Notifier is the minimal slice of the agent a PublishObserver needs: the
// ability to deliver a published observation to the reactor at a given
// slot.
type Notifier interface {
	DeliverObservation(slot int, o domain.Observation)
}

// PublishObserver implements reactor.Observer for one reactor that may own
// several internal timelines, each with its own, independently computed
// subscriber set. Notify dispatches by the observation's ObjectName rather
// than a single fixed fan-out list, since a reactor owning timelines A and
// B must deliver an A-observation only to A's subscribers.
type PublishObserver struct {
	n             Notifier
	subscribersOf map[string][]int
}

// NewPublishObserver builds the Observer the owning reactor will call
// Notify on. subscribersOf maps each of that reactor's internal timelines
// to the slots of every reactor that declared it External.
func NewPublishObserver(n Notifier, subscribersOf map[string][]int) *PublishObserver {
	cp := make(map[string][]int, len(subscribersOf))
	for timeline, slots := range subscribersOf {
		s := make([]int, len(slots))
		copy(s, slots)
		cp[timeline] = s
	}
	return &PublishObserver{n: n, subscribersOf: cp}
}

func (o *PublishObserver) Notify(obs domain.Observation) {
	if o.n == nil {
		return
	}
	for _, slot := range o.subscribersOf[obs.ObjectName] {
		o.n.DeliverObservation(slot, obs)
	}
}

var _ reactor.Observer = (*PublishObserver)(nil)
