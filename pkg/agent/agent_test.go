package agent

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/automenta/trex-autonomy/pkg/domain"
	"github.com/automenta/trex-autonomy/pkg/goal"
	"github.com/automenta/trex-autonomy/pkg/reactor"
	"github.com/automenta/trex-autonomy/pkg/tick"
)

type testReactor struct {
	name      string
	externals []string
	internals []string

	ctx reactor.Context

	syncResult   bool
	resumeRounds int // number of Resume calls before reporting quiescent
	resumed      int
	panicOnSync  bool

	requests     []goal.Goal
	recalls      []goal.ID
	observations []domain.Observation

	publishOnSync []domain.Observation
}

func (r *testReactor) QueryTimelineModes() (externals, internals []string) {
	return r.externals, r.internals
}

func (r *testReactor) HandleInit(ctx reactor.Context) error {
	r.ctx = ctx
	return nil
}

func (r *testReactor) HandleTickStart() { r.resumed = 0 }

func (r *testReactor) Synchronize() bool {
	if r.panicOnSync {
		panic("boom")
	}
	for _, o := range r.publishOnSync {
		r.ctx.Observer.Notify(o)
	}
	if !r.syncResult {
		return false
	}
	return true
}

func (r *testReactor) Resume() bool {
	r.resumed++
	return true
}

func (r *testReactor) Quiescent() bool { return r.resumed >= r.resumeRounds }

func (r *testReactor) HandleObservation(o domain.Observation) {
	r.observations = append(r.observations, o)
}

func (r *testReactor) HandleRequest(g goal.Goal) { r.requests = append(r.requests, g) }
func (r *testReactor) HandleRecall(id goal.ID)   { r.recalls = append(r.recalls, id) }

func unbounded() domain.Domain {
	return domain.NewInterval(math.Inf(-1), math.Inf(1))
}

func TestAssemble_OrdersOwnerBeforeSubscriber(t *testing.T) {
	owner := &testReactor{name: "nav", internals: []string{"rover.nav"}, syncResult: true, resumeRounds: 0}
	subscriber := &testReactor{name: "planner", externals: []string{"rover.nav"}, syncResult: true, resumeRounds: 0}

	a, err := Assemble([]Spec{
		{Config: reactor.Config{Name: owner.name}, Reactor: owner},
		{Config: reactor.Config{Name: subscriber.name}, Reactor: subscriber},
	}, Options{Clock: tick.NewStepped(1)})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	topo := a.Topology()
	if topo[0].Name != "nav" || topo[1].Name != "planner" {
		t.Fatalf("expected nav before planner, got %+v", topo)
	}
}

func TestAssemble_RejectsUnclaimedExternal(t *testing.T) {
	subscriber := &testReactor{name: "planner", externals: []string{"rover.nav"}}

	_, err := Assemble([]Spec{
		{Config: reactor.Config{Name: subscriber.name}, Reactor: subscriber},
	}, Options{Clock: tick.NewStepped(1)})
	if !errors.Is(err, ErrUnclaimedExternal) {
		t.Fatalf("expected ErrUnclaimedExternal, got %v", err)
	}
}

func TestAssemble_RejectsDuplicateInternal(t *testing.T) {
	a1 := &testReactor{name: "a", internals: []string{"rover.nav"}}
	a2 := &testReactor{name: "b", internals: []string{"rover.nav"}}

	_, err := Assemble([]Spec{
		{Config: reactor.Config{Name: a1.name}, Reactor: a1},
		{Config: reactor.Config{Name: a2.name}, Reactor: a2},
	}, Options{Clock: tick.NewStepped(1)})
	if !errors.Is(err, ErrDuplicateInternal) {
		t.Fatalf("expected ErrDuplicateInternal, got %v", err)
	}
}

func TestAssemble_RejectsPriorityCycle(t *testing.T) {
	a1 := &testReactor{name: "a", internals: []string{"x"}, externals: []string{"y"}}
	a2 := &testReactor{name: "b", internals: []string{"y"}, externals: []string{"x"}}

	_, err := Assemble([]Spec{
		{Config: reactor.Config{Name: a1.name}, Reactor: a1},
		{Config: reactor.Config{Name: a2.name}, Reactor: a2},
	}, Options{Clock: tick.NewStepped(1)})
	if !errors.Is(err, ErrPriorityCycle) {
		t.Fatalf("expected ErrPriorityCycle, got %v", err)
	}
}

func TestRun_DeliversObservationToSubscriber(t *testing.T) {
	published := domain.New(0, "rover.nav", "At", []domain.Parameter{{Name: "loc", Value: domain.NewSingleton("base")}})
	owner := &testReactor{name: "nav", internals: []string{"rover.nav"}, syncResult: true, publishOnSync: []domain.Observation{published}}
	subscriber := &testReactor{name: "planner", externals: []string{"rover.nav"}, syncResult: true}

	a, err := Assemble([]Spec{
		{Config: reactor.Config{Name: owner.name}, Reactor: owner},
		{Config: reactor.Config{Name: subscriber.name}, Reactor: subscriber},
	}, Options{Clock: tick.NewStepped(1), FinalTick: 0})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if err := a.runTick(0); err != nil {
		t.Fatalf("runTick: %v", err)
	}

	if len(subscriber.observations) != 1 {
		t.Fatalf("expected subscriber to receive 1 observation, got %d", len(subscriber.observations))
	}
	if subscriber.observations[0].ObjectName != "rover.nav" {
		t.Fatalf("unexpected observation: %+v", subscriber.observations[0])
	}
}

func TestRun_SynchronizeFailureIsFatal(t *testing.T) {
	bad := &testReactor{name: "bad", syncResult: false}

	a, err := Assemble([]Spec{
		{Config: reactor.Config{Name: bad.name}, Reactor: bad},
	}, Options{Clock: tick.NewStepped(1)})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	runErr := a.runTick(0)
	if !errors.Is(runErr, ErrSynchronizeFailed) {
		t.Fatalf("expected ErrSynchronizeFailed, got %v", runErr)
	}
}

func TestRun_SynchronizePanicIsFatal(t *testing.T) {
	bad := &testReactor{name: "bad", panicOnSync: true}

	a, err := Assemble([]Spec{
		{Config: reactor.Config{Name: bad.name}, Reactor: bad},
	}, Options{Clock: tick.NewStepped(1)})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if runErr := a.runTick(0); !errors.Is(runErr, ErrSynchronizeFailed) {
		t.Fatalf("expected a panicking Synchronize to surface as ErrSynchronizeFailed, got %v", runErr)
	}
}

func TestRequest_RoutesToOwningReactor(t *testing.T) {
	owner := &testReactor{name: "nav", internals: []string{"rover.nav"}, syncResult: true}

	a, err := Assemble([]Spec{
		{Config: reactor.Config{Name: owner.name}, Reactor: owner},
	}, Options{Clock: tick.NewStepped(1)})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	g := goal.New("rover.nav", "GoTo", unbounded(), unbounded(), unbounded(), nil)
	if err := a.Request(g); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if len(owner.requests) != 1 || owner.requests[0].ID != g.ID {
		t.Fatalf("expected goal routed to owner, got %+v", owner.requests)
	}
}

func TestRequest_UnknownTimelineErrors(t *testing.T) {
	owner := &testReactor{name: "nav", internals: []string{"rover.nav"}, syncResult: true}
	a, err := Assemble([]Spec{{Config: reactor.Config{Name: owner.name}, Reactor: owner}}, Options{Clock: tick.NewStepped(1)})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	g := goal.New("unknown.timeline", "Do", unbounded(), unbounded(), unbounded(), nil)
	if err := a.Request(g); err == nil {
		t.Fatal("expected error for a goal on an unowned timeline")
	}
}

func TestRun_StopsAtFinalTick(t *testing.T) {
	owner := &testReactor{name: "nav", internals: []string{"rover.nav"}, syncResult: true}
	a, err := Assemble([]Spec{{Config: reactor.Config{Name: owner.name}, Reactor: owner}}, Options{Clock: tick.NewStepped(1), FinalTick: 2})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := a.CurrentTick(); got != 2 {
		t.Fatalf("expected loop to stop at final tick 2, got %d", got)
	}
}

func TestDeliberate_LoopsUntilQuiescent(t *testing.T) {
	owner := &testReactor{name: "planner", internals: []string{"rover.nav"}, syncResult: true, resumeRounds: 4}

	a, err := Assemble([]Spec{{Config: reactor.Config{Name: owner.name}, Reactor: owner}}, Options{Clock: tick.NewStepped(1)})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if err := a.runTick(0); err != nil {
		t.Fatalf("runTick: %v", err)
	}
	if owner.resumed != 4 {
		t.Fatalf("expected 4 Resume calls before quiescence, got %d", owner.resumed)
	}
	if got := a.QuiescentReactors(); len(got) != 1 || got[0] != "planner" {
		t.Fatalf("expected planner reported quiescent, got %v", got)
	}
}

func TestRun_RespectsContextCancellation(t *testing.T) {
	owner := &testReactor{name: "nav", internals: []string{"rover.nav"}, syncResult: true}
	a, err := Assemble([]Spec{{Config: reactor.Config{Name: owner.name}, Reactor: owner}}, Options{Clock: tick.NewStepped(1)})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
