package agent

import (
	"fmt"
	"log/slog"

	"github.com/automenta/trex-autonomy/pkg/agentjournal"
	"github.com/automenta/trex-autonomy/pkg/reactor"
	"github.com/automenta/trex-autonomy/pkg/server"
	"github.com/automenta/trex-autonomy/pkg/tick"
)

// Spec pairs a reactor instance with its static configuration, as produced
// by the XML config loader (or assembled directly in tests).
type Spec struct {
	Config  reactor.Config
	Reactor reactor.Reactor
}

// Options carries everything about an Agent that isn't a reactor: the
// clock driving its ticks, the optional statistics sink, the optional
// journal, the logger, and the final tick at which the run loop stops
// (zero means run until Run's context is cancelled or an error occurs).
type Options struct {
	Clock     tick.Clock
	Stats     reactor.StatsSink
	Journal   agentjournal.Journal
	Logger    *slog.Logger
	FinalTick tick.Tick
}

type slot struct {
	name      string
	cfg       reactor.Config
	externals []string
	internals []string
	priority  int
	inst      *reactor.Instrumented
	quiescent bool
}

// Assemble validates specs, builds the timeline ownership map, computes a
// synchronize/deliberate priority order via topological sort, wires each
// reactor's Context (servers for its externals, an observer for its
// internals), and calls HandleInit on every reactor in priority order.
//
// Assembly fails closed: any unclaimed external, duplicate internal, or
// priority cycle aborts before any reactor is initialized.
func Assemble(specs []Spec, opts Options) (*Agent, error) {
	if opts.Clock == nil {
		return nil, fmt.Errorf("agent: Options.Clock is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Journal == nil {
		// A typed nil *SQLiteJournal, not a bare nil interface: every
		// SQLiteJournal method tolerates a nil receiver, so the agent can
		// call through opts.Journal unconditionally whether or not a real
		// journal was configured.
		opts.Journal = (*agentjournal.SQLiteJournal)(nil)
	}

	n := len(specs)
	slots := make([]*slot, n)
	ownerOf := make(map[string]int, n)

	for i, spec := range specs {
		if err := spec.Config.Validate(); err != nil {
			return nil, fmt.Errorf("agent: assemble: %w", err)
		}
		externals, internals := spec.Reactor.QueryTimelineModes()
		for _, tl := range internals {
			if existing, dup := ownerOf[tl]; dup {
				return nil, fmt.Errorf("%w: timeline %q claimed by both %q and %q",
					ErrDuplicateInternal, tl, slots[existing].name, spec.Config.Name)
			}
			ownerOf[tl] = i
		}
		slots[i] = &slot{name: spec.Config.Name, cfg: spec.Config, externals: externals, internals: internals}
	}

	for _, s := range slots {
		for _, tl := range s.externals {
			if _, ok := ownerOf[tl]; !ok {
				return nil, fmt.Errorf("%w: %q (declared external by %q)", ErrUnclaimedExternal, tl, s.name)
			}
		}
	}

	// edges[owner] lists every slot that declared one of owner's internal
	// timelines External — i.e. owner's subscribers.
	edges := make([][]int, n)
	subscribersOf := make([]map[string][]int, n) // subscribersOf[owner][timeline] = subscriber slots
	for i := range subscribersOf {
		subscribersOf[i] = map[string][]int{}
	}
	for i, s := range slots {
		for _, tl := range s.externals {
			owner := ownerOf[tl]
			edges[owner] = append(edges[owner], i)
			subscribersOf[owner][tl] = append(subscribersOf[owner][tl], i)
		}
	}

	priorities, err := computePriority(n, edges)
	if err != nil {
		return nil, err
	}
	for i, p := range priorities {
		slots[i].priority = p
	}

	a := &Agent{
		specs:   specs,
		slots:   slots,
		ownerOf: ownerOf,
		clock:   opts.Clock,
		stats:   opts.Stats,
		journal: opts.Journal,
		log:     opts.Logger,
		final:   opts.FinalTick,
		order:   orderByPriority(slots),
	}

	reader := readerOf(opts.Clock)

	for _, i := range a.order {
		spec := specs[i]
		s := slots[i]
		s.inst = reactor.NewInstrumented(s.name, spec.Reactor, opts.Stats)

		serversByTimeline := map[string]reactor.Server{}
		for _, tl := range s.externals {
			owner := ownerOf[tl]
			serversByTimeline[tl] = server.NewTimelineServer(a, owner, slots[owner].cfg.Latency, slots[owner].cfg.LookAhead)
		}

		ctx := reactor.Context{
			InitialTick:       reader.CurrentTick(),
			Clock:             reader,
			ServersByTimeline: serversByTimeline,
			Observer:          server.NewPublishObserver(a, subscribersOf[i]),
			Log:               opts.Logger.With("reactor", s.name),
		}
		if err := spec.Reactor.HandleInit(ctx); err != nil {
			return nil, fmt.Errorf("agent: reactor %q: HandleInit: %w", s.name, err)
		}
	}

	if opts.Stats != nil {
		if withCount, ok := opts.Stats.(interface{ SetReactorCount(int) }); ok {
			withCount.SetReactorCount(n)
		}
	}

	return a, nil
}

// readerOf narrows a full tick.Clock down to the side-effect-free
// tick.Reader view handed to reactors. Both concrete clocks in pkg/tick
// satisfy Reader; a test double that doesn't reports tick 0 throughout.
func readerOf(c tick.Clock) tick.Reader {
	if r, ok := c.(tick.Reader); ok {
		return r
	}
	return zeroReader{}
}

type zeroReader struct{}

func (zeroReader) CurrentTick() tick.Tick  { return 0 }
func (zeroReader) SecondsPerTick() float64 { return 1.0 }

// orderByPriority returns slot indices sorted by ascending priority.
func orderByPriority(slots []*slot) []int {
	order := make([]int, len(slots))
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && slots[order[j-1]].priority > slots[order[j]].priority; j-- {
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
	return order
}
