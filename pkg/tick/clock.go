// Package tick implements the discrete clock abstractions that drive the
// agent's tick loop.
//
// A Clock produces a monotonically non-decreasing sequence of tick values.
// Two variants are provided:
//
//   - Stepped: the caller advances the clock explicitly. Used in tests for
//     deterministic tick sequences.
//   - RealTime: the clock advances on its own as wall-clock time passes a
//     per-tick deadline, possibly skipping ticks if the caller overran its
//     budget for a previous tick.
//
// Note: RealTime's tick/deadline state is shared between the tick loop and
// any external observer (a status query, for example) and is guarded by a
// mutex. Stepped is not goroutine-safe; it is meant to be driven by a single
// caller within a test.
package tick

import (
	"sync"
	"time"
)

// Tick is the discrete time unit driving the agent.
type Tick int64

// Stat captures CPU-usage-shaped bookkeeping for one tick or for the whole
// process lifetime. It intentionally mirrors the shape of a process rusage
// sample rather than anything clock-specific. Only the clocks report
// through it; the reactor-level instrumentation (pkg/reactor) reports
// plain time.Duration values to its StatsSink instead.
type Stat struct {
	UserTime time.Duration
	SysTime  time.Duration
}

func (s Stat) add(o Stat) Stat {
	return Stat{UserTime: s.UserTime + o.UserTime, SysTime: s.SysTime + o.SysTime}
}

// Clock is the interface the agent's tick loop depends on.
type Clock interface {
	// NextTick returns the tick value the caller should be operating on now.
	// It never decreases across calls.
	NextTick() Tick

	// SecondsPerTick is a hint describing the clock's nominal tick period.
	SecondsPerTick() float64

	// Sleep blocks for d. It is the only sanctioned blocking primitive in
	// the tick loop.
	Sleep(d time.Duration)

	// TimeLeft returns how much time remains before the next tick deadline.
	// For clocks with no notion of a deadline (Stepped), it returns 0.
	TimeLeft() time.Duration

	// Stats returns CPU usage for the last completed tick and for the
	// process lifetime.
	Stats() (last, total Stat)

	// Paced reports whether TimeLeft's return value reflects a real
	// deadline. RealTime is paced; Stepped is not, since it has no notion
	// of wall-clock budget and always reports zero time left.
	Paced() bool
}

// Reader is the narrow, side-effect-free view of a Clock a reactor is
// handed in its Context: CurrentTick never advances anything, unlike
// Clock.NextTick, which is reserved for the tick loop itself.
type Reader interface {
	CurrentTick() Tick
	SecondsPerTick() float64
}

// Sleep is a package-level helper offering high-resolution sleep, used by
// clock implementations and exposed for callers that want to yield the
// tick loop's remaining budget without going through a Clock value.
func Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

// Stepped is a clock driven explicitly by the caller: NextTick returns the
// current tick value for StepsPerTick consecutive calls, then advances.
// It exists for deterministic test sequencing — see spec scenario "stepped
// clock determinism".
type Stepped struct {
	stepsPerTick int
	tick         Tick
	callsOnTick  int
	total        Stat
	last         Stat
}

// NewStepped constructs a Stepped clock that holds each tick value for
// stepsPerTick consecutive NextTick calls before advancing. stepsPerTick
// must be >= 1.
func NewStepped(stepsPerTick int) *Stepped {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	return &Stepped{stepsPerTick: stepsPerTick}
}

func (c *Stepped) NextTick() Tick {
	c.callsOnTick++
	if c.callsOnTick > c.stepsPerTick {
		c.tick++
		c.callsOnTick = 1
	}
	return c.tick
}

// CurrentTick returns the tick value without consuming one of the calls
// that would advance it, for read-only consumers such as a reactor's
// Context.
func (c *Stepped) CurrentTick() Tick { return c.tick }

func (c *Stepped) SecondsPerTick() float64 { return 1.0 }

func (c *Stepped) Sleep(d time.Duration) { Sleep(d) }

func (c *Stepped) TimeLeft() time.Duration { return 0 }

func (c *Stepped) Paced() bool { return false }

// AdvanceTick records a completed tick's usage sample and folds it into the
// running total. Test harnesses call this when they want Stats() to report
// something other than the zero value.
func (c *Stepped) AdvanceTick(usage Stat) {
	c.last = usage
	c.total = c.total.add(usage)
}

func (c *Stepped) Stats() (last, total Stat) { return c.last, c.total }

// RealTime drives ticks from wall-clock time. On Start, it latches an
// origin and computes the first deadline as origin + secondsPerTick. Each
// call to NextTick checks whether wall-clock time has passed the deadline;
// if so it advances the deadline (possibly by more than one period, if the
// caller overran a previous tick's budget — this is how ticks get skipped).
type RealTime struct {
	mu             sync.Mutex
	secondsPerTick float64
	started        bool
	origin         time.Time
	deadline       time.Time
	tick           Tick
	last           Stat
	total          Stat
}

// NewRealTime constructs a RealTime clock with the given nominal tick
// period. The clock does not start advancing until Start is called.
func NewRealTime(secondsPerTick float64) *RealTime {
	if secondsPerTick <= 0 {
		secondsPerTick = 1.0
	}
	return &RealTime{secondsPerTick: secondsPerTick}
}

// Start latches the wall-clock origin and computes the first deadline.
// Calling Start more than once is a no-op after the first call.
func (c *RealTime) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	c.origin = time.Now()
	c.deadline = c.origin.Add(c.period())
}

func (c *RealTime) period() time.Duration {
	return time.Duration(c.secondsPerTick * float64(time.Second))
}

// NextTick returns the current tick, advancing the deadline (and the tick
// counter) as many times as wall-clock has passed it. A deliberation
// overrun that blows past several deadlines causes NextTick to skip
// straight to the tick the clock should be on now, per spec "tick slip".
func (c *RealTime) NextTick() Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return c.tick
	}
	now := time.Now()
	period := c.period()
	for !now.Before(c.deadline) {
		c.tick++
		c.deadline = c.deadline.Add(period)
	}
	return c.tick
}

// CurrentTick returns the tick value without re-checking the deadline, for
// read-only consumers such as a reactor's Context.
func (c *RealTime) CurrentTick() Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}

func (c *RealTime) SecondsPerTick() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.secondsPerTick
}

func (c *RealTime) Sleep(d time.Duration) { Sleep(d) }

// TimeLeft returns the remaining time until the next tick deadline. It
// never returns a negative duration.
func (c *RealTime) TimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return 0
	}
	left := c.deadline.Sub(time.Now())
	if left < 0 {
		return 0
	}
	return left
}

// AdvanceTick records CPU usage for the tick just completed.
func (c *RealTime) AdvanceTick(usage Stat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = usage
	c.total = c.total.add(usage)
}

func (c *RealTime) Stats() (last, total Stat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.total
}

func (c *RealTime) Paced() bool { return true }
