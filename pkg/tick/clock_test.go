package tick

import (
	"testing"
	"time"
)

func TestStepped_HoldsTickForStepsPerTickCalls(t *testing.T) {
	c := NewStepped(3)
	want := []Tick{0, 0, 0, 1, 1, 1, 2, 2, 2, 3}
	for i, w := range want {
		got := c.NextTick()
		if got != w {
			t.Fatalf("call %d: got %d, want %d", i, got, w)
		}
	}
}

func TestStepped_DefaultsToOneStep(t *testing.T) {
	c := NewStepped(0)
	if got := c.NextTick(); got != 0 {
		t.Fatalf("first call: got %d, want 0", got)
	}
	if got := c.NextTick(); got != 1 {
		t.Fatalf("second call: got %d, want 1 (stepsPerTick<1 should clamp to 1)", got)
	}
}

func TestStepped_StatsAccumulate(t *testing.T) {
	c := NewStepped(1)
	c.AdvanceTick(Stat{UserTime: 10 * time.Millisecond})
	c.AdvanceTick(Stat{UserTime: 5 * time.Millisecond})
	last, total := c.Stats()
	if last.UserTime != 5*time.Millisecond {
		t.Fatalf("last: got %v, want 5ms", last.UserTime)
	}
	if total.UserTime != 15*time.Millisecond {
		t.Fatalf("total: got %v, want 15ms", total.UserTime)
	}
}

func TestRealTime_DoesNotAdvanceBeforeStart(t *testing.T) {
	c := NewRealTime(0.05)
	if got := c.NextTick(); got != 0 {
		t.Fatalf("unstarted clock: got tick %d, want 0", got)
	}
	time.Sleep(80 * time.Millisecond)
	if got := c.NextTick(); got != 0 {
		t.Fatalf("unstarted clock after sleep: got tick %d, want 0", got)
	}
}

func TestRealTime_AdvancesAfterDeadline(t *testing.T) {
	c := NewRealTime(0.02)
	c.Start()
	if got := c.NextTick(); got != 0 {
		t.Fatalf("immediately after start: got %d, want 0", got)
	}
	time.Sleep(30 * time.Millisecond)
	if got := c.NextTick(); got < 1 {
		t.Fatalf("after one period: got %d, want >= 1", got)
	}
}

func TestRealTime_SkipsTicksOnOverrun(t *testing.T) {
	c := NewRealTime(0.01)
	c.Start()
	c.NextTick()
	time.Sleep(55 * time.Millisecond) // blow past several 10ms deadlines
	got := c.NextTick()
	if got < 4 {
		t.Fatalf("after 55ms overrun at 10ms/tick: got %d, want several ticks skipped", got)
	}
}

func TestRealTime_TimeLeftNeverNegative(t *testing.T) {
	c := NewRealTime(0.01)
	c.Start()
	time.Sleep(30 * time.Millisecond)
	if left := c.TimeLeft(); left < 0 {
		t.Fatalf("TimeLeft: got %v, want >= 0", left)
	}
}

func TestRealTime_SecondsPerTickDefaultsWhenNonPositive(t *testing.T) {
	c := NewRealTime(0)
	if got := c.SecondsPerTick(); got != 1.0 {
		t.Fatalf("got %v, want 1.0 default", got)
	}
}

func TestPaced_DistinguishesClockKinds(t *testing.T) {
	if NewStepped(1).Paced() {
		t.Fatal("Stepped should report unpaced")
	}
	if !NewRealTime(1).Paced() {
		t.Fatal("RealTime should report paced")
	}
}

func TestStepped_CurrentTickDoesNotAdvance(t *testing.T) {
	c := NewStepped(2)
	if got := c.CurrentTick(); got != 0 {
		t.Fatalf("CurrentTick before any NextTick: got %d, want 0", got)
	}
	c.NextTick()
	c.NextTick()
	c.NextTick() // third call rolls over to tick 1
	if got := c.CurrentTick(); got != 1 {
		t.Fatalf("CurrentTick after rollover: got %d, want 1", got)
	}
	if got := c.CurrentTick(); got != 1 {
		t.Fatal("CurrentTick should not itself advance the clock")
	}
}
