// Package goal defines the Goal (Token) type: a structured request
// originating in one reactor and targeted at a timeline owned by another.
package goal

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/automenta/trex-autonomy/pkg/domain"
)

// ID uniquely identifies a Goal across ticks, independent of its mutable
// fields. Two Goal values with the same ID refer to the same logical
// request even if one has been refined (e.g. its temporal window
// narrowed) since the other was observed.
type ID uuid.UUID

func (id ID) String() string { return uuid.UUID(id).String() }

// NewID mints a fresh goal identity. Goal identity is opaque to reactors;
// the only contract is equality of the ID itself.
func NewID() ID { return ID(uuid.New()) }

// Goal is a temporally qualified request directed at the reactor that owns
// Timeline. It carries temporal variables as Interval domains (start, end,
// duration) and arbitrary named parameter domains, mirroring Observation's
// parameter shape so goal and observation dispatch share the same
// Parameter type.
type Goal struct {
	ID         ID
	Timeline   string
	Predicate  string
	Start      domain.Domain // Interval
	End        domain.Domain // Interval
	Duration   domain.Domain // Interval
	Parameters []domain.Parameter
}

// New constructs a Goal with a freshly minted ID. Start, End, and Duration
// must be Interval domains; callers that don't need a temporal variable
// can pass an unbounded interval via domain.NewInterval(math.Inf(-1), math.Inf(1)).
func New(timeline, predicate string, start, end, duration domain.Domain, params []domain.Parameter) Goal {
	cp := make([]domain.Parameter, len(params))
	copy(cp, params)
	return Goal{
		ID:         NewID(),
		Timeline:   timeline,
		Predicate:  predicate,
		Start:      start,
		End:        end,
		Duration:   duration,
		Parameters: cp,
	}
}

// String renders the goal for logs and CLI output.
func (g Goal) String() string {
	return fmt.Sprintf("Goal(%s on %s: %s)", g.ID, g.Timeline, g.Predicate)
}
