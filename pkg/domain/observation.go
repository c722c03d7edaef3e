package domain

import (
	"fmt"
	"strings"

	"github.com/automenta/trex-autonomy/pkg/tick"
)

// Parameter is one named, domain-valued attribute of an Observation.
type Parameter struct {
	Name  string
	Value Domain
}

// Observation is an immutable record of a predicate asserted on a timeline
// at a tick, with its parameter list.
//
// The original design distinguishes observations constructed by-value (a
// deep copy, independent lifetime) from observations constructed by
// reference (a live view into a planner's internal token, valid only while
// the token exists). This runtime has no planner to reference — the
// constraint engine behind a reactor is an external collaborator — so the
// only construction path exercised here is by-value. The Live field exists
// so a future planner-backed Observer could flag an observation whose
// Parameters alias mutable state the caller must not retain past the
// current synchronize() call; nothing in this module sets it today.
type Observation struct {
	Tick       tick.Tick
	ObjectName string
	Predicate  string
	Parameters []Parameter
	Live       bool
}

// New constructs an immutable, deep-copied Observation. Publishing
// reactors should prefer this over building an Observation literal so the
// parameter slice is never aliased with caller-owned state.
func New(t tick.Tick, objectName, predicate string, params []Parameter) Observation {
	cp := make([]Parameter, len(params))
	copy(cp, params)
	return Observation{
		Tick:       t,
		ObjectName: objectName,
		Predicate:  predicate,
		Parameters: cp,
	}
}

// Param returns the named parameter's domain and whether it was found.
func (o Observation) Param(name string) (Domain, bool) {
	for _, p := range o.Parameters {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Domain{}, false
}

// String renders the observation the way the original toString() does:
// "[tick]ON object ASSERT predicate{ name==value ... }".
func (o Observation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d]ON %s ASSERT %s{ ", o.Tick, o.ObjectName, o.Predicate)
	for _, p := range o.Parameters {
		fmt.Fprintf(&b, "%s==%s ", p.Name, p.Value.String())
	}
	b.WriteString("}")
	return b.String()
}

// Equal reports semantic equality: same predicate, object, and parameter
// list compared position by position (name plus domain kind and extents),
// independent of tick. Used by the
// wire round-trip tests in internal/wire.
func (o Observation) Equal(other Observation) bool {
	if o.ObjectName != other.ObjectName || o.Predicate != other.Predicate {
		return false
	}
	if len(o.Parameters) != len(other.Parameters) {
		return false
	}
	for i, p := range o.Parameters {
		op := other.Parameters[i]
		if p.Name != op.Name || !p.Value.Equal(op.Value) {
			return false
		}
	}
	return true
}
