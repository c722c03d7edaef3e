package goal

import (
	"math"
	"testing"

	"github.com/automenta/trex-autonomy/pkg/domain"
)

func unbounded() domain.Domain {
	return domain.NewInterval(math.Inf(-1), math.Inf(1))
}

func TestNew_MintsUniqueID(t *testing.T) {
	a := New("rover.nav", "GoTo", unbounded(), unbounded(), unbounded(), nil)
	b := New("rover.nav", "GoTo", unbounded(), unbounded(), unbounded(), nil)
	if a.ID == b.ID {
		t.Fatal("two goals should not share an ID")
	}
}

func TestNew_DeepCopiesParameters(t *testing.T) {
	params := []domain.Parameter{{Name: "dest", Value: domain.NewSingleton("base")}}
	g := New("rover.nav", "GoTo", unbounded(), unbounded(), unbounded(), params)
	params[0] = domain.Parameter{Name: "mutated", Value: domain.NewSingleton("x")}
	if g.Parameters[0].Name != "dest" {
		t.Fatal("goal aliased caller's parameter slice")
	}
}

func TestID_PersistsIndependentOfMutation(t *testing.T) {
	g := New("rover.nav", "GoTo", unbounded(), unbounded(), unbounded(), nil)
	id := g.ID
	g.Predicate = "Refined" // goal identity survives refinement of its fields
	if g.ID != id {
		t.Fatal("mutating Goal fields should not change its ID")
	}
}
