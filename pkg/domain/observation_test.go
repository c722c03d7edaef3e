package domain

import "testing"

func TestNew_DeepCopiesParameters(t *testing.T) {
	params := []Parameter{{Name: "x", Value: NewSingleton("1")}}
	o := New(3, "rover", "At", params)

	params[0] = Parameter{Name: "mutated", Value: NewSingleton("2")}

	if o.Parameters[0].Name != "x" {
		t.Fatalf("observation aliased caller's slice: got %q, want %q", o.Parameters[0].Name, "x")
	}
}

func TestParam_FoundAndNotFound(t *testing.T) {
	o := New(1, "rover", "At", []Parameter{{Name: "loc", Value: NewSingleton("base")}})

	v, ok := o.Param("loc")
	if !ok || v.Value() != "base" {
		t.Fatalf("Param(loc): got %v, %v", v, ok)
	}

	if _, ok := o.Param("missing"); ok {
		t.Fatal("Param(missing) should report not found")
	}
}

func TestString_IncludesTickObjectPredicateAndParams(t *testing.T) {
	o := New(5, "rover", "At", []Parameter{{Name: "loc", Value: NewSingleton("base")}})
	s := o.String()
	for _, want := range []string{"[5]", "rover", "At", "loc==base"} {
		if !containsSub(s, want) {
			t.Fatalf("String() = %q, missing %q", s, want)
		}
	}
}

func containsSub(s, sub string) bool {
	return len(s) >= len(sub) && indexOf(s, sub) >= 0
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestEqual_IgnoresTickButComparesParams(t *testing.T) {
	a := New(1, "rover", "At", []Parameter{{Name: "loc", Value: NewSingleton("base")}})
	b := New(99, "rover", "At", []Parameter{{Name: "loc", Value: NewSingleton("base")}})
	if !a.Equal(b) {
		t.Fatal("observations with same predicate/object/params but different ticks should be Equal")
	}

	c := New(1, "rover", "At", []Parameter{{Name: "loc", Value: NewSingleton("other")}})
	if a.Equal(c) {
		t.Fatal("observations with different parameter values should not be Equal")
	}
}
