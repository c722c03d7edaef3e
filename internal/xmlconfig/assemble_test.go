package xmlconfig

import (
	"testing"

	"github.com/automenta/trex-autonomy/pkg/domain"
	"github.com/automenta/trex-autonomy/pkg/goal"
	"github.com/automenta/trex-autonomy/pkg/reactor"
	"github.com/automenta/trex-autonomy/pkg/registry"
)

type stubReactor struct{ params map[string]string }

func (s *stubReactor) QueryTimelineModes() (externals, internals []string) { return nil, nil }
func (s *stubReactor) HandleInit(reactor.Context) error                    { return nil }
func (s *stubReactor) HandleTickStart()                                    {}
func (s *stubReactor) Synchronize() bool                                   { return true }
func (s *stubReactor) Resume() bool                                        { return true }
func (s *stubReactor) Quiescent() bool                                     { return true }
func (s *stubReactor) HandleObservation(domain.Observation)                {}
func (s *stubReactor) HandleRequest(goal.Goal)                             {}
func (s *stubReactor) HandleRecall(goal.ID)                                {}

func init() {
	registry.Register("xmlconfig.test.stub", func(cfg reactor.Config, params map[string]string) (reactor.Reactor, error) {
		return &stubReactor{params: params}, nil
	})
}

func TestBuildSpecs_ResolvesComponentsThroughRegistry(t *testing.T) {
	doc, err := Parse([]byte(`<Agent name="rover" finalTick="10">
		<Reactor name="nav" component="xmlconfig.test.stub" latency="1" lookAhead="2">
			<Param key="k" value="v"/>
		</Reactor>
	</Agent>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	specs, err := doc.BuildSpecs()
	if err != nil {
		t.Fatalf("BuildSpecs: %v", err)
	}
	if len(specs) != 1 || specs[0].Config.Name != "nav" {
		t.Fatalf("unexpected specs: %+v", specs)
	}
	r := specs[0].Reactor.(*stubReactor)
	if r.params["k"] != "v" {
		t.Fatalf("expected param k=v passed through, got %v", r.params)
	}
}

func TestBuildSpecs_UnknownComponentErrors(t *testing.T) {
	doc, err := Parse([]byte(`<Agent name="rover"><Reactor name="nav" component="nope.missing"/></Agent>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := doc.BuildSpecs(); err == nil {
		t.Fatal("expected error for unresolved component")
	}
}
