package xmlconfig

import (
	"fmt"

	"github.com/automenta/trex-autonomy/pkg/agent"
	"github.com/automenta/trex-autonomy/pkg/registry"
)

// BuildSpecs resolves every <Reactor> entry's component against the
// registry and returns the agent.Spec slice Assemble needs. Resolution
// happens here, outside pkg/agent, so the scheduling kernel never needs to
// know that reactor kinds are looked up by name at all.
func (d Document) BuildSpecs() ([]agent.Spec, error) {
	specs := make([]agent.Spec, 0, len(d.Reactors))
	for _, r := range d.Reactors {
		cfg := d.ReactorConfig(r)
		built, err := registry.Build(r.Component, cfg, r.ParamMap())
		if err != nil {
			return nil, fmt.Errorf("xmlconfig: reactor %q: %w", r.Name, err)
		}
		specs = append(specs, agent.Spec{Config: cfg, Reactor: built})
	}
	return specs, nil
}
