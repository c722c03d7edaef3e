// Package xmlconfig loads an agent's reactor topology from the XML
// configuration file format the CLI's "run" and "validate" subcommands
// accept, and turns it into the agent.Spec slice Assemble needs. The
// agent-level attributes (finalTick, secondsPerTick, db) are exposed on
// Document for the CLI to build agent.Options from. The element names below track the original's Agent/Reactor XML
// files except where the redesign notes call for something different
// (notably: reactor configuration carries no reference to a separate NDDL
// model file, since there is no planner here to load one).
package xmlconfig

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/automenta/trex-autonomy/pkg/reactor"
	"github.com/automenta/trex-autonomy/pkg/tick"
)

// Document is the parsed form of an <Agent> XML file.
type Document struct {
	XMLName        xml.Name       `xml:"Agent"`
	Name           string         `xml:"name,attr"`
	FinalTick      int64          `xml:"finalTick,attr"`
	SecondsPerTick float64        `xml:"secondsPerTick,attr"`
	DB             string         `xml:"db,attr"`
	IncludePathRaw string         `xml:"includePath,attr"`
	Reactors       []ReactorEntry `xml:"Reactor"`
}

// ReactorEntry is one <Reactor> element: its identity, its component
// (resolved against pkg/registry), and the latency/lookAhead bound that
// governs how far ahead of the current tick it may commit to a published
// observation.
type ReactorEntry struct {
	Name      string       `xml:"name,attr"`
	Component string       `xml:"component,attr"`
	Latency   int64        `xml:"latency,attr"`
	LookAhead *int64       `xml:"lookAhead,attr"`
	Log       bool         `xml:"log,attr"`
	Params    []ParamEntry `xml:"Param"`
}

// ParamEntry is a component-specific <Param key="..." value="..."/>
// passed through to the registry factory untouched.
type ParamEntry struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

// Parse decodes an XML document into a Document. It does not validate
// cross-reactor invariants (those require the whole reactor set, so they
// live in pkg/agent.Assemble); it validates only what's checkable from the
// text itself.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("xmlconfig: parse: %w", err)
	}
	if doc.Name == "" {
		return Document{}, fmt.Errorf("xmlconfig: <Agent> requires a name attribute")
	}
	if len(doc.Reactors) == 0 {
		return Document{}, fmt.Errorf("xmlconfig: <Agent> %q declares no <Reactor> elements", doc.Name)
	}
	seen := map[string]bool{}
	for _, r := range doc.Reactors {
		if r.Name == "" {
			return Document{}, fmt.Errorf("xmlconfig: a <Reactor> element is missing its name attribute")
		}
		if r.Component == "" {
			return Document{}, fmt.Errorf("xmlconfig: reactor %q is missing its component attribute", r.Name)
		}
		if seen[r.Name] {
			return Document{}, fmt.Errorf("xmlconfig: reactor name %q declared more than once", r.Name)
		}
		seen[r.Name] = true
	}
	return doc, nil
}

// IncludePath returns the configured NDDL-style include path, normalized
// from either ';' or ':' separators to ':'. A reactor component that loads
// files by relative name (a behavior tree, a rule set) consults this list;
// the core scheduler itself never reads from it.
func (d Document) IncludePath() []string {
	raw := strings.ReplaceAll(d.IncludePathRaw, ";", ":")
	var out []string
	for _, p := range strings.Split(raw, ":") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ReactorConfig converts one ReactorEntry into a reactor.Config. When
// lookAhead is absent, it defaults to finalTick (the entry may commit to a
// publish as far out as the run itself extends); an explicit lookAhead of
// zero is honored as written, distinct from "absent" — a reactor with
// lookAhead=0 commits to nothing beyond the current tick.
func (d Document) ReactorConfig(r ReactorEntry) reactor.Config {
	lookAhead := tick.Tick(d.FinalTick)
	if r.LookAhead != nil {
		lookAhead = tick.Tick(*r.LookAhead)
	}
	return reactor.Config{
		Name:      r.Name,
		Latency:   tick.Tick(r.Latency),
		LookAhead: lookAhead,
		Log:       r.Log,
	}
}

// ParamMap converts a ReactorEntry's <Param> children into the
// map[string]string a registry.Factory expects.
func (r ReactorEntry) ParamMap() map[string]string {
	m := make(map[string]string, len(r.Params))
	for _, p := range r.Params {
		m[p.Key] = p.Value
	}
	return m
}

