// Package wire implements the XML wire form an external observation
// source (a hardware driver, a simulator, a test harness) uses to publish
// an Observation into the agent. encoding/xml is used because no
// third-party XML library appears anywhere in the retrieved example
// corpus; here the standard library is the idiomatic choice rather than a
// concession (internal/xmlconfig uses it on the same grounds).
package wire

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/automenta/trex-autonomy/pkg/domain"
	"github.com/automenta/trex-autonomy/pkg/tick"
)

type xmlObservation struct {
	XMLName   xml.Name    `xml:"Observation"`
	Tick      int64       `xml:"tick,attr,omitempty"`
	On        string      `xml:"on,attr"`
	Predicate string      `xml:"predicate,attr"`
	Asserts   []xmlAssert `xml:"Assert"`
}

type xmlAssert struct {
	Name     string       `xml:"name,attr"`
	Value    *xmlValue    `xml:"value"`
	Symbol   *xmlSymbol   `xml:"symbol"`
	Object   *xmlObject   `xml:"object"`
	Set      *xmlSet      `xml:"set"`
	Interval *xmlInterval `xml:"interval"`
}

// xmlValue is the bool/int/float singleton form: the value itself lives in
// the "name" attribute, never in chardata (`<value type="bool"
// name="true"/>`).
type xmlValue struct {
	Type string `xml:"type,attr,omitempty"`
	Name string `xml:"name,attr"`
}

type xmlObject struct {
	Value string `xml:"value,attr"`
}

type xmlSet struct {
	Type    string      `xml:"type,attr,omitempty"`
	Symbols []xmlSymbol `xml:"symbol"`
}

// xmlSymbol is the string singleton form, standalone (`<symbol type="string"
// value="base"/>`) or as a member of an xmlSet.
type xmlSymbol struct {
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:"value,attr"`
}

type xmlInterval struct {
	Type string `xml:"type,attr,omitempty"`
	Min  string `xml:"min,attr"`
	Max  string `xml:"max,attr"`
}

// Encode renders o as the Observation wire form.
func Encode(o domain.Observation) ([]byte, error) {
	x := xmlObservation{
		Tick:      int64(o.Tick),
		On:        o.ObjectName,
		Predicate: o.Predicate,
	}
	for _, p := range o.Parameters {
		a, err := assertFromParameter(p)
		if err != nil {
			return nil, fmt.Errorf("wire: encode parameter %q: %w", p.Name, err)
		}
		x.Asserts = append(x.Asserts, a)
	}
	out, err := xml.MarshalIndent(x, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("wire: encode: %w", err)
	}
	return out, nil
}

// Decode parses the Observation wire form into a domain.Observation at the
// given tick — the tick is the agent's current tick at receipt, not
// necessarily whatever the wire form's own tick attribute says (a replay
// tool wanting the original tick back should read it separately).
func Decode(data []byte, at tick.Tick) (domain.Observation, error) {
	var x xmlObservation
	if err := xml.Unmarshal(data, &x); err != nil {
		return domain.Observation{}, fmt.Errorf("wire: decode: %w", err)
	}
	if x.On == "" {
		return domain.Observation{}, fmt.Errorf("wire: decode: missing required \"on\" attribute")
	}
	if x.Predicate == "" {
		return domain.Observation{}, fmt.Errorf("wire: decode: missing required \"predicate\" attribute")
	}

	params := make([]domain.Parameter, 0, len(x.Asserts))
	for _, a := range x.Asserts {
		p, err := parameterFromAssert(a)
		if err != nil {
			return domain.Observation{}, fmt.Errorf("wire: decode assert %q: %w", a.Name, err)
		}
		params = append(params, p)
	}
	return domain.New(at, x.On, x.Predicate, params), nil
}

func assertFromParameter(p domain.Parameter) (xmlAssert, error) {
	a := xmlAssert{Name: p.Name}
	switch p.Value.Kind() {
	case domain.Singleton:
		switch p.Value.ValueType() {
		case domain.BoolValue:
			a.Value = &xmlValue{Type: "bool", Name: p.Value.Value()}
		case domain.IntValue:
			a.Value = &xmlValue{Type: "int", Name: p.Value.Value()}
		case domain.FloatValue:
			a.Value = &xmlValue{Type: "float", Name: p.Value.Value()}
		default:
			a.Symbol = &xmlSymbol{Type: "string", Value: p.Value.Value()}
		}
	case domain.Entity:
		a.Object = &xmlObject{Value: p.Value.Value()}
	case domain.Interval:
		min, max := p.Value.Bounds()
		a.Interval = &xmlInterval{Type: "float", Min: formatBound(min), Max: formatBound(max)}
	case domain.Enumerated:
		set := &xmlSet{Type: "string"}
		for _, v := range p.Value.Set() {
			set.Symbols = append(set.Symbols, xmlSymbol{Type: "string", Value: v})
		}
		a.Set = set
	default:
		return xmlAssert{}, fmt.Errorf("unsupported domain kind %v", p.Value.Kind())
	}
	return a, nil
}

func parameterFromAssert(a xmlAssert) (domain.Parameter, error) {
	switch {
	case a.Value != nil:
		v, err := singletonFromValue(*a.Value)
		if err != nil {
			return domain.Parameter{}, err
		}
		return domain.Parameter{Name: a.Name, Value: v}, nil
	case a.Symbol != nil:
		return domain.Parameter{Name: a.Name, Value: domain.NewSingleton(strings.TrimSpace(a.Symbol.Value))}, nil
	case a.Object != nil:
		return domain.Parameter{Name: a.Name, Value: domain.NewEntity(a.Object.Value)}, nil
	case a.Interval != nil:
		min, err := parseBound(a.Interval.Min)
		if err != nil {
			return domain.Parameter{}, fmt.Errorf("min: %w", err)
		}
		max, err := parseBound(a.Interval.Max)
		if err != nil {
			return domain.Parameter{}, fmt.Errorf("max: %w", err)
		}
		return domain.Parameter{Name: a.Name, Value: domain.NewInterval(min, max)}, nil
	case a.Set != nil:
		values := make([]string, 0, len(a.Set.Symbols))
		for _, s := range a.Set.Symbols {
			values = append(values, s.Value)
		}
		return domain.Parameter{Name: a.Name, Value: domain.NewEnumerated(values)}, nil
	default:
		return domain.Parameter{}, fmt.Errorf("Assert %q has no value/symbol/object/set/interval child", a.Name)
	}
}

// singletonFromValue decodes a <value type=... name=.../> element — the
// bool/int/float singleton form — using the type attribute to pick the
// constructor, per the "<intType>"/"<floatType>" placeholder types the wire
// form documents (any type name containing "int" is treated as integral,
// anything else numeric as a float).
func singletonFromValue(v xmlValue) (domain.Domain, error) {
	name := strings.TrimSpace(v.Name)
	switch {
	case v.Type == "bool":
		b, err := strconv.ParseBool(name)
		if err != nil {
			return domain.Domain{}, fmt.Errorf("value type=bool: %w", err)
		}
		return domain.NewBool(b), nil
	case strings.Contains(strings.ToLower(v.Type), "int"):
		i, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			return domain.Domain{}, fmt.Errorf("value type=%s: %w", v.Type, err)
		}
		return domain.NewInt(i), nil
	default:
		f, err := strconv.ParseFloat(name, 64)
		if err != nil {
			return domain.Domain{}, fmt.Errorf("value type=%s: %w", v.Type, err)
		}
		return domain.NewFloat(f), nil
	}
}

func formatBound(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func parseBound(s string) (float64, error) {
	switch s {
	case "+inf", "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	default:
		return strconv.ParseFloat(s, 64)
	}
}
