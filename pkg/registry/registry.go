// Package registry is the process-wide factory for reactor kinds, in the
// spirit of database/sql's driver registry: a reactor implementation calls
// Register from an init function naming the "component" string an XML
// config will reference, and assembly time turns that string back into a
// constructor without either side importing the other.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/automenta/trex-autonomy/pkg/reactor"
)

// Factory builds a reactor instance from its assembled configuration. The
// raw map carries the component-specific <Param key="..." value="..."/>
// entries the config loader read from the reactor's XML element.
type Factory func(cfg reactor.Config, params map[string]string) (reactor.Reactor, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register binds component to f. It panics on a duplicate registration,
// matching database/sql/driver's "Register called twice" behavior: a
// duplicate component name is a programming error discovered at init time,
// not a runtime condition a caller can usefully recover from.
func Register(component string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if component == "" {
		panic("registry: Register called with empty component name")
	}
	if f == nil {
		panic("registry: Register called with nil factory for " + component)
	}
	if _, dup := factories[component]; dup {
		panic("registry: Register called twice for component " + component)
	}
	factories[component] = f
}

// Lookup returns the factory registered for component, if any.
func Lookup(component string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[component]
	return f, ok
}

// Build resolves component and invokes its factory, returning a descriptive
// error (rather than panicking) since an unknown component named in a
// user-supplied config file is an ordinary runtime failure.
func Build(component string, cfg reactor.Config, params map[string]string) (reactor.Reactor, error) {
	f, ok := Lookup(component)
	if !ok {
		return nil, fmt.Errorf("registry: no reactor component registered as %q (known: %v)", component, Components())
	}
	r, err := f(cfg, params)
	if err != nil {
		return nil, fmt.Errorf("registry: building reactor %q (component %q): %w", cfg.Name, component, err)
	}
	return r, nil
}

// Components lists every registered component name, sorted, for error
// messages and the CLI's introspection commands.
func Components() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// reset clears the registry. It exists only for tests, which each want a
// clean registry rather than one polluted by other packages' init-time
// registrations in the same test binary.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	factories = map[string]Factory{}
}
